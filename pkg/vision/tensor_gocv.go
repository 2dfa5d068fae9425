//go:build cgo

package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// tensorFromMat flattens a detector output Mat into the plain-Go
// Tensor shape Decode operates on. The output is expected to be a
// 2-D (after dropping the batch axis) float32 block, consistent with
// the reference detector's (1, 4+C, N) / (1, N, 4+C) output.
func tensorFromMat(out gocv.Mat) (Tensor, error) {
	sizes := out.Size()

	var rows, cols int
	switch len(sizes) {
	case 2:
		rows, cols = sizes[0], sizes[1]
	case 3:
		// (1, rows, cols) — drop the batch axis.
		if sizes[0] != 1 {
			return Tensor{}, fmt.Errorf("unexpected batch size %d", sizes[0])
		}
		rows, cols = sizes[1], sizes[2]
	default:
		return Tensor{}, fmt.Errorf("unexpected output rank %d", len(sizes))
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return Tensor{}, fmt.Errorf("reading output tensor data: %w", err)
	}
	if len(data) < rows*cols {
		return Tensor{}, fmt.Errorf("output tensor shorter than declared shape: have %d want %d", len(data), rows*cols)
	}

	buf := make([]float32, rows*cols)
	copy(buf, data[:rows*cols])

	return Tensor{Rows: rows, Cols: cols, Data: buf}, nil
}
