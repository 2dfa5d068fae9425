package vision

// Tensor is a plain-Go stand-in for a detector output block: a 2-D
// (rows, cols) slice of float32 values in row-major order. Decoding
// logic operates on this shape directly so it is testable without a
// live gocv.Net — the cgo-tagged detector fills one of these from the
// real inference output and hands it to Decode.
type Tensor struct {
	Rows, Cols int
	Data       []float32
}

// At returns the value at (row, col).
func (t Tensor) At(row, col int) float32 {
	return t.Data[row*t.Cols+col]
}

// Transpose returns a new Tensor with rows and columns swapped.
func (t Tensor) Transpose() Tensor {
	out := Tensor{Rows: t.Cols, Cols: t.Rows, Data: make([]float32, len(t.Data))}
	for r := 0; r < t.Rows; r++ {
		for c := 0; c < t.Cols; c++ {
			out.Data[c*out.Cols+r] = t.At(r, c)
		}
	}
	return out
}

// OrientAsRows returns t oriented so that each row is one prediction:
// (4+C) columns per row. YOLO26n emits (4+C, N); if the first
// dimension is smaller than the second, the tensor needs transposing.
// The rule orients correctly only when N > 4+C; a block with fewer
// predictions than columns is oriented the wrong way.
func (t Tensor) OrientAsRows() Tensor {
	if t.Rows < t.Cols {
		return t.Transpose()
	}
	return t
}

// DecodeOptions controls Decode's filtering thresholds.
type DecodeOptions struct {
	ConfidenceThreshold float64
}

// DefaultDecodeOptions matches the reference detector's defaults.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{ConfidenceThreshold: 0.45}
}

// Decode turns a raw (4+C, N)-or-(N, 4+C) output tensor into
// Detections in original-frame pixel coordinates. The detector is
// NMS-free: every row surviving the confidence and vehicle-class
// filters becomes one Detection.
func Decode(raw Tensor, lb Letterbox, opts DecodeOptions) []Detection {
	predictions := raw.OrientAsRows()

	var out []Detection
	for r := 0; r < predictions.Rows; r++ {
		cx := float64(predictions.At(r, 0))
		cy := float64(predictions.At(r, 1))
		bw := float64(predictions.At(r, 2))
		bh := float64(predictions.At(r, 3))

		classID, confidence := argmaxClassScore(predictions, r)
		if confidence < opts.ConfidenceThreshold {
			continue
		}
		name, isVehicle := VehicleClasses[classID]
		if !isVehicle {
			continue
		}

		x1 := cx - bw/2
		y1 := cy - bh/2
		x2 := cx + bw/2
		y2 := cy + bh/2

		ox1, oy1 := lb.FromModelSpace(x1, y1)
		ox2, oy2 := lb.FromModelSpace(x2, y2)

		ix1 := clampInt(int(ox1), 0, lb.OrigWidth-1)
		iy1 := clampInt(int(oy1), 0, lb.OrigHeight-1)
		ix2 := clampInt(int(ox2), 0, lb.OrigWidth-1)
		iy2 := clampInt(int(oy2), 0, lb.OrigHeight-1)

		if ix2 <= ix1 || iy2 <= iy1 {
			continue
		}

		out = append(out, Detection{
			X1: ix1, Y1: iy1, X2: ix2, Y2: iy2,
			ClassID:    classID,
			ClassName:  name,
			Confidence: confidence,
		})
	}
	return out
}

func argmaxClassScore(predictions Tensor, row int) (classID int, confidence float64) {
	best := -1
	bestScore := float32(-1)
	for c := 4; c < predictions.Cols; c++ {
		score := predictions.At(row, c)
		if score > bestScore {
			bestScore = score
			best = c - 4
		}
	}
	return best, float64(bestScore)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
