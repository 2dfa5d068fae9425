//go:build cgo

package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// matSnapshotWriter writes a cloned reference frame as a full,
// unannotated JPEG — snapshot capture must never be affected by
// whatever overlay drawing has since been applied to the display Mat.
//
// The clone is taken lazily, inside Write, rather than eagerly at
// construction: Manager only calls Write when a violation actually
// fires, and a frame is wrapped once per loop iteration regardless of
// whether any violation occurs that frame. Cloning eagerly would leak
// one native Mat per violation-free frame, since nothing would ever
// call Close on it.
type matSnapshotWriter struct {
	frame gocv.Mat
}

// NewSnapshotWriter returns a SnapshotWriter over frame. The caller
// retains ownership of frame and must keep it alive and unmodified
// until the current frame's violation checks have completed; Write
// clones it internally before encoding.
func NewSnapshotWriter(frame gocv.Mat) SnapshotWriter {
	return &matSnapshotWriter{frame: frame}
}

func (w *matSnapshotWriter) Write(path string) error {
	if w.frame.Empty() {
		return fmt.Errorf("snapshot: empty frame")
	}

	clone := w.frame.Clone()
	defer clone.Close()

	if ok := gocv.IMWrite(path, clone); !ok {
		return fmt.Errorf("snapshot: failed to write %s", path)
	}
	return nil
}
