package vision

// Letterbox holds the scale and padding applied when a frame of
// arbitrary resolution is resized onto a fixed-size, aspect-preserving
// canvas ahead of inference.
type Letterbox struct {
	Scale float64
	PadX  int
	PadY  int

	// OrigWidth/OrigHeight are the frame's dimensions before resizing.
	OrigWidth, OrigHeight int
	// TargetWidth/TargetHeight are the model's expected input dimensions.
	TargetWidth, TargetHeight int
}

// ComputeLetterbox computes the scale and centered padding for
// resizing a (w,h) frame onto a (targetW,targetH) canvas, preserving
// aspect ratio. Matches the reference implementation's
// min(W/w, H/h) scale and integer-division centered padding.
func ComputeLetterbox(w, h, targetW, targetH int) Letterbox {
	scale := minFloat(float64(targetW)/float64(w), float64(targetH)/float64(h))
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	return Letterbox{
		Scale:        scale,
		PadX:         (targetW - newW) / 2,
		PadY:         (targetH - newH) / 2,
		OrigWidth:    w,
		OrigHeight:   h,
		TargetWidth:  targetW,
		TargetHeight: targetH,
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ToModelSpace maps a point in original frame pixel coordinates into
// letterboxed model-input space. Used only for round-trip testing;
// the detector itself only needs the inverse (FromModelSpace).
func (lb Letterbox) ToModelSpace(x, y float64) (mx, my float64) {
	return x*lb.Scale + float64(lb.PadX), y*lb.Scale + float64(lb.PadY)
}

// FromModelSpace maps a point in letterboxed model-input space back
// to original frame pixel coordinates, undoing padding and scale.
func (lb Letterbox) FromModelSpace(x, y float64) (ox, oy float64) {
	return (x - float64(lb.PadX)) / lb.Scale, (y - float64(lb.PadY)) / lb.Scale
}

// ResizedSize returns the dimensions of the frame after the
// aspect-preserving resize step, before padding onto the canvas.
func (lb Letterbox) ResizedSize() (w, h int) {
	return int(float64(lb.OrigWidth) * lb.Scale), int(float64(lb.OrigHeight) * lb.Scale)
}
