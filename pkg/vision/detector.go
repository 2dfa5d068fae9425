//go:build cgo

package vision

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// ErrModelNotFound is returned when no IR or ONNX artifact exists at
// or under the configured model path.
var ErrModelNotFound = fmt.Errorf("no model file (.xml or .onnx) found")

// Detector runs the vehicle detector's forward pass on a single BGR
// frame and returns vehicle Detections in original-frame pixel space.
// It wraps the inference backend (treated as a black box per the
// system's scope: this module feeds it preprocessed tensors and reads
// back a raw output tensor, never training or exporting models).
type Detector struct {
	net        gocv.Net
	inputW     int
	inputH     int
	opts       DecodeOptions
	outputName string
}

// NewDetector loads and compiles a model for CPU inference.
// modelPath may be a file, or a directory searched for an IR (.xml)
// artifact first, then an ONNX artifact.
func NewDetector(modelPath string, confidenceThreshold float64) (*Detector, error) {
	resolved, err := resolveModelPath(modelPath)
	if err != nil {
		return nil, err
	}

	net := gocv.ReadNet(resolved, "")
	if net.Empty() {
		return nil, fmt.Errorf("loading model %q: %w", resolved, ErrModelNotFound)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &Detector{
		net:    net,
		inputW: 640,
		inputH: 640,
		opts:   DecodeOptions{ConfidenceThreshold: confidenceThreshold},
	}, nil
}

func resolveModelPath(modelPath string) (string, error) {
	info, err := os.Stat(modelPath)
	if err == nil && !info.IsDir() {
		return modelPath, nil
	}

	for _, ext := range []string{".xml", ".onnx"} {
		matches, _ := filepath.Glob(filepath.Join(modelPath, "*"+ext))
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("%s: %w", modelPath, ErrModelNotFound)
}

// Detect runs the detector on a single BGR frame and returns vehicle
// Detections whose coordinates are in the frame's pixel space.
func (d *Detector) Detect(frame gocv.Mat) ([]Detection, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}

	origW, origH := frame.Cols(), frame.Rows()
	lb := ComputeLetterbox(origW, origH, d.inputW, d.inputH)

	blob, err := d.preprocess(frame, lb)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	raw, err := tensorFromMat(out)
	if err != nil {
		return nil, fmt.Errorf("malformed detector output: %w", err)
	}

	return Decode(raw, lb, d.opts), nil
}

// preprocess letterbox-resizes frame onto a gray (114) canvas sized
// inputW×inputH, then converts to a planar float32 NCHW blob scaled
// to [0,1] — matching the reference implementation's _preprocess.
func (d *Detector) preprocess(frame gocv.Mat, lb Letterbox) (gocv.Mat, error) {
	newW, newH := lb.ResizedSize()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationLinear)

	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(114, 114, 114, 0), d.inputH, d.inputW, frame.Type())
	defer canvas.Close()

	roi := canvas.Region(image.Rect(lb.PadX, lb.PadY, lb.PadX+newW, lb.PadY+newH))
	resized.CopyTo(&roi)
	roi.Close()

	// swapRB=false: the reference detector (original_source/backend/vision/detector.py)
	// feeds the BGR canvas straight through with no channel swap, and
	// spec §4.1 only calls for normalize + planar reorder.
	blob := gocv.BlobFromImage(canvas, 1.0/255.0, image.Pt(d.inputW, d.inputH), gocv.NewScalar(0, 0, 0, 0), false, false)
	return blob, nil
}

// Close releases the underlying network resources.
func (d *Detector) Close() error {
	return d.net.Close()
}
