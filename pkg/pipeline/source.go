//go:build cgo
// +build cgo

package pipeline

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/MThabsheer7/traffic-violation-vision/internal/config"
)

// FrameSource yields raw BGR frames from a device index, file path,
// or stream URL — generalizing the teacher's OpenCVCamera (which only
// opened webcam device indices) per spec §6's "device index, file
// path, or RTSP URL" source contract.
type FrameSource struct {
	mu sync.Mutex

	capture *gocv.VideoCapture
	opened  bool
	isFile  bool
}

// Open resolves source (via config.SourceConfig.Resolve) and opens
// either a device index or a file/RTSP URL capture.
func Open(source config.SourceConfig) (*FrameSource, error) {
	deviceID, isDevice, path := source.Resolve()

	var capture *gocv.VideoCapture
	var err error
	if isDevice {
		capture, err = gocv.OpenVideoCaptureWithAPI(deviceID, gocv.VideoCaptureV4L2)
	} else {
		capture, err = gocv.VideoCaptureFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening video source: %w", err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("video source not found or unavailable: %v", source.VideoSource)
	}

	return &FrameSource{capture: capture, opened: true, isFile: !isDevice}, nil
}

// Read captures the next frame into dst. It returns ok=false at
// end-of-stream (file/RTSP exhausted) or on a transient read failure,
// which the pipeline loop treats identically: end cleanly, no partial
// processing.
func (s *FrameSource) Read(dst *gocv.Mat) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return false
	}
	if !s.capture.Read(dst) {
		return false
	}
	return !dst.Empty()
}

// Close releases the underlying capture handle.
func (s *FrameSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return nil
	}
	s.opened = false
	return s.capture.Close()
}
