//go:build cgo
// +build cgo

package pipeline

import (
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// PreviewWindow displays annotated frames for an operator watching
// the pipeline run with --no-display absent. OpenCV UI calls must run
// on a single dedicated OS thread on Linux/X11, so the window's event
// loop owns its own goroutine pinned with runtime.LockOSThread.
type PreviewWindow struct {
	window   *gocv.Window
	frameCh  chan gocv.Mat
	closeCh  chan struct{}
	doneCh   chan struct{}
	quitCh   chan struct{}
	once     sync.Once
	quitOnce sync.Once
	initDone chan struct{}
}

// keyQuit and keyEsc are the ASCII codes the operator can press on the
// preview window to signal a clean shutdown.
const (
	keyQuit = 'q'
	keyEsc  = 27
)

// NewPreviewWindow creates a new preview window with the given title.
func NewPreviewWindow(title string) *PreviewWindow {
	p := &PreviewWindow{
		frameCh:  make(chan gocv.Mat, 1),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
		quitCh:   make(chan struct{}),
		initDone: make(chan struct{}),
	}

	go p.previewLoop(title)
	<-p.initDone

	return p
}

func (p *PreviewWindow) previewLoop(title string) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	p.window = gocv.NewWindow(title)
	close(p.initDone)

	for {
		select {
		case frame := <-p.frameCh:
			p.window.IMShow(frame)
			key := p.window.WaitKey(1)
			frame.Close()
			if key == keyQuit || key == keyEsc {
				p.quitOnce.Do(func() { close(p.quitCh) })
			}

		case <-p.closeCh:
			if p.window != nil {
				p.window.Close()
			}
			close(p.doneCh)
			return
		}
	}
}

// Quit is closed once the operator presses 'q' or Esc in the preview
// window.
func (p *PreviewWindow) Quit() <-chan struct{} {
	return p.quitCh
}

// Show displays a frame, cloning it internally so the caller retains
// ownership of the original. At most one frame waits to be shown; a
// frame is dropped when another is already waiting.
func (p *PreviewWindow) Show(frame gocv.Mat) {
	if frame.Empty() {
		return
	}

	cloned := frame.Clone()

	select {
	case p.frameCh <- cloned:
	default:
		cloned.Close()
	}
}

// Close closes the preview window and releases resources.
func (p *PreviewWindow) Close() error {
	p.once.Do(func() {
		close(p.closeCh)
		<-p.doneCh
	})
	return nil
}
