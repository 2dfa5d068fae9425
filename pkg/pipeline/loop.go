//go:build cgo

package pipeline

import (
	"context"
	"log"

	"gocv.io/x/gocv"

	"github.com/MThabsheer7/traffic-violation-vision/internal/config"
	"github.com/MThabsheer7/traffic-violation-vision/pkg/overlay"
	"github.com/MThabsheer7/traffic-violation-vision/pkg/vision"
)

// Detector is the subset of vision.Detector the loop depends on.
type Detector interface {
	Detect(frame gocv.Mat) ([]vision.Detection, error)
}

// Options configures a Loop.
type Options struct {
	Display   bool
	MaxFrames int // 0 means unbounded
	Logger    *log.Logger
}

// Loop drives the capture → detect → track → check-violations →
// overlay → display cycle, the Go equivalent of the reference
// implementation's VideoPipeline.run().
type Loop struct {
	source   *FrameSource
	detector Detector
	tracker  *vision.Tracker
	manager  *vision.Manager
	zones    config.ZonesConfig

	preview *PreviewWindow
	fps     *FPSCounter
	logger  *log.Logger

	display   bool
	maxFrames int
}

// NewLoop constructs a Loop. If opts.Display is true a PreviewWindow is
// created; callers must call Close when done either way.
func NewLoop(source *FrameSource, detector Detector, tracker *vision.Tracker, manager *vision.Manager, zones config.ZonesConfig, opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	l := &Loop{
		source:    source,
		detector:  detector,
		tracker:   tracker,
		manager:   manager,
		zones:     zones,
		fps:       NewFPSCounter(),
		logger:    logger,
		display:   opts.Display,
		maxFrames: opts.MaxFrames,
	}
	if opts.Display {
		l.preview = NewPreviewWindow("Traffic Violation Detection")
	}
	return l
}

// Close releases the preview window, if any. The frame source and
// detector are owned by the caller and are not closed here.
func (l *Loop) Close() error {
	if l.preview != nil {
		return l.preview.Close()
	}
	return nil
}

// Run processes frames until ctx is cancelled, the source is
// exhausted, MaxFrames is reached, or (when displaying) the operator
// presses 'q' or Esc. It returns nil on any of these clean-exit paths.
func (l *Loop) Run(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	zonePolygon := toPoints(l.zones.ZonePolygon)

	for frameIdx := 0; l.maxFrames == 0 || frameIdx < l.maxFrames; frameIdx++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if l.preview != nil {
			select {
			case <-l.preview.Quit():
				l.logger.Printf("operator quit after %d frames", frameIdx)
				return nil
			default:
			}
		}

		if !l.source.Read(&frame) {
			l.logger.Printf("video source exhausted after %d frames", frameIdx)
			return nil
		}

		detections, err := l.detector.Detect(frame)
		if err != nil {
			l.logger.Printf("detection error, stopping: %v", err)
			return err
		}

		tracked := l.tracker.Update(detections)
		activeIDs := l.tracker.ActiveIDs()

		var events []vision.ViolationEvent
		if l.manager != nil {
			snapshot := vision.NewSnapshotWriter(frame)
			events = l.manager.CheckViolations(tracked, activeIDs, snapshot)
		}

		l.fps.Tick()

		if l.display {
			l.render(frame, tracked, events, zonePolygon)
		}
	}

	return nil
}

func (l *Loop) render(frame gocv.Mat, tracked []*vision.TrackedObject, events []vision.ViolationEvent, zonePolygon []vision.Point) {
	annotated := frame.Clone()
	defer annotated.Close()

	violatingIDs := make(map[int]bool, len(events))
	for _, ev := range events {
		violatingIDs[ev.ObjectID] = true
	}

	overlay.DrawZonePolygon(&annotated, zonePolygon)
	overlay.DrawDetections(&annotated, tracked, violatingIDs)
	overlay.DrawFPS(&annotated, l.fps.Value())
	overlay.DrawLaneDirection(&annotated, l.zones.LaneDirection)
	for _, ev := range events {
		overlay.DrawViolationBanner(&annotated, string(ev.Type), ev.ObjectID)
	}

	l.preview.Show(annotated)
}

func toPoints(poly [][2]int) []vision.Point {
	out := make([]vision.Point, len(poly))
	for i, p := range poly {
		out[i] = vision.Point{X: p[0], Y: p[1]}
	}
	return out
}
