package vision

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/MThabsheer7/traffic-violation-vision/pkg/alertsink"
)

// SnapshotWriter persists a full, unannotated frame as JPEG evidence.
// Implemented over gocv.IMWrite in a cgo-tagged file so Manager's
// orchestration logic stays unit-testable without OpenCV.
type SnapshotWriter interface {
	Write(path string) error
}

// AlertEnqueuer accepts an alert record for best-effort dispatch
// without blocking the frame loop.
type AlertEnqueuer interface {
	Enqueue(record alertsink.AlertRecord) error
}

// Manager orchestrates the zone and direction violation detectors,
// captures evidence snapshots, and enqueues alert records — the Go
// equivalent of the reference implementation's ViolationManager.
type Manager struct {
	Zone        *ZoneDetector
	Direction   *DirectionDetector
	SnapshotDir string
	Queue       AlertEnqueuer
	Logger      *log.Logger

	totalViolations  int
	violationsByType map[ViolationType]int

	now func() time.Time
}

// NewManager constructs a Manager. snapshotDir is created on first use
// if it does not already exist.
func NewManager(zone *ZoneDetector, direction *DirectionDetector, snapshotDir string, queue AlertEnqueuer, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		Zone:             zone,
		Direction:        direction,
		SnapshotDir:      snapshotDir,
		Queue:            queue,
		Logger:           logger,
		violationsByType: make(map[ViolationType]int),
		now:              time.Now,
	}
}

// TotalViolations returns the running count of confirmed violations.
func (m *Manager) TotalViolations() int { return m.totalViolations }

// ViolationsByType returns a copy of the per-type violation counters.
func (m *Manager) ViolationsByType() map[ViolationType]int {
	out := make(map[ViolationType]int, len(m.violationsByType))
	for k, v := range m.violationsByType {
		out[k] = v
	}
	return out
}

// CheckViolations runs every enabled detector against the current
// tracked objects, captures a snapshot and enqueues an alert for each
// newly emitted event, and returns the events produced this frame.
// snapshot may be nil, in which case no snapshot is captured and each
// alert is enqueued with an empty snapshot path.
func (m *Manager) CheckViolations(tracked []*TrackedObject, activeIDs map[int]bool, snapshot SnapshotWriter) []ViolationEvent {
	var events []ViolationEvent

	if m.Zone != nil {
		events = append(events, m.Zone.Check(tracked, activeIDs)...)
	}
	if m.Direction != nil {
		events = append(events, m.Direction.Check(tracked, activeIDs)...)
	}

	for _, ev := range events {
		m.totalViolations++
		m.violationsByType[ev.Type]++

		snapshotPath := m.captureSnapshot(snapshot, ev)
		m.dispatch(ev, snapshotPath)
	}

	return events
}

// captureSnapshot writes the current frame to
// {SnapshotDir}/{violation_type}_{object_id}_{YYYYMMDD_HHMMSS}.jpg.
// A write failure is logged and does not block dispatch — the alert
// still fires with an empty snapshot path.
func (m *Manager) captureSnapshot(snapshot SnapshotWriter, ev ViolationEvent) string {
	if snapshot == nil {
		return ""
	}

	if err := os.MkdirAll(m.SnapshotDir, 0o755); err != nil {
		m.Logger.Printf("snapshot directory unavailable: %v", err)
		return ""
	}

	filename := fmt.Sprintf("%s_%d_%s.jpg", ev.Type, ev.ObjectID, m.now().Format("20060102_150405"))
	path := filepath.Join(m.SnapshotDir, filename)

	if err := snapshot.Write(path); err != nil {
		m.Logger.Printf("snapshot write failed: %v", err)
		return ""
	}
	return path
}

func (m *Manager) dispatch(ev ViolationEvent, snapshotPath string) {
	if m.Queue == nil {
		return
	}
	record := alertsink.AlertRecord{
		ViolationType: string(ev.Type),
		Confidence:    ev.Confidence,
		ObjectID:      ev.ObjectID,
		SnapshotPath:  snapshotPath,
		ZoneID:        ev.ZoneID,
		Metadata:      ev.Metadata,
	}
	if err := m.Queue.Enqueue(record); err != nil {
		m.Logger.Printf("alert enqueue failed: %v", err)
	}
}
