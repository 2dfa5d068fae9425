// Package vision implements the per-frame detection, tracking, and
// violation pipeline: a letterbox-preprocessed INT8 detector, a
// centroid-association multi-object tracker, and the zone-dwell and
// wrong-way violation state machines that run over tracked objects.
package vision

import "time"

// VehicleClasses maps COCO-style class ids to names for the vehicle
// classes the detector recognizes.
var VehicleClasses = map[int]string{
	2: "car",
	3: "motorcycle",
	5: "bus",
	7: "truck",
}

// Detection is one object found in one frame, in original-frame pixel
// coordinates.
type Detection struct {
	X1, Y1, X2, Y2 int
	ClassID        int
	ClassName      string
	Confidence     float64
}

// Centroid returns the integer-truncated midpoint of the bounding box.
func (d Detection) Centroid() (cx, cy int) {
	return (d.X1 + d.X2) / 2, (d.Y1 + d.Y2) / 2
}

// TrackedObject is an identity-carrying track maintained by the
// Tracker across frames.
type TrackedObject struct {
	ObjectID   int
	X1, Y1, X2, Y2 int
	ClassID    int
	ClassName  string
	Confidence float64

	Disappeared int
	FrameCount  int

	// CentroidHistory is bounded to historyLength (30) entries, oldest
	// evicted first. The newest entry always equals Centroid().
	CentroidHistory []Point
}

// Point is an integer 2D coordinate.
type Point struct {
	X, Y int
}

// Centroid returns the integer-truncated midpoint of the track's
// current bounding box.
func (t *TrackedObject) Centroid() Point {
	return Point{X: (t.X1 + t.X2) / 2, Y: (t.Y1 + t.Y2) / 2}
}

// ViolationType enumerates the two violation rules the manager evaluates.
type ViolationType string

const (
	ViolationIllegalParking ViolationType = "ILLEGAL_PARKING"
	ViolationWrongWay       ViolationType = "WRONG_WAY"
)

// ViolationEvent is one confirmed rule firing, produced by a violation
// detector and consumed once by the Violation Manager.
type ViolationEvent struct {
	Type       ViolationType
	ObjectID   int
	Confidence float64
	Timestamp  time.Time
	ZoneID     string
	Metadata   map[string]any
}
