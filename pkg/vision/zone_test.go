package vision

import (
	"testing"
	"time"
)

func square(x1, y1, x2, y2 int) []Point {
	return []Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}}
}

func trackAt(id, cx, cy int) *TrackedObject {
	return &TrackedObject{
		ObjectID:        id,
		X1:              cx - 5,
		Y1:              cy - 5,
		X2:              cx + 5,
		Y2:              cy + 5,
		ClassName:       "car",
		Confidence:      0.9,
		CentroidHistory: []Point{{cx, cy}},
	}
}

func TestZoneDetector_IllegalParkingTriggersAtThreshold(t *testing.T) {
	z := NewZoneDetector(square(100, 100, 500, 500), 5, 0.1, "zoneA")
	clock := time.Unix(0, 0)
	z.now = func() time.Time { return clock }

	active := map[int]bool{1: true}
	var lastEvents []ViolationEvent
	for i := 0; i < 5; i++ {
		lastEvents = z.Check([]*TrackedObject{trackAt(1, 300, 300)}, active)
	}

	if len(lastEvents) != 1 {
		t.Fatalf("expected exactly one event at frame 5, got %d", len(lastEvents))
	}
	if lastEvents[0].Type != ViolationIllegalParking {
		t.Errorf("expected ILLEGAL_PARKING, got %s", lastEvents[0].Type)
	}
	if lastEvents[0].Metadata["dwell_frames"] != 5 {
		t.Errorf("expected dwell_frames=5, got %v", lastEvents[0].Metadata["dwell_frames"])
	}

	sixth := z.Check([]*TrackedObject{trackAt(1, 300, 300)}, active)
	if len(sixth) != 0 {
		t.Errorf("expected no event on 6th identical frame (cooldown not elapsed), got %d", len(sixth))
	}
}

func TestZoneDetector_CooldownExpiryReArms(t *testing.T) {
	z := NewZoneDetector(square(100, 100, 500, 500), 5, 0.1, "zoneA")
	clock := time.Unix(0, 0)
	z.now = func() time.Time { return clock }

	active := map[int]bool{1: true}
	for i := 0; i < 5; i++ {
		z.Check([]*TrackedObject{trackAt(1, 300, 300)}, active)
	}

	clock = clock.Add(200 * time.Millisecond)
	events := z.Check([]*TrackedObject{trackAt(1, 300, 300)}, active)
	if len(events) != 1 {
		t.Fatalf("expected cooldown expiry to re-arm and emit a second event, got %d", len(events))
	}
}

func TestZoneDetector_LeavingZoneResetsDwellCounter(t *testing.T) {
	z := NewZoneDetector(square(100, 100, 500, 500), 5, 0.1, "zoneA")
	active := map[int]bool{1: true}

	z.Check([]*TrackedObject{trackAt(1, 300, 300)}, active)
	z.Check([]*TrackedObject{trackAt(1, 300, 300)}, active)
	z.Check([]*TrackedObject{trackAt(1, 10, 10)}, active) // outside zone

	if _, present := z.dwellCounts[1]; present {
		t.Fatal("expected dwell count to be cleared after leaving the zone")
	}
}

func TestZoneDetector_CleansUpStaleIDs(t *testing.T) {
	z := NewZoneDetector(square(100, 100, 500, 500), 1, 0.1, "zoneA")
	z.Check([]*TrackedObject{trackAt(1, 300, 300)}, map[int]bool{1: true})

	if _, present := z.dwellCounts[1]; !present {
		t.Fatal("expected dwell count entry for active id")
	}

	z.Check(nil, map[int]bool{})
	if _, present := z.dwellCounts[1]; present {
		t.Fatal("expected stale dwell count entry to be cleaned up")
	}
}

func TestPointInPolygon_BoundaryCountsAsInside(t *testing.T) {
	poly := square(0, 0, 100, 100)
	if !pointInPolygon(Point{0, 50}, poly) {
		t.Error("expected point on boundary to count as inside")
	}
	if !pointInPolygon(Point{50, 50}, poly) {
		t.Error("expected point inside polygon to count as inside")
	}
	if pointInPolygon(Point{200, 200}, poly) {
		t.Error("expected point outside polygon to count as outside")
	}
}
