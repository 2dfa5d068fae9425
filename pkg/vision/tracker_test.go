package vision

import "testing"

func det(x1, y1, x2, y2 int, classID int, className string, conf float64) Detection {
	return Detection{X1: x1, Y1: y1, X2: x2, Y2: y2, ClassID: classID, ClassName: className, Confidence: conf}
}

func TestTracker_RegisterTwoPersistOnSlightDrift(t *testing.T) {
	tr := NewTracker(30, 80)

	frame1 := []Detection{
		det(100, 200, 200, 300, 2, "car", 0.92),
		det(400, 300, 500, 400, 7, "truck", 0.85),
	}
	objs := tr.Update(frame1)
	if len(objs) != 2 {
		t.Fatalf("expected 2 tracks after frame 1, got %d", len(objs))
	}
	ids := map[int]bool{objs[0].ObjectID: true, objs[1].ObjectID: true}
	if !ids[0] || !ids[1] {
		t.Fatalf("expected ids {0,1}, got %v", ids)
	}

	frame2 := []Detection{
		det(110, 205, 210, 305, 2, "car", 0.9),
		det(410, 305, 510, 405, 7, "truck", 0.83),
	}
	objs = tr.Update(frame2)
	if len(objs) != 2 {
		t.Fatalf("expected 2 tracks after frame 2, got %d", len(objs))
	}
	for _, o := range objs {
		if !ids[o.ObjectID] {
			t.Errorf("track id %d did not survive slight drift", o.ObjectID)
		}
		if len(o.CentroidHistory) != 2 {
			t.Errorf("expected centroid history length 2, got %d", len(o.CentroidHistory))
		}
	}
}

func TestTracker_Deregistration(t *testing.T) {
	tr := NewTracker(30, 80)

	tr.Update([]Detection{det(0, 0, 100, 100, 2, "car", 0.9)})

	for i := 0; i < 30; i++ {
		tr.Update(nil)
	}
	if len(tr.values()) != 1 {
		t.Fatalf("expected track to survive 30 empty frames, got %d active", len(tr.values()))
	}

	tr.Update(nil)
	if len(tr.values()) != 0 {
		t.Fatalf("expected track to be deregistered after 31 empty frames, got %d active", len(tr.values()))
	}
}

func TestTracker_IDsMonotonicAndResetReturnsToZero(t *testing.T) {
	tr := NewTracker(30, 80)

	objs := tr.Update([]Detection{det(0, 0, 10, 10, 2, "car", 0.9)})
	if objs[0].ObjectID != 0 {
		t.Fatalf("expected first id 0, got %d", objs[0].ObjectID)
	}

	objs = tr.Update([]Detection{
		det(0, 0, 10, 10, 2, "car", 0.9),
		det(900, 900, 910, 910, 7, "truck", 0.9),
	})
	ids := map[int]bool{}
	for _, o := range objs {
		ids[o.ObjectID] = true
	}
	if !ids[0] || !ids[1] {
		t.Fatalf("expected ids {0,1}, got %v", ids)
	}

	tr.Reset()
	objs = tr.Update([]Detection{det(0, 0, 10, 10, 2, "car", 0.9)})
	if objs[0].ObjectID != 0 {
		t.Fatalf("expected id to reset to 0 after Reset, got %d", objs[0].ObjectID)
	}
}

func TestTracker_DisappearedNeverExceedsMax(t *testing.T) {
	tr := NewTracker(5, 80)
	tr.Update([]Detection{det(0, 0, 10, 10, 2, "car", 0.9)})

	for i := 0; i < 5; i++ {
		objs := tr.Update(nil)
		for _, o := range objs {
			if o.Disappeared > tr.MaxDisappeared {
				t.Fatalf("disappeared %d exceeds max %d", o.Disappeared, tr.MaxDisappeared)
			}
		}
	}
}

func TestTracker_EmptyThenRematchRestoresID(t *testing.T) {
	tr := NewTracker(30, 80)
	objs := tr.Update([]Detection{det(100, 100, 200, 200, 2, "car", 0.9)})
	originalID := objs[0].ObjectID

	for i := 0; i < 10; i++ {
		tr.Update(nil)
	}

	objs = tr.Update([]Detection{det(100, 100, 200, 200, 2, "car", 0.9)})
	if len(objs) != 1 || objs[0].ObjectID != originalID {
		t.Fatalf("expected re-detection to restore original id %d, got %+v", originalID, objs)
	}
}

func TestTracker_FarDetectionRegistersNewTrack(t *testing.T) {
	tr := NewTracker(30, 80)
	tr.Update([]Detection{det(0, 0, 10, 10, 2, "car", 0.9)})

	// Detection far beyond max_distance from the existing track.
	objs := tr.Update([]Detection{det(900, 900, 910, 910, 2, "car", 0.9)})
	if len(objs) != 2 {
		t.Fatalf("expected the far detection to register as a new track, got %d tracks", len(objs))
	}
}
