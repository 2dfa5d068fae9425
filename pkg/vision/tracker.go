package vision

import (
	"math"
	"sort"
)

const historyLength = 30

// Tracker assigns and maintains persistent object identities across
// frames by greedy nearest-centroid association. It is the Go
// equivalent of the reference implementation's CentroidTracker:
// tie-breaking is intentionally simple greedy, not Hungarian-optimal.
type Tracker struct {
	MaxDisappeared int
	MaxDistance    float64

	nextObjectID int
	order        []int
	tracks       map[int]*TrackedObject
}

// NewTracker constructs a Tracker with the given disappearance
// tolerance and association distance threshold.
func NewTracker(maxDisappeared int, maxDistance float64) *Tracker {
	return &Tracker{
		MaxDisappeared: maxDisappeared,
		MaxDistance:    maxDistance,
		tracks:         make(map[int]*TrackedObject),
	}
}

// Reset clears all tracks and resets the id counter to 0.
func (t *Tracker) Reset() {
	t.nextObjectID = 0
	t.order = nil
	t.tracks = make(map[int]*TrackedObject)
}

// Update associates detections with existing tracks, registers
// unmatched detections as new tracks, and deregisters tracks that
// have disappeared for too long. Returns the current tracks in
// insertion order.
func (t *Tracker) Update(detections []Detection) []*TrackedObject {
	switch {
	case len(t.tracks) == 0:
		for _, d := range detections {
			t.register(d)
		}
		return t.values()

	case len(detections) == 0:
		for _, id := range append([]int(nil), t.order...) {
			tr := t.tracks[id]
			tr.Disappeared++
			if tr.Disappeared > t.MaxDisappeared {
				t.deregister(id)
			}
		}
		return t.values()
	}

	trackIDs := append([]int(nil), t.order...)
	dist := make([][]float64, len(trackIDs))
	for i, id := range trackIDs {
		c := t.tracks[id].Centroid()
		row := make([]float64, len(detections))
		for j, d := range detections {
			dx, dy := d.Centroid()
			row[j] = euclidean(c.X, c.Y, dx, dy)
		}
		dist[i] = row
	}

	type rowMin struct {
		row, col int
		min      float64
	}
	mins := make([]rowMin, len(trackIDs))
	for i, row := range dist {
		col, v := argminRow(row)
		mins[i] = rowMin{row: i, col: col, min: v}
	}
	sort.Slice(mins, func(a, b int) bool { return mins[a].min < mins[b].min })

	usedRows := make(map[int]bool)
	usedCols := make(map[int]bool)

	for _, m := range mins {
		if usedRows[m.row] || usedCols[m.col] {
			continue
		}
		if m.min > t.MaxDistance {
			continue
		}

		id := trackIDs[m.row]
		d := detections[m.col]
		tr := t.tracks[id]
		tr.X1, tr.Y1, tr.X2, tr.Y2 = d.X1, d.Y1, d.X2, d.Y2
		tr.ClassID = d.ClassID
		tr.ClassName = d.ClassName
		tr.Confidence = d.Confidence
		tr.Disappeared = 0
		tr.FrameCount++
		tr.CentroidHistory = appendHistory(tr.CentroidHistory, tr.Centroid())

		usedRows[m.row] = true
		usedCols[m.col] = true
	}

	for i, id := range trackIDs {
		if usedRows[i] {
			continue
		}
		tr := t.tracks[id]
		tr.Disappeared++
		if tr.Disappeared > t.MaxDisappeared {
			t.deregister(id)
		}
	}

	for j, d := range detections {
		if usedCols[j] {
			continue
		}
		t.register(d)
	}

	return t.values()
}

// ActiveIDs returns the set of object ids currently tracked, for
// violation detectors to reconcile their own ephemeral state maps
// against.
func (t *Tracker) ActiveIDs() map[int]bool {
	ids := make(map[int]bool, len(t.order))
	for _, id := range t.order {
		ids[id] = true
	}
	return ids
}

func (t *Tracker) register(d Detection) {
	id := t.nextObjectID
	t.nextObjectID++

	tr := &TrackedObject{
		ObjectID:   id,
		X1:         d.X1,
		Y1:         d.Y1,
		X2:         d.X2,
		Y2:         d.Y2,
		ClassID:    d.ClassID,
		ClassName:  d.ClassName,
		Confidence: d.Confidence,
	}
	tr.CentroidHistory = appendHistory(nil, tr.Centroid())

	t.tracks[id] = tr
	t.order = append(t.order, id)
}

func (t *Tracker) deregister(id int) {
	delete(t.tracks, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *Tracker) values() []*TrackedObject {
	out := make([]*TrackedObject, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.tracks[id])
	}
	return out
}

func appendHistory(history []Point, p Point) []Point {
	history = append(history, p)
	if len(history) > historyLength {
		history = history[len(history)-historyLength:]
	}
	return history
}

func euclidean(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Sqrt(dx*dx + dy*dy)
}

func argminRow(row []float64) (idx int, val float64) {
	idx = 0
	val = row[0]
	for i := 1; i < len(row); i++ {
		if row[i] < val {
			val = row[i]
			idx = i
		}
	}
	return idx, val
}
