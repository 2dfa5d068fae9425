package vision

import "time"

// ZoneDetector is a per-object dwell-counter state machine detecting
// illegal parking: an object is in violation once its centroid has
// remained inside the configured polygon for DwellThreshold
// consecutive frames, subject to a cooldown between repeat alerts.
type ZoneDetector struct {
	Polygon         []Point
	DwellThreshold  int
	CooldownSeconds float64
	ZoneID          string

	dwellCounts   map[int]int
	lastAlertTime map[int]time.Time

	now func() time.Time
}

// NewZoneDetector constructs a ZoneDetector over the given polygon.
func NewZoneDetector(polygon []Point, dwellThreshold int, cooldownSeconds float64, zoneID string) *ZoneDetector {
	return &ZoneDetector{
		Polygon:         polygon,
		DwellThreshold:  dwellThreshold,
		CooldownSeconds: cooldownSeconds,
		ZoneID:          zoneID,
		dwellCounts:     make(map[int]int),
		lastAlertTime:   make(map[int]time.Time),
		now:             time.Now,
	}
}

// IsInsideZone reports whether p lies inside the polygon using an
// even-odd point-in-polygon test; points exactly on the boundary
// count as inside, matching cv2.pointPolygonTest's >= 0 convention.
func (z *ZoneDetector) IsInsideZone(p Point) bool {
	return pointInPolygon(p, z.Polygon)
}

// Check evaluates every tracked object against the zone, emitting an
// ILLEGAL_PARKING event for any object whose dwell count reaches the
// threshold and whose cooldown has elapsed. Cleans up ephemeral state
// for any object id no longer present in activeIDs.
func (z *ZoneDetector) Check(tracked []*TrackedObject, activeIDs map[int]bool) []ViolationEvent {
	var events []ViolationEvent
	now := z.now()

	for _, tr := range tracked {
		if z.IsInsideZone(tr.Centroid()) {
			z.dwellCounts[tr.ObjectID]++
		} else {
			delete(z.dwellCounts, tr.ObjectID)
			continue
		}

		count := z.dwellCounts[tr.ObjectID]
		if count < z.DwellThreshold {
			continue
		}

		last, seen := z.lastAlertTime[tr.ObjectID]
		if seen && now.Sub(last).Seconds() <= z.CooldownSeconds {
			continue
		}

		events = append(events, ViolationEvent{
			Type:       ViolationIllegalParking,
			ObjectID:   tr.ObjectID,
			Confidence: tr.Confidence,
			Timestamp:  now,
			ZoneID:     z.ZoneID,
			Metadata: map[string]any{
				"dwell_frames": count,
				"class":        tr.ClassName,
				"bbox":         [4]int{tr.X1, tr.Y1, tr.X2, tr.Y2},
			},
		})
		z.lastAlertTime[tr.ObjectID] = now
	}

	z.cleanupStale(activeIDs)
	return events
}

func (z *ZoneDetector) cleanupStale(activeIDs map[int]bool) {
	for id := range z.dwellCounts {
		if !activeIDs[id] {
			delete(z.dwellCounts, id)
		}
	}
	for id := range z.lastAlertTime {
		if !activeIDs[id] {
			delete(z.lastAlertTime, id)
		}
	}
}

// pointInPolygon implements the standard ray-casting even-odd test,
// treating points on an edge as inside.
func pointInPolygon(p Point, polygon []Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if onSegment(p, polygon[i], polygon[j]) {
			return true
		}

		if (yi > p.Y) != (yj > p.Y) {
			xIntersect := float64(xj-xi)*float64(p.Y-yi)/float64(yj-yi) + float64(xi)
			if float64(p.X) < xIntersect {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func onSegment(p, a, b Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if cross != 0 {
		return false
	}
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}
