package vision

import (
	"fmt"
	"math"
	"time"
)

// DirectionDetector is a per-object consecutive-frame counter state
// machine detecting wrong-way motion: a track accumulates a
// wrong-way count while its movement vector points against the
// configured lane direction, and fires once the count reaches
// DirectionThreshold, subject to a cooldown.
//
// Unlike the reference implementation (which parses a
// direction_zone_polygon but never applies it), this detector treats
// a configured polygon as an authoritative ROI gate: only tracks
// whose centroid lies inside it are evaluated at all.
type DirectionDetector struct {
	LaneDirectionUnit    [2]float64
	DirectionThreshold   int
	MinDisplacement      float64
	CooldownSeconds      float64
	DirectionZonePolygon []Point // nil/empty means no restriction

	wrongWayCounts map[int]int
	lastAlertTime  map[int]time.Time

	now func() time.Time
}

// NewDirectionDetector constructs a DirectionDetector. laneDirection
// must be non-zero; constructing with a zero vector is an
// InvalidConfig error.
func NewDirectionDetector(laneDirection [2]float64, directionThreshold int, minDisplacement, cooldownSeconds float64, directionZonePolygon []Point) (*DirectionDetector, error) {
	mag := math.Hypot(laneDirection[0], laneDirection[1])
	if mag == 0 {
		return nil, fmt.Errorf("direction detector: lane_direction must be non-zero: %w", errInvalidConfig)
	}

	return &DirectionDetector{
		LaneDirectionUnit:    [2]float64{laneDirection[0] / mag, laneDirection[1] / mag},
		DirectionThreshold:   directionThreshold,
		MinDisplacement:      minDisplacement,
		CooldownSeconds:      cooldownSeconds,
		DirectionZonePolygon: directionZonePolygon,
		wrongWayCounts:       make(map[int]int),
		lastAlertTime:        make(map[int]time.Time),
		now:                  time.Now,
	}, nil
}

var errInvalidConfig = fmt.Errorf("invalid config")

// Check evaluates every tracked object's recent movement vector
// against the lane direction, emitting a WRONG_WAY event for any
// object whose wrong-way count reaches the threshold and whose
// cooldown has elapsed. Cleans up ephemeral state for ids no longer
// present in activeIDs.
func (d *DirectionDetector) Check(tracked []*TrackedObject, activeIDs map[int]bool) []ViolationEvent {
	var events []ViolationEvent
	now := d.now()

	for _, tr := range tracked {
		if len(d.DirectionZonePolygon) > 0 && !pointInPolygon(tr.Centroid(), d.DirectionZonePolygon) {
			continue
		}

		vx, vy, ok := movementVector(tr.CentroidHistory)
		if !ok {
			continue
		}
		speed := math.Hypot(vx, vy)
		if speed < d.MinDisplacement {
			// Stationary/jittery: neither increment nor reset.
			continue
		}

		dot := vx*d.LaneDirectionUnit[0] + vy*d.LaneDirectionUnit[1]
		if dot >= 0 {
			delete(d.wrongWayCounts, tr.ObjectID)
			continue
		}

		d.wrongWayCounts[tr.ObjectID]++
		count := d.wrongWayCounts[tr.ObjectID]
		if count < d.DirectionThreshold {
			continue
		}

		last, seen := d.lastAlertTime[tr.ObjectID]
		if seen && now.Sub(last).Seconds() <= d.CooldownSeconds {
			continue
		}

		events = append(events, ViolationEvent{
			Type:       ViolationWrongWay,
			ObjectID:   tr.ObjectID,
			Confidence: tr.Confidence,
			Timestamp:  now,
			Metadata: map[string]any{
				"dot_product":        dot,
				"movement_vector":    [2]float64{vx, vy},
				"speed_px":           speed,
				"consecutive_frames": count,
				"class":              tr.ClassName,
				"bbox":               [4]int{tr.X1, tr.Y1, tr.X2, tr.Y2},
			},
		})
		d.lastAlertTime[tr.ObjectID] = now
	}

	d.cleanupStale(activeIDs)
	return events
}

func (d *DirectionDetector) cleanupStale(activeIDs map[int]bool) {
	for id := range d.wrongWayCounts {
		if !activeIDs[id] {
			delete(d.wrongWayCounts, id)
		}
	}
	for id := range d.lastAlertTime {
		if !activeIDs[id] {
			delete(d.lastAlertTime, id)
		}
	}
}

// movementVector returns newest_history − oldest_history. Requires at
// least two history entries.
func movementVector(history []Point) (vx, vy float64, ok bool) {
	if len(history) < 2 {
		return 0, 0, false
	}
	oldest := history[0]
	newest := history[len(history)-1]
	return float64(newest.X - oldest.X), float64(newest.Y - oldest.Y), true
}
