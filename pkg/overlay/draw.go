//go:build cgo

// Package overlay draws detection boxes, the configured zone polygon,
// violation banners, FPS, and the lane-direction indicator onto the
// preview frame. Purely cosmetic — it never gates core detection,
// tracking, or violation logic, and is skipped entirely in headless
// (--no-display) runs.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/MThabsheer7/traffic-violation-vision/pkg/vision"
)

// gocv draws color.RGBA as a (B,G,R,A) scalar, so these are written
// with R and B swapped from their on-screen BGR triples to land on the
// intended color once gocv reverses them back.
var (
	colorGreen  = color.RGBA{R: 100, G: 255, B: 0, A: 0}
	colorRed    = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	colorYellow = color.RGBA{R: 255, G: 220, B: 0, A: 0}
	colorWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// DrawDetections draws bounding boxes, a class/id/confidence label,
// and the centroid trail for every tracked object, coloring any
// object with an active violation red.
func DrawDetections(frame *gocv.Mat, tracked []*vision.TrackedObject, violatingIDs map[int]bool) {
	for _, obj := range tracked {
		c := colorGreen
		if violatingIDs[obj.ObjectID] {
			c = colorRed
		}

		gocv.Rectangle(frame, image.Rect(obj.X1, obj.Y1, obj.X2, obj.Y2), c, 2)

		label := fmt.Sprintf("%s #%d %.0f%%", obj.ClassName, obj.ObjectID, obj.Confidence*100)
		gocv.PutText(frame, label, image.Pt(obj.X1+2, obj.Y1-4), gocv.FontHersheySimplex, 0.5, colorWhite, 1)

		centroid := obj.Centroid()
		gocv.Circle(frame, image.Pt(centroid.X, centroid.Y), 4, c, -1)

		drawCentroidTrail(frame, obj.CentroidHistory, c)
	}
}

func drawCentroidTrail(frame *gocv.Mat, history []vision.Point, c color.RGBA) {
	if len(history) < 2 {
		return
	}
	for i := 1; i < len(history); i++ {
		p1 := image.Pt(history[i-1].X, history[i-1].Y)
		p2 := image.Pt(history[i].X, history[i].Y)
		gocv.Line(frame, p1, p2, c, 2)
	}
}

// DrawZonePolygon outlines the configured illegal-parking zone.
func DrawZonePolygon(frame *gocv.Mat, polygon []vision.Point) {
	if len(polygon) < 3 {
		return
	}
	pts := make([]image.Point, len(polygon))
	for i, p := range polygon {
		pts[i] = image.Pt(p.X, p.Y)
	}
	gocv.Polylines(frame, gocv.NewPointsVectorFromPoints([][]image.Point{pts}), true, colorYellow, 2)
}

// DrawViolationBanner draws a translucent-style alert banner at the
// top of the frame for one violation event.
func DrawViolationBanner(frame *gocv.Mat, violationType string, objectID int) {
	text := fmt.Sprintf("%s - Vehicle #%d", violationType, objectID)
	gocv.Rectangle(frame, image.Rect(0, 0, frame.Cols(), 40), color.RGBA{R: 180, G: 0, B: 0, A: 0}, -1)
	gocv.PutText(frame, text, image.Pt(10, 28), gocv.FontHersheySimplex, 0.7, colorWhite, 2)
}

// DrawFPS draws the current FPS estimate in the bottom-left corner.
func DrawFPS(frame *gocv.Mat, fps float64) {
	text := fmt.Sprintf("FPS: %.1f", fps)
	gocv.PutText(frame, text, image.Pt(10, frame.Rows()-15), gocv.FontHersheySimplex, 0.6, colorGreen, 2)
}

// DrawLaneDirection draws an arrow indicating the expected lane
// direction in the bottom-right corner.
func DrawLaneDirection(frame *gocv.Mat, direction [2]float64) {
	w, h := frame.Cols(), frame.Rows()
	center := image.Pt(w-60, h-30)
	endpoint := image.Pt(center.X+int(direction[0]*30), center.Y+int(direction[1]*30))

	gocv.ArrowedLine(frame, center, endpoint, colorYellow, 2)
	gocv.PutText(frame, "Lane", image.Pt(w-90, h-45), gocv.FontHersheySimplex, 0.4, colorYellow, 1)
}
