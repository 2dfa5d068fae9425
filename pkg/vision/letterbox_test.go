package vision

import "testing"

func TestComputeLetterbox_SquareTarget(t *testing.T) {
	lb := ComputeLetterbox(1920, 1080, 640, 640)

	if lb.Scale <= 0 {
		t.Fatalf("expected positive scale, got %f", lb.Scale)
	}
	w, h := lb.ResizedSize()
	if w != 640 {
		t.Errorf("expected resized width 640, got %d", w)
	}
	if h <= 0 || h > 640 {
		t.Errorf("expected resized height in (0,640], got %d", h)
	}
	if lb.PadX != 0 {
		t.Errorf("expected zero horizontal padding for wide frame, got %d", lb.PadX)
	}
	if lb.PadY <= 0 {
		t.Errorf("expected positive vertical padding for wide frame, got %d", lb.PadY)
	}
}

func TestLetterbox_RoundTrip(t *testing.T) {
	lb := ComputeLetterbox(1920, 1080, 640, 640)

	cases := []struct{ x, y float64 }{
		{0, 0},
		{1919, 1079},
		{960, 540},
		{123, 456},
	}

	for _, c := range cases {
		mx, my := lb.ToModelSpace(c.x, c.y)
		ox, oy := lb.FromModelSpace(mx, my)

		if diff := ox - c.x; diff > 1 || diff < -1 {
			t.Errorf("round-trip x: got %f, want within ±1 of %f", ox, c.x)
		}
		if diff := oy - c.y; diff > 1 || diff < -1 {
			t.Errorf("round-trip y: got %f, want within ±1 of %f", oy, c.y)
		}
	}
}

func TestLetterbox_BboxRoundTrip(t *testing.T) {
	lb := ComputeLetterbox(1280, 720, 640, 640)

	// Bbox in original space.
	x1, y1, x2, y2 := 100.0, 200.0, 300.0, 400.0

	mx1, my1 := lb.ToModelSpace(x1, y1)
	mx2, my2 := lb.ToModelSpace(x2, y2)

	ox1, oy1 := lb.FromModelSpace(mx1, my1)
	ox2, oy2 := lb.FromModelSpace(mx2, my2)

	for _, pair := range [][2]float64{{ox1, x1}, {oy1, y1}, {ox2, x2}, {oy2, y2}} {
		if diff := pair[0] - pair[1]; diff > 1 || diff < -1 {
			t.Errorf("bbox round-trip mismatch: got %f want %f", pair[0], pair[1])
		}
	}
}
