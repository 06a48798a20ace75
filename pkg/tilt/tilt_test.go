package tilt

import (
	"math"
	"strings"
	"testing"
	"time"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestComputeLeftEdgeCenter(t *testing.T) {
	got := Compute(Sample{X: 0, Y: 50, Box: Box{Width: 200, Height: 100}})

	if !approx(got.RotateY, -10) {
		t.Errorf("RotateY = %v, want -10", got.RotateY)
	}
	if !approx(got.RotateX, 0) {
		t.Errorf("RotateX = %v, want 0", got.RotateX)
	}
	if !approx(got.Brightness, 0.65) {
		t.Errorf("Brightness = %v, want 0.65", got.Brightness)
	}
	if got.Transition != Snappy {
		t.Errorf("Transition = %v, want snappy", got.Transition)
	}
}

func TestComputeCorners(t *testing.T) {
	box := Box{Width: 320, Height: 180}
	tests := []struct {
		name       string
		x, y       float64
		rx, ry, br float64
	}{
		{"top left", 0, 0, 10, -10, 0.65},
		{"top right", 320, 0, 10, 10, 1.15},
		{"bottom left", 0, 180, -10, -10, 0.65},
		{"bottom right", 320, 180, -10, 10, 1.15},
		{"center", 160, 90, 0, 0, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(Sample{X: tt.x, Y: tt.y, Box: box})
			if !approx(got.RotateX, tt.rx) || !approx(got.RotateY, tt.ry) || !approx(got.Brightness, tt.br) {
				t.Errorf("Compute(%v,%v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.x, tt.y, got.RotateX, got.RotateY, got.Brightness, tt.rx, tt.ry, tt.br)
			}
		})
	}
}

func TestComputeBounds(t *testing.T) {
	boxes := []Box{{1, 1}, {200, 100}, {37, 911}, {0.5, 3}}
	for _, box := range boxes {
		for i := 0; i <= 20; i++ {
			for j := 0; j <= 20; j++ {
				s := Sample{X: box.Width * float64(i) / 20, Y: box.Height * float64(j) / 20, Box: box}
				got := Compute(s)
				if got.RotateY < -10-eps || got.RotateY > 10+eps {
					t.Fatalf("RotateY out of range for %+v: %v", s, got.RotateY)
				}
				if got.RotateX < -10-eps || got.RotateX > 10+eps {
					t.Fatalf("RotateX out of range for %+v: %v", s, got.RotateX)
				}
				if got.Brightness < 0.65-eps || got.Brightness > 1.15+eps {
					t.Fatalf("Brightness out of range for %+v: %v", s, got.Brightness)
				}
			}
		}
	}
}

func TestComputeLinearity(t *testing.T) {
	box := Box{Width: 250, Height: 140}
	at := func(nx, ny float64) Style {
		return Compute(Sample{X: nx * box.Width, Y: ny * box.Height, Box: box})
	}

	// Equal steps in a normalized coordinate give equal output steps.
	for _, ny := range []float64{0, 0.3, 1} {
		a, b, c := at(0.1, ny), at(0.4, ny), at(0.7, ny)
		if !approx(b.RotateY-a.RotateY, c.RotateY-b.RotateY) {
			t.Errorf("RotateY not affine in x at ny=%v", ny)
		}
		if !approx(b.Brightness-a.Brightness, c.Brightness-b.Brightness) {
			t.Errorf("Brightness not affine in x at ny=%v", ny)
		}
		if !approx(a.RotateX, c.RotateX) {
			t.Errorf("RotateX depends on x at ny=%v", ny)
		}
	}
	for _, nx := range []float64{0, 0.6, 1} {
		a, b, c := at(nx, 0.2), at(nx, 0.5), at(nx, 0.8)
		if !approx(b.RotateX-a.RotateX, c.RotateX-b.RotateX) {
			t.Errorf("RotateX not affine in y at nx=%v", nx)
		}
		if !approx(a.Brightness, c.Brightness) {
			t.Errorf("Brightness depends on y at nx=%v", nx)
		}
	}
}

func TestComputeOvershoot(t *testing.T) {
	// Outside the box the same lines extrapolate.
	got := Compute(Sample{X: -10, Y: 110, Box: Box{Width: 200, Height: 100}})
	if !approx(got.RotateY, -11) {
		t.Errorf("RotateY = %v, want -11", got.RotateY)
	}
	if !approx(got.RotateX, -12) {
		t.Errorf("RotateX = %v, want -12", got.RotateX)
	}
}

func TestNeutral(t *testing.T) {
	a := Neutral()
	_ = Compute(Sample{X: 3, Y: 7, Box: Box{Width: 10, Height: 10}})
	b := Neutral()

	if a != b {
		t.Errorf("Neutral() not idempotent: %+v != %+v", a, b)
	}
	if !a.IsNeutral() {
		t.Errorf("Neutral() = %+v, want zero rotation and unit brightness", a)
	}
	if a.Transition != Eased {
		t.Errorf("Neutral().Transition = %v, want eased", a.Transition)
	}
}

func TestProfileDuration(t *testing.T) {
	if Snappy.Duration() != 100*time.Millisecond {
		t.Errorf("Snappy = %v", Snappy.Duration())
	}
	if Eased.Duration() != 500*time.Millisecond {
		t.Errorf("Eased = %v", Eased.Duration())
	}
	if Snappy.Duration() >= Eased.Duration() {
		t.Error("hover transition should be faster than settling")
	}
}

func TestLerp(t *testing.T) {
	from := Compute(Sample{X: 0, Y: 0, Box: Box{Width: 100, Height: 100}})
	to := Neutral()

	if got := Lerp(from, to, 0); !approx(got.RotateY, from.RotateY) {
		t.Errorf("Lerp(t=0).RotateY = %v, want %v", got.RotateY, from.RotateY)
	}
	if got := Lerp(from, to, 1); got != to {
		t.Errorf("Lerp(t=1) = %+v, want %+v", got, to)
	}
	if got := Lerp(from, to, 5); got != to {
		t.Error("Lerp should clamp t above 1")
	}
	mid := Lerp(from, to, 0.5)
	if !approx(mid.RotateY, -5) || !approx(mid.RotateX, 5) {
		t.Errorf("Lerp(t=0.5) rotation = (%v, %v), want (5, -5)", mid.RotateX, mid.RotateY)
	}
}

func TestCSS(t *testing.T) {
	css := Compute(Sample{X: 0, Y: 50, Box: Box{Width: 200, Height: 100}}).CSS()
	for _, want := range []string{
		"perspective(600px) rotateX(0deg) rotateY(-10deg)",
		"brightness(0.65)",
		"box-shadow: 0 10px 20px rgba(0, 0, 0, 0.3)",
		"transition: transform 0.1s, filter 0.1s",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS() missing %q in:\n%s", want, css)
		}
	}

	neutral := Neutral().CSS()
	if !strings.Contains(neutral, "transition: transform 0.5s, filter 0.5s") {
		t.Errorf("neutral CSS() = %s", neutral)
	}
}

func TestDepth(t *testing.T) {
	if d := Neutral().Depth(0.5, 0.5); d != 0 {
		t.Errorf("neutral Depth = %v, want 0", d)
	}

	// Pointer on the right edge: the right side recedes, the left comes forward.
	right := Compute(Sample{X: 100, Y: 50, Box: Box{Width: 100, Height: 100}})
	if d := right.Depth(0.5, 0); d >= 0 {
		t.Errorf("right edge Depth = %v, want < 0", d)
	}
	if d := right.Depth(-0.5, 0); d <= 0 {
		t.Errorf("left edge Depth = %v, want > 0", d)
	}

	// Pointer on the top edge: the top recedes.
	top := Compute(Sample{X: 50, Y: 0, Box: Box{Width: 100, Height: 100}})
	if d := top.Depth(0, -0.5); d >= 0 {
		t.Errorf("top edge Depth = %v, want < 0", d)
	}
	if !approx(top.Depth(0, 0), 0) {
		t.Error("center should not move")
	}
}
