package tilt

import (
	"fmt"
	"math"
	"time"
)

const (
	// MaxAngle is the rotation in degrees reached at a box edge.
	MaxAngle = 10.0

	// Perspective is the viewing distance, in pixels, used when the
	// rotation is projected.
	Perspective = 600.0

	minBrightness   = 0.65
	brightnessRange = 0.5
)

// Box is the size of a card's bounding box. Both dimensions are positive
// whenever a pointer event can be delivered for the card.
type Box struct {
	Width  float64
	Height float64
}

// Sample is one pointer position relative to the top-left corner of a card.
type Sample struct {
	X   float64
	Y   float64
	Box Box
}

// Profile selects how quickly a card animates toward a new style.
type Profile int

const (
	// Snappy is used while the pointer moves over a card.
	Snappy Profile = iota
	// Eased is used when a card settles back to its resting pose.
	Eased
)

// Duration returns the transition time of the profile.
func (p Profile) Duration() time.Duration {
	if p == Eased {
		return 500 * time.Millisecond
	}
	return 100 * time.Millisecond
}

func (p Profile) String() string {
	if p == Eased {
		return "eased"
	}
	return "snappy"
}

// Shadow describes a drop shadow below the card.
type Shadow struct {
	OffsetY float64 // px
	Blur    float64 // px
	Opacity float64 // 0..1
}

var (
	hoverShadow   = Shadow{OffsetY: 10, Blur: 20, Opacity: 0.3}
	neutralShadow = Shadow{OffsetY: 5, Blur: 10, Opacity: 0.2}
)

// Style is the visual transform of one card.
type Style struct {
	RotateX    float64 // degrees
	RotateY    float64 // degrees
	Brightness float64
	Shadow     Shadow
	Transition Profile
}

// Compute returns the hover style for a pointer sample.
func Compute(s Sample) Style {
	nx := s.X / s.Box.Width
	ny := s.Y / s.Box.Height
	return Style{
		RotateX:    -(ny - 0.5) * 2 * MaxAngle,
		RotateY:    (nx - 0.5) * 2 * MaxAngle,
		Brightness: minBrightness + nx*brightnessRange,
		Shadow:     hoverShadow,
		Transition: Snappy,
	}
}

// Neutral returns the resting style of a card.
func Neutral() Style {
	return Style{
		Brightness: 1,
		Shadow:     neutralShadow,
		Transition: Eased,
	}
}

// IsNeutral reports whether s has no rotation and unit brightness.
func (s Style) IsNeutral() bool {
	return s.RotateX == 0 && s.RotateY == 0 && s.Brightness == 1
}

// Depth returns how far the point (u, v) of the card moves toward the
// viewer under the style's rotation, in card-size units. u and v are the
// offsets from the card center, each in [-0.5, 0.5], with v growing
// downward. Negative values recede.
func (s Style) Depth(u, v float64) float64 {
	a := s.RotateX * math.Pi / 180
	b := s.RotateY * math.Pi / 180
	return v*math.Sin(a) - u*math.Sin(b)*math.Cos(a)
}

// Lerp interpolates between two styles. t is clamped to [0, 1]; the shadow
// and transition profile switch to the target's at the end of the range.
func Lerp(from, to Style, t float64) Style {
	t = min(max(t, 0), 1)
	out := Style{
		RotateX:    from.RotateX + (to.RotateX-from.RotateX)*t,
		RotateY:    from.RotateY + (to.RotateY-from.RotateY)*t,
		Brightness: from.Brightness + (to.Brightness-from.Brightness)*t,
		Shadow: Shadow{
			OffsetY: from.Shadow.OffsetY + (to.Shadow.OffsetY-from.Shadow.OffsetY)*t,
			Blur:    from.Shadow.Blur + (to.Shadow.Blur-from.Shadow.Blur)*t,
			Opacity: from.Shadow.Opacity + (to.Shadow.Opacity-from.Shadow.Opacity)*t,
		},
		Transition: to.Transition,
	}
	if t == 1 {
		return to
	}
	return out
}

// CSS renders the style as CSS declarations, one per line.
func (s Style) CSS() string {
	d := s.Transition.Duration().Seconds()
	return fmt.Sprintf(
		"transform: perspective(%gpx) rotateX(%gdeg) rotateY(%gdeg);\n"+
			"filter: brightness(%g);\n"+
			"box-shadow: 0 %gpx %gpx rgba(0, 0, 0, %g);\n"+
			"transition: transform %gs, filter %gs;",
		Perspective, round(s.RotateX), round(s.RotateY),
		round(s.Brightness),
		s.Shadow.OffsetY, s.Shadow.Blur, s.Shadow.Opacity,
		d, d,
	)
}

// round trims float noise for display; adding zero folds -0 into 0.
func round(v float64) float64 {
	return math.Round(v*1e4)/1e4 + 0
}
