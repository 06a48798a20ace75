// Package tilt maps a pointer position inside a card to the card's visual
// transform: a small rotation about both axes, a brightness factor and a drop
// shadow.
//
// # Model
//
// The pointer position is normalized against the card's bounding box and each
// output is an affine function of one normalized coordinate:
//
//	rotateY    = (x/width  - 0.5) * 20°
//	rotateX    = -(y/height - 0.5) * 20°
//	brightness = 0.65 + (x/width) * 0.5
//
// Moving the pointer up tilts the top edge away from the viewer. Brightness
// depends only on the horizontal position, so the left edge dims more than
// the right edge brightens.
//
// Samples outside the box are not clamped; pointer overshoot at the card
// edges simply extrapolates the same lines.
//
// # Transitions
//
// A hovered card uses the [Snappy] profile so it follows the pointer closely.
// [Neutral] uses the slower [Eased] profile so a card visibly settles back
// when the pointer leaves.
//
// # Usage
//
//	style := tilt.Compute(tilt.Sample{X: 0, Y: 50, Box: tilt.Box{Width: 200, Height: 100}})
//	// style.RotateY == -10, style.RotateX == 0, style.Brightness == 0.65
package tilt
