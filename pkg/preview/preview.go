// Package preview rasterizes a card as the tilt engine would show it.
//
// The card is a flat rectangle rotated by the style's rotateX/rotateY,
// projected with the CSS perspective distance, shaded by its brightness and
// drawn over its drop shadow. It is a diagnostic for tuning tilt styles
// without a browser, not a faithful CSS renderer.
package preview

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/matzehuels/setlist/pkg/tilt"
)

// Options controls the output image.
type Options struct {
	CardWidth   float64 // card size in px before transformation
	CardHeight  float64
	Margin      float64 // free space around the card, in px
	Supersample int     // render at this multiple and scale down
	Background  color.Color
	Face        color.Color
	Accent      color.Color // header band
}

// DefaultOptions returns a 200x280 card on a light background.
func DefaultOptions() Options {
	return Options{
		CardWidth:   200,
		CardHeight:  280,
		Margin:      60,
		Supersample: 2,
		Background:  color.RGBA{0xf4, 0xf4, 0xf5, 0xff},
		Face:        color.RGBA{0xfa, 0xfa, 0xfa, 0xff},
		Accent:      color.RGBA{0x06, 0xb6, 0xd4, 0xff},
	}
}

// Size returns the dimensions of the rendered image.
func (o Options) Size() (int, int) {
	return int(math.Ceil(o.CardWidth + 2*o.Margin)), int(math.Ceil(o.CardHeight + 2*o.Margin))
}

type point struct{ x, y float64 }

// projector maps card-local points (origin at the card center, y down) to
// canvas pixels.
type projector struct {
	m      [9]float64
	cx, cy float64
	scale  float64
}

func newProjector(s tilt.Style, cx, cy, scale float64) projector {
	// rotateX(a) rotateY(b) applies rotateY to the point first.
	return projector{m: mul(rotX(rad(s.RotateX)), rotY(rad(s.RotateY))), cx: cx, cy: cy, scale: scale}
}

func (p projector) project(x, y float64) point {
	m := p.m
	rx := m[0]*x + m[1]*y
	ry := m[3]*x + m[4]*y
	rz := m[6]*x + m[7]*y
	f := tilt.Perspective / (tilt.Perspective - rz)
	return point{p.cx + rx*f*p.scale, p.cy + ry*f*p.scale}
}

// Render draws the card under style s.
func Render(s tilt.Style, o Options) *image.RGBA {
	ss := max(o.Supersample, 1)
	w, h := o.Size()
	big := image.NewRGBA(image.Rect(0, 0, w*ss, h*ss))
	draw.Draw(big, big.Bounds(), image.NewUniform(o.Background), image.Point{}, draw.Src)

	k := float64(ss)
	cx, cy := float64(w)*k/2, float64(h)*k/2
	hw, hh := o.CardWidth/2, o.CardHeight/2

	// Shadow: the untransformed card outline offset down, spread by the
	// blur radius in fading rings.
	const rings = 6
	sh := s.Shadow
	for i := rings; i >= 1; i-- {
		spread := sh.Blur / 2 * float64(i) / rings
		alpha := sh.Opacity / rings * 1.5
		fill(big, []point{
			{cx + (-hw-spread)*k, cy + (-hh-spread+sh.OffsetY)*k},
			{cx + (hw+spread)*k, cy + (-hh-spread+sh.OffsetY)*k},
			{cx + (hw+spread)*k, cy + (hh+spread+sh.OffsetY)*k},
			{cx + (-hw-spread)*k, cy + (hh+spread+sh.OffsetY)*k},
		}, color.NRGBA{0, 0, 0, uint8(math.Round(clamp01(alpha) * 255))})
	}

	p := newProjector(s, cx, cy, k)
	quad := func(x0, y0, x1, y1 float64) []point {
		return []point{p.project(x0, y0), p.project(x1, y0), p.project(x1, y1), p.project(x0, y1)}
	}
	fill(big, quad(-hw, -hh, hw, hh), shade(o.Face, s.Brightness))
	fill(big, quad(-hw, -hh, hw, -hh+o.CardHeight/4), shade(o.Accent, s.Brightness))

	if ss == 1 {
		return big
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Src, nil)
	return out
}

func fill(dst *image.RGBA, pts []point, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, q := range pts[1:] {
		z.LineTo(float32(q.x), float32(q.y))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// shade multiplies the color channels by brightness, like CSS brightness().
func shade(c color.Color, brightness float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	mulc := func(v uint8) uint8 { return uint8(math.Round(clamp01(float64(v)*brightness/255) * 255)) }
	return color.NRGBA{mulc(n.R), mulc(n.G), mulc(n.B), n.A}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func rotX(a float64) [9]float64 {
	c, s := math.Cos(a), math.Sin(a)
	return [9]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

func rotY(a float64) [9]float64 {
	c, s := math.Cos(a), math.Sin(a)
	return [9]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

func mul(a, b [9]float64) [9]float64 {
	var r [9]float64
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				r[i*3+j] += a[i*3+k] * b[k*3+j]
			}
		}
	}
	return r
}
