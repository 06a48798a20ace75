package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/tilt"
)

func contrastOptions() Options {
	o := DefaultOptions()
	o.Background = color.Black
	o.Face = color.White
	o.Accent = color.RGBA{0xff, 0, 0, 0xff}
	return o
}

func red(img image.Image, x, y int) int {
	r, _, _, _ := img.At(x, y).RGBA()
	return int(r >> 8)
}

func TestRenderSize(t *testing.T) {
	o := DefaultOptions()
	img := Render(tilt.Neutral(), o)
	w, h := o.Size()
	if got := img.Bounds(); got.Dx() != w || got.Dy() != h {
		t.Errorf("bounds = %v, want %dx%d", got, w, h)
	}
	if w != 320 || h != 400 {
		t.Errorf("Size() = %dx%d, want 320x400", w, h)
	}
}

func TestRenderNeutral(t *testing.T) {
	o := contrastOptions()
	img := Render(tilt.Neutral(), o)
	w, h := o.Size()

	if got := red(img, w/2, h/2); got < 250 {
		t.Errorf("card center = %d, want white face", got)
	}
	if got := red(img, 5, 5); got > 5 {
		t.Errorf("corner = %d, want background", got)
	}
	// Header band sits in the top quarter of the card.
	_, g, _, _ := img.At(w/2, int(o.Margin)+10).RGBA()
	if red(img, w/2, int(o.Margin)+10) < 250 || g>>8 > 5 {
		t.Errorf("header pixel = %v, want accent", img.At(w/2, int(o.Margin)+10))
	}
}

func TestRenderBrightness(t *testing.T) {
	o := contrastOptions()
	o.Supersample = 1
	box := tilt.Box{Width: 200, Height: 280}
	w, h := o.Size()

	dim := Render(tilt.Compute(tilt.Sample{X: 0, Y: 140, Box: box}), o)
	if got := red(dim, w/2, h/2); got < 163 || got > 169 {
		t.Errorf("left-edge sample center = %d, want about 166 (brightness 0.65)", got)
	}

	bright := Render(tilt.Compute(tilt.Sample{X: 200, Y: 140, Box: box}), o)
	if got := red(bright, w/2, h/2); got < 250 {
		t.Errorf("right-edge sample center = %d, want clamped white", got)
	}
}

func TestRenderPerspective(t *testing.T) {
	o := contrastOptions()
	s := tilt.Neutral()
	s.RotateY = 40
	img := Render(s, o)
	w, h := o.Size()

	// Positive rotateY pushes the right edge away from the viewer, so the
	// left half projects wider than the right half.
	if got := red(img, w/2-80, h/2); got < 200 {
		t.Errorf("left half pixel = %d, want face", got)
	}
	if got := red(img, w/2+80, h/2); got > 50 {
		t.Errorf("right half pixel = %d, want background", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"png": FormatPNG, ".webp": FormatWebP, "WEBP": FormatWebP}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !serrors.Is(err, serrors.ErrCodeUnsupported) {
		t.Errorf("ParseFormat(gif) error = %v", err)
	}
	if f, err := FormatFromPath("/tmp/card.png"); err != nil || f != FormatPNG {
		t.Errorf("FormatFromPath = %q, %v", f, err)
	}
}

func TestEncode(t *testing.T) {
	img := Render(tilt.Neutral(), DefaultOptions())

	var pngBuf bytes.Buffer
	if err := Encode(&pngBuf, img, FormatPNG); err != nil {
		t.Fatalf("Encode png: %v", err)
	}
	decoded, err := png.Decode(&pngBuf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v", decoded.Bounds())
	}

	var webpBuf bytes.Buffer
	if err := Encode(&webpBuf, img, FormatWebP); err != nil {
		t.Fatalf("Encode webp: %v", err)
	}
	data := webpBuf.Bytes()
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Errorf("webp header = %q", data[:min(12, len(data))])
	}

	if err := Encode(&webpBuf, img, Format("bmp")); !serrors.Is(err, serrors.ErrCodeUnsupported) {
		t.Errorf("Encode(bmp) error = %v", err)
	}
}
