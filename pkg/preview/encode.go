package preview

import (
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	serrors "github.com/matzehuels/setlist/pkg/errors"
)

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat parses a format name ("png", "webp").
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatWebP:
		return f, nil
	default:
		return "", serrors.New(serrors.ErrCodeUnsupported, "unsupported image format %q (want png or webp)", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img to w in format f. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return serrors.New(serrors.ErrCodeUnsupported, "unsupported image format %q", f)
	}
}
