package render

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

// Surface is the raster target one output frame is composited onto.
// Renderers draw through its gg context; the compositor serializes it.
type Surface struct {
	dc *gg.Context
}

// NewSurface creates a w x h surface pre-filled with the background color.
// An empty or unparsable background fills black.
func NewSurface(w, h int, background string) *Surface {
	dc := gg.NewContext(w, h)
	r, g, b, a, err := parseHexColor(background)
	if err != nil {
		r, g, b, a = 0, 0, 0, 1
	}
	dc.SetRGBA(r, g, b, a)
	dc.Clear()
	return &Surface{dc: dc}
}

// Context exposes the drawing context for renderers.
func (s *Surface) Context() *gg.Context { return s.dc }

// Image returns the backing raster.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the surface as one PNG frame.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// parseHexColor reads "#RGB", "#RRGGBB" or "#RRGGBBAA" (leading '#'
// optional) into non-premultiplied components in [0,1].
func parseHexColor(s string) (r, g, b, a float64, err error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		var expanded strings.Builder
		for _, c := range hex {
			expanded.WriteRune(c)
			expanded.WriteRune(c)
		}
		hex = expanded.String() + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return 0, 0, 0, 0, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("bad hex color %q", s)
	}
	r = float64(v>>24&0xff) / 255.0
	g = float64(v>>16&0xff) / 255.0
	b = float64(v>>8&0xff) / 255.0
	a = float64(v&0xff) / 255.0
	return r, g, b, a, nil
}
