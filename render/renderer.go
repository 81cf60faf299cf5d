package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"quartz-render/timeline"
)

// Renderer draws one element kind's visual contribution at a timestamp.
// Implementations paint only within their element's bounds and may block
// while source media decodes.
type Renderer interface {
	Render(ctx context.Context, el *timeline.Element, tMs float64, s *Surface) error
}

// AssetError reports an element whose source could not be read or decoded.
// The job aborts rather than silently dropping the element's content.
type AssetError struct {
	ElementID string
	Path      string
	Err       error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset unavailable for element %s (%s): %v", e.ElementID, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// Renderers builds the draw table covering every visual kind. Audio
// elements carry no pixels and have no entry. Each table is job-scoped;
// renderer caches die with the job.
func Renderers() map[timeline.Kind]Renderer {
	return map[timeline.Kind]Renderer{
		timeline.KindImage: &ImageRenderer{},
		timeline.KindVideo: &VideoRenderer{},
		timeline.KindGif:   &GifRenderer{},
		timeline.KindText:  &TextRenderer{},
		timeline.KindShape: &ShapeRenderer{},
	}
}

// drawImageElement paints img into the element's frame-space box, scaling
// to its size and rotating about the box center.
func drawImageElement(dc *gg.Context, el *timeline.Element, img image.Image) {
	bounds := img.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	w, h := el.Width, el.Height
	if w <= 0 {
		w = iw
	}
	if h <= 0 {
		h = ih
	}
	dc.Push()
	if el.Rotation != 0 {
		dc.RotateAbout(gg.Radians(el.Rotation), el.X+w/2, el.Y+h/2)
	}
	dc.Translate(el.X, el.Y)
	dc.Scale(w/iw, h/ih)
	dc.DrawImage(withOpacity(img, el.Opacity), 0, 0)
	dc.Pop()
}

// withOpacity multiplies the image's alpha by the element opacity.
func withOpacity(img image.Image, opacity float64) image.Image {
	if opacity >= 1 {
		return img
	}
	if opacity < 0 {
		opacity = 0
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
	draw.DrawMask(out, bounds, img, bounds.Min, mask, image.Point{}, draw.Over)
	return out
}

// elementColor resolves a hex attribute combined with the element opacity,
// falling back to opaque white when the attribute is empty or junk.
func elementColor(hex string, opacity float64) (r, g, b, a float64) {
	r, g, b, a, err := parseHexColor(hex)
	if err != nil {
		r, g, b, a = 1, 1, 1, 1
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity < 1 {
		a *= opacity
	}
	return r, g, b, a
}
