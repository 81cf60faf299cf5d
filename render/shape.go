package render

import (
	"context"

	"github.com/fogleman/gg"

	"quartz-render/timeline"
)

// ShapeRenderer draws filled primitives: rectangle, ellipse, triangle.
type ShapeRenderer struct{}

func (ShapeRenderer) Render(ctx context.Context, el *timeline.Element, tMs float64, s *Surface) error {
	w, h := el.Width, el.Height
	if w <= 0 || h <= 0 {
		return nil
	}
	dc := s.Context()
	dc.Push()
	defer dc.Pop()
	if el.Rotation != 0 {
		dc.RotateAbout(gg.Radians(el.Rotation), el.X+w/2, el.Y+h/2)
	}
	dc.SetRGBA(elementColor(el.Fill, el.Opacity))
	switch el.Shape {
	case "ellipse":
		dc.DrawEllipse(el.X+w/2, el.Y+h/2, w/2, h/2)
	case "triangle":
		dc.MoveTo(el.X+w/2, el.Y)
		dc.LineTo(el.X+w, el.Y+h)
		dc.LineTo(el.X, el.Y+h)
		dc.ClosePath()
	default: // rectangle
		dc.DrawRectangle(el.X, el.Y, w, h)
	}
	dc.Fill()
	return nil
}
