package render

import (
	"context"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"quartz-render/config"
	"quartz-render/timeline"
)

const defaultFontSize = 48

// TextRenderer draws text boxes with an optional filled background.
type TextRenderer struct {
	faces map[faceKey]font.Face
}

type faceKey struct {
	path string
	size float64
}

func (r *TextRenderer) Render(ctx context.Context, el *timeline.Element, tMs float64, s *Surface) error {
	if el.Text == "" {
		return nil
	}
	size := el.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	face, err := r.face(fontPathFor(el), size)
	if err != nil {
		return err
	}

	dc := s.Context()
	dc.SetFontFace(face)

	w, h := el.Width, el.Height
	if w <= 0 || h <= 0 {
		textW, textH := dc.MeasureString(el.Text)
		if w <= 0 {
			w = textW + size/2
		}
		if h <= 0 {
			h = textH * 1.5
		}
	}

	dc.Push()
	defer dc.Pop()
	if el.Rotation != 0 {
		dc.RotateAbout(gg.Radians(el.Rotation), el.X+w/2, el.Y+h/2)
	}

	if el.Background != "" {
		dc.SetRGBA(elementColor(el.Background, el.Opacity))
		dc.DrawRectangle(el.X, el.Y, w, h)
		dc.Fill()
	}

	dc.SetRGBA(elementColor(el.Color, el.Opacity))
	dc.DrawStringWrapped(el.Text, el.X+w/2, el.Y+h/2, 0.5, 0.5, w, 1.2, gg.AlignCenter)
	return nil
}

// fontPathFor picks the element's font file, then the configured one,
// then empty for the built-in face.
func fontPathFor(el *timeline.Element) string {
	if el.Font != "" {
		if _, err := os.Stat(el.Font); err == nil {
			return el.Font
		}
		log.Warnf("font %s for element %s not found, falling back", el.Font, el.ID)
	}
	return config.GetFontPath()
}

func (r *TextRenderer) face(path string, size float64) (font.Face, error) {
	key := faceKey{path: path, size: size}
	if face, ok := r.faces[key]; ok {
		return face, nil
	}

	data := goregular.TTF
	if path != "" {
		loaded, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("read font %s: %v, falling back to built-in", path, err)
		} else {
			data = loaded
		}
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	if r.faces == nil {
		r.faces = make(map[faceKey]font.Face)
	}
	r.faces[key] = face
	return face, nil
}
