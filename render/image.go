package render

import (
	"context"
	"image"

	"github.com/fogleman/gg"

	"quartz-render/timeline"
)

// ImageRenderer draws still images, decoding each source once per job.
type ImageRenderer struct {
	cache map[string]image.Image
}

func (r *ImageRenderer) Render(ctx context.Context, el *timeline.Element, tMs float64, s *Surface) error {
	img, ok := r.cache[el.ID]
	if !ok {
		var err error
		img, err = gg.LoadImage(el.SourcePath)
		if err != nil {
			return &AssetError{ElementID: el.ID, Path: el.SourcePath, Err: err}
		}
		if r.cache == nil {
			r.cache = make(map[string]image.Image)
		}
		r.cache[el.ID] = img
	}
	drawImageElement(s.Context(), el, img)
	return nil
}
