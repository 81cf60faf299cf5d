package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"

	"quartz-render/timeline"
)

// GifRenderer draws animated gifs, picking the frame matching the element's
// source time and looping or holding the last frame per the loop policy.
type GifRenderer struct {
	cache map[string]*gifSource
}

type gifSource struct {
	frames  []image.Image
	delays  []int // per-frame display time, ms
	totalMs int
}

func (r *GifRenderer) Render(ctx context.Context, el *timeline.Element, tMs float64, s *Surface) error {
	src, ok := r.cache[el.ID]
	if !ok {
		var err error
		src, err = loadGif(el.SourcePath)
		if err != nil {
			return &AssetError{ElementID: el.ID, Path: el.SourcePath, Err: err}
		}
		if r.cache == nil {
			r.cache = make(map[string]*gifSource)
		}
		r.cache[el.ID] = src
	}
	drawImageElement(s.Context(), el, src.frameAt(el.SourceTimeMs(tMs), el.Loop))
	return nil
}

func loadGif(path string) (*gifSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	if err != nil {
		return nil, err
	}
	if len(decoded.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}

	bounds := image.Rect(0, 0, decoded.Config.Width, decoded.Config.Height)
	if bounds.Empty() {
		bounds = decoded.Image[0].Bounds()
	}
	// frames may patch only a sub-rectangle, so build each display frame
	// by drawing over the previous one
	canvas := image.NewRGBA(bounds)
	src := &gifSource{}
	for i, paletted := range decoded.Image {
		draw.Draw(canvas, paletted.Bounds(), paletted, paletted.Bounds().Min, draw.Over)
		frame := image.NewRGBA(bounds)
		copy(frame.Pix, canvas.Pix)

		delay := 100 // ms, matching browser treatment of zero-delay gifs
		if i < len(decoded.Delay) && decoded.Delay[i] > 0 {
			delay = decoded.Delay[i] * 10
		}
		src.frames = append(src.frames, frame)
		src.delays = append(src.delays, delay)
		src.totalMs += delay
	}
	return src, nil
}

// frameAt selects the display frame for a source-local time.
func (g *gifSource) frameAt(localMs float64, loop bool) image.Image {
	last := len(g.frames) - 1
	if g.totalMs <= 0 || last == 0 {
		return g.frames[0]
	}
	ms := int(localMs)
	if ms < 0 {
		ms = 0
	}
	if loop {
		ms %= g.totalMs
	} else if ms >= g.totalMs {
		return g.frames[last]
	}
	acc := 0
	for i, d := range g.delays {
		acc += d
		if ms < acc {
			return g.frames[i]
		}
	}
	return g.frames[last]
}
