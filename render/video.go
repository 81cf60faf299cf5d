package render

import (
	"context"
	"image"
	"math"

	"quartz-render/ffmpeg"
	"quartz-render/timeline"
)

// VideoRenderer draws the source frame whose display window contains the
// element's source time, holding the last frame once the source runs out.
// Decoding goes through the external decoder, so a render call may block
// while it seeks; the compositor waits for it before touching the next
// element.
type VideoRenderer struct {
	sources map[string]*videoSource
}

type videoSource struct {
	fps        float64
	durationMs float64
	lastIndex  int64
	lastFrame  image.Image
}

func (r *VideoRenderer) Render(ctx context.Context, el *timeline.Element, tMs float64, s *Surface) error {
	src, ok := r.sources[el.ID]
	if !ok {
		fps, err := ffmpeg.FrameRate(el.SourcePath)
		if err != nil {
			return &AssetError{ElementID: el.ID, Path: el.SourcePath, Err: err}
		}
		durSec, err := ffmpeg.Duration(el.SourcePath)
		if err != nil {
			return &AssetError{ElementID: el.ID, Path: el.SourcePath, Err: err}
		}
		src = &videoSource{fps: fps, durationMs: durSec * 1000, lastIndex: -1}
		if r.sources == nil {
			r.sources = make(map[string]*videoSource)
		}
		r.sources[el.ID] = src
	}

	idx := src.frameIndexAt(el.SourceTimeMs(tMs))
	if src.lastFrame == nil || idx != src.lastIndex {
		// back off 1ms from the frame instant so the seek lands on the
		// frame itself instead of rounding up to the next one
		atSec := (float64(idx)/src.fps*1000.0 - 1.0) / 1000.0
		img, err := ffmpeg.ExtractFrame(ctx, el.SourcePath, atSec)
		if err != nil {
			return &AssetError{ElementID: el.ID, Path: el.SourcePath, Err: err}
		}
		src.lastFrame = img
		src.lastIndex = idx
	}

	drawImageElement(s.Context(), el, src.lastFrame)
	return nil
}

// frameIndexAt maps a source-local time to a decodable frame index. At
// 60 fps out and e.g. 30 fps in, consecutive output frames mostly reuse
// the cached decode. Times past the probed duration clamp to the final
// frame instead of seeking beyond EOF, which would decode nothing.
func (v *videoSource) frameIndexAt(srcMs float64) int64 {
	if srcMs < 0 {
		srcMs = 0
	}
	idx := int64(math.Floor(srcMs * v.fps / 1000.0))
	if v.durationMs > 0 {
		if last := int64(math.Ceil(v.durationMs*v.fps/1000.0)) - 1; idx > last {
			idx = last
		}
	}
	return idx
}
