package render

import (
	"bytes"
	"context"

	"quartz-render/timeline"
)

// Compositor renders output frames from a priority-ordered element
// snapshot. One compositor serves one job; its renderers cache decoded
// sources across the job's frames.
type Compositor struct {
	opts      timeline.RenderOptions
	elements  []timeline.Element
	renderers map[timeline.Kind]Renderer
	buf       bytes.Buffer
}

// NewCompositor snapshots elements (ascending priority, stable ties) and
// builds the renderer table.
func NewCompositor(opts timeline.RenderOptions, elements []timeline.Element) *Compositor {
	return &Compositor{
		opts:      opts,
		elements:  timeline.Snapshot(elements),
		renderers: Renderers(),
	}
}

// TotalFrames returns the output frame count for the job's duration.
func (c *Compositor) TotalFrames() int {
	return timeline.TotalFrames(c.opts.TotalDuration)
}

// RenderFrame composites frame i and returns its PNG bytes. Frames must be
// produced in order and the returned slice is reused by the next call, so
// the caller hands it off before asking for frame i+1.
func (c *Compositor) RenderFrame(ctx context.Context, i int) ([]byte, error) {
	t := timeline.FrameTimestampMs(i)
	s := NewSurface(c.opts.FrameSize.W, c.opts.FrameSize.H, c.opts.BackgroundColor)
	for idx := range c.elements {
		el := &c.elements[idx]
		if !el.ActiveAt(t) {
			continue
		}
		renderer, ok := c.renderers[el.Kind]
		if !ok {
			// audio contributes no pixels
			continue
		}
		if err := renderer.Render(ctx, el, t, s); err != nil {
			return nil, err
		}
	}
	c.buf.Reset()
	if err := s.EncodePNG(&c.buf); err != nil {
		return nil, err
	}
	return c.buf.Bytes(), nil
}
