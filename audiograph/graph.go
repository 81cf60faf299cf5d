// Package audiograph derives the encoder's audio filter graph from a
// timeline snapshot: one trimmed file input per audio-bearing element, an
// adelay stage aligning each to its placement, and a mix/resample tail
// producing a single named stereo output.
package audiograph

import (
	"fmt"
	"strings"

	"quartz-render/timeline"
)

// TrackDescriptor ties one audio-bearing element to its encoder input slot.
type TrackDescriptor struct {
	SourceIndex int    // position among the encoder's file inputs
	DelayMs     int64  // placement start
	Label       string // graph-internal stream name
}

// Graph is a deterministic description of the encoder's filter wiring.
// Building it twice from the same snapshot yields identical strings.
type Graph struct {
	InputArgs []string // -ss/-t/-i triples, one per audio-bearing element
	Filter    string   // semicolon-joined filter stages
	VideoOut  string   // mapped name of the composited stream
	AudioOut  string   // mapped name of the mixed audio
	Tracks    []TrackDescriptor
}

// Options controls graph construction.
type Options struct {
	TotalDurationMs int64
	// ScaleTrimBySpeed divides each clip's captured window by its playback
	// speed. Off reproduces the historical output, where only the seek
	// offset was speed-scaled.
	ScaleTrimBySpeed bool
}

// Build walks elements in snapshot order and derives the audio graph.
// The raster pipe is encoder input 0, so file inputs start at 1.
func Build(elements []timeline.Element, opts Options) Graph {
	var g Graph
	var stages []string
	var labels []string

	for i := range elements {
		el := &elements[i]
		if !el.AudioBearing() {
			continue
		}
		idx := len(g.Tracks)
		speed := el.EffectiveSpeed()
		seek := float64(el.Trim.Start) / 1000.0 * speed
		length := float64(el.Trim.End-el.Trim.Start) / 1000.0
		if opts.ScaleTrimBySpeed {
			length /= speed
		}
		g.InputArgs = append(g.InputArgs,
			"-ss", formatSeconds(seek),
			"-t", formatSeconds(length),
			"-i", el.SourcePath,
		)

		label := fmt.Sprintf("a%d", idx)
		delay := el.Placement.Start
		stages = append(stages,
			fmt.Sprintf("[%d:a]adelay=%d|%d[%s]", idx+1, delay, delay, label))
		labels = append(labels, label)
		g.Tracks = append(g.Tracks, TrackDescriptor{
			SourceIndex: idx,
			DelayMs:     delay,
			Label:       label,
		})
	}

	if len(labels) == 0 {
		// no audio anywhere: synthesize silence spanning the whole export
		stages = append(stages,
			fmt.Sprintf("anullsrc=r=44100:cl=stereo:d=%s[a0]",
				formatSeconds(float64(opts.TotalDurationMs)/1000.0)))
		labels = append(labels, "a0")
	}

	if len(labels) == 1 {
		// a lone source skips the mixer so its gain is never normalized
		stages = append(stages, fmt.Sprintf("[%s]aresample=44100[aout]", labels[0]))
	} else {
		var mix strings.Builder
		for _, label := range labels {
			fmt.Fprintf(&mix, "[%s]", label)
		}
		fmt.Fprintf(&mix, "amix=inputs=%d:duration=longest[aout]", len(labels))
		stages = append(stages, mix.String())
	}

	// identity stage so the piped frames can be named and mapped
	stages = append(stages, "[0:v]null[vout]")

	g.Filter = strings.Join(stages, ";")
	g.VideoOut = "[vout]"
	g.AudioOut = "[aout]"
	return g
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
