package audiograph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"quartz-render/timeline"
)

func TestBuildSilentTimeline(t *testing.T) {
	g := Build(nil, Options{TotalDurationMs: 5000})

	require.Empty(t, g.InputArgs)
	require.Empty(t, g.Tracks)
	require.Equal(t,
		"anullsrc=r=44100:cl=stereo:d=5.000000[a0];"+
			"[a0]aresample=44100[aout];"+
			"[0:v]null[vout]",
		g.Filter)
	require.Equal(t, "[vout]", g.VideoOut)
	require.Equal(t, "[aout]", g.AudioOut)
}

func TestBuildIgnoresNonAudioKinds(t *testing.T) {
	elements := []timeline.Element{
		{ID: "i", Kind: timeline.KindImage, SourcePath: "a.png", Placement: timeline.Placement{Duration: 1000}},
		{ID: "t", Kind: timeline.KindText, Placement: timeline.Placement{Duration: 1000}},
		{ID: "s", Kind: timeline.KindShape, Placement: timeline.Placement{Duration: 1000}},
		{ID: "g", Kind: timeline.KindGif, SourcePath: "a.gif", Placement: timeline.Placement{Duration: 1000}},
	}
	g := Build(elements, Options{TotalDurationMs: 1000})
	require.Empty(t, g.Tracks)
	require.Contains(t, g.Filter, "anullsrc")
}

func TestBuildSingleSourceUsesResample(t *testing.T) {
	elements := []timeline.Element{{
		ID:         "v1",
		Kind:       timeline.KindVideo,
		SourcePath: "clip.mp4",
		Trim:       timeline.Trim{Start: 0, End: 3000},
		Placement:  timeline.Placement{Start: 0, Duration: 3000},
		Speed:      1,
	}}
	g := Build(elements, Options{TotalDurationMs: 3000})

	require.Equal(t, []string{"-ss", "0.000000", "-t", "3.000000", "-i", "clip.mp4"}, g.InputArgs)
	require.Equal(t,
		"[1:a]adelay=0|0[a0];"+
			"[a0]aresample=44100[aout];"+
			"[0:v]null[vout]",
		g.Filter)
	require.NotContains(t, g.Filter, "amix")
	require.Len(t, g.Tracks, 1)
	require.Equal(t, TrackDescriptor{SourceIndex: 0, DelayMs: 0, Label: "a0"}, g.Tracks[0])
}

func TestBuildTwoSourcesMix(t *testing.T) {
	elements := []timeline.Element{
		{
			ID: "v1", Kind: timeline.KindVideo, SourcePath: "a.mp4",
			Trim:      timeline.Trim{Start: 0, End: 4000},
			Placement: timeline.Placement{Start: 0, Duration: 4000},
			Speed:     1,
		},
		{
			ID: "m1", Kind: timeline.KindAudio, SourcePath: "music.mp3",
			Trim:      timeline.Trim{Start: 0, End: 2000},
			Placement: timeline.Placement{Start: 2000, Duration: 2000},
			Speed:     1,
		},
	}
	g := Build(elements, Options{TotalDurationMs: 4000})

	require.Equal(t,
		"[1:a]adelay=0|0[a0];"+
			"[2:a]adelay=2000|2000[a1];"+
			"[a0][a1]amix=inputs=2:duration=longest[aout];"+
			"[0:v]null[vout]",
		g.Filter)
	require.Len(t, g.Tracks, 2)
	require.Equal(t, int64(0), g.Tracks[0].DelayMs)
	require.Equal(t, int64(2000), g.Tracks[1].DelayMs)
	require.Equal(t, 1, g.Tracks[1].SourceIndex)
}

func TestBuildDeterministic(t *testing.T) {
	elements := []timeline.Element{
		{ID: "a", Kind: timeline.KindAudio, SourcePath: "x.mp3",
			Trim: timeline.Trim{Start: 100, End: 900}, Placement: timeline.Placement{Start: 50, Duration: 800}, Speed: 1},
		{ID: "b", Kind: timeline.KindVideo, SourcePath: "y.mp4",
			Trim: timeline.Trim{Start: 0, End: 5000}, Placement: timeline.Placement{Start: 0, Duration: 5000}, Speed: 1.5},
	}
	opts := Options{TotalDurationMs: 6000}
	first := Build(elements, opts)
	second := Build(elements, opts)
	require.Equal(t, first, second)
}

func TestBuildSeekScaledBySpeed(t *testing.T) {
	elements := []timeline.Element{{
		ID: "v", Kind: timeline.KindVideo, SourcePath: "c.mp4",
		Trim:      timeline.Trim{Start: 2000, End: 6000},
		Placement: timeline.Placement{Start: 0, Duration: 2000},
		Speed:     2,
	}}

	g := Build(elements, Options{TotalDurationMs: 2000})
	// seek = 2000/1000 * 2, length = (6000-2000)/1000 left unscaled
	require.Equal(t, []string{"-ss", "4.000000", "-t", "4.000000", "-i", "c.mp4"}, g.InputArgs)

	scaled := Build(elements, Options{TotalDurationMs: 2000, ScaleTrimBySpeed: true})
	require.Equal(t, []string{"-ss", "4.000000", "-t", "2.000000", "-i", "c.mp4"}, scaled.InputArgs)
}

func TestBuildInputOrderFollowsSnapshot(t *testing.T) {
	elements := []timeline.Element{
		{ID: "late", Kind: timeline.KindAudio, SourcePath: "late.mp3",
			Trim: timeline.Trim{End: 1000}, Placement: timeline.Placement{Start: 500, Duration: 1000}, Speed: 1},
		{ID: "early", Kind: timeline.KindAudio, SourcePath: "early.mp3",
			Trim: timeline.Trim{End: 1000}, Placement: timeline.Placement{Start: 0, Duration: 1000}, Speed: 1},
	}
	g := Build(elements, Options{TotalDurationMs: 2000})
	// inputs keep list order, they are never re-sorted by start time
	require.Equal(t, "late.mp3", g.InputArgs[5])
	require.Equal(t, "early.mp3", g.InputArgs[11])
	require.True(t, strings.HasPrefix(g.Filter, "[1:a]adelay=500|500[a0]"))
}
