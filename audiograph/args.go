package audiograph

import (
	"strconv"

	"quartz-render/timeline"
)

// EncoderArgs assembles the full encoder argument list. Order matters:
// the raster pipe input first, then the audio file inputs, then the filter
// graph, the stream maps, and finally output settings and destination.
func (g Graph) EncoderArgs(opts timeline.RenderOptions) []string {
	args := []string{
		"-y",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-framerate", strconv.Itoa(timeline.FrameRate),
		"-i", "-",
	}
	args = append(args, g.InputArgs...)
	args = append(args, "-filter_complex", g.Filter)
	args = append(args, "-map", g.VideoOut, "-map", g.AudioOut)
	args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p", "-c:a", "aac")
	if opts.Bitrate != "" {
		args = append(args, "-b:v", opts.Bitrate)
	}
	args = append(args,
		"-t", formatSeconds(float64(opts.TotalDuration)/1000.0),
		opts.DestinationPath,
	)
	return args
}
