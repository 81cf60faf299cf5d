package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"

	"quartz-render/config"
)

// ExtractFrame decodes the frame of src nearest to atSec. It blocks while
// the decoder seeks, so it honors ctx for cancellation.
func ExtractFrame(ctx context.Context, src string, atSec float64) (image.Image, error) {
	if atSec < 0 {
		atSec = 0
	}
	bin := config.GetFfmpegPath()
	args := []string{
		"-v", "error",
		"-ss", fmt.Sprintf("%.6f", atSec),
		"-i", src,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	}
	log.Debugln(bin, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		log.Errorf("frame extraction error: %v", err)
		log.Errorln("stderr:", stderr.String())
		return nil, fmt.Errorf("extract frame at %.3fs from %s: %w", atSec, src, err)
	}
	if stdout.Len() == 0 {
		// seeking past the end produces no output and a zero exit
		return nil, fmt.Errorf("no frame at %.3fs in %s", atSec, src)
	}
	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode frame from %s: %w", src, err)
	}
	return img, nil
}
