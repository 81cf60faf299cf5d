package ffmpeg

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"quartz-render/config"
)

// runs ffprobe with the provided args and returns (stdout, stderr, error)
func Ffprobe(args ...string) ([]byte, []byte, error) {
	bin := config.GetFfprobePath()
	log.Infoln(bin, strings.Join(args, " "))
	cmd := exec.Command(bin, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if err != nil {
		log.Errorf("ffprobe error: %v", err)
		log.Errorln("stderr:", stderr.String())
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// ProbeVersion returns the first line of `ffprobe -version`.
func ProbeVersion() (string, error) {
	stdout, _, err := Ffprobe("-version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(stdout), "\n")
	return strings.TrimSpace(line), nil
}

// Duration returns the container duration of path in seconds.
func Duration(path string) (float64, error) {
	stdout, _, err := Ffprobe("-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(string(stdout)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration of %s: %w", path, err)
	}
	return value, nil
}

// FrameRate returns the frame rate of path's first video stream.
func FrameRate(path string) (float64, error) {
	stdout, _, err := Ffprobe("-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-of", "csv=p=0",
		path)
	if err != nil {
		return 0, err
	}
	fps, err := parseRational(strings.TrimSpace(string(stdout)))
	if err != nil {
		return 0, fmt.Errorf("parse frame rate of %s: %w", path, err)
	}
	return fps, nil
}

// parseRational converts ffprobe rate strings like "30000/1001" or "25"
// to a float.
func parseRational(s string) (float64, error) {
	num, denom, found := strings.Cut(s, "/")
	if !found {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(denom, 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("zero denominator in %q", s)
	}
	return n / d, nil
}
