package encoder

import (
	"fmt"
	"strings"
)

// SpawnError means the encoder binary never started, usually a missing
// executable or an unwritable destination directory.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn encoder: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// StreamWriteError means a frame could not be handed to the encoder's
// input pipe, either because the pipe broke or because the write happened
// outside the streaming state.
type StreamWriteError struct {
	Err error
}

func (e *StreamWriteError) Error() string {
	return fmt.Sprintf("write frame to encoder: %v", e.Err)
}

func (e *StreamWriteError) Unwrap() error {
	return e.Err
}

// EncodingError means the encoder process exited with a non-zero code.
// Stderr holds the full captured diagnostic output.
type EncodingError struct {
	ExitCode int
	Stderr   string
}

func (e *EncodingError) Error() string {
	msg := fmt.Sprintf("encoder exited with code %d", e.ExitCode)
	if tail := lastLines(e.Stderr, 3); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// lastLines returns up to n trailing non-empty lines of s joined with a
// separator, which is where ffmpeg puts its actual complaint.
func lastLines(s string, n int) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimSpace(line))
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, " | ")
}
