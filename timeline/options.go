package timeline

import "fmt"

// FrameRate is the fixed output frame rate in frames per second.
const FrameRate = 60

// FrameSize is the output raster size in pixels.
type FrameSize struct {
	W int `json:"width"`
	H int `json:"height"`
}

// RenderOptions configures one export.
type RenderOptions struct {
	TotalDuration   int64     `json:"totalDuration"` // ms
	DestinationPath string    `json:"destinationPath"`
	Bitrate         string    `json:"bitrate,omitempty"` // e.g. "8000k", passed to the encoder
	FrameSize       FrameSize `json:"frameSize"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
}

func (o *RenderOptions) Validate() error {
	if o.TotalDuration <= 0 {
		return fmt.Errorf("total duration must be positive")
	}
	if o.DestinationPath == "" {
		return fmt.Errorf("destination path is required")
	}
	if o.FrameSize.W <= 0 || o.FrameSize.H <= 0 {
		return fmt.Errorf("frame size must be positive, got %dx%d", o.FrameSize.W, o.FrameSize.H)
	}
	return nil
}

// TotalFrames returns how many output frames cover totalDurationMs,
// ceil(totalDuration * FrameRate / 1000).
func TotalFrames(totalDurationMs int64) int {
	if totalDurationMs <= 0 {
		return 0
	}
	return int((totalDurationMs*FrameRate + 999) / 1000)
}

// FrameTimestampMs returns the timeline time of frame i in milliseconds.
func FrameTimestampMs(i int) float64 {
	return float64(i) * 1000.0 / FrameRate
}
