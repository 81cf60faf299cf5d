package timeline

import (
	"encoding/json"
	"fmt"
)

// Kind names one of the closed set of element types.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
	KindGif   Kind = "gif"
	KindText  Kind = "text"
	KindShape Kind = "shape"
)

// Trim bounds playback to a source-relative window, in milliseconds.
type Trim struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Placement positions an element on the timeline, in milliseconds.
type Placement struct {
	Start    int64 `json:"start"`
	Duration int64 `json:"duration"`
}

// Element is one placed, timed unit contributing to the output video.
// Visual attributes apply to image/video/gif/text/shape; audio elements
// carry sound only.
type Element struct {
	ID         string    `json:"id,omitempty"`
	Kind       Kind      `json:"kind"`
	SourcePath string    `json:"sourcePath,omitempty"`
	Trim       Trim      `json:"trim"`
	Placement  Placement `json:"placement"`
	Speed      float64   `json:"speed,omitempty"`
	Priority   int       `json:"priority"`

	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"` // degrees, clockwise
	Opacity  float64 `json:"opacity,omitempty"`  // 0..1

	// text
	Text       string  `json:"text,omitempty"`
	Font       string  `json:"font,omitempty"` // font file, empty for default
	FontSize   float64 `json:"fontSize,omitempty"`
	Color      string  `json:"color,omitempty"`
	Background string  `json:"background,omitempty"`

	// shape
	Shape string `json:"shape,omitempty"` // "rectangle", "ellipse", "triangle"
	Fill  string `json:"fill,omitempty"`

	// gif
	Loop bool `json:"loop"`
}

// UnmarshalJSON applies defaults for fields whose zero value is not the
// default (speed 1, opacity 1, loop on).
func (e *Element) UnmarshalJSON(data []byte) error {
	type alias Element
	a := alias{Speed: 1, Opacity: 1, Loop: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Element(a)
	return nil
}

// AudioBearing reports whether the element contributes an audio stream.
func (e *Element) AudioBearing() bool {
	return e.Kind == KindVideo || e.Kind == KindAudio
}

// ActiveAt reports whether the element is visible/audible at timeline time
// tMs. The window is half-open: active on [start, start+duration).
func (e *Element) ActiveAt(tMs float64) bool {
	start := float64(e.Placement.Start)
	return tMs >= start && tMs < start+float64(e.Placement.Duration)
}

// EffectiveSpeed returns the playback rate, treating unset as 1.
func (e *Element) EffectiveSpeed() float64 {
	if e.Speed > 0 {
		return e.Speed
	}
	return 1
}

// SourceTimeMs maps timeline time tMs into the element's source, honoring
// placement offset, playback speed and the trim window start.
func (e *Element) SourceTimeMs(tMs float64) float64 {
	return (tMs-float64(e.Placement.Start))*e.EffectiveSpeed() + float64(e.Trim.Start)
}

// usesSourceClock reports whether trim/speed select a window of source time.
func (e *Element) usesSourceClock() bool {
	switch e.Kind {
	case KindVideo, KindAudio, KindGif:
		return true
	}
	return false
}

// Validate checks the element invariants.
func (e *Element) Validate() error {
	switch e.Kind {
	case KindVideo, KindAudio, KindImage, KindGif, KindText, KindShape:
	default:
		return fmt.Errorf("element %s: unknown kind %q", e.ID, e.Kind)
	}
	if e.Placement.Duration <= 0 {
		return fmt.Errorf("element %s: placement duration must be positive", e.ID)
	}
	if e.Placement.Start < 0 {
		return fmt.Errorf("element %s: placement start must not be negative", e.ID)
	}
	if e.Speed <= 0 {
		return fmt.Errorf("element %s: speed must be positive", e.ID)
	}
	switch e.Kind {
	case KindVideo, KindAudio, KindImage, KindGif:
		if e.SourcePath == "" {
			return fmt.Errorf("element %s: %s requires a source path", e.ID, e.Kind)
		}
	}
	if e.usesSourceClock() && e.Trim.End <= e.Trim.Start {
		return fmt.Errorf("element %s: trim end must be after trim start", e.ID)
	}
	return nil
}
