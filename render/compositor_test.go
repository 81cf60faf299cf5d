package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"quartz-render/ffmpeg"
	"quartz-render/timeline"
)

func TestMain(m *testing.M) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	Init(logger)
	ffmpeg.Init(logger)
	os.Exit(m.Run())
}

func decodeFrame(t *testing.T, frame []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(frame))
	if err != nil {
		t.Fatalf("frame does not decode: %v", err)
	}
	return img
}

func rgbAt(img image.Image, x, y int) (uint32, uint32, uint32) {
	r, g, b, _ := img.At(x, y).RGBA()
	return r >> 8, g >> 8, b >> 8
}

func shapeElement(id string, priority int, fill string) timeline.Element {
	return timeline.Element{
		ID:        id,
		Kind:      timeline.KindShape,
		Placement: timeline.Placement{Start: 0, Duration: 5000},
		Priority:  priority,
		X:         0, Y: 0, Width: 32, Height: 32,
		Opacity: 1,
		Fill:    fill,
	}
}

func TestCompositorTotalFrames(t *testing.T) {
	c := NewCompositor(timeline.RenderOptions{
		TotalDuration: 5000,
		FrameSize:     timeline.FrameSize{W: 32, H: 32},
	}, nil)
	if got := c.TotalFrames(); got != 300 {
		t.Errorf("TotalFrames = %d, want 300", got)
	}
}

func TestCompositorBackgroundOnly(t *testing.T) {
	c := NewCompositor(timeline.RenderOptions{
		TotalDuration:   1000,
		FrameSize:       timeline.FrameSize{W: 16, H: 16},
		BackgroundColor: "#102030",
	}, nil)
	frame, err := c.RenderFrame(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	img := decodeFrame(t, frame)
	r, g, b := rgbAt(img, 8, 8)
	if r != 0x10 || g != 0x20 || b != 0x30 {
		t.Errorf("background = %x %x %x, want 10 20 30", r, g, b)
	}
}

func TestCompositorDrawOrderByPriority(t *testing.T) {
	red := shapeElement("red", 2, "#ff0000")
	blue := shapeElement("blue", 1, "#0000ff")
	opts := timeline.RenderOptions{
		TotalDuration: 1000,
		FrameSize:     timeline.FrameSize{W: 32, H: 32},
	}

	// red has the higher priority so it draws last, on top
	for _, order := range [][]timeline.Element{
		{red, blue},
		{blue, red},
	} {
		c := NewCompositor(opts, order)
		frame, err := c.RenderFrame(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		r, g, b := rgbAt(decodeFrame(t, frame), 16, 16)
		if r != 0xff || g != 0 || b != 0 {
			t.Errorf("top pixel = %x %x %x, want red regardless of input order", r, g, b)
		}
	}
}

func TestCompositorHalfOpenActivity(t *testing.T) {
	el := shapeElement("s", 0, "#ffffff")
	el.Placement = timeline.Placement{Start: 1000, Duration: 500}
	c := NewCompositor(timeline.RenderOptions{
		TotalDuration:   2000,
		FrameSize:       timeline.FrameSize{W: 8, H: 8},
		BackgroundColor: "#000000",
	}, []timeline.Element{el})

	probe := func(frameIndex int) bool {
		frame, err := c.RenderFrame(context.Background(), frameIndex)
		if err != nil {
			t.Fatal(err)
		}
		r, _, _ := rgbAt(decodeFrame(t, frame), 4, 4)
		return r == 0xff
	}

	if probe(59) { // t = 983.3ms
		t.Error("element drawn before its placement start")
	}
	if !probe(60) { // t = 1000ms, inclusive edge
		t.Error("element missing at its placement start")
	}
	if !probe(89) { // t = 1483.3ms
		t.Error("element missing inside its window")
	}
	if probe(90) { // t = 1500ms, exclusive edge
		t.Error("element drawn at placement end")
	}
}

func TestCompositorSkipsAudio(t *testing.T) {
	c := NewCompositor(timeline.RenderOptions{
		TotalDuration:   1000,
		FrameSize:       timeline.FrameSize{W: 8, H: 8},
		BackgroundColor: "#000000",
	}, []timeline.Element{{
		ID: "a", Kind: timeline.KindAudio, SourcePath: "missing.mp3",
		Trim:      timeline.Trim{End: 1000},
		Placement: timeline.Placement{Start: 0, Duration: 1000},
	}})
	if _, err := c.RenderFrame(context.Background(), 0); err != nil {
		t.Fatalf("audio element should not render: %v", err)
	}
}

func TestCompositorAssetError(t *testing.T) {
	c := NewCompositor(timeline.RenderOptions{
		TotalDuration: 1000,
		FrameSize:     timeline.FrameSize{W: 8, H: 8},
	}, []timeline.Element{{
		ID: "img1", Kind: timeline.KindImage,
		SourcePath: "/nonexistent/missing.png",
		Placement:  timeline.Placement{Start: 0, Duration: 1000},
		Opacity:    1,
	}})
	_, err := c.RenderFrame(context.Background(), 0)
	var assetErr *AssetError
	if !errors.As(err, &assetErr) {
		t.Fatalf("err = %v, want AssetError", err)
	}
	if assetErr.ElementID != "img1" {
		t.Errorf("ElementID = %q, want img1", assetErr.ElementID)
	}
}

func TestCompositorImageScenario(t *testing.T) {
	// one image spanning the whole 5s timeline renders into all 300 frames
	path := writeTestPNG(t, 0xff, 0x00, 0x00)
	c := NewCompositor(timeline.RenderOptions{
		TotalDuration:   5000,
		FrameSize:       timeline.FrameSize{W: 16, H: 16},
		BackgroundColor: "#000000",
	}, []timeline.Element{{
		ID: "i", Kind: timeline.KindImage, SourcePath: path,
		Placement: timeline.Placement{Start: 0, Duration: 5000},
		Width:     16, Height: 16,
		Opacity: 1,
	}})

	if got := c.TotalFrames(); got != 300 {
		t.Fatalf("TotalFrames = %d, want 300", got)
	}
	for _, i := range []int{0, 150, 299} {
		frame, err := c.RenderFrame(context.Background(), i)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		r, g, b := rgbAt(decodeFrame(t, frame), 8, 8)
		if r != 0xff || g != 0 || b != 0 {
			t.Errorf("frame %d pixel = %x %x %x, want red", i, r, g, b)
		}
	}
}
