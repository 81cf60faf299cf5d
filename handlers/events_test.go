package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"quartz-render/jobs"
)

// sseWriter hands every write to the test over a channel so the stream
// can be observed without racing the handler goroutine.
type sseWriter struct {
	header http.Header
	writes chan []byte
}

func newSSEWriter() *sseWriter {
	return &sseWriter{
		header: make(http.Header),
		writes: make(chan []byte, 16),
	}
}

func (w *sseWriter) Header() http.Header {
	return w.header
}

func (w *sseWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	w.writes <- buf
	return len(p), nil
}

func (w *sseWriter) WriteHeader(code int) {}

func (w *sseWriter) Flush() {}

func waitForSubscribers(t *testing.T, jobID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for jobs.SubscriberCount(jobID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count never reached %d", want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestJobEvents(t *testing.T) {
	const jobID = "events-test-job"

	e := echo.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID+"/events", nil).WithContext(ctx)
	w := newSSEWriter()
	c := e.NewContext(req, w)
	c.SetParamNames("id")
	c.SetParamValues(jobID)

	errc := make(chan error, 1)
	go func() {
		errc <- JobEvents(c)
	}()

	waitForSubscribers(t, jobID, 1)
	jobs.Publish(jobs.Event{
		JobID:        jobID,
		Status:       jobs.StatusRendering,
		CurrentFrame: 42,
		TotalFrames:  300,
	})

	var payload string
	select {
	case p := <-w.writes:
		payload = string(p)
	case <-time.After(2 * time.Second):
		t.Fatal("no event was streamed")
	}
	if !strings.HasPrefix(payload, "data: ") || !strings.HasSuffix(payload, "\n\n") {
		t.Errorf("payload not framed as SSE: %q", payload)
	}
	if !strings.Contains(payload, `"currentFrame":42`) {
		t.Errorf("payload missing progress: %q", payload)
	}
	if !strings.Contains(payload, `"status":"rendering"`) {
		t.Errorf("payload missing status: %q", payload)
	}

	if got := c.Response().Header().Get(echo.HeaderContentType); got != "text/event-stream" {
		t.Errorf("content type = %q", got)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("handler returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not stop on disconnect")
	}
	waitForSubscribers(t, jobID, 0)
}

func TestJobEventsEndsAfterTerminal(t *testing.T) {
	const jobID = "events-terminal-job"

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID+"/events", nil)
	w := newSSEWriter()
	c := e.NewContext(req, w)
	c.SetParamNames("id")
	c.SetParamValues(jobID)

	errc := make(chan error, 1)
	go func() {
		errc <- JobEvents(c)
	}()

	waitForSubscribers(t, jobID, 1)
	jobs.Publish(jobs.Event{
		JobID:        jobID,
		Status:       jobs.StatusCompleted,
		CurrentFrame: 300,
		TotalFrames:  300,
	})

	var payload string
	select {
	case p := <-w.writes:
		payload = string(p)
	case <-time.After(2 * time.Second):
		t.Fatal("terminal event was not streamed")
	}
	if !strings.Contains(payload, `"status":"completed"`) {
		t.Errorf("payload missing terminal status: %q", payload)
	}

	// no disconnect needed: the outcome closes the stream
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("handler returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler kept streaming after the terminal beat")
	}
	waitForSubscribers(t, jobID, 0)
}
