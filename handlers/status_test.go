package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestStatusGet(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := StatusGet(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	// version strings may be empty when the binaries are absent, but the
	// report always carries both tools
	for _, key := range []string{
		"gitSHA", "buildDate", "ffmpeg", "ffprobe",
		"activeJobs", "activeIds", "freeMiB", "usedMiB",
	} {
		if _, ok := body[key]; !ok {
			t.Errorf("status report missing %q", key)
		}
	}
	if got, ok := body["activeJobs"].(float64); !ok || got != 0 {
		t.Errorf("activeJobs = %v, want 0", body["activeJobs"])
	}
}
