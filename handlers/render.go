package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"quartz-render/timeline"
)

type renderRequest struct {
	Options  timeline.RenderOptions `json:"options"`
	Timeline json.RawMessage        `json:"timeline"`
}

// RenderPost accepts a timeline and render options, persists a job, and
// kicks off the export in the background. The response carries the job
// id for polling and the event stream.
func RenderPost(c echo.Context) error {
	var req renderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}

	elements, err := timeline.ParseTimeline(req.Timeline)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}
	if err := req.Options.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}
	if err := timeline.ValidateAll(elements); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	id, err := registry.Submit(req.Options, elements)
	if err != nil {
		log.Errorln(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "could not create job",
		})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"jobId": id,
	})
}
