package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"quartz-render/jobs"
)

// JobGet returns the persisted state of one job.
func JobGet(c echo.Context) error {
	rec, err := jobs.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "no such job",
		})
	}
	return c.JSON(http.StatusOK, rec)
}

// JobCancel requests cancellation of a running job. Cancellation is
// cooperative; 202 means the job will stop at the next frame boundary.
func JobCancel(c echo.Context) error {
	id := c.Param("id")
	if registry.Cancel(id) {
		return c.JSON(http.StatusAccepted, map[string]string{
			"status": "cancelling",
		})
	}

	rec, err := jobs.Get(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "no such job",
		})
	}
	return c.JSON(http.StatusConflict, map[string]string{
		"error": fmt.Sprintf("job is already %s", rec.Status),
	})
}
