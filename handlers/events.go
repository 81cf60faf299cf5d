package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/labstack/echo/v4"

	"quartz-render/jobs"
)

// JobEvents streams a job's progress beats as server-sent events. The
// stream ends when the client disconnects or the job reaches a terminal
// status.
func JobEvents(c echo.Context) error {
	jobID := c.Param("id")
	req := c.Request()
	res := c.Response()

	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")

	done := req.Context().Done()

	q := jobs.Subscribe(jobID)
	defer jobs.Unsubscribe(jobID, q)

	for {
		select {
		case <-done:
			return nil
		case event := <-q.Ch:
			jsonData, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", jsonData); err != nil {
				return err
			}
			res.Flush()
			if event.Status.Terminal() {
				return nil
			}
		}
	}
}
