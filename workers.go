package main

import (
	"time"

	"quartz-render/database"
	"quartz-render/jobs"
)

// maintenanceWorker fails jobs orphaned by an unclean shutdown, then
// compacts the database on a slow cadence.
func maintenanceWorker() {

	if err := jobs.SweepStale(); err != nil {
		log.Errorf("sweep stale jobs: %v", err)
	}

	ticker := time.NewTicker(time.Hour)
	for range ticker.C {
		if err := database.Vacuum(); err != nil {
			log.Errorf("vacuum: %v", err)
		}
	}
}
