package jobs

import (
	"quartz-render/database"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether a job in this status will never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Record is the persisted state of one export job. JobID is the public
// identifier handed to clients; the gorm primary key stays internal.
type Record struct {
	gorm.Model
	JobID        string `gorm:"uniqueIndex" json:"jobId"`
	Destination  string `json:"destination"`
	Status       Status `json:"status"`
	CurrentFrame int    `json:"currentFrame"`
	TotalFrames  int    `json:"totalFrames"`
	Error        string `json:"error"`
}

func Create(jobID, destination string, totalFrames int) error {
	db := database.Get()
	rec := Record{
		JobID:       jobID,
		Destination: destination,
		Status:      StatusPending,
		TotalFrames: totalFrames,
	}
	return db.Create(&rec).Error
}

func Get(jobID string) (Record, error) {
	db := database.Get()
	var rec Record
	err := db.First(&rec, "job_id = ?", jobID).Error
	return rec, err
}

func SetStatus(jobID string, status Status) error {
	db := database.Get()
	log.Debugln("job", jobID, "status ->", status)
	return db.Model(&Record{}).Where("job_id = ?", jobID).Update("status", status).Error
}

func SetProgress(jobID string, current, total int) error {
	db := database.Get()
	return db.Model(&Record{}).Where("job_id = ?", jobID).Updates(map[string]interface{}{
		"current_frame": current,
		"total_frames":  total,
	}).Error
}

func Fail(jobID string, reason string) error {
	db := database.Get()
	log.Debugln("job", jobID, "failed:", reason)
	return db.Model(&Record{}).Where("job_id = ?", jobID).Updates(map[string]interface{}{
		"status": StatusFailed,
		"error":  reason,
	}).Error
}

// SweepStale fails any job a previous process life left unfinished.
// Runs at startup, when no job can legitimately be pending or rendering.
func SweepStale() error {
	db := database.Get()
	res := db.Model(&Record{}).
		Where("status IN ?", []Status{StatusPending, StatusRendering}).
		Updates(map[string]interface{}{
			"status": StatusFailed,
			"error":  "interrupted by service restart",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Infoln("swept", res.RowsAffected, "stale jobs")
	}
	return nil
}
