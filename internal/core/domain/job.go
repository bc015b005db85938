// internal/core/domain/job.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus tracks the lifecycle of a background job.
type JobStatus string

// Job status constants
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job type constants identify what a background job does.
const (
	JobTypeItemImport   = "item_import"
	JobTypeReportExport = "report_export"
)

// AsyncJob represents a background job tracked in the database so
// clients can poll its status after the initial 202 response.
type AsyncJob struct {
	ID           uuid.UUID `json:"id" db:"id"`
	JobType      string    `json:"job_type" db:"job_type"`
	Status       JobStatus `json:"status" db:"status"`
	ResultURL    string    `json:"result_url,omitempty" db:"result_url"`
	ErrorMessage string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewAsyncJob returns a pending job of the given type with a fresh ID.
func NewAsyncJob(jobType string) *AsyncJob {
	now := time.Now()
	return &AsyncJob{
		ID:        uuid.New(),
		JobType:   jobType,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
