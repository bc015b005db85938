// internal/core/ports/job_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendly/vendpos-be/internal/core/domain"
)

// JobRepository persists background job records so their status can be
// polled while asynq works through the queue.
type JobRepository interface {
	Create(ctx context.Context, job *domain.AsyncJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.AsyncJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, resultURL, errorMessage string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
