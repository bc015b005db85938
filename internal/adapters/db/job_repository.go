// internal/adapters/db/job_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

// JobRepository implements ports.JobRepository on PostgreSQL.
type JobRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new job repository.
func NewJobRepository(database *Database, logger *slog.Logger) *JobRepository {
	return &JobRepository{
		db:     database,
		logger: logger.With(slog.String("repository", "job")),
	}
}

// Create inserts a new job record.
func (r *JobRepository) Create(ctx context.Context, job *domain.AsyncJob) error {
	query := `
		INSERT INTO async_jobs (id, job_type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		job.ID, job.JobType, job.Status, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindByID retrieves a job by its identifier.
func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AsyncJob, error) {
	query := `
		SELECT id, job_type, status, result_url, error_message, created_at, updated_at
		FROM async_jobs
		WHERE id = $1`

	var job domain.AsyncJob
	var resultURL, errorMessage sql.NullString
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.JobType, &job.Status,
		&resultURL, &errorMessage,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	job.ResultURL = resultURL.String
	job.ErrorMessage = errorMessage.String
	return &job, nil
}

// UpdateStatus transitions a job to a new status and records the
// result URL or error message produced by the worker.
func (r *JobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, resultURL, errorMessage string) error {
	query := `
		UPDATE async_jobs
		SET status = $2,
		    result_url = NULLIF($3, ''),
		    error_message = NULLIF($4, ''),
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status, resultURL, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	return nil
}

// DeleteOlderThan removes finished jobs created before the cutoff.
// Pending and processing jobs are kept regardless of age.
func (r *JobRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM async_jobs
		WHERE created_at < $1
		  AND status IN ($2, $3)`

	tag, err := r.db.Exec(ctx, query, cutoff, domain.JobStatusCompleted, domain.JobStatusFailed)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}
