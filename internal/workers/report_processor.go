// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/vendly/vendpos-be/internal/adapters/storage"
	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

const (
	reportKeyPrefix   = "reports/"
	reportURLValidity = 24 * time.Hour
	reportDateLayout  = "2006-01-02"
)

// ReportProcessor renders queued sales reports and uploads them to
// object storage.
type ReportProcessor struct {
	service ports.ReportService
	jobs    ports.JobRepository
	storage storage.StorageClient
	logger  *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(service ports.ReportService, jobs ports.JobRepository, store storage.StorageClient, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		service: service,
		jobs:    jobs,
		storage: store,
		logger:  logger.With(slog.String("processor", "report")),
	}
}

// ProcessReport handles a queued report export task.
func (p *ReportProcessor) ProcessReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", payload.JobID, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing report export",
		slog.String("job_id", payload.JobID),
		slog.String("format", payload.Format))

	if err := p.jobs.UpdateStatus(ctx, jobID, domain.JobStatusProcessing, "", ""); err != nil {
		p.logger.WarnContext(ctx, "failed to mark job processing",
			slog.String("job_id", payload.JobID),
			slog.String("error", err.Error()))
	}

	params, err := p.buildParams(payload)
	if err != nil {
		p.failJob(ctx, jobID, err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	doc, err := p.service.Generate(ctx, params)
	if err != nil {
		p.failJob(ctx, jobID, err)
		// Domain rejections will fail the same way on every attempt.
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrEmptyReport) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	key := reportKeyPrefix + doc.FileName
	if _, err := p.storage.Upload(ctx, key, bytes.NewReader(doc.Data), doc.ContentType); err != nil {
		p.failJob(ctx, jobID, err)
		return fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := p.storage.GetPresignedURL(ctx, key, reportURLValidity)
	if err != nil {
		p.failJob(ctx, jobID, err)
		return fmt.Errorf("failed to presign report url: %w", err)
	}

	if err := p.jobs.UpdateStatus(ctx, jobID, domain.JobStatusCompleted, url, ""); err != nil {
		p.logger.WarnContext(ctx, "failed to mark job completed",
			slog.String("job_id", payload.JobID),
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "report export completed",
		slog.String("job_id", payload.JobID),
		slog.String("key", key),
		slog.Int("size_bytes", len(doc.Data)))

	return nil
}

func (p *ReportProcessor) buildParams(payload ReportJobPayload) (ports.ReportParams, error) {
	params := ports.ReportParams{Format: ports.ReportFormat(payload.Format)}

	if payload.From != "" {
		t, err := time.Parse(reportDateLayout, payload.From)
		if err != nil {
			return params, fmt.Errorf("%w: invalid from date %q", domain.ErrValidation, payload.From)
		}
		params.From = &t
	}
	if payload.To != "" {
		t, err := time.Parse(reportDateLayout, payload.To)
		if err != nil {
			return params, fmt.Errorf("%w: invalid to date %q", domain.ErrValidation, payload.To)
		}
		params.To = &t
	}

	return params, nil
}

func (p *ReportProcessor) failJob(ctx context.Context, jobID uuid.UUID, cause error) {
	if err := p.jobs.UpdateStatus(ctx, jobID, domain.JobStatusFailed, "", cause.Error()); err != nil {
		p.logger.ErrorContext(ctx, "failed to mark job failed",
			slog.String("job_id", jobID.String()),
			slog.String("error", err.Error()))
	}
}
