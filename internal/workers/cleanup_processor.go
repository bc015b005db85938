// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vendly/vendpos-be/internal/adapters/storage"
	"github.com/vendly/vendpos-be/internal/core/ports"
	"github.com/vendly/vendpos-be/internal/pkg/config"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	jobs    ports.JobRepository
	storage storage.StorageClient
	config  *config.Config
	logger  *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(jobs ports.JobRepository, store storage.StorageClient, cfg *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		jobs:    jobs,
		storage: store,
		config:  cfg,
		logger:  logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupOldData removes finished job records and expired report files
func (p *CleanupProcessor) CleanupOldData(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up old data")

	jobCutoff := time.Now().AddDate(0, 0, -p.config.FileProcessing.JobRetentionDays)
	deleted, err := p.jobs.DeleteOlderThan(ctx, jobCutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup job records: %w", err)
	}

	p.logger.InfoContext(ctx, "old job records cleaned up",
		slog.Int64("rows_deleted", deleted))

	if err := p.cleanupReports(ctx); err != nil {
		return err
	}

	return nil
}

// cleanupReports deletes stored report files past the retention window.
// Report keys embed their creation time, e.g.
// reports/sales_report_20260115_093000.xlsx.
func (p *CleanupProcessor) cleanupReports(ctx context.Context) error {
	keys, err := p.storage.List(ctx, reportKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list report files: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.FileProcessing.ReportRetentionDays)
	var expired []string

	for _, key := range keys {
		created, ok := reportKeyTime(key)
		if !ok {
			p.logger.WarnContext(ctx, "skipping unrecognized report key",
				slog.String("key", key))
			continue
		}
		if created.Before(cutoff) {
			expired = append(expired, key)
		}
	}

	if len(expired) == 0 {
		return nil
	}

	if err := p.storage.DeleteMultiple(ctx, expired); err != nil {
		return fmt.Errorf("failed to delete expired reports: %w", err)
	}

	p.logger.InfoContext(ctx, "expired reports cleaned up",
		slog.Int("files_deleted", len(expired)))

	return nil
}

// reportKeyTime extracts the creation timestamp embedded in a report key.
func reportKeyTime(key string) (time.Time, bool) {
	base := filepath.Base(key)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	idx := strings.Index(base, "_report_")
	if idx < 0 {
		return time.Time{}, false
	}
	stamp := base[idx+len("_report_"):]

	t, err := time.Parse("20060102_150405", stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CleanupTempFiles removes stale files from the upload directory
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up temp files")

	uploadDir := p.config.FileProcessing.UploadDir
	maxAge := 24 * time.Hour

	var deletedCount int
	err := filepath.Walk(uploadDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk upload directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
