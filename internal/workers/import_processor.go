// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

const (
	TypeItemImport       = "items:import"
	TypeReportExport     = "reports:export"
	TypeLowStockScan     = "alerts:low_stock"
	TypeCleanupOldData   = "cleanup:old_data"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

// ImportJobPayload is the queued payload for spreadsheet imports
type ImportJobPayload struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
}

// ReportJobPayload is the queued payload for background report exports.
// Dates use YYYY-MM-DD and are optional.
type ReportJobPayload struct {
	JobID  string `json:"job_id"`
	Format string `json:"format"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// ImportProcessor handles Excel item import tasks
type ImportProcessor struct {
	service ports.ItemService
	jobs    ports.JobRepository
	logger  *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(service ports.ItemService, jobs ports.JobRepository, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		service: service,
		jobs:    jobs,
		logger:  logger.With(slog.String("processor", "import")),
	}
}

// ProcessImport reads an uploaded spreadsheet and bulk-creates items.
// Expected columns: A name, B price, C stock. The first row is a header.
func (p *ImportProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	var payload ImportJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", payload.JobID, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing item import",
		slog.String("job_id", payload.JobID),
		slog.String("file_path", payload.FilePath))

	if err := p.jobs.UpdateStatus(ctx, jobID, domain.JobStatusProcessing, "", ""); err != nil {
		p.logger.WarnContext(ctx, "failed to mark job processing",
			slog.String("job_id", payload.JobID),
			slog.String("error", err.Error()))
	}

	items, err := p.parseFile(payload.FilePath)
	if err != nil {
		p.failJob(ctx, jobID, err)
		os.Remove(payload.FilePath)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	if err := p.service.ImportItems(ctx, items); err != nil {
		p.failJob(ctx, jobID, err)
		if errors.Is(err, domain.ErrValidation) {
			os.Remove(payload.FilePath)
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	os.Remove(payload.FilePath)

	if err := p.jobs.UpdateStatus(ctx, jobID, domain.JobStatusCompleted, "", ""); err != nil {
		p.logger.WarnContext(ctx, "failed to mark job completed",
			slog.String("job_id", payload.JobID),
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "item import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("items_imported", len(items)))

	return nil
}

func (p *ImportProcessor) parseFile(path string) ([]domain.Item, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}

	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no sheets", domain.ErrValidation)
	}

	var items []domain.Item
	sheet := file.Sheets[0]
	rowIdx := 0

	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		item, err := parseItemRow(r)
		if err != nil {
			return fmt.Errorf("row %d: %w", rowIdx, err)
		}
		if item != nil {
			items = append(items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no item rows", domain.ErrValidation)
	}

	return items, nil
}

// parseItemRow converts one sheet row into an item. Blank rows are
// skipped rather than rejected.
func parseItemRow(r *xlsx.Row) (*domain.Item, error) {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		return strings.TrimSpace(c.String())
	}

	name := get(0)
	if name == "" {
		return nil, nil
	}

	price := decimal.Zero
	if s := get(1); s != "" {
		d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid price %q", domain.ErrValidation, s)
		}
		price = d
	}

	stock := 0
	if s := get(2); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid stock %q", domain.ErrValidation, s)
		}
		stock = n
	}

	return &domain.Item{
		Name:  name,
		Price: price,
		Stock: stock,
	}, nil
}

func (p *ImportProcessor) failJob(ctx context.Context, jobID uuid.UUID, cause error) {
	if err := p.jobs.UpdateStatus(ctx, jobID, domain.JobStatusFailed, "", cause.Error()); err != nil {
		p.logger.ErrorContext(ctx, "failed to mark job failed",
			slog.String("job_id", jobID.String()),
			slog.String("error", err.Error()))
	}
}
