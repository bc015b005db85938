// internal/handlers/imports.go
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
	"github.com/vendly/vendpos-be/internal/workers"
)

// ImportHandler handles bulk item imports from uploaded spreadsheets
type ImportHandler struct {
	jobs        ports.JobRepository
	asynqClient *asynq.Client
	logger      *slog.Logger
	maxFileSize int64
	uploadDir   string
}

// NewImportHandler creates a new import handler
func NewImportHandler(jobs ports.JobRepository, asynqClient *asynq.Client, logger *slog.Logger, maxFileSize int64, uploadDir string) *ImportHandler {
	return &ImportHandler{
		jobs:        jobs,
		asynqClient: asynqClient,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
		uploadDir:   uploadDir,
	}
}

// ImportItems handles POST /api/v1/items/import
func (h *ImportHandler) ImportItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" &&
		contentType != "application/vnd.ms-excel" {
		h.respondError(w, http.StatusBadRequest, "only Excel files are allowed")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.logger.ErrorContext(ctx, "failed to create upload directory",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to prepare upload")
		return
	}

	// The worker deletes the file once the import finishes.
	tempFile := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.New().String(), header.Filename))
	dst, err := os.Create(tempFile)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create temp file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to save file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}

	job := domain.NewAsyncJob(domain.JobTypeItemImport)
	if err := h.jobs.Create(ctx, job); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to create job record",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to create import job")
		return
	}

	payload := workers.ImportJobPayload{
		JobID:    job.ID.String(),
		FilePath: tempFile,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		os.Remove(tempFile)
		h.respondError(w, http.StatusInternalServerError, "failed to queue import job")
		return
	}

	task := asynq.NewTask(workers.TypeItemImport, b)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to enqueue import task",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "item import queued",
		slog.String("job_id", job.ID.String()),
		slog.String("task_id", info.ID),
		slog.String("file_name", header.Filename))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  job.ID.String(),
		"status":  "queued",
		"message": "Item import has been queued for processing",
	})
}

// Helper methods

func (h *ImportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ImportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
