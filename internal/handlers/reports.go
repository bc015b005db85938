// internal/handlers/reports.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
	"github.com/vendly/vendpos-be/internal/workers"
)

const reportDateParam = "2006-01-02"

// ReportHandler handles sales report generation, both the synchronous
// download path and the queued background path.
type ReportHandler struct {
	service     ports.ReportService
	jobs        ports.JobRepository
	asynqClient *asynq.Client
	logger      *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ports.ReportService, jobs ports.JobRepository, asynqClient *asynq.Client, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:     service,
		jobs:        jobs,
		asynqClient: asynqClient,
		logger:      logger.With(slog.String("handler", "reports")),
	}
}

// ExportReport handles GET /api/v1/reports/export
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := h.parseReportParams(r.URL.Query().Get("format"),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.service.Generate(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate report",
			slog.String("format", string(params.Format)),
			slog.String("error", err.Error()))
		h.respondError(w, statusFromError(err), clientMessage(err))
		return
	}

	h.logger.InfoContext(ctx, "report generated",
		slog.String("format", string(params.Format)),
		slog.String("file_name", doc.FileName),
		slog.Int("size_bytes", len(doc.Data)))

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write report response",
			slog.String("error", err.Error()))
	}
}

// CreateReportJobRequest represents the request body for queuing a report
type CreateReportJobRequest struct {
	Format string `json:"format"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// CreateReportJob handles POST /api/v1/reports/jobs. The report is
// rendered by a worker and uploaded to object storage; the response
// carries a job id the client polls for the download URL.
func (h *ReportHandler) CreateReportJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateReportJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate up front so bad requests fail before a job row exists.
	if _, err := h.parseReportParams(req.Format, req.From, req.To); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := domain.NewAsyncJob(domain.JobTypeReportExport)
	if err := h.jobs.Create(ctx, job); err != nil {
		h.logger.ErrorContext(ctx, "failed to create job record",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to create report job")
		return
	}

	payload := workers.ReportJobPayload{
		JobID:  job.ID.String(),
		Format: req.Format,
		From:   req.From,
		To:     req.To,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to queue report job")
		return
	}

	task := asynq.NewTask(workers.TypeReportExport, b)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue report task",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to queue report job")
		return
	}

	h.logger.InfoContext(ctx, "report export queued",
		slog.String("job_id", job.ID.String()),
		slog.String("task_id", info.ID),
		slog.String("format", req.Format))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  job.ID.String(),
		"status":  "queued",
		"message": "Report generation has been queued",
	})
}

// GetJobStatus handles GET /api/v1/jobs/{id}
func (h *ReportHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.jobs.FindByID(ctx, id)
	if err != nil {
		h.respondError(w, statusFromError(err), clientMessage(err))
		return
	}

	h.respondJSON(w, http.StatusOK, job)
}

// parseReportParams validates the format and date range query inputs.
// Dates use YYYY-MM-DD; bounds are optional.
func (h *ReportHandler) parseReportParams(format, from, to string) (ports.ReportParams, error) {
	params := ports.ReportParams{}

	switch ports.ReportFormat(format) {
	case ports.FormatExcel, ports.FormatPDF:
		params.Format = ports.ReportFormat(format)
	case "":
		return params, fmt.Errorf("format is required (excel or pdf)")
	default:
		return params, fmt.Errorf("unsupported format %q (excel or pdf)", format)
	}

	if from != "" {
		t, err := time.Parse(reportDateParam, from)
		if err != nil {
			return params, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", from)
		}
		params.From = &t
	}

	if to != "" {
		t, err := time.Parse(reportDateParam, to)
		if err != nil {
			return params, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", to)
		}
		params.To = &t
	}

	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return params, fmt.Errorf("to date is before from date")
	}

	return params, nil
}

// Helper methods

func (h *ReportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ReportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
