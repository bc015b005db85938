// internal/handlers/reports_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
	"github.com/vendly/vendpos-be/internal/handlers"
	"github.com/vendly/vendpos-be/test/helpers"
	"github.com/vendly/vendpos-be/test/mocks"
)

func TestReportHandler_ExportReport(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*mocks.MockReportService)
		expectedStatus int
		validate       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:  "exports_excel_report",
			query: "format=excel&from=2026-01-01&to=2026-01-31",
			setupMocks: func(m *mocks.MockReportService) {
				m.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, params ports.ReportParams) (*ports.ReportDocument, error) {
						assert.Equal(t, ports.FormatExcel, params.Format)
						require.NotNil(t, params.From)
						require.NotNil(t, params.To)
						return &ports.ReportDocument{
							FileName:    "sales_report_20260131_120000.xlsx",
							ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
							Data:        []byte("excel-bytes"),
						}, nil
					})
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
				assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
				assert.Equal(t, "excel-bytes", w.Body.String())
			},
		},
		{
			name:  "exports_pdf_report_without_bounds",
			query: "format=pdf",
			setupMocks: func(m *mocks.MockReportService) {
				m.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, params ports.ReportParams) (*ports.ReportDocument, error) {
						assert.Equal(t, ports.FormatPDF, params.Format)
						assert.Nil(t, params.From)
						assert.Nil(t, params.To)
						return &ports.ReportDocument{
							FileName:    "sales_report_20260131_120000.pdf",
							ContentType: "application/pdf",
							Data:        []byte("%PDF-1.4"),
						}, nil
					})
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
			},
		},
		{
			name:           "missing_format_is_rejected",
			query:          "",
			setupMocks:     func(m *mocks.MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unsupported_format_is_rejected",
			query:          "format=csv",
			setupMocks:     func(m *mocks.MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed_date_is_rejected",
			query:          "format=excel&from=31-01-2026",
			setupMocks:     func(m *mocks.MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "inverted_range_is_rejected",
			query:          "format=excel&from=2026-02-01&to=2026-01-01",
			setupMocks:     func(m *mocks.MockReportService) {},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, "to date is before from date", response["error"])
			},
		},
		{
			name:  "empty_ledger_range_returns_404",
			query: "format=pdf&from=2026-01-01&to=2026-01-02",
			setupMocks: func(m *mocks.MockReportService) {
				m.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrEmptyReport)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockReportService(ctrl)
			mockJobs := mocks.NewMockJobRepository(ctrl)
			handler := handlers.NewReportHandler(mockService, mockJobs, nil, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/reports/export?"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ExportReport(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.validate != nil {
				tt.validate(t, w)
			}
		})
	}
}

func TestReportHandler_CreateReportJob_Validation(t *testing.T) {
	// Only validation failures are covered here; they must reject the
	// request before any job row or queue entry exists.
	tests := []struct {
		name string
		body string
	}{
		{"rejects_invalid_json", `{oops`},
		{"rejects_missing_format", `{}`},
		{"rejects_unsupported_format", `{"format":"csv"}`},
		{"rejects_bad_from_date", `{"format":"excel","from":"yesterday"}`},
		{"rejects_inverted_range", `{"format":"pdf","from":"2026-02-01","to":"2026-01-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockReportService(ctrl)
			mockJobs := mocks.NewMockJobRepository(ctrl)
			handler := handlers.NewReportHandler(mockService, mockJobs, nil, helpers.TestLogger())

			req := httptest.NewRequest("POST", "/api/v1/reports/jobs", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateReportJob(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestReportHandler_GetJobStatus(t *testing.T) {
	job := domain.NewAsyncJob(domain.JobTypeReportExport)
	job.Status = domain.JobStatusCompleted
	job.ResultURL = "https://example.com/reports/sales_report_20260131_120000.xlsx"

	tests := []struct {
		name           string
		id             string
		setupMocks     func(*mocks.MockJobRepository)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "returns_job_with_result_url",
			id:   job.ID.String(),
			setupMocks: func(m *mocks.MockJobRepository) {
				m.EXPECT().FindByID(gomock.Any(), job.ID).Return(job, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.AsyncJob
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, job.ID, response.ID)
				assert.Equal(t, domain.JobStatusCompleted, response.Status)
				assert.Equal(t, job.ResultURL, response.ResultURL)
			},
		},
		{
			name:           "invalid_job_id",
			id:             "nope",
			setupMocks:     func(m *mocks.MockJobRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown_job_id",
			id:   uuid.New().String(),
			setupMocks: func(m *mocks.MockJobRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockReportService(ctrl)
			mockJobs := mocks.NewMockJobRepository(ctrl)
			handler := handlers.NewReportHandler(mockService, mockJobs, nil, helpers.TestLogger())

			tt.setupMocks(mockJobs)

			req := httptest.NewRequest("GET", "/api/v1/jobs/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetJobStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}
