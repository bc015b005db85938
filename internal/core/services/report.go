// internal/core/services/report.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

const reportDateFormat = "Jan 2, 2006 3:04 PM"

// ReportRow is a ledger row projected for rendering. ItemName has been
// resolved, substituting the deleted-item label where needed.
type ReportRow struct {
	ItemName    string
	Quantity    int
	Total       string
	PaymentType string
	BuyerType   string
	SoldAt      time.Time
}

// ReportService renders sales reports over the ledger
type ReportService struct {
	sales  ports.SaleRepository
	logger *slog.Logger
}

// Statically assert that *ReportService implements the ReportService interface.
var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service
func NewReportService(sales ports.SaleRepository, logger *slog.Logger) *ReportService {
	return &ReportService{
		sales:  sales,
		logger: logger.With(slog.String("service", "reports")),
	}
}

// Generate produces a report document for the requested range and format.
// The upper bound is pushed to the end of its day so a range like
// 2026-03-01..2026-03-31 includes the whole last day. An empty result set
// yields domain.ErrEmptyReport for both formats.
func (s *ReportService) Generate(ctx context.Context, params ports.ReportParams) (*ports.ReportDocument, error) {
	if params.Format != ports.FormatExcel && params.Format != ports.FormatPDF {
		return nil, fmt.Errorf("%w: unknown report format %q", domain.ErrValidation, params.Format)
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return nil, fmt.Errorf("%w: 'to' date precedes 'from' date", domain.ErrValidation)
	}

	to := params.To
	if to != nil {
		t := endOfDay(*to)
		to = &t
	}

	records, err := s.sales.FindInRange(ctx, params.From, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	if len(records) == 0 {
		return nil, domain.ErrEmptyReport
	}

	rows := projectRows(records)

	s.logger.InfoContext(ctx, "generating report",
		slog.String("format", string(params.Format)),
		slog.Int("rows", len(rows)))

	switch params.Format {
	case ports.FormatPDF:
		data, err := renderPDF(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to render pdf report: %w", err)
		}
		return &ports.ReportDocument{
			FileName:    reportFileName("pdf"),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		data, err := renderExcel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to render excel report: %w", err)
		}
		return &ports.ReportDocument{
			FileName:    reportFileName("xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func reportFileName(ext string) string {
	return fmt.Sprintf("sales_report_%s.%s", time.Now().Format("20060102_150405"), ext)
}

func projectRows(records []ports.SaleRecord) []ReportRow {
	rows := make([]ReportRow, 0, len(records))
	for _, rec := range records {
		name := domain.DeletedItemLabel
		if rec.ItemName != nil {
			name = *rec.ItemName
		}
		rows = append(rows, ReportRow{
			ItemName:    name,
			Quantity:    rec.Sale.Quantity,
			Total:       rec.Sale.Total.StringFixed(2),
			PaymentType: rec.Sale.PaymentType,
			BuyerType:   string(rec.Sale.BuyerType),
			SoldAt:      rec.Sale.SoldAt,
		})
	}
	return rows
}

// renderExcel builds the spreadsheet report in memory
func renderExcel(rows []ReportRow) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{"Item", "Quantity", "Total ($)", "Payment Type", "Buyer Type", "Date"}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, row := range rows {
		dataRow := sheet.AddRow()
		dataRow.AddCell().Value = row.ItemName
		dataRow.AddCell().SetInt(row.Quantity)
		dataRow.AddCell().Value = row.Total
		dataRow.AddCell().Value = row.PaymentType
		dataRow.AddCell().Value = row.BuyerType
		dataRow.AddCell().Value = row.SoldAt.Format(reportDateFormat)
	}

	// xlsx v3 column indexes start at 1
	for i := 1; i <= len(headers); i++ {
		sheet.SetColWidth(i, i, 20)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buffer.Bytes(), nil
}

// renderPDF builds the PDF report in memory
func renderPDF(rows []ReportRow) ([]byte, error) {
	doc := newPDFDocument("Sales Report")
	for _, row := range rows {
		doc.AddLine(fmt.Sprintf("%s | Qty: %d | $%s | %s | %s | %s",
			row.ItemName, row.Quantity, row.Total,
			row.PaymentType, row.BuyerType,
			row.SoldAt.Format(reportDateFormat)))
	}
	return doc.Bytes()
}
