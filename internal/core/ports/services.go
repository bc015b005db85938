// internal/core/ports/services.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendly/vendpos-be/internal/core/domain"
)

// ItemService defines the application service port for item management.
type ItemService interface {
	Create(ctx context.Context, params CreateItemParams) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ImportItems(ctx context.Context, items []domain.Item) error
}

// CreateItemParams holds input for item creation. Price is a pointer so
// an absent price can be distinguished from an explicit zero.
type CreateItemParams struct {
	Name  string
	Price *decimal.Decimal
	Stock int
}

// SaleService defines the application service port for the sale
// transaction path.
type SaleService interface {
	RecordSale(ctx context.Context, params RecordSaleParams) (*domain.Sale, error)
}

// RecordSaleParams holds input for recording a sale.
type RecordSaleParams struct {
	ItemID      uuid.UUID
	Quantity    int
	PaymentType string
	BuyerType   domain.BuyerType
}

// ReportFormat selects the report output rendering.
type ReportFormat string

// Report format constants
const (
	FormatExcel ReportFormat = "excel"
	FormatPDF   ReportFormat = "pdf"
)

// ReportParams holds input for report generation. Nil bounds mean the
// full ledger; To is normalized to the end of its day so the range is
// inclusive of the whole end date.
type ReportParams struct {
	Format ReportFormat
	From   *time.Time
	To     *time.Time
}

// ReportDocument is the rendered report artifact handed back to the
// caller for delivery.
type ReportDocument struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService defines the application service port for report
// generation over the sale ledger.
type ReportService interface {
	Generate(ctx context.Context, params ReportParams) (*ReportDocument, error)
}
