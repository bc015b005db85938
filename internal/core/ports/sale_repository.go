// internal/core/ports/sale_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendly/vendpos-be/internal/core/domain"
)

// SaleRecord is a ledger row joined against the item it references.
// ItemName is nil when the item has been deleted since the sale; the
// report layer substitutes domain.DeletedItemLabel.
type SaleRecord struct {
	Sale     domain.Sale
	ItemName *string
}

// SaleRepository defines the persistence port for the append-only sale
// ledger. There is deliberately no update or delete operation.
type SaleRepository interface {
	// RecordSale atomically decrements the item's stock and appends the
	// sale in a single transaction. The stock check is a conditional
	// update inside the database, so concurrent sales against the same
	// item cannot oversell. Returns domain.ErrNotFound when the item
	// does not exist and domain.ErrInsufficientStock when stock is
	// lower than quantity; in both cases nothing is written.
	RecordSale(ctx context.Context, itemID uuid.UUID, quantity int, paymentType string, buyer domain.BuyerType) (*domain.Sale, error)

	// Append inserts a fully formed sale row without touching stock.
	// Used by backfills and imports; the live sale path is RecordSale.
	Append(ctx context.Context, sale *domain.Sale) error

	// FindInRange returns ledger rows whose sold_at falls within the
	// closed interval [from, to]. Nil bounds are unbounded. Callers are
	// responsible for end-of-day normalization of the upper bound.
	FindInRange(ctx context.Context, from, to *time.Time) ([]SaleRecord, error)

	Count(ctx context.Context) (int64, error)
}
