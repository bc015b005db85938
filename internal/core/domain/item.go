// internal/core/domain/item.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item represents a sellable product with a unit price and a stock count.
// Stock never goes negative; the decrement path enforces that inside the
// database so concurrent sales cannot oversell.
type Item struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate performs domain validation on the item
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if i.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	return nil
}

// PrepareForStorage assigns the identifier and timestamps before the first save
func (i *Item) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}
