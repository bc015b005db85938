// internal/core/domain/sale.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuyerType classifies who a sale was made to, used for reporting segmentation
type BuyerType string

// Buyer type constants
const (
	BuyerOwner    BuyerType = "owner"
	BuyerStaff    BuyerType = "staff"
	BuyerCustomer BuyerType = "customer"
)

// ParseBuyerType maps free-form input onto the closed buyer type set.
// Empty input defaults to BuyerCustomer.
func ParseBuyerType(s string) (BuyerType, error) {
	switch BuyerType(s) {
	case "":
		return BuyerCustomer, nil
	case BuyerOwner, BuyerStaff, BuyerCustomer:
		return BuyerType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown buyer type %q", ErrValidation, s)
	}
}

// DeletedItemLabel is rendered in reports for sales whose item was
// deleted after the sale was recorded.
const DeletedItemLabel = "Deleted Item"

// Sale is an immutable ledger record of one transaction against an item.
// ItemID is a weak reference: the item may have been deleted since, and
// resolution of the reference happens at report time. Total is captured at
// the moment of sale and is never recomputed.
type Sale struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	PaymentType string          `json:"payment_type"`
	BuyerType   BuyerType       `json:"buyer_type"`
	SoldAt      time.Time       `json:"sold_at"`
}

// Validate performs domain validation on the sale
func (s *Sale) Validate() error {
	if s.ItemID == uuid.Nil {
		return fmt.Errorf("%w: item_id is required", ErrValidation)
	}
	if s.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if s.PaymentType == "" {
		return fmt.Errorf("%w: payment_type is required", ErrValidation)
	}
	if s.Total.IsNegative() {
		return fmt.Errorf("%w: total cannot be negative", ErrValidation)
	}
	if _, err := ParseBuyerType(string(s.BuyerType)); err != nil {
		return err
	}
	return nil
}

// PrepareForStorage assigns the identifier, default buyer type and sale
// timestamp before the ledger append
func (s *Sale) PrepareForStorage() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.BuyerType == "" {
		s.BuyerType = BuyerCustomer
	}
	if s.SoldAt.IsZero() {
		s.SoldAt = time.Now()
	}
}

// ComputeTotal returns the immutable sale total for a unit price and quantity
func ComputeTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
