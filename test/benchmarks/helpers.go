// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

// memorySaleRepository serves a fixed in-memory ledger so report
// rendering can be benchmarked without a database round trip.
type memorySaleRepository struct {
	records []ports.SaleRecord
}

func newMemorySaleRepository(numSales int) *memorySaleRepository {
	names := []string{
		"Cola 330ml",
		"Salted Crisps 40g",
		"Chocolate Bar 45g",
		"Still Water 500ml",
		"Energy Drink 250ml",
	}
	payments := []string{"cash", "card", "mobile"}

	records := make([]ports.SaleRecord, numSales)
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < numSales; i++ {
		name := names[i%len(names)]
		quantity := 1 + i%3
		records[i] = ports.SaleRecord{
			Sale: domain.Sale{
				ID:          uuid.New(),
				ItemID:      uuid.New(),
				Quantity:    quantity,
				Total:       decimal.NewFromFloat(1.50).Mul(decimal.NewFromInt(int64(quantity))),
				PaymentType: payments[i%len(payments)],
				BuyerType:   domain.BuyerCustomer,
				SoldAt:      base.Add(time.Duration(i) * time.Minute),
			},
			ItemName: &name,
		}
	}

	return &memorySaleRepository{records: records}
}

func (r *memorySaleRepository) RecordSale(ctx context.Context, itemID uuid.UUID, quantity int, paymentType string, buyer domain.BuyerType) (*domain.Sale, error) {
	return nil, fmt.Errorf("not supported")
}

func (r *memorySaleRepository) Append(ctx context.Context, sale *domain.Sale) error {
	return fmt.Errorf("not supported")
}

func (r *memorySaleRepository) FindInRange(ctx context.Context, from, to *time.Time) ([]ports.SaleRecord, error) {
	return r.records, nil
}

func (r *memorySaleRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(r.records)), nil
}
