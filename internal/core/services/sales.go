// internal/core/services/sales.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

// SaleService handles the sale transaction path
type SaleService struct {
	sales  ports.SaleRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// Statically assert that *SaleService implements the SaleService interface.
var _ ports.SaleService = (*SaleService)(nil)

// NewSaleService creates a new sale service. The cache is optional; a
// recorded sale invalidates the cached item list so stock reads stay
// current.
func NewSaleService(sales ports.SaleRepository, cache ports.CacheRepository, logger *slog.Logger) *SaleService {
	return &SaleService{
		sales:  sales,
		cache:  cache,
		logger: logger.With(slog.String("service", "sales")),
	}
}

// RecordSale validates the request and delegates to the transactional
// decrement-and-append in the repository. The stock invariant is enforced
// there, inside the database, not here.
func (s *SaleService) RecordSale(ctx context.Context, params ports.RecordSaleParams) (*domain.Sale, error) {
	if params.ItemID == uuid.Nil {
		return nil, fmt.Errorf("%w: item_id is required", domain.ErrValidation)
	}
	if params.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	if params.PaymentType == "" {
		return nil, fmt.Errorf("%w: payment_type is required", domain.ErrValidation)
	}

	buyer, err := domain.ParseBuyerType(string(params.BuyerType))
	if err != nil {
		return nil, err
	}

	sale, err := s.sales.RecordSale(ctx, params.ItemID, params.Quantity, params.PaymentType, buyer)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, itemListCacheKey); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate item cache", "err", err)
		}
	}

	s.logger.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", sale.ID.String()),
		slog.String("item_id", params.ItemID.String()),
		slog.Int("quantity", params.Quantity),
		slog.String("buyer_type", string(buyer)))

	return sale, nil
}
