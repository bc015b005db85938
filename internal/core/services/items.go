// internal/core/services/items.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

const (
	itemListCacheKey = "vendpos:items:all"
	itemListCacheTTL = 5 * time.Minute
)

// ItemService handles item catalog business logic
type ItemService struct {
	repo   ports.ItemRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// Statically assert that *ItemService implements the ItemService interface.
var _ ports.ItemService = (*ItemService)(nil)

// NewItemService creates a new item service. The cache is optional; a
// nil cache disables list caching.
func NewItemService(repo ports.ItemRepository, cache ports.CacheRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "items")),
	}
}

// Create validates and persists a new item. Price is a pointer so an
// absent price is distinguishable from an explicit zero; absent is
// rejected.
func (s *ItemService) Create(ctx context.Context, params ports.CreateItemParams) (*domain.Item, error) {
	if params.Price == nil {
		return nil, fmt.Errorf("%w: price is required", domain.ErrValidation)
	}

	item := &domain.Item{
		Name:  params.Name,
		Price: *params.Price,
		Stock: params.Stock,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.PrepareForStorage()

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.invalidateListCache(ctx)

	s.logger.InfoContext(ctx, "item created",
		slog.String("id", item.ID.String()),
		slog.String("name", item.Name),
		slog.Int("stock", item.Stock))

	return item, nil
}

// List returns every item in the catalog, served from cache when one
// is configured. Writes invalidate the cached list.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	if s.cache == nil {
		items, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
		return items, nil
	}

	var items []domain.Item
	err := s.cache.GetOrSet(ctx, itemListCacheKey, &items, func() (interface{}, error) {
		return s.repo.FindAll(ctx)
	}, itemListCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Delete removes an item from the catalog. Ledger rows that reference
// the item remain; reports resolve them to the deleted-item label.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListCache(ctx)

	s.logger.InfoContext(ctx, "item deleted", slog.String("id", id.String()))
	return nil
}

// ImportItems validates and bulk-saves items, used by the import worker
func (s *ItemService) ImportItems(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		s.logger.InfoContext(ctx, "no items to import")
		return nil
	}

	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("item %d (%s): %w", i, items[i].Name, err)
		}
		items[i].PrepareForStorage()
	}

	const batchSize = 100
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := s.repo.SaveBatch(ctx, items[i:end]); err != nil {
			return fmt.Errorf("failed to save batch %d-%d: %w", i, end, err)
		}
	}

	s.invalidateListCache(ctx)

	s.logger.InfoContext(ctx, "items imported", slog.Int("count", len(items)))
	return nil
}

func (s *ItemService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, itemListCacheKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate item cache", "err", err)
	}
}
