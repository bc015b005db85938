// internal/core/ports/item_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendly/vendpos-be/internal/core/domain"
)

// ItemRepository defines the persistence port for items.
// This interface is implemented by the database adapter.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	SaveBatch(ctx context.Context, items []domain.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
