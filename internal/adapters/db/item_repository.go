// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

// itemRepository implements ports.ItemRepository
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "items")),
	}
}

// Save creates a new item
func (r *itemRepository) Save(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, name, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		item.ID, item.Name, item.Price, item.Stock,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	r.logger.DebugContext(ctx, "item saved",
		slog.String("id", item.ID.String()),
		slog.String("name", item.Name))

	return nil
}

// SaveBatch saves multiple items in a single transaction
func (r *itemRepository) SaveBatch(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		query := `
			INSERT INTO items (id, name, price, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`

		for i := range items {
			batch.Queue(query,
				items[i].ID, items[i].Name, items[i].Price, items[i].Stock,
				items[i].CreatedAt, items[i].UpdatedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range items {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to save item %d: %w", i, err)
			}
		}

		return nil
	})
}

// FindByID retrieves an item by ID. Returns domain.ErrNotFound when no
// item with the given ID exists.
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `
		SELECT id, name, price, stock, created_at, updated_at
		FROM items
		WHERE id = $1`

	item := &domain.Item{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Stock,
		&item.CreatedAt, &item.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// FindAll retrieves every item ordered by creation time
func (r *itemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	query := `
		SELECT id, name, price, stock, created_at, updated_at
		FROM items
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		err := rows.Scan(
			&item.ID, &item.Name, &item.Price, &item.Stock,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// Delete removes an item. Sale ledger rows referencing the item are left
// untouched; reports resolve them to the deleted-item label.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM items WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}

	r.logger.InfoContext(ctx, "item deleted", slog.String("id", id.String()))

	return nil
}

// Exists checks if an item exists
func (r *itemRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return exists, nil
}

// Count returns the total number of items
func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM items`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}

	return count, nil
}
