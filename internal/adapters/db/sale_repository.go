// internal/adapters/db/sale_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

// saleRepository implements ports.SaleRepository
type saleRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSaleRepository creates a new sale ledger repository
func NewSaleRepository(db *Database, logger *slog.Logger) ports.SaleRepository {
	return &saleRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "sales")),
	}
}

// RecordSale decrements stock and appends the sale in one transaction.
// The decrement is conditional on stock >= quantity, so the database is
// the arbiter under concurrency; there is no read-then-write window.
func (r *saleRepository) RecordSale(ctx context.Context, itemID uuid.UUID, quantity int, paymentType string, buyer domain.BuyerType) (*domain.Sale, error) {
	var sale *domain.Sale

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		decrement := `
			UPDATE items
			SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
			RETURNING price`

		var unitPrice decimal.Decimal
		err := tx.QueryRow(ctx, decrement, itemID, quantity).Scan(&unitPrice)
		if err != nil {
			if err != pgx.ErrNoRows {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}

			// The conditional update matched nothing. Distinguish a
			// missing item from insufficient stock inside the same
			// transaction.
			var stock int
			err := tx.QueryRow(ctx, `SELECT stock FROM items WHERE id = $1`, itemID).Scan(&stock)
			if err == pgx.ErrNoRows {
				return fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
			}
			if err != nil {
				return fmt.Errorf("failed to read stock: %w", err)
			}
			return fmt.Errorf("%w: item %s has %d in stock, requested %d",
				domain.ErrInsufficientStock, itemID, stock, quantity)
		}

		s := &domain.Sale{
			ItemID:      itemID,
			Quantity:    quantity,
			Total:       domain.ComputeTotal(unitPrice, quantity),
			PaymentType: paymentType,
			BuyerType:   buyer,
		}
		s.PrepareForStorage()

		insert := `
			INSERT INTO sales (id, item_id, quantity, total, payment_type, buyer_type, sold_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING sold_at`

		err = tx.QueryRow(ctx, insert,
			s.ID, s.ItemID, s.Quantity, s.Total, s.PaymentType, s.BuyerType, s.SoldAt,
		).Scan(&s.SoldAt)
		if err != nil {
			return fmt.Errorf("failed to append sale: %w", err)
		}

		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", sale.ID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quantity", quantity),
		slog.String("total", sale.Total.String()))

	return sale, nil
}

// Append inserts a fully formed sale row without touching stock
func (r *saleRepository) Append(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, item_id, quantity, total, payment_type, buyer_type, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		sale.ID, sale.ItemID, sale.Quantity, sale.Total,
		sale.PaymentType, sale.BuyerType, sale.SoldAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append sale: %w", err)
	}

	return nil
}

// FindInRange returns ledger rows within the closed [from, to] interval,
// left-joined against items so deleted items surface as a nil name.
func (r *saleRepository) FindInRange(ctx context.Context, from, to *time.Time) ([]ports.SaleRecord, error) {
	qb := squirrel.Select(
		"s.id", "s.item_id", "s.quantity", "s.total",
		"s.payment_type", "s.buyer_type", "s.sold_at",
		"i.name",
	).From("sales s").
		LeftJoin("items i ON i.id = s.item_id").
		OrderBy("s.sold_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if from != nil {
		qb = qb.Where(squirrel.GtOrEq{"s.sold_at": *from})
	}
	if to != nil {
		qb = qb.Where(squirrel.LtOrEq{"s.sold_at": *to})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []ports.SaleRecord
	for rows.Next() {
		var rec ports.SaleRecord
		var itemName sql.NullString

		err := rows.Scan(
			&rec.Sale.ID, &rec.Sale.ItemID, &rec.Sale.Quantity, &rec.Sale.Total,
			&rec.Sale.PaymentType, &rec.Sale.BuyerType, &rec.Sale.SoldAt,
			&itemName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}

		if itemName.Valid {
			name := itemName.String
			rec.ItemName = &name
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// Count returns the total number of ledger rows
func (r *saleRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM sales`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}

	return count, nil
}
