package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendly/vendpos-be/internal/core/domain"
)

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      *domain.Item
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_item",
			item: &domain.Item{
				Name:  "Soda",
				Price: decimal.NewFromFloat(1.50),
				Stock: 10,
			},
			wantError: false,
		},
		{
			name: "missing_name",
			item: &domain.Item{
				Price: decimal.NewFromFloat(1.50),
				Stock: 10,
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "negative_price",
			item: &domain.Item{
				Name:  "Soda",
				Price: decimal.NewFromFloat(-1.50),
			},
			wantError: true,
			errorMsg:  "price cannot be negative",
		},
		{
			name: "negative_stock",
			item: &domain.Item{
				Name:  "Soda",
				Price: decimal.NewFromFloat(1.50),
				Stock: -1,
			},
			wantError: true,
			errorMsg:  "stock cannot be negative",
		},
		{
			name: "zero_price_and_zero_stock_are_valid",
			item: &domain.Item{
				Name:  "Sample",
				Price: decimal.Zero,
				Stock: 0,
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestItem_PrepareForStorage(t *testing.T) {
	t.Run("assigns_id_and_timestamps", func(t *testing.T) {
		item := &domain.Item{
			Name:  "Chips",
			Price: decimal.NewFromFloat(2.25),
			Stock: 5,
		}

		item.PrepareForStorage()

		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.False(t, item.CreatedAt.IsZero())
		assert.False(t, item.UpdatedAt.IsZero())
	})

	t.Run("preserves_existing_id_and_created_at", func(t *testing.T) {
		id := uuid.New()
		item := &domain.Item{
			ID:    id,
			Name:  "Chips",
			Price: decimal.NewFromFloat(2.25),
		}
		item.PrepareForStorage()
		created := item.CreatedAt

		item.PrepareForStorage()

		assert.Equal(t, id, item.ID)
		assert.Equal(t, created, item.CreatedAt)
	})
}
