package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendly/vendpos-be/internal/adapters/db"
	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/test/helpers"
)

func TestItemRepository_Save_Unit(t *testing.T) {
	// Setup mock database
	mockDB, _ := helpers.SetupMockDB(t)
	defer mockDB.ExpectClose()

	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	item := helpers.CreateTestItem()

	err := repo.Save(ctx, item)
	require.NoError(t, err)
	assert.NotZero(t, item.CreatedAt)
	assert.NotZero(t, item.UpdatedAt)
}

func TestItemRepository_FindByID_Unit(t *testing.T) {
	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	item := helpers.CreateTestItem()
	err := repo.Save(ctx, item)
	require.NoError(t, err)

	tests := []struct {
		name      string
		id        uuid.UUID
		wantError error
	}{
		{
			name:      "finds_existing_item",
			id:        item.ID,
			wantError: nil,
		},
		{
			name:      "not_found_for_unknown_id",
			id:        uuid.New(),
			wantError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.FindByID(ctx, tt.id)

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.id, result.ID)
				assert.Equal(t, item.Name, result.Name)
				assert.True(t, item.Price.Equal(result.Price))
			}
		})
	}
}

func TestItemRepository_Delete_Unit(t *testing.T) {
	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	item := helpers.CreateTestItem()
	err := repo.Save(ctx, item)
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Delete(ctx, item.ID)
	require.NoError(t, err)

	exists, err = repo.Exists(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again reports not found
	err = repo.Delete(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRepository_SaveBatch_Unit(t *testing.T) {
	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	items := helpers.CreateTestItems(5)

	err := repo.SaveBatch(ctx, items)
	require.NoError(t, err)

	for _, item := range items {
		saved, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, item.Name, saved.Name)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(5))
}

func TestItemRepository_FindAll_Unit(t *testing.T) {
	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	helpers.TruncateAllTables(t, testDB.PgxPool)

	for i := 0; i < 3; i++ {
		item := helpers.CreateTestItem(func(it *domain.Item) {
			it.Name = fmt.Sprintf("Item %d", i+1)
			it.Price = decimal.NewFromFloat(1.50).Add(decimal.NewFromInt(int64(i)))
		})
		require.NoError(t, repo.Save(ctx, item))
	}

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "Item 1", items[0].Name)
}
