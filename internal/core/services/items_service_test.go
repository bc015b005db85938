// internal/core/services/items_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
	"github.com/vendly/vendpos-be/internal/core/services"
	"github.com/vendly/vendpos-be/test/helpers"
	"github.com/vendly/vendpos-be/test/mocks"
)

func TestItemService_Create(t *testing.T) {
	price := decimal.NewFromFloat(1.50)
	negative := decimal.NewFromFloat(-1.00)

	tests := []struct {
		name          string
		params        ports.CreateItemParams
		setupMocks    func(*mocks.MockItemRepository, *mocks.MockCacheRepository)
		expectedError error
		errorContains string
	}{
		{
			name:   "successful_create_with_valid_params",
			params: ports.CreateItemParams{Name: "Soda", Price: &price, Stock: 10},
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, item *domain.Item) error {
						assert.Equal(t, "Soda", item.Name)
						assert.True(t, price.Equal(item.Price))
						assert.Equal(t, 10, item.Stock)
						assert.NotEqual(t, uuid.Nil, item.ID)
						return nil
					})
				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:          "validation_fails_for_absent_price",
			params:        ports.CreateItemParams{Name: "Water", Stock: 3},
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockCacheRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "price is required",
		},
		{
			name:   "explicit_zero_price_is_accepted",
			params: ports.CreateItemParams{Name: "Water", Price: &decimal.Zero, Stock: 3},
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, item *domain.Item) error {
						assert.True(t, item.Price.IsZero())
						return nil
					})
				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:          "validation_fails_for_missing_name",
			params:        ports.CreateItemParams{Name: "", Price: &price, Stock: 1},
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockCacheRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "name is required",
		},
		{
			name:          "validation_fails_for_negative_price",
			params:        ports.CreateItemParams{Name: "Soda", Price: &negative, Stock: 1},
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockCacheRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "price cannot be negative",
		},
		{
			name:          "validation_fails_for_negative_stock",
			params:        ports.CreateItemParams{Name: "Soda", Price: &price, Stock: -1},
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockCacheRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "stock cannot be negative",
		},
		{
			name:   "repository_save_error",
			params: ports.CreateItemParams{Name: "Soda", Price: &price, Stock: 1},
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			errorContains: "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockItemRepository(ctrl)
			mockCache := mocks.NewMockCacheRepository(ctrl)
			service := services.NewItemService(mockRepo, mockCache, helpers.TestLogger())

			tt.setupMocks(mockRepo, mockCache)

			item, err := service.Create(context.Background(), tt.params)

			if tt.expectedError != nil || tt.errorContains != "" {
				require.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				require.NotNil(t, item)
				assert.NotEqual(t, uuid.Nil, item.ID)
			}
		})
	}
}

func TestItemService_Delete(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockItemRepository, *mocks.MockCacheRepository)
		expectedError error
	}{
		{
			name: "successfully_deletes_and_invalidates_cache",
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "not_found_propagates",
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().Delete(gomock.Any(), id).Return(domain.ErrNotFound)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "cache_failure_does_not_fail_delete",
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockItemRepository(ctrl)
			mockCache := mocks.NewMockCacheRepository(ctrl)
			service := services.NewItemService(mockRepo, mockCache, helpers.TestLogger())

			tt.setupMocks(mockRepo, mockCache)

			err := service.Delete(context.Background(), id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItemService_List(t *testing.T) {
	items := []domain.Item{*helpers.CreateTestItem(), *helpers.CreateTestItem()}

	t.Run("reads_repository_without_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockItemRepository(ctrl)
		service := services.NewItemService(mockRepo, nil, helpers.TestLogger())

		mockRepo.EXPECT().FindAll(gomock.Any()).Return(items, nil)

		result, err := service.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("serves_through_cache_under_invalidated_key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockItemRepository(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		service := services.NewItemService(mockRepo, mockCache, helpers.TestLogger())

		// List reads through the same key the write paths invalidate
		var listKey string
		mockCache.EXPECT().
			GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string, dest interface{},
				fetch func() (interface{}, error), ttl time.Duration) error {
				listKey = key
				value, err := fetch()
				if err != nil {
					return err
				}
				*(dest.(*[]domain.Item)) = value.([]domain.Item)
				return nil
			})
		mockRepo.EXPECT().FindAll(gomock.Any()).Return(items, nil)

		result, err := service.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, result, 2)

		price := decimal.NewFromFloat(1.50)
		mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		mockCache.EXPECT().
			Delete(gomock.Any(), listKey).
			Return(nil)

		_, err = service.Create(context.Background(), ports.CreateItemParams{
			Name:  "Soda",
			Price: &price,
			Stock: 10,
		})
		require.NoError(t, err)
	})
}

func TestItemService_ImportItems(t *testing.T) {
	t.Run("processes_items_in_batches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockItemRepository(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		service := services.NewItemService(mockRepo, mockCache, helpers.TestLogger())

		items := helpers.CreateTestItems(250)

		// 250 items at batch size 100 means three batches
		mockRepo.EXPECT().
			SaveBatch(gomock.Any(), gomock.Any()).
			Times(3).
			Return(nil)
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := service.ImportItems(context.Background(), items)
		require.NoError(t, err)
	})

	t.Run("returns_nil_for_empty_input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockItemRepository(ctrl)
		service := services.NewItemService(mockRepo, nil, helpers.TestLogger())

		err := service.ImportItems(context.Background(), nil)
		require.NoError(t, err)
	})

	t.Run("rejects_batch_containing_invalid_item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockItemRepository(ctrl)
		service := services.NewItemService(mockRepo, nil, helpers.TestLogger())

		items := helpers.CreateTestItems(2)
		items[1].Name = ""

		err := service.ImportItems(context.Background(), items)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("handles_batch_errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockItemRepository(ctrl)
		service := services.NewItemService(mockRepo, nil, helpers.TestLogger())

		items := helpers.CreateTestItems(150)

		gomock.InOrder(
			mockRepo.EXPECT().SaveBatch(gomock.Any(), gomock.Any()).Return(nil),
			mockRepo.EXPECT().SaveBatch(gomock.Any(), gomock.Any()).Return(errors.New("batch 2 failed")),
		)

		err := service.ImportItems(context.Background(), items)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 2 failed")
	})
}
