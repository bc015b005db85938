package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendly/vendpos-be/internal/adapters/db"
	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
	"github.com/vendly/vendpos-be/internal/core/services"
	"github.com/vendly/vendpos-be/test/helpers"
)

func BenchmarkStoreOperations(b *testing.B) {
	// Setup
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	logger := helpers.TestLogger()
	itemRepo := db.NewItemRepository(testDB.Database, logger)
	saleRepo := db.NewSaleRepository(testDB.Database, logger)
	itemService := services.NewItemService(itemRepo, nil, logger)
	saleService := services.NewSaleService(saleRepo, nil, logger)
	ctx := context.Background()

	b.Run("CreateItem", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			price := decimal.NewFromFloat(1.50)
			_, _ = itemService.Create(ctx, ports.CreateItemParams{
				Name:  fmt.Sprintf("Benchmark Item %d", i),
				Price: &price,
				Stock: 1000,
			})
		}
	})

	// Pre-create a heavily stocked item for the sale benchmark
	price := decimal.NewFromFloat(1.50)
	item, err := itemService.Create(ctx, ports.CreateItemParams{
		Name:  "Benchmark Cola",
		Price: &price,
		Stock: 10_000_000,
	})
	if err != nil {
		b.Fatalf("failed to seed item: %v", err)
	}

	b.Run("RecordSale", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = saleService.RecordSale(ctx, ports.RecordSaleParams{
				ItemID:      item.ID,
				Quantity:    1,
				PaymentType: "cash",
				BuyerType:   domain.BuyerCustomer,
			})
		}
	})

	b.Run("ListItems", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = itemService.List(ctx)
		}
	})

	b.Run("BatchImport", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			items := make([]domain.Item, 100)
			for j := range items {
				items[j] = *helpers.CreateTestItem(func(it *domain.Item) {
					it.Name = fmt.Sprintf("Batch Item %d-%d", i, j)
				})
			}
			_ = itemService.ImportItems(ctx, items)
		}
	})
}

func BenchmarkReportRendering(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		repo := newMemorySaleRepository(size)
		service := services.NewReportService(repo, helpers.TestLogger())
		ctx := context.Background()

		b.Run(fmt.Sprintf("Excel_%d_rows", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = service.Generate(ctx, ports.ReportParams{Format: ports.FormatExcel})
			}
		})

		b.Run(fmt.Sprintf("PDF_%d_rows", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = service.Generate(ctx, ports.ReportParams{Format: ports.FormatPDF})
			}
		})
	}
}

// Memory allocation benchmarks
func BenchmarkMemoryAllocation(b *testing.B) {
	b.Run("Sale", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = &domain.Sale{
				ID:          uuid.New(),
				ItemID:      uuid.New(),
				Quantity:    1,
				Total:       decimal.NewFromFloat(1.50),
				PaymentType: "cash",
				BuyerType:   domain.BuyerCustomer,
			}
		}
	})

	b.Run("SaleRecordSlice", func(b *testing.B) {
		repo := newMemorySaleRepository(100)

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			records, _ := repo.FindInRange(context.Background(), nil, nil)
			_ = records
		}
	})
}
