//go:build integration
// +build integration

package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/vendly/vendpos-be/internal/adapters/db"
	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
	"github.com/vendly/vendpos-be/test/helpers"
)

type SaleRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	items  ports.ItemRepository
	sales  ports.SaleRepository
	ctx    context.Context
}

func (s *SaleRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.items = db.NewItemRepository(s.testDB.Database, helpers.TestLogger())
	s.sales = db.NewSaleRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *SaleRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *SaleRepositorySuite) TestRecordSale_DecrementsStockAndAppends() {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Name = "Soda"
		i.Price = decimal.NewFromFloat(1.50)
		i.Stock = 10
	})
	s.NoError(s.items.Save(s.ctx, item))

	sale, err := s.sales.RecordSale(s.ctx, item.ID, 3, "cash", domain.BuyerCustomer)
	s.NoError(err)
	s.NotNil(sale)
	s.Equal(3, sale.Quantity)
	s.True(decimal.NewFromFloat(4.50).Equal(sale.Total))

	updated, err := s.items.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Equal(7, updated.Stock)

	count, err := s.sales.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *SaleRepositorySuite) TestRecordSale_InsufficientStock() {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Stock = 7
	})
	s.NoError(s.items.Save(s.ctx, item))

	sale, err := s.sales.RecordSale(s.ctx, item.ID, 100, "cash", domain.BuyerCustomer)
	s.ErrorIs(err, domain.ErrInsufficientStock)
	s.Nil(sale)

	// Nothing was written: stock unchanged, ledger empty
	unchanged, err := s.items.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Equal(7, unchanged.Stock)

	count, err := s.sales.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(0), count)
}

func (s *SaleRepositorySuite) TestRecordSale_UnknownItem() {
	sale, err := s.sales.RecordSale(s.ctx, uuid.New(), 1, "cash", domain.BuyerCustomer)
	s.ErrorIs(err, domain.ErrNotFound)
	s.Nil(sale)
}

func (s *SaleRepositorySuite) TestRecordSale_ExactStockDepletes() {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Stock = 5
	})
	s.NoError(s.items.Save(s.ctx, item))

	sale, err := s.sales.RecordSale(s.ctx, item.ID, 5, "card", domain.BuyerStaff)
	s.NoError(err)
	s.NotNil(sale)

	depleted, err := s.items.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Equal(0, depleted.Stock)

	// Next sale against the depleted item fails
	_, err = s.sales.RecordSale(s.ctx, item.ID, 1, "card", domain.BuyerStaff)
	s.ErrorIs(err, domain.ErrInsufficientStock)
}

func (s *SaleRepositorySuite) TestRecordSale_ConcurrentSalesNeverOversell() {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Stock = 10
	})
	s.NoError(s.items.Save(s.ctx, item))

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.sales.RecordSale(context.Background(), item.ID, 1, "cash", domain.BuyerCustomer)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, domain.ErrInsufficientStock)
			rejected++
		}
	}

	s.Equal(10, succeeded)
	s.Equal(10, rejected)

	final, err := s.items.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Equal(0, final.Stock)

	count, err := s.sales.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(10), count)
}

func (s *SaleRepositorySuite) TestFindInRange_Boundaries() {
	item := helpers.CreateTestItem()
	s.NoError(s.items.Save(s.ctx, item))

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{-48 * time.Hour, 0, 48 * time.Hour} {
		sale := helpers.CreateTestSale(item.ID, func(sl *domain.Sale) {
			sl.SoldAt = base.Add(offset)
		})
		s.NoError(s.sales.Append(s.ctx, sale))
	}

	from := base.Add(-time.Hour)
	to := base.Add(time.Hour)
	records, err := s.sales.FindInRange(s.ctx, &from, &to)
	s.NoError(err)
	s.Len(records, 1)
	s.True(records[0].Sale.SoldAt.Equal(base))

	// Bounds are inclusive
	exact := base
	records, err = s.sales.FindInRange(s.ctx, &exact, &exact)
	s.NoError(err)
	s.Len(records, 1)

	// Nil bounds are unbounded
	records, err = s.sales.FindInRange(s.ctx, nil, nil)
	s.NoError(err)
	s.Len(records, 3)
}

func (s *SaleRepositorySuite) TestFindInRange_DeletedItemSurvivesInLedger() {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Name = "Soda"
		i.Stock = 10
	})
	s.NoError(s.items.Save(s.ctx, item))

	_, err := s.sales.RecordSale(s.ctx, item.ID, 2, "cash", domain.BuyerCustomer)
	s.NoError(err)

	s.NoError(s.items.Delete(s.ctx, item.ID))

	records, err := s.sales.FindInRange(s.ctx, nil, nil)
	s.NoError(err)
	s.Len(records, 1)
	s.Nil(records[0].ItemName)
	s.Equal(item.ID, records[0].Sale.ItemID)
}

func TestSaleRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(SaleRepositorySuite))
}
