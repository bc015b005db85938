// internal/handlers/dashboard.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/vendpos-be/internal/adapters/db"
	redis_a "github.com/vendly/vendpos-be/internal/adapters/redis_adapter"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

const lowStockThreshold = 5

// DashboardHandler serves aggregate sales and stock figures
type DashboardHandler struct {
	db     *db.Database
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(database *db.Database, cache ports.CacheRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:     database,
		cache:  cache,
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var dashboard DashboardData

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}, 5*time.Minute)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	dashboard := &DashboardData{
		Timestamp: time.Now(),
	}

	summaryQuery := `
		SELECT
			(SELECT COUNT(*) FROM items) as total_items,
			(SELECT COALESCE(SUM(stock), 0) FROM items) as total_stock,
			(SELECT COALESCE(SUM(price * stock), 0) FROM items) as stock_value,
			(SELECT COUNT(*) FROM sales) as total_sales,
			(SELECT COALESCE(SUM(total), 0) FROM sales) as total_revenue,
			(SELECT COUNT(*) FROM sales WHERE sold_at >= date_trunc('day', NOW())) as sales_today,
			(SELECT COALESCE(SUM(total), 0) FROM sales WHERE sold_at >= date_trunc('day', NOW())) as revenue_today
	`

	err := h.db.QueryRow(ctx, summaryQuery).Scan(
		&dashboard.Summary.TotalItems,
		&dashboard.Summary.TotalStock,
		&dashboard.Summary.StockValue,
		&dashboard.Summary.TotalSales,
		&dashboard.Summary.TotalRevenue,
		&dashboard.Summary.SalesToday,
		&dashboard.Summary.RevenueToday,
	)
	if err != nil {
		return nil, err
	}

	topQuery := `
		SELECT
			COALESCE(i.name, 'Deleted Item') as name,
			SUM(s.quantity) as units_sold,
			SUM(s.total) as revenue
		FROM sales s
		LEFT JOIN items i ON i.id = s.item_id
		WHERE s.sold_at >= NOW() - INTERVAL '30 days'
		GROUP BY i.name
		ORDER BY units_sold DESC
		LIMIT 10
	`

	rows, err := h.db.Query(ctx, topQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var top TopSeller
		if err := rows.Scan(&top.Name, &top.UnitsSold, &top.Revenue); err != nil {
			continue
		}
		dashboard.TopSellers = append(dashboard.TopSellers, top)
	}

	paymentQuery := `
		SELECT payment_type, COUNT(*), SUM(total)
		FROM sales
		WHERE sold_at >= NOW() - INTERVAL '30 days'
		GROUP BY payment_type
		ORDER BY COUNT(*) DESC
	`

	payRows, err := h.db.Query(ctx, paymentQuery)
	if err == nil {
		defer payRows.Close()
		for payRows.Next() {
			var p PaymentBreakdown
			if err := payRows.Scan(&p.PaymentType, &p.Count, &p.Revenue); err == nil {
				dashboard.PaymentBreakdown = append(dashboard.PaymentBreakdown, p)
			}
		}
	}

	lowStockQuery := `
		SELECT id, name, stock
		FROM items
		WHERE stock <= $1
		ORDER BY stock ASC, name ASC
		LIMIT 20
	`

	lowRows, err := h.db.Query(ctx, lowStockQuery, lowStockThreshold)
	if err == nil {
		defer lowRows.Close()
		for lowRows.Next() {
			var low LowStockItem
			if err := lowRows.Scan(&low.ID, &low.Name, &low.Stock); err == nil {
				dashboard.LowStock = append(dashboard.LowStock, low)
			}
		}
	}

	return dashboard, nil
}

// Type definitions

type DashboardData struct {
	Summary          DashboardSummary   `json:"summary"`
	TopSellers       []TopSeller        `json:"top_sellers"`
	PaymentBreakdown []PaymentBreakdown `json:"payment_breakdown"`
	LowStock         []LowStockItem     `json:"low_stock"`
	Timestamp        time.Time          `json:"timestamp"`
}

type DashboardSummary struct {
	TotalItems   int64           `json:"total_items"`
	TotalStock   int64           `json:"total_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
	TotalSales   int64           `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	SalesToday   int64           `json:"sales_today"`
	RevenueToday decimal.Decimal `json:"revenue_today"`
}

type TopSeller struct {
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type PaymentBreakdown struct {
	PaymentType string          `json:"payment_type"`
	Count       int64           `json:"count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type LowStockItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Helper methods

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
