package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"
)

// CatalogItem is a row destined for the items table
type CatalogItem struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Stock int
}

// DemoSale is a generated historical sale for the ledger
type DemoSale struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	Quantity    int
	Total       decimal.Decimal
	PaymentType string
	BuyerType   string
	SoldAt      time.Time
}

var paymentTypes = []string{"cash", "card", "mobile"}

// buyerWeights skews generated sales toward regular customers
var buyerWeights = []struct {
	buyer  string
	weight int
}{
	{"customer", 85},
	{"staff", 10},
	{"owner", 5},
}

// defaultCatalog seeds a small machine when no Excel file is given
var defaultCatalog = []struct {
	name  string
	price string
	stock int
}{
	{"Cola 330ml", "1.50", 24},
	{"Diet Cola 330ml", "1.50", 24},
	{"Sparkling Water 500ml", "1.20", 18},
	{"Still Water 500ml", "1.00", 30},
	{"Orange Juice 250ml", "1.80", 12},
	{"Energy Drink 250ml", "2.50", 12},
	{"Salted Crisps 40g", "1.10", 20},
	{"Cheese Crackers 50g", "1.30", 15},
	{"Chocolate Bar 45g", "1.40", 25},
	{"Peanut Bag 60g", "1.20", 15},
	{"Granola Bar 35g", "1.60", 10},
	{"Chewing Gum", "0.80", 30},
	{"Instant Coffee Cup", "2.00", 8},
	{"Trail Mix 80g", "2.20", 10},
	{"Cookies 3-pack", "1.70", 12},
}

func main() {
	var (
		catalogFile = flag.String("catalog", "", "Excel file with item catalog (columns: name, price, stock)")
		salesCount  = flag.Int("sales", 0, "Number of demo sales to generate against the seeded catalog")
		salesDays   = flag.Int("days", 30, "Spread generated sales over this many past days")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun      = flag.Bool("dry-run", false, "Preview changes without modifying database")
		truncate    = flag.Bool("truncate", false, "Empty items and sales tables before seeding")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "vendpos"),
		getEnv("DB_PASSWORD", "vendpos_dev_2026"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "vendpos"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	var db *pgxpool.Pool
	var err error

	if !*dryRun {
		db, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
	}

	// Build catalog
	var items []CatalogItem
	if *catalogFile != "" {
		items, err = loadCatalogFromExcel(*catalogFile)
		if err != nil {
			logger.Error("Failed to load catalog file",
				slog.String("file", *catalogFile),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		items = builtinCatalog()
	}

	if len(items) == 0 {
		logger.Error("Catalog is empty, nothing to seed")
		os.Exit(1)
	}

	sales := generateSales(items, *salesCount, *salesDays)

	if *dryRun {
		fmt.Printf("[DRY RUN] Would seed %d items and %d sales\n", len(items), len(sales))
		for _, item := range items {
			fmt.Printf("  - %s  $%s  stock=%d\n", item.Name, item.Price.StringFixed(2), item.Stock)
		}
		return
	}

	if *truncate {
		if _, err := db.Exec(ctx, "TRUNCATE items, sales"); err != nil {
			logger.Error("Failed to truncate tables", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Truncated items and sales tables")
	}

	if err := saveItems(ctx, db, items); err != nil {
		logger.Error("Failed to save items", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if len(sales) > 0 {
		if err := saveSales(ctx, db, sales); err != nil {
			logger.Error("Failed to save sales", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING OPERATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Items Seeded: %d\n", len(items))
	fmt.Printf("Sales Generated: %d\n", len(sales))

	logger.Info("Seed operation completed",
		slog.Int("items_created", len(items)),
		slog.Int("sales_created", len(sales)))
}

func builtinCatalog() []CatalogItem {
	items := make([]CatalogItem, 0, len(defaultCatalog))
	for _, row := range defaultCatalog {
		price, _ := decimal.NewFromString(row.price)
		items = append(items, CatalogItem{
			ID:    uuid.New(),
			Name:  row.name,
			Price: price,
			Stock: row.stock,
		})
	}
	return items
}

// loadCatalogFromExcel reads the first sheet; the first row is a header.
// Columns: A=name, B=price, C=stock.
func loadCatalogFromExcel(path string) ([]CatalogItem, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.Sheets[0]
	defer sheet.Close()

	var items []CatalogItem
	rowIdx := 0
	err = sheet.ForEachRow(func(row *xlsx.Row) error {
		rowIdx++
		if rowIdx == 1 {
			return nil // header
		}

		name := strings.TrimSpace(row.GetCell(0).Value)
		if name == "" {
			return nil
		}

		priceRaw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(row.GetCell(1).Value), "$"))
		price, err := decimal.NewFromString(priceRaw)
		if err != nil {
			return fmt.Errorf("row %d: invalid price %q", rowIdx, priceRaw)
		}

		stockRaw := strings.TrimSpace(row.GetCell(2).Value)
		stock := 0
		if stockRaw != "" {
			stock, err = strconv.Atoi(stockRaw)
			if err != nil {
				return fmt.Errorf("row %d: invalid stock %q", rowIdx, stockRaw)
			}
		}

		items = append(items, CatalogItem{
			ID:    uuid.New(),
			Name:  name,
			Price: price,
			Stock: stock,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// generateSales fabricates a plausible sale history over the past days
func generateSales(items []CatalogItem, count, days int) []DemoSale {
	if count <= 0 {
		return nil
	}
	if days < 1 {
		days = 1
	}

	sales := make([]DemoSale, 0, count)
	now := time.Now()

	for i := 0; i < count; i++ {
		item := items[rand.Intn(len(items))]
		quantity := 1 + rand.Intn(3)
		soldAt := now.Add(-time.Duration(rand.Intn(days*24*60)) * time.Minute)

		sales = append(sales, DemoSale{
			ID:          uuid.New(),
			ItemID:      item.ID,
			Quantity:    quantity,
			Total:       item.Price.Mul(decimal.NewFromInt(int64(quantity))),
			PaymentType: paymentTypes[rand.Intn(len(paymentTypes))],
			BuyerType:   pickBuyer(),
			SoldAt:      soldAt,
		})
	}

	return sales
}

func pickBuyer() string {
	n := rand.Intn(100)
	for _, bw := range buyerWeights {
		if n < bw.weight {
			return bw.buyer
		}
		n -= bw.weight
	}
	return "customer"
}

func saveItems(ctx context.Context, db *pgxpool.Pool, items []CatalogItem) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO items (id, name, price, stock)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			item.ID, item.Name, item.Price, item.Stock,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("Saved items to database", slog.Int("count", len(items)))
	return nil
}

func saveSales(ctx context.Context, db *pgxpool.Pool, sales []DemoSale) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, sale := range sales {
		batch.Queue(`
			INSERT INTO sales (id, item_id, quantity, total, payment_type, buyer_type, sold_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			sale.ID, sale.ItemID, sale.Quantity, sale.Total,
			sale.PaymentType, sale.BuyerType, sale.SoldAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range sales {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert sale: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("Saved sales to database", slog.Int("count", len(sales)))
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
