//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/vendly/vendpos-be/internal/adapters/db"
	redis_a "github.com/vendly/vendpos-be/internal/adapters/redis_adapter"
	"github.com/vendly/vendpos-be/internal/core/services"
	"github.com/vendly/vendpos-be/internal/handlers"
	"github.com/vendly/vendpos-be/test/helpers"
)

type SaleE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
}

func (s *SaleE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *SaleE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *SaleE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *SaleE2ESuite) TestCompleteSaleWorkflow() {
	// 1. Stock the machine
	createReq := map[string]interface{}{
		"name":  "Cola 330ml",
		"price": "1.50",
		"stock": 10,
	}

	resp := s.makeRequest("POST", "/items", createReq)
	s.Equal(http.StatusCreated, resp.StatusCode)

	var createdItem map[string]interface{}
	s.decodeResponse(resp, &createdItem)

	itemID := createdItem["id"].(string)
	s.NotEmpty(itemID)

	// 2. List items
	resp = s.makeRequest("GET", "/items", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var listResponse map[string]interface{}
	s.decodeResponse(resp, &listResponse)
	s.Equal(float64(1), listResponse["count"])

	// 3. Record a sale
	saleReq := map[string]interface{}{
		"item_id":      itemID,
		"quantity":     3,
		"payment_type": "cash",
	}

	resp = s.makeRequest("POST", "/sales", saleReq)
	s.Equal(http.StatusCreated, resp.StatusCode)

	var sale map[string]interface{}
	s.decodeResponse(resp, &sale)
	s.Equal("4.50", sale["total"])
	s.Equal("customer", sale["buyer_type"])

	// 4. Stock was decremented
	resp = s.makeRequest("GET", "/items", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &listResponse)
	items := listResponse["items"].([]interface{})
	s.Equal(float64(7), items[0].(map[string]interface{})["stock"])

	// 5. Overselling is rejected and writes nothing
	saleReq["quantity"] = 50
	resp = s.makeRequest("POST", "/sales", saleReq)
	s.Equal(http.StatusConflict, resp.StatusCode)

	// 6. Export the report
	resp = s.makeRequest("GET", "/reports/export?format=excel", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))

	// 7. Delete the item; the ledger survives
	resp = s.makeRequest("DELETE", fmt.Sprintf("/items/%s", itemID), nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.makeRequest("GET", "/reports/export?format=pdf", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/pdf", resp.Header.Get("Content-Type"))
}

func (s *SaleE2ESuite) TestConcurrentSalesNeverOversell() {
	createReq := map[string]interface{}{
		"name":  "Energy Drink 250ml",
		"price": "2.50",
		"stock": 5,
	}

	resp := s.makeRequest("POST", "/items", createReq)
	s.Equal(http.StatusCreated, resp.StatusCode)

	var createdItem map[string]interface{}
	s.decodeResponse(resp, &createdItem)
	itemID := createdItem["id"].(string)

	// 10 concurrent single-unit sales against 5 units of stock
	var wg sync.WaitGroup
	results := make(chan int, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.makeRequest("POST", "/sales", map[string]interface{}{
				"item_id":      itemID,
				"quantity":     1,
				"payment_type": "card",
			})
			resp.Body.Close()
			results <- resp.StatusCode
		}()
	}

	wg.Wait()
	close(results)

	created, conflicts := 0, 0
	for code := range results {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}

	s.Equal(5, created)
	s.Equal(5, conflicts)

	// Stock must be exactly zero, never negative
	var listResponse map[string]interface{}
	resp = s.makeRequest("GET", "/items", nil)
	s.decodeResponse(resp, &listResponse)
	items := listResponse["items"].([]interface{})
	s.Equal(float64(0), items[0].(map[string]interface{})["stock"])
}

func (s *SaleE2ESuite) TestEmptyReportRange() {
	resp := s.makeRequest("GET", "/reports/export?format=excel&from=2020-01-01&to=2020-01-02", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *SaleE2ESuite) TestUnknownJobStatus() {
	resp := s.makeRequest("GET", fmt.Sprintf("/jobs/%s", uuid.New()), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

// Helper methods

func (s *SaleE2ESuite) startTestServer() *httptest.Server {
	logger := helpers.TestLogger()

	itemRepo := db.NewItemRepository(s.testDB.Database, logger)
	saleRepo := db.NewSaleRepository(s.testDB.Database, logger)
	jobRepo := db.NewJobRepository(s.testDB.Database, logger)

	cache := redis_a.NewCache(s.testRedis.Client, time.Hour, logger)

	itemService := services.NewItemService(itemRepo, cache, logger)
	saleService := services.NewSaleService(saleRepo, cache, logger)
	reportService := services.NewReportService(saleRepo, logger)

	itemHandler := handlers.NewItemHandler(itemService, logger)
	saleHandler := handlers.NewSaleHandler(saleService, logger)
	reportHandler := handlers.NewReportHandler(reportService, jobRepo, nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/items", itemHandler.CreateItem)
	mux.HandleFunc("GET /api/v1/items", itemHandler.ListItems)
	mux.HandleFunc("DELETE /api/v1/items/{id}", itemHandler.DeleteItem)
	mux.HandleFunc("POST /api/v1/sales", saleHandler.RecordSale)
	mux.HandleFunc("GET /api/v1/reports/export", reportHandler.ExportReport)
	mux.HandleFunc("GET /api/v1/jobs/{id}", reportHandler.GetJobStatus)

	return httptest.NewServer(mux)
}

func (s *SaleE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.NoError(err)

	return resp
}

func (s *SaleE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(v)
	s.NoError(err)
}

func TestSaleE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(SaleE2ESuite))
}
