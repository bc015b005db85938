// internal/handlers/sales.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vendly/vendpos-be/internal/core/domain"
	"github.com/vendly/vendpos-be/internal/core/ports"
)

// SaleHandler handles the point-of-sale transaction endpoint
type SaleHandler struct {
	service ports.SaleService
	logger  *slog.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service ports.SaleService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "sales")),
	}
}

// RecordSaleRequest represents the request body for recording a sale
type RecordSaleRequest struct {
	ItemID      string `json:"item_id"`
	Quantity    int    `json:"quantity"`
	PaymentType string `json:"payment_type"`
	BuyerType   string `json:"buyer_type,omitempty"`
}

// RecordSale handles POST /api/v1/sales
func (h *SaleHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid item_id")
		return
	}

	buyer, err := domain.ParseBuyerType(req.BuyerType)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sale, err := h.service.RecordSale(ctx, ports.RecordSaleParams{
		ItemID:      itemID,
		Quantity:    req.Quantity,
		PaymentType: req.PaymentType,
		BuyerType:   buyer,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record sale",
			slog.String("item_id", itemID.String()),
			slog.Int("quantity", req.Quantity),
			slog.String("error", err.Error()))
		h.respondError(w, statusFromError(err), clientMessage(err))
		return
	}

	h.logger.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", sale.ID.String()),
		slog.String("item_id", sale.ItemID.String()),
		slog.Int("quantity", sale.Quantity),
		slog.String("total", sale.Total.StringFixed(2)))

	h.respondJSON(w, http.StatusCreated, sale)
}

// Helper methods

func (h *SaleHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *SaleHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
