// internal/handlers/items.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendly/vendpos-be/internal/core/ports"
)

// ItemHandler handles item store operations
type ItemHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(service ports.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "items")),
	}
}

// CreateItemRequest represents the request body for creating an item.
// Price is a pointer so a missing price is distinguishable from an
// explicit zero.
type CreateItemRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock int              `json:"stock"`
}

// Validate performs the request-level checks that do not need domain state
func (r *CreateItemRequest) Validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if r.Price == nil {
		return "price is required"
	}
	if r.Price.IsNegative() {
		return "price cannot be negative"
	}
	if r.Stock < 0 {
		return "stock cannot be negative"
	}
	return ""
}

// CreateItem handles POST /api/v1/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.Validate(); msg != "" {
		h.respondError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.service.Create(ctx, ports.CreateItemParams{
		Name:  strings.TrimSpace(req.Name),
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		h.respondError(w, statusFromError(err), clientMessage(err))
		return
	}

	h.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID.String()),
		slog.String("name", item.Name))

	h.respondJSON(w, http.StatusCreated, item)
}

// ListItems handles GET /api/v1/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		h.respondError(w, statusFromError(err), clientMessage(err))
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		h.respondError(w, statusFromError(err), clientMessage(err))
		return
	}

	h.logger.InfoContext(ctx, "item deleted", slog.String("item_id", id.String()))

	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *ItemHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ItemHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
