// internal/handlers/inventory.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// StockAdjustmentRequest moves the stock of a part by Delta units
type StockAdjustmentRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
}

// CreatePart handles POST /api/v1/inventory/parts
func (h *InventoryHandler) CreatePart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ports.CreatePartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	part, err := h.service.CreatePart(ctx, req)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "create inventory part")
		return
	}

	w.Header().Set("Location", "/api/v1/inventory/parts/"+part.ID.String())
	respondJSON(ctx, h.logger, w, http.StatusCreated, part)
}

// GetPart handles GET /api/v1/inventory/parts/{id}
func (h *InventoryHandler) GetPart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	part, err := h.service.GetPart(ctx, id)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "retrieve inventory part")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, part)
}

// ListParts handles GET /api/v1/inventory/parts
func (h *InventoryHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.ListParts(ctx, parsePartListParams(r))
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "list inventory parts")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, result)
}

// LowStockReport handles GET /api/v1/inventory/parts/low-stock
func (h *InventoryHandler) LowStockReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.LowStockReport(ctx)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "build low stock report")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, report)
}

// AdjustStock handles POST /api/v1/inventory/parts/{id}/stock
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	var req StockAdjustmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Delta == 0 {
		respondJSON(ctx, h.logger, w, http.StatusBadRequest, ErrorResponse{Error: "delta: must not be zero", Field: "delta"})
		return
	}

	part, err := h.service.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "adjust stock")
		return
	}

	h.logger.InfoContext(ctx, "stock adjusted",
		slog.String("part_id", id.String()),
		slog.Int("delta", req.Delta),
		slog.String("reason", req.Reason),
		slog.Int("current_stock", part.CurrentStock))

	respondJSON(ctx, h.logger, w, http.StatusOK, part)
}

// DeletePart handles DELETE /api/v1/inventory/parts/{id}
func (h *InventoryHandler) DeletePart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	if err := h.service.DeletePart(ctx, id); err != nil {
		respondServiceError(ctx, h.logger, w, err, "delete inventory part")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePartListParams parses query parameters for listing parts
func parsePartListParams(r *http.Request) ports.PartListParams {
	q := r.URL.Query()
	params := ports.PartListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "name",
		SortOrder: "asc",
		Search:    q.Get("search"),
		Category:  strings.ToUpper(q.Get("category")),
		Model:     q.Get("model"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		params.PageSize = min(limit, 100)
	}
	if low, err := strconv.ParseBool(q.Get("low_stock")); err == nil {
		params.LowStockOnly = low
	}
	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}
