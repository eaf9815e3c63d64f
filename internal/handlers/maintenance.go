// internal/handlers/maintenance.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/core/services"
)

// MaintenanceHandler handles maintenance-related HTTP requests
type MaintenanceHandler struct {
	service ports.MaintenanceService
	logger  *slog.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(service ports.MaintenanceService, logger *slog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "maintenance")),
	}
}

// CreateMaintenance handles POST /api/v1/maintenances
func (h *MaintenanceHandler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ports.CreateMaintenanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Create(ctx, req)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "create maintenance")
		return
	}

	h.logger.InfoContext(ctx, "maintenance created",
		slog.String("maintenance_id", resp.ID.String()),
		slog.String("motorcycle_id", resp.MotorcycleID.String()))

	w.Header().Set("Location", "/api/v1/maintenances/"+resp.ID.String())
	respondJSON(ctx, h.logger, w, http.StatusCreated, resp)
}

// GetMaintenance handles GET /api/v1/maintenances/{id}
func (h *MaintenanceHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid maintenance ID format")
		return
	}

	resp, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "retrieve maintenance")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, resp)
}

// ListMaintenances handles GET /api/v1/maintenances
func (h *MaintenanceHandler) ListMaintenances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseMaintenanceListParams(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "list maintenances")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, result)
}

// ListDue handles GET /api/v1/maintenances/due?date=
func (h *MaintenanceHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var date time.Time
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw != "" {
		parsed, err := services.NormalizeDate("date", raw)
		if err != nil {
			respondServiceError(ctx, h.logger, w, err, "list due maintenances")
			return
		}
		date = *parsed
		// a bare day includes everything scheduled on it
		if len(raw) == len(time.DateOnly) {
			date = date.Add(24*time.Hour - time.Nanosecond)
		}
	}

	items, err := h.service.ListDue(ctx, date)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "list due maintenances")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// UpdateMaintenance handles PATCH /api/v1/maintenances/{id}
func (h *MaintenanceHandler) UpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid maintenance ID format")
		return
	}

	var req ports.UpdateMaintenanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Update(ctx, id, req)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "update maintenance")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, resp)
}

// StartMaintenance handles POST /api/v1/maintenances/{id}/start
func (h *MaintenanceHandler) StartMaintenance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start maintenance", h.service.Start)
}

// CancelMaintenance handles POST /api/v1/maintenances/{id}/cancel
func (h *MaintenanceHandler) CancelMaintenance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel maintenance", h.service.Cancel)
}

func (h *MaintenanceHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	fn func(context.Context, uuid.UUID) (*ports.MaintenanceResponse, error),
) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid maintenance ID format")
		return
	}

	resp, err := fn(ctx, id)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, action)
		return
	}

	h.logger.InfoContext(ctx, "maintenance status changed",
		slog.String("maintenance_id", id.String()),
		slog.String("status", resp.Status))

	respondJSON(ctx, h.logger, w, http.StatusOK, resp)
}

// CompleteMaintenance handles POST /api/v1/maintenances/{id}/complete
func (h *MaintenanceHandler) CompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid maintenance ID format")
		return
	}

	var req ports.CompleteMaintenanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.MaintenanceID = id

	resp, err := h.service.Complete(ctx, req)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "complete maintenance")
		return
	}

	h.logger.InfoContext(ctx, "maintenance completed",
		slog.String("maintenance_id", id.String()),
		slog.Int("replaced_parts", len(resp.ReplacedParts)))

	respondJSON(ctx, h.logger, w, http.StatusOK, resp)
}

// DeleteMaintenance handles DELETE /api/v1/maintenances/{id}
func (h *MaintenanceHandler) DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "Invalid maintenance ID format")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondServiceError(ctx, h.logger, w, err, "delete maintenance")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseMaintenanceListParams(r *http.Request) (ports.MaintenanceListParams, error) {
	q := r.URL.Query()
	params := ports.MaintenanceListParams{
		Page:      1,
		PageSize:  50,
		Status:    strings.ToUpper(q.Get("status")),
		Type:      strings.ToUpper(q.Get("type")),
		SortOrder: q.Get("order"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		params.PageSize = min(limit, 100)
	}

	if raw := q.Get("motorcycle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, errInvalidQuery("motorcycle_id")
		}
		params.MotorcycleID = &id
	}
	for key, dst := range map[string]**time.Time{"from": &params.ScheduledFrom, "to": &params.ScheduledTo} {
		if raw := q.Get(key); raw != "" {
			t, err := services.NormalizeDate(key, raw)
			if err != nil {
				return params, errInvalidQuery(key)
			}
			*dst = t
		}
	}

	return params, nil
}

type errInvalidQuery string

func (e errInvalidQuery) Error() string { return "invalid " + string(e) + " parameter" }
