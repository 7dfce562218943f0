package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pureai/hostdesk/internal/security/audit"
	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/service"
)

// TablesHandler handles per-table operations: delete, seat, free,
// maintenance.
type TablesHandler struct {
	layout *service.LayoutService
	tables *service.TableService
	audit  *audit.Logger
	logger *slog.Logger
}

// NewTablesHandler creates a new tables handler
func NewTablesHandler(layout *service.LayoutService, tables *service.TableService, auditLog *audit.Logger, logger *slog.Logger) *TablesHandler {
	return &TablesHandler{layout: layout, tables: tables, audit: auditLog, logger: logger}
}

// Deactivate handles DELETE /api/tables/{id}, a soft delete that keeps
// booking history.
func (h *TablesHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	tableID := r.PathValue("id")

	if err := h.layout.DeactivateTable(businessID, tableID); err != nil {
		h.respondTableErr(w, err)
		return
	}
	h.audit.LogTableDelete(r.Context(), businessID, tableID, "success", "soft delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "table deleted"})
}

// Delete handles DELETE /api/tables/{id}/hard, removing the row
// entirely. The layout editor uses this when discarding a table it
// just created.
func (h *TablesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	tableID := r.PathValue("id")

	if err := h.tables.SetAvailable(businessID, tableID); err != nil {
		h.respondTableErr(w, err)
		return
	}
	if err := h.layout.DeleteTable(businessID, tableID); err != nil {
		h.respondTableErr(w, err)
		return
	}
	h.audit.LogTableDelete(r.Context(), businessID, tableID, "success", "hard delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "table deleted"})
}

// Seat handles POST /api/tables/{id}/seat
func (h *TablesHandler) Seat(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	tableID := r.PathValue("id")

	// The dashboard seats without a body. An empty body is a walk-in
	// with all defaults.
	var req service.WalkIn
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	booking, err := h.tables.SeatWalkIn(businessID, tableID, req)
	if err != nil {
		h.audit.LogSeat(r.Context(), businessID, tableID, "denied", err.Error())
		h.respondTableErr(w, err)
		return
	}

	h.audit.LogSeat(r.Context(), businessID, tableID, "success", "walk-in seated")
	writeJSON(w, http.StatusCreated, booking)
}

// SetAvailable handles POST /api/tables/{id}/available
func (h *TablesHandler) SetAvailable(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	tableID := r.PathValue("id")

	if err := h.tables.SetAvailable(businessID, tableID); err != nil {
		h.respondTableErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "table available"})
}

// ToggleMaintenance handles POST /api/tables/{id}/maintenance
func (h *TablesHandler) ToggleMaintenance(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	tableID := r.PathValue("id")

	table, err := h.tables.ToggleMaintenance(businessID, tableID)
	if err != nil {
		h.respondTableErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *TablesHandler) respondTableErr(w http.ResponseWriter, err error) {
	switch err {
	case service.ErrTableNotFound, service.ErrFloorNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case service.ErrTableOccupied:
		writeError(w, http.StatusConflict, err.Error())
	case service.ErrPartyTooLarge:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
