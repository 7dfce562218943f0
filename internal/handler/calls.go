package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/service"
)

// CallsHandler exposes the call history
type CallsHandler struct {
	calls  *service.CallService
	logger *slog.Logger
}

// NewCallsHandler creates a new calls handler
func NewCallsHandler(calls *service.CallService, logger *slog.Logger) *CallsHandler {
	return &CallsHandler{calls: calls, logger: logger}
}

// List handles GET /api/calls with page, limit, and type query params
func (h *CallsHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	callType := r.URL.Query().Get("type")

	result, err := h.calls.List(businessID, callType, page, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if result.Calls == nil {
		result.Calls = []*domain.CallLog{}
	}
	writeJSON(w, http.StatusOK, result)
}

// ListFlat handles GET /api/call-logs, the pre-pagination shape kept
// for older dashboard builds. It returns a bare array.
func (h *CallsHandler) ListFlat(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	result, err := h.calls.List(businessID, "", 1, 100)
	if err != nil {
		h.logger.Error("failed to list call logs", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list calls")
		return
	}
	calls := result.Calls
	if calls == nil {
		calls = []*domain.CallLog{}
	}
	writeJSON(w, http.StatusOK, calls)
}
