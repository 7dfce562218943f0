package handler

import (
	"log/slog"
	"net/http"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/service"
)

// BusinessHandler handles profile, opening hours, and phone verification
type BusinessHandler struct {
	business *service.BusinessService
	auth     *service.AuthService
	logger   *slog.Logger
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(business *service.BusinessService, auth *service.AuthService, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{business: business, auth: auth, logger: logger}
}

// GetProfile handles GET /api/business/profile
func (h *BusinessHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	business, _, err := h.auth.Me(businessID)
	if err != nil {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}
	writeJSON(w, http.StatusOK, business)
}

// UpdateProfile handles PUT /api/business/profile
func (h *BusinessHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	var req service.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	business, err := h.business.UpdateProfile(businessID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, business)
}

// UpdateHours handles PUT /api/business/hours
func (h *BusinessHandler) UpdateHours(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	var req struct {
		OpeningHours domain.OpeningHours `json:"openingHours"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	hours, err := h.business.UpdateHours(businessID, req.OpeningHours)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"openingHours": hours})
}

// SendPhoneCode handles POST /api/business/phone/send-code
func (h *BusinessHandler) SendPhoneCode(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	if err := h.business.SendPhoneCode(r.Context(), businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

// VerifyPhoneCode handles POST /api/business/phone/verify
func (h *BusinessHandler) VerifyPhoneCode(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.business.VerifyPhoneCode(r.Context(), businessID, req.Code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "phone verified"})
}
