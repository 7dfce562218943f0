package handler

import (
	"log/slog"
	"net/http"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/service"
)

// AgentHandler handles the receptionist agent configuration
type AgentHandler struct {
	agents *service.AgentService
	logger *slog.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agents *service.AgentService, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{agents: agents, logger: logger}
}

// Get handles GET /api/agent
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	agent, err := h.agents.Get(businessID)
	if err != nil {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// List handles GET /api/agents
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	agents, err := h.agents.List(businessID)
	if err != nil {
		h.logger.Error("failed to list agents", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list agents")
		return
	}
	if agents == nil {
		agents = []*domain.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

// Create handles POST /api/agents
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	var req service.AgentCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	agent, err := h.agents.Create(businessID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

// Update handles PUT /api/agent
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	var req service.AgentUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	agent, err := h.agents.Update(businessID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, agent)
}
