package service

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pureai/hostdesk/internal/domain"
)

// AgentService manages the receptionist agent configuration
type AgentService struct {
	agentRepo domain.AgentRepository
	logger    *slog.Logger
}

// NewAgentService creates a new agent service
func NewAgentService(agentRepo domain.AgentRepository, logger *slog.Logger) *AgentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentService{agentRepo: agentRepo, logger: logger}
}

// Get returns the business's agent
func (s *AgentService) Get(businessID string) (*domain.Agent, error) {
	agent, err := s.agentRepo.GetByBusiness(businessID)
	if err != nil || agent == nil {
		return nil, errors.New("agent not found")
	}
	return agent, nil
}

// List returns every agent owned by the business
func (s *AgentService) List(businessID string) ([]*domain.Agent, error) {
	return s.agentRepo.ListByBusiness(businessID)
}

// AgentCreate carries the fields of a new agent
type AgentCreate struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	Greeting     string `json:"greeting,omitempty"`
	Language     string `json:"language,omitempty"`
}

// Create adds another agent for the business, beyond the default one
// provisioned at signup
func (s *AgentService) Create(businessID string, create AgentCreate) (*domain.Agent, error) {
	name := strings.TrimSpace(create.Name)
	if name == "" {
		return nil, errors.New("agent name is required")
	}

	agent := &domain.Agent{
		ID:           uuid.NewString(),
		BusinessID:   businessID,
		Name:         name,
		SystemPrompt: create.SystemPrompt,
		Greeting:     create.Greeting,
		Language:     create.Language,
	}
	if err := s.agentRepo.Create(agent); err != nil {
		s.logger.Error("failed to create agent",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to create agent")
	}
	return agent, nil
}

// AgentUpdate carries editable agent fields. Nil fields are ignored.
type AgentUpdate struct {
	Name         *string `json:"name,omitempty"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
	Greeting     *string `json:"greeting,omitempty"`
	Language     *string `json:"language,omitempty"`
}

// Update applies a partial update to the business's agent
func (s *AgentService) Update(businessID string, update AgentUpdate) (*domain.Agent, error) {
	agent, err := s.Get(businessID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, errors.New("agent name must not be empty")
		}
		agent.Name = name
	}
	if update.SystemPrompt != nil {
		agent.SystemPrompt = *update.SystemPrompt
	}
	if update.Greeting != nil {
		agent.Greeting = *update.Greeting
	}
	if update.Language != nil {
		agent.Language = *update.Language
	}

	if err := s.agentRepo.Update(agent); err != nil {
		s.logger.Error("failed to update agent",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to update agent")
	}
	return agent, nil
}
