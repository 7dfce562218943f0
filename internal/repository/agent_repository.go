package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pureai/hostdesk/internal/domain"
)

// PostgresAgentRepository implements domain.AgentRepository using PostgreSQL
type PostgresAgentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresAgentRepository creates a new agent repository
func NewPostgresAgentRepository(db *sql.DB, logger *slog.Logger) *PostgresAgentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAgentRepository{db: db, logger: logger}
}

// Create creates a new agent configuration
func (r *PostgresAgentRepository) Create(a *domain.Agent) error {
	query := `
		INSERT INTO agents (id, business_id, name, system_prompt, greeting, voice_agent_id, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		a.ID,
		a.BusinessID,
		a.Name,
		a.SystemPrompt,
		a.Greeting,
		a.VoiceAgentID,
		a.Language,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create agent",
			slog.String("business_id", a.BusinessID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return nil
}

// GetByBusiness retrieves the agent for a business
func (r *PostgresAgentRepository) GetByBusiness(businessID string) (*domain.Agent, error) {
	a := &domain.Agent{}

	query := `
		SELECT id, business_id, name, system_prompt, greeting, voice_agent_id, language, created_at, updated_at
		FROM agents
		WHERE business_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	err := r.db.QueryRow(query, businessID).Scan(
		&a.ID,
		&a.BusinessID,
		&a.Name,
		&a.SystemPrompt,
		&a.Greeting,
		&a.VoiceAgentID,
		&a.Language,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agent not found")
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return a, nil
}

// ListByBusiness lists all agents for a business (legacy surface; a
// business normally has exactly one)
func (r *PostgresAgentRepository) ListByBusiness(businessID string) ([]*domain.Agent, error) {
	query := `
		SELECT id, business_id, name, system_prompt, greeting, voice_agent_id, language, created_at, updated_at
		FROM agents
		WHERE business_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, businessID)
	if err != nil {
		r.logger.Error("failed to list agents",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		a := &domain.Agent{}
		err := rows.Scan(
			&a.ID,
			&a.BusinessID,
			&a.Name,
			&a.SystemPrompt,
			&a.Greeting,
			&a.VoiceAgentID,
			&a.Language,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}

	return agents, rows.Err()
}

// Update updates an agent configuration
func (r *PostgresAgentRepository) Update(a *domain.Agent) error {
	query := `
		UPDATE agents
		SET name = $1, system_prompt = $2, greeting = $3, voice_agent_id = $4, language = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		a.Name,
		a.SystemPrompt,
		a.Greeting,
		a.VoiceAgentID,
		a.Language,
		a.ID,
	).Scan(&a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("agent not found")
		}
		return fmt.Errorf("failed to update agent: %w", err)
	}

	return nil
}
