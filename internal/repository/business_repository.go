package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pureai/hostdesk/internal/domain"
)

// PostgresBusinessRepository implements domain.BusinessRepository using PostgreSQL
type PostgresBusinessRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBusinessRepository creates a new business repository
func NewPostgresBusinessRepository(db *sql.DB, logger *slog.Logger) *PostgresBusinessRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBusinessRepository{db: db, logger: logger}
}

// Create creates a new business
func (r *PostgresBusinessRepository) Create(b *domain.Business) error {
	hours, err := json.Marshal(b.OpeningHours)
	if err != nil {
		return fmt.Errorf("failed to encode opening hours: %w", err)
	}

	query := `
		INSERT INTO businesses (id, name, email, password_hash, phone, phone_verified, business_type, language, opening_hours, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(
		query,
		b.ID,
		b.Name,
		b.Email,
		b.PasswordHash,
		b.Phone,
		b.PhoneVerified,
		b.BusinessType,
		b.Language,
		hours,
		b.IsActive,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create business",
			slog.String("email", b.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create business: %w", err)
	}

	return nil
}

const businessColumns = `id, name, email, password_hash, phone, phone_verified, business_type, language, opening_hours, created_at, updated_at, is_active`

func scanBusiness(row *sql.Row) (*domain.Business, error) {
	b := &domain.Business{}
	var hours []byte

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.PasswordHash,
		&b.Phone,
		&b.PhoneVerified,
		&b.BusinessType,
		&b.Language,
		&hours,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &b.OpeningHours); err != nil {
			return nil, fmt.Errorf("failed to decode opening hours: %w", err)
		}
	}
	return b, nil
}

// GetByID retrieves a business by ID
func (r *PostgresBusinessRepository) GetByID(id string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1 AND is_active = true`

	b, err := scanBusiness(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("business not found")
		}
		r.logger.Error("failed to get business by id",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return b, nil
}

// GetByEmail retrieves a business by email
func (r *PostgresBusinessRepository) GetByEmail(email string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE email = $1 AND is_active = true`

	b, err := scanBusiness(r.db.QueryRow(query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("business not found")
		}
		return nil, fmt.Errorf("failed to get business by email: %w", err)
	}
	return b, nil
}

// Update updates an existing business
func (r *PostgresBusinessRepository) Update(b *domain.Business) error {
	hours, err := json.Marshal(b.OpeningHours)
	if err != nil {
		return fmt.Errorf("failed to encode opening hours: %w", err)
	}

	query := `
		UPDATE businesses
		SET name = $1, phone = $2, phone_verified = $3, business_type = $4, language = $5, opening_hours = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`

	err = r.db.QueryRow(
		query,
		b.Name,
		b.Phone,
		b.PhoneVerified,
		b.BusinessType,
		b.Language,
		hours,
		b.ID,
	).Scan(&b.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("business not found")
		}
		return fmt.Errorf("failed to update business: %w", err)
	}

	return nil
}
