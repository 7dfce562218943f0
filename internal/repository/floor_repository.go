package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pureai/hostdesk/internal/domain"
)

// PostgresFloorRepository implements domain.FloorRepository using PostgreSQL
type PostgresFloorRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresFloorRepository creates a new floor repository
func NewPostgresFloorRepository(db *sql.DB, logger *slog.Logger) *PostgresFloorRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFloorRepository{db: db, logger: logger}
}

// Create creates a new floor
func (r *PostgresFloorRepository) Create(f *domain.Floor) error {
	query := `
		INSERT INTO floors (id, business_id, name, width, height, layout_image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		f.ID,
		f.BusinessID,
		f.Name,
		f.Width,
		f.Height,
		f.LayoutImageURL,
	).Scan(&f.CreatedAt, &f.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create floor",
			slog.String("business_id", f.BusinessID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create floor: %w", err)
	}

	return nil
}

// GetByID retrieves a floor by ID
func (r *PostgresFloorRepository) GetByID(id string) (*domain.Floor, error) {
	f := &domain.Floor{}

	query := `
		SELECT id, business_id, name, width, height, layout_image_url, created_at, updated_at
		FROM floors
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&f.ID,
		&f.BusinessID,
		&f.Name,
		&f.Width,
		&f.Height,
		&f.LayoutImageURL,
		&f.CreatedAt,
		&f.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("floor not found")
		}
		return nil, fmt.Errorf("failed to get floor: %w", err)
	}

	return f, nil
}

// ListByBusiness lists all floors for a business
func (r *PostgresFloorRepository) ListByBusiness(businessID string) ([]*domain.Floor, error) {
	query := `
		SELECT id, business_id, name, width, height, layout_image_url, created_at, updated_at
		FROM floors
		WHERE business_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, businessID)
	if err != nil {
		r.logger.Error("failed to list floors",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	defer rows.Close()

	var floors []*domain.Floor
	for rows.Next() {
		f := &domain.Floor{}
		err := rows.Scan(
			&f.ID,
			&f.BusinessID,
			&f.Name,
			&f.Width,
			&f.Height,
			&f.LayoutImageURL,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan floor: %w", err)
		}
		floors = append(floors, f)
	}

	return floors, rows.Err()
}

// Update updates a floor
func (r *PostgresFloorRepository) Update(f *domain.Floor) error {
	query := `
		UPDATE floors
		SET name = $1, width = $2, height = $3, layout_image_url = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		f.Name,
		f.Width,
		f.Height,
		f.LayoutImageURL,
		f.ID,
	).Scan(&f.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("floor not found")
		}
		return fmt.Errorf("failed to update floor: %w", err)
	}

	return nil
}
