package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pureai/hostdesk/internal/domain"
)

// PostgresTableRepository implements domain.TableRepository using PostgreSQL
type PostgresTableRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTableRepository creates a new table repository
func NewPostgresTableRepository(db *sql.DB, logger *slog.Logger) *PostgresTableRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTableRepository{db: db, logger: logger}
}

const tableColumns = `id, floor_id, label, capacity, shape, x, y, w, h, zone, is_active, maintenance, created_at, updated_at`

// Create creates a new table
func (r *PostgresTableRepository) Create(t *domain.Table) error {
	query := `
		INSERT INTO tables (id, floor_id, label, capacity, shape, x, y, w, h, zone, is_active, maintenance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		t.ID,
		t.FloorID,
		t.Label,
		t.Capacity,
		t.Shape,
		t.X,
		t.Y,
		t.W,
		t.H,
		t.Zone,
		t.IsActive,
		t.Maintenance,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create table",
			slog.String("floor_id", t.FloorID),
			slog.String("label", t.Label),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func scanTable(scanner interface{ Scan(...any) error }) (*domain.Table, error) {
	t := &domain.Table{}
	err := scanner.Scan(
		&t.ID,
		&t.FloorID,
		&t.Label,
		&t.Capacity,
		&t.Shape,
		&t.X,
		&t.Y,
		&t.W,
		&t.H,
		&t.Zone,
		&t.IsActive,
		&t.Maintenance,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a table by ID
func (r *PostgresTableRepository) GetByID(id string) (*domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = $1`

	t, err := scanTable(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("table not found")
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return t, nil
}

// ListByFloor lists the active tables on a floor
func (r *PostgresTableRepository) ListByFloor(floorID string) ([]*domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE floor_id = $1 AND is_active = true ORDER BY label ASC`

	rows, err := r.db.Query(query, floorID)
	if err != nil {
		r.logger.Error("failed to list tables",
			slog.String("floor_id", floorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}

	return tables, rows.Err()
}

// Update updates a table
func (r *PostgresTableRepository) Update(t *domain.Table) error {
	query := `
		UPDATE tables
		SET label = $1, capacity = $2, shape = $3, x = $4, y = $5, w = $6, h = $7, zone = $8, is_active = $9, maintenance = $10, updated_at = now()
		WHERE id = $11
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		t.Label,
		t.Capacity,
		t.Shape,
		t.X,
		t.Y,
		t.W,
		t.H,
		t.Zone,
		t.IsActive,
		t.Maintenance,
		t.ID,
	).Scan(&t.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("table not found")
		}
		return fmt.Errorf("failed to update table: %w", err)
	}

	return nil
}

// Deactivate soft-deletes a table (sets is_active to false)
func (r *PostgresTableRepository) Deactivate(id string) error {
	result, err := r.db.Exec(`UPDATE tables SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate table: %w", err)
	}
	return requireRow(result)
}

// Delete removes a table permanently
func (r *PostgresTableRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("table not found")
	}
	return nil
}
