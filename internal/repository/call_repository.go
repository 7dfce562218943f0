package repository

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pureai/hostdesk/internal/domain"
)

// PostgresCallRepository implements domain.CallRepository using PostgreSQL.
// Call logs are written by the voice pipeline; this service only reads.
type PostgresCallRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCallRepository creates a new call log repository
func NewPostgresCallRepository(db *sql.DB, logger *slog.Logger) *PostgresCallRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCallRepository{db: db, logger: logger}
}

// ListByBusiness returns one page of call logs, newest first, optionally
// filtered by type ("all" or empty disables the filter)
func (r *PostgresCallRepository) ListByBusiness(businessID string, callType string, page, limit int) ([]*domain.CallLog, *domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	filter := callType != "" && callType != "all"

	var total int
	countQuery := `SELECT count(*) FROM call_logs WHERE business_id = $1 AND ($2 = false OR type = $3)`
	if err := r.db.QueryRow(countQuery, businessID, filter, callType).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("failed to count call logs: %w", err)
	}

	query := `
		SELECT id, business_id, caller_name, caller_number, type, duration_seconds, summary, created_at
		FROM call_logs
		WHERE business_id = $1 AND ($2 = false OR type = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.Query(query, businessID, filter, callType, limit, (page-1)*limit)
	if err != nil {
		r.logger.Error("failed to list call logs",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	defer rows.Close()

	var calls []*domain.CallLog
	for rows.Next() {
		c := &domain.CallLog{}
		err := rows.Scan(
			&c.ID,
			&c.BusinessID,
			&c.CallerName,
			&c.CallerNumber,
			&c.Type,
			&c.DurationSeconds,
			&c.Summary,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan call log: %w", err)
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	totalPages := (total + limit - 1) / limit
	return calls, &domain.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}
