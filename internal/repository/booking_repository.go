package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pureai/hostdesk/internal/domain"
)

// PostgresBookingRepository implements domain.BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBookingRepository creates a new booking repository
func NewPostgresBookingRepository(db *sql.DB, logger *slog.Logger) *PostgresBookingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookingRepository{db: db, logger: logger}
}

const bookingColumns = `id, table_id, customer_name, customer_phone, party_size, start_at, end_at, source, status, created_at`

// Create creates a new booking
func (r *PostgresBookingRepository) Create(b *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, table_id, customer_name, customer_phone, party_size, start_at, end_at, source, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		b.ID,
		b.TableID,
		b.CustomerName,
		b.CustomerPhone,
		b.PartySize,
		b.StartAt,
		b.EndAt,
		b.Source,
		b.Status,
	).Scan(&b.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create booking",
			slog.String("table_id", b.TableID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func scanBooking(scanner interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	var endAt sql.NullTime
	err := scanner.Scan(
		&b.ID,
		&b.TableID,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.PartySize,
		&b.StartAt,
		&endAt,
		&b.Source,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if endAt.Valid {
		t := endAt.Time
		b.EndAt = &t
	}
	return b, nil
}

// GetActiveByTable returns the table's active booking, if any
func (r *PostgresBookingRepository) GetActiveByTable(tableID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE table_id = $1 AND status = $2 ORDER BY start_at DESC LIMIT 1`

	b, err := scanBooking(r.db.QueryRow(query, tableID, domain.BookingActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active booking: %w", err)
	}
	return b, nil
}

// GetUpcomingByTable returns the next upcoming booking starting within
// the given window
func (r *PostgresBookingRepository) GetUpcomingByTable(tableID string, within time.Duration) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE table_id = $1 AND status = $2 AND start_at BETWEEN now() AND now() + $3::interval
		ORDER BY start_at ASC
		LIMIT 1
	`

	b, err := scanBooking(r.db.QueryRow(query, tableID, domain.BookingUpcoming, fmt.Sprintf("%d seconds", int(within.Seconds()))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get upcoming booking: %w", err)
	}
	return b, nil
}

// ListActive lists every active booking across all tables
func (r *PostgresBookingRepository) ListActive() ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY start_at ASC`

	rows, err := r.db.Query(query, domain.BookingActive)
	if err != nil {
		r.logger.Error("failed to list active bookings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// End closes a booking at the given time
func (r *PostgresBookingRepository) End(id string, at time.Time) error {
	result, err := r.db.Exec(
		`UPDATE bookings SET status = $1, end_at = $2 WHERE id = $3 AND status != $1`,
		domain.BookingEnded, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to end booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}
