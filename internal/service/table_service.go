package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/observability/metrics"
)

var (
	// ErrTableOccupied is returned when seating is attempted on a
	// table that is not free.
	ErrTableOccupied = errors.New("table is not available")
	// ErrPartyTooLarge is returned when a party exceeds the table's
	// capacity.
	ErrPartyTooLarge = errors.New("party size exceeds table capacity")
)

// TableService handles seating and table state transitions
type TableService struct {
	layout      *LayoutService
	bookingRepo domain.BookingRepository
	tableRepo   domain.TableRepository
	logger      *slog.Logger
}

// NewTableService creates a new table service
func NewTableService(layout *LayoutService, bookingRepo domain.BookingRepository, tableRepo domain.TableRepository, logger *slog.Logger) *TableService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableService{layout: layout, bookingRepo: bookingRepo, tableRepo: tableRepo, logger: logger}
}

// WalkIn describes a walk-in party to be seated
type WalkIn struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	PartySize     int    `json:"partySize"`
}

// SeatWalkIn seats a walk-in party at a table. The table must be free:
// not under maintenance, with no active booking.
func (s *TableService) SeatWalkIn(businessID, tableID string, walkIn WalkIn) (*domain.Booking, error) {
	table, err := s.layout.ownedTable(businessID, tableID)
	if err != nil {
		metrics.ObserveSeatOperation("seat", "error")
		return nil, err
	}
	if walkIn.PartySize < 1 {
		// The dashboard seats with an empty body. Treat an omitted
		// party size as a single guest.
		walkIn.PartySize = 1
	}
	if walkIn.PartySize > table.Capacity {
		metrics.ObserveSeatOperation("seat", "denied")
		return nil, ErrPartyTooLarge
	}
	if table.Maintenance {
		metrics.ObserveSeatOperation("seat", "denied")
		return nil, ErrTableOccupied
	}

	active, err := s.bookingRepo.GetActiveByTable(tableID)
	if err != nil {
		metrics.ObserveSeatOperation("seat", "error")
		return nil, fmt.Errorf("active booking: %w", err)
	}
	if active != nil {
		metrics.ObserveSeatOperation("seat", "denied")
		return nil, ErrTableOccupied
	}

	name := strings.TrimSpace(walkIn.CustomerName)
	if name == "" {
		name = "Walk-in"
	}
	booking := &domain.Booking{
		ID:            uuid.NewString(),
		TableID:       tableID,
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(walkIn.CustomerPhone),
		PartySize:     walkIn.PartySize,
		StartAt:       time.Now(),
		Source:        domain.SourceWalkIn,
		Status:        domain.BookingActive,
	}
	if err := s.bookingRepo.Create(booking); err != nil {
		metrics.ObserveSeatOperation("seat", "error")
		s.logger.Error("failed to seat walk-in",
			slog.String("table_id", tableID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to seat party")
	}

	s.layout.invalidateSnapshot(table.FloorID)
	metrics.ObserveSeatOperation("seat", "ok")
	s.logger.Info("walk-in seated",
		slog.String("table_id", tableID),
		slog.Int("party_size", walkIn.PartySize),
	)
	return booking, nil
}

// SetAvailable frees a table by ending its active booking, if any.
// Freeing an already-free table is a no-op.
func (s *TableService) SetAvailable(businessID, tableID string) error {
	table, err := s.layout.ownedTable(businessID, tableID)
	if err != nil {
		metrics.ObserveSeatOperation("free", "error")
		return err
	}

	active, err := s.bookingRepo.GetActiveByTable(tableID)
	if err != nil {
		metrics.ObserveSeatOperation("free", "error")
		return fmt.Errorf("active booking: %w", err)
	}
	if active != nil {
		if err := s.bookingRepo.End(active.ID, time.Now()); err != nil {
			metrics.ObserveSeatOperation("free", "error")
			return errors.New("failed to free table")
		}
	}

	s.layout.invalidateSnapshot(table.FloorID)
	metrics.ObserveSeatOperation("free", "ok")
	return nil
}

// ToggleMaintenance flips a table in or out of maintenance. A table
// with guests seated cannot enter maintenance.
func (s *TableService) ToggleMaintenance(businessID, tableID string) (*domain.Table, error) {
	table, err := s.layout.ownedTable(businessID, tableID)
	if err != nil {
		return nil, err
	}

	if !table.Maintenance {
		active, err := s.bookingRepo.GetActiveByTable(tableID)
		if err != nil {
			return nil, fmt.Errorf("active booking: %w", err)
		}
		if active != nil {
			return nil, ErrTableOccupied
		}
	}

	table.Maintenance = !table.Maintenance
	if err := s.tableRepo.Update(table); err != nil {
		return nil, errors.New("failed to update table")
	}

	s.layout.invalidateSnapshot(table.FloorID)
	return table, nil
}
