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
	"github.com/pureai/hostdesk/pkg/cache"
	"github.com/pureai/hostdesk/pkg/geometry"
)

var (
	// ErrFloorNotFound is returned when a floor does not exist or
	// belongs to another business.
	ErrFloorNotFound = errors.New("floor not found")
	// ErrTableNotFound is returned when a table does not exist or is
	// out of the caller's scope.
	ErrTableNotFound = errors.New("table not found")
)

// LayoutService owns floors, their tables, and the live floor snapshot
type LayoutService struct {
	floorRepo   domain.FloorRepository
	tableRepo   domain.TableRepository
	bookingRepo domain.BookingRepository
	snapshots   *cache.Cache
	snapshotTTL time.Duration
	upcoming    time.Duration
	logger      *slog.Logger
}

// NewLayoutService creates a new layout service. snapshots may be nil
// to disable live snapshot caching.
func NewLayoutService(
	floorRepo domain.FloorRepository,
	tableRepo domain.TableRepository,
	bookingRepo domain.BookingRepository,
	snapshots *cache.Cache,
	snapshotTTL time.Duration,
	upcoming time.Duration,
	logger *slog.Logger,
) *LayoutService {
	if logger == nil {
		logger = slog.Default()
	}
	if upcoming <= 0 {
		upcoming = 90 * time.Minute
	}
	return &LayoutService{
		floorRepo:   floorRepo,
		tableRepo:   tableRepo,
		bookingRepo: bookingRepo,
		snapshots:   snapshots,
		snapshotTTL: snapshotTTL,
		upcoming:    upcoming,
		logger:      logger,
	}
}

// ListFloors returns all floors belonging to the business
func (s *LayoutService) ListFloors(businessID string) ([]*domain.Floor, error) {
	return s.floorRepo.ListByBusiness(businessID)
}

// CreateFloor creates a floor with the given name and canvas size.
// Zero dimensions fall back to the default 1000x700 canvas.
func (s *LayoutService) CreateFloor(businessID, name string, width, height float64) (*domain.Floor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("floor name is required")
	}
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 700
	}

	floor := &domain.Floor{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Name:       name,
		Width:      width,
		Height:     height,
	}
	if err := s.floorRepo.Create(floor); err != nil {
		s.logger.Error("failed to create floor",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to create floor")
	}
	return floor, nil
}

// FloorLayout is a floor together with its active tables
type FloorLayout struct {
	Floor  *domain.Floor   `json:"floor"`
	Tables []*domain.Table `json:"tables"`
}

// GetLayout returns the floor and its active tables, scoped to the
// business.
func (s *LayoutService) GetLayout(businessID, floorID string) (*FloorLayout, error) {
	floor, err := s.ownedFloor(businessID, floorID)
	if err != nil {
		return nil, err
	}
	tables, err := s.tableRepo.ListByFloor(floorID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return &FloorLayout{Floor: floor, Tables: tables}, nil
}

// TablePlacement is one entry of a batch layout save
type TablePlacement struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Capacity int     `json:"capacity"`
	Shape    string  `json:"shape"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Zone     string  `json:"zone"`
	// IsActive is optional. Entries that omit it keep the table's
	// current flag.
	IsActive *bool `json:"isActive,omitempty"`
}

// SaveLayout applies a batch of table placements to a floor. All
// entries are validated before any write happens, so a bad entry
// leaves the layout untouched.
func (s *LayoutService) SaveLayout(businessID, floorID string, placements []TablePlacement) ([]*domain.Table, error) {
	floor, err := s.ownedFloor(businessID, floorID)
	if err != nil {
		return nil, err
	}

	existing, err := s.tableRepo.ListByFloor(floorID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	byID := make(map[string]*domain.Table, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}

	seen := make(map[string]string, len(placements))
	updates := make([]*domain.Table, 0, len(placements))
	for _, p := range placements {
		table, ok := byID[p.ID]
		if !ok {
			return nil, ErrTableNotFound
		}
		label := strings.TrimSpace(p.Label)
		if label == "" {
			return nil, errors.New("table label is required")
		}
		key := strings.ToLower(label)
		if otherID, dup := seen[key]; dup && otherID != p.ID {
			return nil, fmt.Errorf("duplicate table label %q", label)
		}
		seen[key] = p.ID
		if p.Capacity < domain.MinCapacity || p.Capacity > domain.MaxCapacity {
			return nil, fmt.Errorf("capacity must be between %d and %d", domain.MinCapacity, domain.MaxCapacity)
		}
		if !validShape(p.Shape) {
			return nil, fmt.Errorf("unknown shape %q", p.Shape)
		}

		rect := geometry.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}.Normalize()
		rect = geometry.ClampToFloor(rect, floor.Width, floor.Height)

		table.Label = label
		table.Capacity = p.Capacity
		table.Shape = p.Shape
		table.X = rect.X
		table.Y = rect.Y
		table.W = rect.W
		table.H = rect.H
		table.Zone = strings.TrimSpace(p.Zone)
		if p.IsActive != nil {
			table.IsActive = *p.IsActive
		}
		updates = append(updates, table)
	}

	for _, t := range updates {
		if err := s.tableRepo.Update(t); err != nil {
			s.logger.Error("failed to save table",
				slog.String("table_id", t.ID),
				slog.String("error", err.Error()),
			)
			return nil, errors.New("failed to save layout")
		}
	}

	s.invalidateSnapshot(floorID)

	tables, err := s.tableRepo.ListByFloor(floorID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// CreateTable adds a table to a floor. Geometry is snapped and clamped
// server-side so stored coordinates always sit on the grid.
func (s *LayoutService) CreateTable(businessID, floorID string, p TablePlacement) (*domain.Table, error) {
	floor, err := s.ownedFloor(businessID, floorID)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(p.Label)
	if label == "" {
		return nil, errors.New("table label is required")
	}
	if p.Capacity < domain.MinCapacity || p.Capacity > domain.MaxCapacity {
		return nil, fmt.Errorf("capacity must be between %d and %d", domain.MinCapacity, domain.MaxCapacity)
	}
	if p.Shape == "" {
		p.Shape = domain.ShapeRect
	}
	if !validShape(p.Shape) {
		return nil, fmt.Errorf("unknown shape %q", p.Shape)
	}

	existing, err := s.tableRepo.ListByFloor(floorID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	for _, t := range existing {
		if strings.EqualFold(t.Label, label) {
			return nil, fmt.Errorf("table label %q already in use", label)
		}
	}

	if p.W <= 0 {
		p.W = 80
	}
	if p.H <= 0 {
		p.H = 80
	}
	rect := geometry.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}.Normalize()
	rect = geometry.ClampToFloor(rect, floor.Width, floor.Height)

	table := &domain.Table{
		ID:       uuid.NewString(),
		FloorID:  floorID,
		Label:    label,
		Capacity: p.Capacity,
		Shape:    p.Shape,
		X:        rect.X,
		Y:        rect.Y,
		W:        rect.W,
		H:        rect.H,
		Zone:     strings.TrimSpace(p.Zone),
		IsActive: true,
	}
	if err := s.tableRepo.Create(table); err != nil {
		s.logger.Error("failed to create table",
			slog.String("floor_id", floorID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to create table")
	}

	s.invalidateSnapshot(floorID)
	return table, nil
}

// DeactivateTable soft-deletes a table, keeping its booking history
func (s *LayoutService) DeactivateTable(businessID, tableID string) error {
	table, err := s.ownedTable(businessID, tableID)
	if err != nil {
		return err
	}
	if err := s.tableRepo.Deactivate(tableID); err != nil {
		return errors.New("failed to delete table")
	}
	s.invalidateSnapshot(table.FloorID)
	return nil
}

// DeleteTable removes a table permanently
func (s *LayoutService) DeleteTable(businessID, tableID string) error {
	table, err := s.ownedTable(businessID, tableID)
	if err != nil {
		return err
	}
	if err := s.tableRepo.Delete(tableID); err != nil {
		return errors.New("failed to delete table")
	}
	s.invalidateSnapshot(table.FloorID)
	return nil
}

// SetLayoutImage records the uploaded background image URL for a floor
func (s *LayoutService) SetLayoutImage(businessID, floorID, url string) (*domain.Floor, error) {
	floor, err := s.ownedFloor(businessID, floorID)
	if err != nil {
		return nil, err
	}
	floor.LayoutImageURL = url
	if err := s.floorRepo.Update(floor); err != nil {
		return nil, errors.New("failed to update floor")
	}
	return floor, nil
}

// RemoveLayoutImage clears the background image of a floor
func (s *LayoutService) RemoveLayoutImage(businessID, floorID string) (*domain.Floor, error) {
	return s.SetLayoutImage(businessID, floorID, "")
}

// LiveFloor is the live view of a floor: every active table with its
// derived status and the booking behind it, if any.
type LiveFloor struct {
	Floor  *domain.Floor       `json:"floor"`
	Tables []*domain.LiveTable `json:"tables"`
	AsOf   time.Time           `json:"asOf"`
}

// LiveSnapshot assembles the live floor view. Snapshots are cached
// briefly so concurrent pollers share one database round trip.
func (s *LayoutService) LiveSnapshot(businessID, floorID string) (*LiveFloor, error) {
	key := snapshotKey(floorID)
	if s.snapshots != nil {
		if v, ok := s.snapshots.Get(key); ok {
			snap := v.(*LiveFloor)
			if snap.Floor.BusinessID == businessID {
				metrics.ObserveLiveSnapshot("cache")
				return snap, nil
			}
		}
	}

	floor, err := s.ownedFloor(businessID, floorID)
	if err != nil {
		return nil, err
	}
	tables, err := s.tableRepo.ListByFloor(floorID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	now := time.Now()
	live := make([]*domain.LiveTable, 0, len(tables))
	occupied := 0
	for _, t := range tables {
		lt := &domain.LiveTable{Table: *t, Status: domain.StatusFree}
		switch {
		case t.Maintenance:
			lt.Status = domain.StatusMaintenance
		default:
			booking, err := s.bookingRepo.GetActiveByTable(t.ID)
			if err != nil {
				return nil, fmt.Errorf("active booking: %w", err)
			}
			if booking != nil {
				lt.Status = domain.StatusSeated
				lt.Booking = booking
			} else {
				upcoming, err := s.bookingRepo.GetUpcomingByTable(t.ID, s.upcoming)
				if err != nil {
					return nil, fmt.Errorf("upcoming booking: %w", err)
				}
				if upcoming != nil {
					lt.Status = domain.StatusBooked
					lt.Booking = upcoming
				}
			}
		}
		if lt.Status == domain.StatusSeated {
			occupied++
		}
		live = append(live, lt)
	}

	snap := &LiveFloor{Floor: floor, Tables: live, AsOf: now}
	if s.snapshots != nil && s.snapshotTTL > 0 {
		s.snapshots.Set(key, snap, s.snapshotTTL)
	}
	metrics.ObserveLiveSnapshot("db")
	metrics.SetOccupied(occupied)
	return snap, nil
}

func (s *LayoutService) ownedFloor(businessID, floorID string) (*domain.Floor, error) {
	floor, err := s.floorRepo.GetByID(floorID)
	if err != nil || floor == nil || floor.BusinessID != businessID {
		return nil, ErrFloorNotFound
	}
	return floor, nil
}

func (s *LayoutService) ownedTable(businessID, tableID string) (*domain.Table, error) {
	table, err := s.tableRepo.GetByID(tableID)
	if err != nil || table == nil {
		return nil, ErrTableNotFound
	}
	if _, err := s.ownedFloor(businessID, table.FloorID); err != nil {
		return nil, ErrTableNotFound
	}
	return table, nil
}

func (s *LayoutService) invalidateSnapshot(floorID string) {
	if s.snapshots != nil {
		s.snapshots.Delete(snapshotKey(floorID))
	}
}

func snapshotKey(floorID string) string {
	return "live:" + floorID
}

func validShape(shape string) bool {
	switch shape {
	case domain.ShapeRect, domain.ShapeSquare, domain.ShapeRound, domain.ShapeOval:
		return true
	}
	return false
}
