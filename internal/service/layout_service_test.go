package service

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/pkg/cache"
)

type layoutFixture struct {
	svc      *LayoutService
	floors   *memFloorRepo
	tables   *memTableRepo
	bookings *memBookingRepo
}

func newLayoutFixture(snapshots *cache.Cache) *layoutFixture {
	floors := newMemFloorRepo()
	tables := newMemTableRepo()
	bookings := newMemBookingRepo()
	svc := NewLayoutService(floors, tables, bookings, snapshots, time.Second, 90*time.Minute, slog.Default())
	return &layoutFixture{svc: svc, floors: floors, tables: tables, bookings: bookings}
}

func (f *layoutFixture) seedFloor(t *testing.T, businessID string) *domain.Floor {
	t.Helper()
	floor, err := f.svc.CreateFloor(businessID, "Main Hall", 1000, 700)
	if err != nil {
		t.Fatalf("CreateFloor failed: %v", err)
	}
	return floor
}

func TestCreateFloorDefaultsCanvas(t *testing.T) {
	f := newLayoutFixture(nil)

	floor, err := f.svc.CreateFloor("biz", "Patio", 0, 0)
	if err != nil {
		t.Fatalf("CreateFloor failed: %v", err)
	}
	if floor.Width != 1000 || floor.Height != 700 {
		t.Errorf("expected default canvas 1000x700, got %gx%g", floor.Width, floor.Height)
	}
}

func TestCreateTableSnapsGeometry(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	table, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{
		Label: "T1", Capacity: 4, Shape: domain.ShapeRect,
		X: 103, Y: 98, W: 82, H: 77,
	})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if table.X != 100 || table.Y != 100 {
		t.Errorf("position not snapped: got (%g, %g)", table.X, table.Y)
	}
	if table.W != 80 || table.H != 80 {
		t.Errorf("size not snapped: got %gx%g", table.W, table.H)
	}
}

func TestCreateTableRejectsDuplicateLabelCaseInsensitive(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	if _, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "Patio 1", Capacity: 2}); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if _, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "patio 1", Capacity: 2}); err == nil {
		t.Error("expected case-insensitive duplicate label to be rejected")
	}
}

func TestCreateTableCapacityBounds(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	for _, capacity := range []int{0, 51, -1} {
		if _, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "X", Capacity: capacity}); err == nil {
			t.Errorf("expected capacity %d to be rejected", capacity)
		}
	}
	if _, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "X", Capacity: 50}); err != nil {
		t.Errorf("capacity 50 should be accepted: %v", err)
	}
}

func TestCreateTableScopedToBusiness(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	if _, err := f.svc.CreateTable("other", floor.ID, TablePlacement{Label: "T1", Capacity: 2}); !errors.Is(err, ErrFloorNotFound) {
		t.Errorf("expected ErrFloorNotFound for foreign business, got %v", err)
	}
}

func TestSaveLayoutAllOrNothing(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	t1, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T1", Capacity: 2, X: 0, Y: 0, W: 80, H: 80})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	t2, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T2", Capacity: 2, X: 200, Y: 0, W: 80, H: 80})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	// Second entry is invalid, so the first must not be written either.
	_, err = f.svc.SaveLayout("biz", floor.ID, []TablePlacement{
		{ID: t1.ID, Label: "Window", Capacity: 2, Shape: domain.ShapeRect, X: 500, Y: 0, W: 80, H: 80},
		{ID: t2.ID, Label: "Window", Capacity: 2, Shape: domain.ShapeRect, X: 200, Y: 0, W: 80, H: 80},
	})
	if err == nil {
		t.Fatal("expected duplicate label to fail the batch")
	}

	got, _ := f.tables.GetByID(t1.ID)
	if got.Label != "T1" || got.X != 0 {
		t.Error("failed batch must leave the layout untouched")
	}
}

func TestSaveLayoutClampsToFloor(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	table, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T1", Capacity: 2, X: 0, Y: 0, W: 80, H: 80})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	saved, err := f.svc.SaveLayout("biz", floor.ID, []TablePlacement{
		{ID: table.ID, Label: "T1", Capacity: 2, Shape: domain.ShapeRect, X: 5000, Y: -40, W: 80, H: 80},
	})
	if err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}
	got := saved[0]
	if got.X+got.W > floor.Width || got.Y < 0 {
		t.Errorf("table escaped the floor: (%g, %g) %gx%g", got.X, got.Y, got.W, got.H)
	}
}

func TestSaveLayoutAppliesActiveFlag(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	table, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T1", Capacity: 2, X: 0, Y: 0, W: 80, H: 80})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	// Entries without the flag keep the stored one.
	if _, err := f.svc.SaveLayout("biz", floor.ID, []TablePlacement{
		{ID: table.ID, Label: "T1", Capacity: 2, Shape: domain.ShapeRect, W: 80, H: 80},
	}); err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}
	got, _ := f.tables.GetByID(table.ID)
	if !got.IsActive {
		t.Error("omitting the flag must not deactivate the table")
	}

	inactive := false
	saved, err := f.svc.SaveLayout("biz", floor.ID, []TablePlacement{
		{ID: table.ID, Label: "T1", Capacity: 2, Shape: domain.ShapeRect, W: 80, H: 80, IsActive: &inactive},
	})
	if err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}
	got, _ = f.tables.GetByID(table.ID)
	if got.IsActive {
		t.Error("expected the save to deactivate the table")
	}
	if len(saved) != 0 {
		t.Errorf("deactivated tables must drop out of the layout, got %d", len(saved))
	}
}

func TestSaveLayoutUnknownTable(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	_, err := f.svc.SaveLayout("biz", floor.ID, []TablePlacement{
		{ID: "ghost", Label: "T1", Capacity: 2, Shape: domain.ShapeRect},
	})
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}

func TestDeactivateTableKeepsRow(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	table, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T1", Capacity: 2})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := f.svc.DeactivateTable("biz", table.ID); err != nil {
		t.Fatalf("DeactivateTable failed: %v", err)
	}

	layout, err := f.svc.GetLayout("biz", floor.ID)
	if err != nil {
		t.Fatalf("GetLayout failed: %v", err)
	}
	if len(layout.Tables) != 0 {
		t.Error("deactivated table must not appear in the layout")
	}
	if _, err := f.tables.GetByID(table.ID); err != nil {
		t.Error("deactivated table row must survive")
	}
}

func TestDeleteTableRemovesRow(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	table, err := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T1", Capacity: 2})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := f.svc.DeleteTable("biz", table.ID); err != nil {
		t.Fatalf("DeleteTable failed: %v", err)
	}
	if _, err := f.tables.GetByID(table.ID); err == nil {
		t.Error("hard-deleted table row must be gone")
	}
}

func TestLiveSnapshotDerivesStatus(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	free, _ := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "Free", Capacity: 2})
	seated, _ := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "Seated", Capacity: 4})
	booked, _ := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "Soon", Capacity: 4})
	maint, _ := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "Broken", Capacity: 2})

	f.bookings.Create(&domain.Booking{
		ID: "b1", TableID: seated.ID, PartySize: 2,
		StartAt: time.Now().Add(-time.Hour),
		Source:  domain.SourceWalkIn, Status: domain.BookingActive,
	})
	f.bookings.Create(&domain.Booking{
		ID: "b2", TableID: booked.ID, PartySize: 4,
		StartAt: time.Now().Add(30 * time.Minute),
		Source:  domain.SourcePhone, Status: domain.BookingUpcoming,
	})
	m, _ := f.tables.GetByID(maint.ID)
	m.Maintenance = true
	f.tables.Update(m)

	snap, err := f.svc.LiveSnapshot("biz", floor.ID)
	if err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}

	statuses := make(map[string]string, len(snap.Tables))
	for _, lt := range snap.Tables {
		statuses[lt.ID] = lt.Status
	}
	want := map[string]string{
		free.ID:   domain.StatusFree,
		seated.ID: domain.StatusSeated,
		booked.ID: domain.StatusBooked,
		maint.ID:  domain.StatusMaintenance,
	}
	for id, expected := range want {
		if statuses[id] != expected {
			t.Errorf("table %s: expected status %q, got %q", id, expected, statuses[id])
		}
	}
}

func TestLiveSnapshotCached(t *testing.T) {
	f := newLayoutFixture(cache.New())
	floor := f.seedFloor(t, "biz")
	table, _ := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T1", Capacity: 2})

	first, err := f.svc.LiveSnapshot("biz", floor.ID)
	if err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}

	// Mutate behind the cache's back; the snapshot should not notice.
	f.bookings.Create(&domain.Booking{
		ID: "b1", TableID: table.ID, PartySize: 2,
		StartAt: time.Now(), Source: domain.SourceWalkIn, Status: domain.BookingActive,
	})
	second, err := f.svc.LiveSnapshot("biz", floor.ID)
	if err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}
	if second.AsOf != first.AsOf {
		t.Error("expected the cached snapshot on the second poll")
	}
}

func TestLiveSnapshotCacheInvalidatedOnSeat(t *testing.T) {
	f := newLayoutFixture(cache.New())
	floor := f.seedFloor(t, "biz")
	table, _ := f.svc.CreateTable("biz", floor.ID, TablePlacement{Label: "T1", Capacity: 4})

	tables := NewTableService(f.svc, f.bookings, f.tables, slog.Default())

	if _, err := f.svc.LiveSnapshot("biz", floor.ID); err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}
	if _, err := tables.SeatWalkIn("biz", table.ID, WalkIn{PartySize: 2}); err != nil {
		t.Fatalf("SeatWalkIn failed: %v", err)
	}

	snap, err := f.svc.LiveSnapshot("biz", floor.ID)
	if err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}
	if snap.Tables[0].Status != domain.StatusSeated {
		t.Errorf("expected seating to invalidate the snapshot cache, status %q", snap.Tables[0].Status)
	}
}

func TestLiveSnapshotScopedToBusiness(t *testing.T) {
	f := newLayoutFixture(cache.New())
	floor := f.seedFloor(t, "biz")

	if _, err := f.svc.LiveSnapshot("biz", floor.ID); err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}
	// Even with a warm cache the other tenant must not read it.
	if _, err := f.svc.LiveSnapshot("other", floor.ID); !errors.Is(err, ErrFloorNotFound) {
		t.Errorf("expected ErrFloorNotFound, got %v", err)
	}
}

func TestLayoutImageLifecycle(t *testing.T) {
	f := newLayoutFixture(nil)
	floor := f.seedFloor(t, "biz")

	updated, err := f.svc.SetLayoutImage("biz", floor.ID, "/uploads/floor.png")
	if err != nil {
		t.Fatalf("SetLayoutImage failed: %v", err)
	}
	if updated.LayoutImageURL != "/uploads/floor.png" {
		t.Errorf("unexpected image URL %q", updated.LayoutImageURL)
	}

	cleared, err := f.svc.RemoveLayoutImage("biz", floor.ID)
	if err != nil {
		t.Fatalf("RemoveLayoutImage failed: %v", err)
	}
	if cleared.LayoutImageURL != "" {
		t.Error("expected image URL to be cleared")
	}
}
