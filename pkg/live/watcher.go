// Package live is the live floor view: a context-bound poller that
// refreshes one floor's snapshot, tracks a selected table, and runs
// the seat/free/maintenance actions against it.
package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pureai/hostdesk/pkg/client"
)

// API is the slice of the HostDesk client the watcher needs
type API interface {
	Live(ctx context.Context, floorID string) (*client.LiveFloor, error)
	SeatWalkIn(ctx context.Context, tableID string, walkIn client.WalkIn) (*client.Booking, error)
	SetTableAvailable(ctx context.Context, tableID string) error
	ToggleMaintenance(ctx context.Context, tableID string) (*client.Table, error)
}

// DefaultPollInterval matches the dashboard's 5 second live poll.
const DefaultPollInterval = 5 * time.Second

// Watcher polls one floor's live snapshot. Watch binds a poll loop to
// a context; switching floors means cancelling and starting a new
// Watch.
type Watcher struct {
	api      API
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	floorID  string
	snapshot *client.LiveFloor
	selected string
	gen      int
}

// NewWatcher creates a watcher polling at the given interval. A zero
// interval uses DefaultPollInterval.
func NewWatcher(api API, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{api: api, interval: interval, logger: logger}
}

// Snapshot returns the latest snapshot, or nil before the first poll
func (w *Watcher) Snapshot() *client.LiveFloor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot
}

// Selected returns the selected live table, or nil when nothing is
// selected or the selection left the floor.
func (w *Watcher) Selected() *client.LiveTable {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.findLocked(w.selected)
}

// Select marks a table as selected. An unknown id clears the
// selection.
func (w *Watcher) Select(tableID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.findLocked(tableID) == nil {
		w.selected = ""
		return
	}
	w.selected = tableID
}

// Watch polls the floor until the context is cancelled. The first
// fetch happens immediately; a poll resolving after cancellation is
// discarded. The error of the initial fetch is returned so callers
// can surface a broken floor id; later poll errors are logged and the
// previous snapshot kept.
func (w *Watcher) Watch(ctx context.Context, floorID string) error {
	gen := w.begin(floorID)

	if err := w.poll(ctx, floorID, gen); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.poll(ctx, floorID, gen); err != nil {
				w.logger.Warn("live poll failed",
					slog.String("floor_id", floorID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// begin resets state for a new floor and bumps the generation so
// in-flight polls from an older Watch are discarded.
func (w *Watcher) begin(floorID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.floorID = floorID
	w.snapshot = nil
	w.selected = ""
	return w.gen
}

func (w *Watcher) poll(ctx context.Context, floorID string, gen int) error {
	snapshot, err := w.api.Live(ctx, floorID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen || ctx.Err() != nil {
		// A newer Watch took over, or this one was cancelled while
		// the request was in flight.
		return nil
	}
	w.snapshot = snapshot
	if w.selected != "" && w.findLocked(w.selected) == nil {
		w.selected = ""
	}
	return nil
}

// Refresh forces an immediate poll outside the ticker, used after
// actions.
func (w *Watcher) Refresh(ctx context.Context) error {
	w.mu.Lock()
	floorID, gen := w.floorID, w.gen
	w.mu.Unlock()
	if floorID == "" {
		return nil
	}
	return w.poll(ctx, floorID, gen)
}

// SeatWalkIn seats a party at the table, refusing locally unless the
// latest snapshot shows it free. On success the snapshot is refreshed
// and the selection cleared; on failure the state is kept and the
// backend message returned.
func (w *Watcher) SeatWalkIn(ctx context.Context, tableID string, walkIn client.WalkIn) error {
	w.mu.Lock()
	lt := w.findLocked(tableID)
	if lt == nil || lt.Status != client.StatusFree {
		w.mu.Unlock()
		return &client.APIError{StatusCode: 409, Message: "table is not available"}
	}
	w.mu.Unlock()

	if _, err := w.api.SeatWalkIn(ctx, tableID, walkIn); err != nil {
		return err
	}
	w.clearSelection()
	return w.Refresh(ctx)
}

// SetAvailable frees the table. On success the snapshot is refreshed
// and the selection cleared.
func (w *Watcher) SetAvailable(ctx context.Context, tableID string) error {
	if err := w.api.SetTableAvailable(ctx, tableID); err != nil {
		return err
	}
	w.clearSelection()
	return w.Refresh(ctx)
}

// ToggleMaintenance flips the table's maintenance state. On success
// the snapshot is refreshed and the selection cleared.
func (w *Watcher) ToggleMaintenance(ctx context.Context, tableID string) error {
	if _, err := w.api.ToggleMaintenance(ctx, tableID); err != nil {
		return err
	}
	w.clearSelection()
	return w.Refresh(ctx)
}

func (w *Watcher) clearSelection() {
	w.mu.Lock()
	w.selected = ""
	w.mu.Unlock()
}

// findLocked looks up a table in the current snapshot. Callers hold
// w.mu.
func (w *Watcher) findLocked(tableID string) *client.LiveTable {
	if w.snapshot == nil || tableID == "" {
		return nil
	}
	for _, lt := range w.snapshot.Tables {
		if lt.ID == tableID {
			return lt
		}
	}
	return nil
}
