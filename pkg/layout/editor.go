// Package layout is the floor layout editor: local drag, resize, and
// snap against one floor's tables, with an explicit batch save. It
// mirrors the dashboard's editor semantics for headless clients.
package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pureai/hostdesk/pkg/client"
	"github.com/pureai/hostdesk/pkg/geometry"
)

// API is the slice of the HostDesk client the editor needs
type API interface {
	Layout(ctx context.Context, floorID string) (*client.FloorLayout, error)
	CreateTable(ctx context.Context, floorID string, p client.TablePlacement) (*client.Table, error)
	SaveLayout(ctx context.Context, floorID string, placements []client.TablePlacement) ([]*client.Table, error)
	HardDeleteTable(ctx context.Context, tableID string) error
}

// ErrNotLoaded is returned by operations before Load succeeded
var ErrNotLoaded = errors.New("no floor loaded")

// Editor edits one floor's layout at a time. All geometry mutations
// are local until Save.
type Editor struct {
	api    API
	floor  *client.Floor
	tables []*client.Table
	dirty  bool
}

// NewEditor creates an editor over the given API
func NewEditor(api API) *Editor {
	return &Editor{api: api}
}

// Load fetches a floor's layout, discarding any unsaved edits
func (e *Editor) Load(ctx context.Context, floorID string) error {
	layout, err := e.api.Layout(ctx, floorID)
	if err != nil {
		return err
	}
	e.floor = layout.Floor
	e.tables = layout.Tables
	e.dirty = false
	return nil
}

// Floor returns the loaded floor, or nil
func (e *Editor) Floor() *client.Floor { return e.floor }

// Tables returns the working set of tables
func (e *Editor) Tables() []*client.Table { return e.tables }

// Dirty reports whether there are unsaved edits
func (e *Editor) Dirty() bool { return e.dirty }

// Table returns the working table with the given id, or nil
func (e *Editor) Table(id string) *client.Table {
	for _, t := range e.tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AddTable validates the placement locally, then creates the table on
// the server and appends the stored table to the working set. No
// network call happens when validation fails.
func (e *Editor) AddTable(ctx context.Context, p client.TablePlacement) (*client.Table, error) {
	if e.floor == nil {
		return nil, ErrNotLoaded
	}

	label := strings.TrimSpace(p.Label)
	if label == "" {
		return nil, errors.New("table label is required")
	}
	for _, t := range e.tables {
		if strings.EqualFold(t.Label, label) {
			return nil, fmt.Errorf("table label %q already in use", label)
		}
	}
	if p.Capacity < client.MinCapacity || p.Capacity > client.MaxCapacity {
		return nil, fmt.Errorf("capacity must be between %d and %d", client.MinCapacity, client.MaxCapacity)
	}
	p.Label = label

	table, err := e.api.CreateTable(ctx, e.floor.ID, p)
	if err != nil {
		return nil, err
	}
	e.tables = append(e.tables, table)
	e.dirty = true
	return table, nil
}

// RenameTable changes a table's label locally, enforcing the same
// trimmed, case-insensitively unique rule as AddTable. Persisted on the
// next Save.
func (e *Editor) RenameTable(id, label string) error {
	if e.floor == nil {
		return ErrNotLoaded
	}
	t := e.Table(id)
	if t == nil {
		return fmt.Errorf("unknown table %q", id)
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return errors.New("table label is required")
	}
	for _, other := range e.tables {
		if other.ID != id && strings.EqualFold(other.Label, label) {
			return fmt.Errorf("table label %q already in use", label)
		}
	}
	if t.Label == label {
		return nil
	}
	t.Label = label
	e.dirty = true
	return nil
}

// MoveTable applies a drag delta in screen pixels to a table, snapping
// and clamping locally. Nothing is sent to the server.
func (e *Editor) MoveTable(id string, dxPixels, dyPixels, scale float64) error {
	if e.floor == nil {
		return ErrNotLoaded
	}
	t := e.Table(id)
	if t == nil {
		return fmt.Errorf("unknown table %q", id)
	}

	rect := geometry.Rect{X: t.X, Y: t.Y, W: t.W, H: t.H}
	rect = geometry.ResolveDrag(rect, dxPixels, dyPixels, scale, e.floor.Width, e.floor.Height)
	t.X, t.Y, t.W, t.H = rect.X, rect.Y, rect.W, rect.H
	e.dirty = true
	return nil
}

// ResizeTable applies a resize delta in screen pixels from the given
// handle, snapping and clamping locally.
func (e *Editor) ResizeTable(id string, h geometry.Handle, dxPixels, dyPixels, scale float64) error {
	if e.floor == nil {
		return ErrNotLoaded
	}
	t := e.Table(id)
	if t == nil {
		return fmt.Errorf("unknown table %q", id)
	}

	rect := geometry.Rect{X: t.X, Y: t.Y, W: t.W, H: t.H}
	rect = geometry.ResolveResize(rect, h, dxPixels, dyPixels, scale, e.floor.Width, e.floor.Height)
	t.X, t.Y, t.W, t.H = rect.X, rect.Y, rect.W, rect.H
	e.dirty = true
	return nil
}

// DeleteTable hard-deletes a table on the server, then drops it from
// the working set.
func (e *Editor) DeleteTable(ctx context.Context, id string) error {
	if e.floor == nil {
		return ErrNotLoaded
	}
	if e.Table(id) == nil {
		return fmt.Errorf("unknown table %q", id)
	}
	if err := e.api.HardDeleteTable(ctx, id); err != nil {
		return err
	}
	kept := e.tables[:0]
	for _, t := range e.tables {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	e.tables = kept
	return nil
}

// Save writes the whole working set to the server in one batch. The
// dirty flag clears only when the save succeeds.
func (e *Editor) Save(ctx context.Context) error {
	if e.floor == nil {
		return ErrNotLoaded
	}

	placements := make([]client.TablePlacement, 0, len(e.tables))
	for _, t := range e.tables {
		active := t.IsActive
		placements = append(placements, client.TablePlacement{
			ID:       t.ID,
			Label:    t.Label,
			Capacity: t.Capacity,
			Shape:    t.Shape,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			H:        t.H,
			Zone:     t.Zone,
			IsActive: &active,
		})
	}

	saved, err := e.api.SaveLayout(ctx, e.floor.ID, placements)
	if err != nil {
		return err
	}
	e.tables = saved
	e.dirty = false
	return nil
}
