package layout

import (
	"context"
	"strings"
	"testing"

	"github.com/pureai/hostdesk/pkg/client"
	"github.com/pureai/hostdesk/pkg/geometry"
)

// fakeAPI counts calls so tests can prove validation happens before
// any network traffic.
type fakeAPI struct {
	floor  *client.Floor
	tables []*client.Table

	layoutCalls int
	createCalls int
	saveCalls   int
	deleteCalls int
	lastSave    []client.TablePlacement

	failSave   error
	failCreate error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		floor: &client.Floor{ID: "f1", Name: "Main", Width: 1000, Height: 700},
	}
}

func (f *fakeAPI) Layout(_ context.Context, floorID string) (*client.FloorLayout, error) {
	f.layoutCalls++
	tables := make([]*client.Table, len(f.tables))
	for i, t := range f.tables {
		cp := *t
		tables[i] = &cp
	}
	return &client.FloorLayout{Floor: f.floor, Tables: tables}, nil
}

func (f *fakeAPI) CreateTable(_ context.Context, floorID string, p client.TablePlacement) (*client.Table, error) {
	f.createCalls++
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	t := &client.Table{
		ID: "t" + p.Label, FloorID: floorID, Label: p.Label,
		Capacity: p.Capacity, Shape: p.Shape,
		X: p.X, Y: p.Y, W: p.W, H: p.H, IsActive: true,
	}
	f.tables = append(f.tables, t)
	return t, nil
}

func (f *fakeAPI) SaveLayout(_ context.Context, floorID string, placements []client.TablePlacement) ([]*client.Table, error) {
	f.saveCalls++
	if f.failSave != nil {
		return nil, f.failSave
	}
	f.lastSave = placements
	out := make([]*client.Table, 0, len(placements))
	for _, p := range placements {
		out = append(out, &client.Table{
			ID: p.ID, FloorID: floorID, Label: p.Label,
			Capacity: p.Capacity, Shape: p.Shape,
			X: p.X, Y: p.Y, W: p.W, H: p.H, IsActive: true,
		})
	}
	return out, nil
}

func (f *fakeAPI) HardDeleteTable(_ context.Context, tableID string) error {
	f.deleteCalls++
	return nil
}

func loadedEditor(t *testing.T, api *fakeAPI) *Editor {
	t.Helper()
	e := NewEditor(api)
	if err := e.Load(context.Background(), "f1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return e
}

func TestAddTableValidatesBeforeNetwork(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{{ID: "t1", Label: "Window", Capacity: 2}}
	e := loadedEditor(t, api)

	cases := []client.TablePlacement{
		{Label: "   ", Capacity: 2},      // blank label
		{Label: "window", Capacity: 2},   // duplicate, case-insensitive
		{Label: "Patio", Capacity: 0},    // capacity below minimum
		{Label: "Patio", Capacity: 51},   // capacity above maximum
	}
	for _, p := range cases {
		if _, err := e.AddTable(context.Background(), p); err == nil {
			t.Errorf("expected %+v to be rejected", p)
		}
	}
	if api.createCalls != 0 {
		t.Errorf("validation failures must not reach the network, got %d calls", api.createCalls)
	}
}

func TestAddTableAppendsServerTable(t *testing.T) {
	api := newFakeAPI()
	e := loadedEditor(t, api)

	table, err := e.AddTable(context.Background(), client.TablePlacement{Label: " Patio 1 ", Capacity: 4})
	if err != nil {
		t.Fatalf("AddTable failed: %v", err)
	}
	if table.Label != "Patio 1" {
		t.Errorf("expected trimmed label, got %q", table.Label)
	}
	if e.Table(table.ID) == nil {
		t.Error("created table must join the working set")
	}
	if !e.Dirty() {
		t.Error("adding a table marks the editor dirty")
	}
}

func TestRenameTable(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{
		{ID: "t1", Label: "Window", Capacity: 2},
		{ID: "t2", Label: "Patio", Capacity: 4},
	}
	e := loadedEditor(t, api)

	if err := e.RenameTable("t1", "  Bar  "); err != nil {
		t.Fatalf("RenameTable failed: %v", err)
	}
	if got := e.Table("t1").Label; got != "Bar" {
		t.Errorf("expected trimmed label, got %q", got)
	}
	if !e.Dirty() {
		t.Error("rename marks the editor dirty")
	}
	if api.saveCalls != 0 {
		t.Error("rename is local until Save")
	}

	if err := e.RenameTable("t1", "patio"); err == nil {
		t.Error("renaming onto another table's label must be rejected")
	}
	if err := e.RenameTable("t1", " "); err == nil {
		t.Error("blank labels must be rejected")
	}
	// Keeping its own label, in any case, is a no-op.
	if err := e.RenameTable("t2", "Patio"); err != nil {
		t.Errorf("renaming to the same label should pass: %v", err)
	}
}

func TestMoveTableSnapsLocally(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{{ID: "t1", Label: "T1", Capacity: 2, X: 100, Y: 100, W: 80, H: 80}}
	e := loadedEditor(t, api)

	// 33 pixels at scale 0.5 is 66 logical units, snapped to 70.
	if err := e.MoveTable("t1", 33, 0, 0.5); err != nil {
		t.Fatalf("MoveTable failed: %v", err)
	}
	moved := e.Table("t1")
	if moved.X != 170 {
		t.Errorf("expected X=170 after snapped drag, got %g", moved.X)
	}
	if api.saveCalls != 0 {
		t.Error("moves are local until Save")
	}
	if !e.Dirty() {
		t.Error("moving marks the editor dirty")
	}
}

func TestResizeTableHonorsMinimum(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{{ID: "t1", Label: "T1", Capacity: 2, X: 100, Y: 100, W: 80, H: 80}}
	e := loadedEditor(t, api)

	if err := e.ResizeTable("t1", geometry.HandleRight, -500, 0, 1); err != nil {
		t.Fatalf("ResizeTable failed: %v", err)
	}
	resized := e.Table("t1")
	if resized.W < geometry.MinTableSize {
		t.Errorf("width %g fell below the minimum", resized.W)
	}
}

func TestDeleteTableHardDeletesThenRemoves(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{{ID: "t1", Label: "T1", Capacity: 2}}
	e := loadedEditor(t, api)

	if err := e.DeleteTable(context.Background(), "t1"); err != nil {
		t.Fatalf("DeleteTable failed: %v", err)
	}
	if api.deleteCalls != 1 {
		t.Errorf("expected one hard delete call, got %d", api.deleteCalls)
	}
	if e.Table("t1") != nil {
		t.Error("deleted table must leave the working set")
	}
}

func TestSaveClearsDirtyOnlyOnSuccess(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{{ID: "t1", Label: "T1", Capacity: 2, X: 0, Y: 0, W: 80, H: 80}}
	e := loadedEditor(t, api)

	if err := e.MoveTable("t1", 50, 0, 1); err != nil {
		t.Fatalf("MoveTable failed: %v", err)
	}

	api.failSave = &client.APIError{StatusCode: 400, Message: "duplicate table label"}
	if err := e.Save(context.Background()); err == nil {
		t.Fatal("expected save to fail")
	}
	if !e.Dirty() {
		t.Error("failed save must keep the editor dirty")
	}

	api.failSave = nil
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if e.Dirty() {
		t.Error("successful save clears the dirty flag")
	}
}

func TestLoadDiscardsUnsavedEdits(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{{ID: "t1", Label: "T1", Capacity: 2, X: 100, Y: 100, W: 80, H: 80}}
	e := loadedEditor(t, api)

	if err := e.MoveTable("t1", 200, 0, 1); err != nil {
		t.Fatalf("MoveTable failed: %v", err)
	}
	if err := e.Load(context.Background(), "f1"); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if e.Dirty() {
		t.Error("reload discards the dirty flag")
	}
	if got := e.Table("t1").X; got != 100 {
		t.Errorf("reload must discard local edits, X=%g", got)
	}
}

func TestOperationsRequireLoad(t *testing.T) {
	e := NewEditor(newFakeAPI())

	if _, err := e.AddTable(context.Background(), client.TablePlacement{Label: "T1", Capacity: 2}); err != ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if err := e.Save(context.Background()); err != ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestSaveSendsWholeWorkingSet(t *testing.T) {
	api := newFakeAPI()
	api.tables = []*client.Table{
		{ID: "t1", Label: "T1", Capacity: 2, X: 0, Y: 0, W: 80, H: 80, IsActive: true},
		{ID: "t2", Label: "T2", Capacity: 4, X: 200, Y: 0, W: 80, H: 80, IsActive: true},
	}
	e := loadedEditor(t, api)

	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if api.saveCalls != 1 {
		t.Fatalf("expected one save call, got %d", api.saveCalls)
	}
	for _, p := range api.lastSave {
		if p.IsActive == nil || !*p.IsActive {
			t.Errorf("placement %s must carry the active flag", p.ID)
		}
	}
	labels := make([]string, 0, len(e.Tables()))
	for _, tab := range e.Tables() {
		labels = append(labels, tab.Label)
	}
	if strings.Join(labels, ",") != "T1,T2" {
		t.Errorf("unexpected working set after save: %v", labels)
	}
}
