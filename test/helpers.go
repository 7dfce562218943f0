package test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/handler"
	"github.com/pureai/hostdesk/internal/infrastructure/logger"
	"github.com/pureai/hostdesk/internal/security/audit"
	"github.com/pureai/hostdesk/internal/security/auth"
	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/service"
	"github.com/pureai/hostdesk/pkg/cache"
)

// TestServerHelper runs the full HTTP surface over in-memory repositories,
// so integration tests need no database or redis.
type TestServerHelper struct {
	Server *httptest.Server
	Logger *slog.Logger

	Businesses *MemBusinessRepo
	Agents     *MemAgentRepo
	Floors     *MemFloorRepo
	Tables     *MemTableRepo
	Bookings   *MemBookingRepo
	Calls      *MemCallRepo
	Codes      *MemCodeStore
}

func NewTestServer(t *testing.T) *TestServerHelper {
	log := logger.NewLogger("debug")

	businesses := &MemBusinessRepo{}
	agents := &MemAgentRepo{}
	floors := &MemFloorRepo{}
	tables := &MemTableRepo{}
	bookings := &MemBookingRepo{}
	calls := &MemCallRepo{}
	codes := &MemCodeStore{}

	tokens := auth.NewTokenManager("integration-test-secret", "hostdesk-test")
	authService := service.NewAuthService(businesses, agents, tokens, time.Hour, log)
	businessService := service.NewBusinessService(businesses, codes, log)
	agentService := service.NewAgentService(agents, log)
	callService := service.NewCallService(calls, log)
	layoutService := service.NewLayoutService(floors, tables, bookings, cache.New(), time.Second, 90*time.Minute, log)
	tableService := service.NewTableService(layoutService, bookings, tables, log)

	auditLog := audit.NewLogger(log)
	authHandler := handler.NewAuthHandler(authService, log)
	businessHandler := handler.NewBusinessHandler(businessService, authService, log)
	agentHandler := handler.NewAgentHandler(agentService, log)
	callsHandler := handler.NewCallsHandler(callService, log)
	floorsHandler := handler.NewFloorsHandler(layoutService, t.TempDir(), log)
	tablesHandler := handler.NewTablesHandler(layoutService, tableService, auditLog, log)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/signup", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)

	mux.HandleFunc("GET /api/business/profile", businessHandler.GetProfile)
	mux.HandleFunc("PUT /api/business/profile", businessHandler.UpdateProfile)
	mux.HandleFunc("PUT /api/business/hours", businessHandler.UpdateHours)
	mux.HandleFunc("POST /api/business/phone/send-code", businessHandler.SendPhoneCode)
	mux.HandleFunc("POST /api/business/phone/verify", businessHandler.VerifyPhoneCode)

	mux.HandleFunc("GET /api/agent", agentHandler.Get)
	mux.HandleFunc("PUT /api/agent", agentHandler.Update)
	mux.HandleFunc("GET /api/agents", agentHandler.List)
	mux.HandleFunc("POST /api/agents", agentHandler.Create)

	mux.HandleFunc("GET /api/calls", callsHandler.List)
	mux.HandleFunc("GET /api/call-logs", callsHandler.ListFlat)

	mux.HandleFunc("GET /api/floors", floorsHandler.List)
	mux.HandleFunc("POST /api/floors", floorsHandler.Create)
	mux.HandleFunc("GET /api/floors/{id}/layout", floorsHandler.GetLayout)
	mux.HandleFunc("PUT /api/floors/{id}/layout", floorsHandler.SaveLayout)
	mux.HandleFunc("GET /api/floors/{id}/live", floorsHandler.Live)
	mux.HandleFunc("POST /api/floors/{id}/tables", floorsHandler.CreateTable)
	mux.HandleFunc("POST /api/floors/{id}/layout-image", floorsHandler.UploadLayoutImage)
	mux.HandleFunc("DELETE /api/floors/{id}/layout-image", floorsHandler.DeleteLayoutImage)

	mux.HandleFunc("DELETE /api/tables/{id}", tablesHandler.Deactivate)
	mux.HandleFunc("DELETE /api/tables/{id}/hard", tablesHandler.Delete)
	mux.HandleFunc("POST /api/tables/{id}/seat", tablesHandler.Seat)
	mux.HandleFunc("POST /api/tables/{id}/available", tablesHandler.SetAvailable)
	mux.HandleFunc("POST /api/tables/{id}/maintenance", tablesHandler.ToggleMaintenance)
	mux.HandleFunc("PATCH /api/tables/{id}/maintenance", tablesHandler.ToggleMaintenance)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	jwt := middleware.JWTMiddleware(tokens, log)
	server := httptest.NewServer(jwt(mux))

	return &TestServerHelper{
		Server:     server,
		Logger:     log,
		Businesses: businesses,
		Agents:     agents,
		Floors:     floors,
		Tables:     tables,
		Bookings:   bookings,
		Calls:      calls,
		Codes:      codes,
	}
}

func (h *TestServerHelper) Close() {
	h.Server.Close()
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertContentType helper function
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, expected) {
		t.Errorf("Expected Content-Type %s, got %s", expected, ct)
	}
}

// In-memory repositories. Guarded copies in and out so handler goroutines
// never share a struct with the store.

type MemBusinessRepo struct {
	mu    sync.Mutex
	items []*domain.Business
}

func (r *MemBusinessRepo) Create(b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Email, b.Email) {
			return fmt.Errorf("email already registered")
		}
	}
	clone := *b
	r.items = append(r.items, &clone)
	return nil
}

func (r *MemBusinessRepo) GetByID(id string) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("business not found")
}

func (r *MemBusinessRepo) GetByEmail(email string) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if strings.EqualFold(b.Email, email) {
			clone := *b
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("business not found")
}

func (r *MemBusinessRepo) Update(b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == b.ID {
			clone := *b
			r.items[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("business not found")
}

type MemAgentRepo struct {
	mu    sync.Mutex
	items []*domain.Agent
}

func (r *MemAgentRepo) Create(a *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *a
	r.items = append(r.items, &clone)
	return nil
}

func (r *MemAgentRepo) GetByBusiness(businessID string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.BusinessID == businessID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("agent not found")
}

func (r *MemAgentRepo) ListByBusiness(businessID string) ([]*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Agent
	for _, a := range r.items {
		if a.BusinessID == businessID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemAgentRepo) Update(a *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == a.ID {
			clone := *a
			r.items[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("agent not found")
}

type MemFloorRepo struct {
	mu    sync.Mutex
	items []*domain.Floor
}

func (r *MemFloorRepo) Create(f *domain.Floor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *f
	r.items = append(r.items, &clone)
	return nil
}

func (r *MemFloorRepo) GetByID(id string) (*domain.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.items {
		if f.ID == id {
			clone := *f
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("floor not found")
}

func (r *MemFloorRepo) ListByBusiness(businessID string) ([]*domain.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Floor
	for _, f := range r.items {
		if f.BusinessID == businessID {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemFloorRepo) Update(f *domain.Floor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == f.ID {
			clone := *f
			r.items[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("floor not found")
}

type MemTableRepo struct {
	mu    sync.Mutex
	items []*domain.Table
}

func (r *MemTableRepo) Create(t *domain.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.items = append(r.items, &clone)
	return nil
}

func (r *MemTableRepo) GetByID(id string) (*domain.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.ID == id {
			clone := *t
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("table not found")
}

func (r *MemTableRepo) ListByFloor(floorID string) ([]*domain.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Table
	for _, t := range r.items {
		if t.FloorID == floorID && t.IsActive {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *MemTableRepo) Update(t *domain.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == t.ID {
			clone := *t
			r.items[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("table not found")
}

func (r *MemTableRepo) Deactivate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.ID == id {
			t.IsActive = false
			return nil
		}
	}
	return fmt.Errorf("table not found")
}

func (r *MemTableRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.items {
		if t.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("table not found")
}

type MemBookingRepo struct {
	mu    sync.Mutex
	items []*domain.Booking
}

func (r *MemBookingRepo) Create(b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.items = append(r.items, &clone)
	return nil
}

func (r *MemBookingRepo) GetActiveByTable(tableID string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.TableID == tableID && b.Status == domain.BookingActive {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemBookingRepo) GetUpcomingByTable(tableID string, within time.Duration) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	horizon := time.Now().Add(within)
	for _, b := range r.items {
		if b.TableID == tableID && b.Status == domain.BookingUpcoming && b.StartAt.Before(horizon) {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemBookingRepo) ListActive() ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.items {
		if b.Status == domain.BookingActive {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemBookingRepo) End(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.ID == id {
			b.Status = domain.BookingEnded
			b.EndAt = &at
			return nil
		}
	}
	return fmt.Errorf("booking not found")
}

type MemCallRepo struct {
	mu    sync.Mutex
	items []*domain.CallLog
}

func (r *MemCallRepo) Add(c *domain.CallLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.items = append(r.items, &clone)
}

func (r *MemCallRepo) ListByBusiness(businessID string, callType string, page, limit int) ([]*domain.CallLog, *domain.Pagination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.CallLog
	for _, c := range r.items {
		if c.BusinessID != businessID {
			continue
		}
		if callType != "" && c.Type != callType {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pagination := &domain.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	return matched[start:end], pagination, nil
}

type MemCodeStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *MemCodeStore) Put(ctx context.Context, businessID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = make(map[string]string)
	}
	s.codes[businessID] = code
	return nil
}

func (s *MemCodeStore) Check(ctx context.Context, businessID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[businessID]
	if !ok || stored != code {
		return false, nil
	}
	delete(s.codes, businessID)
	return true, nil
}

// LastCode returns the most recent verification code stored for a
// business, so tests can complete the verify step.
func (s *MemCodeStore) LastCode(businessID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[businessID]
}
