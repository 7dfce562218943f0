package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pureai/hostdesk/internal/domain"
)

var errNotFound = errors.New("not found")

type memBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*domain.Business
}

func newMemBusinessRepo() *memBusinessRepo {
	return &memBusinessRepo{businesses: make(map[string]*domain.Business)}
}

func (r *memBusinessRepo) Create(b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.businesses[b.ID] = &cp
	return nil
}

func (r *memBusinessRepo) GetByID(id string) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBusinessRepo) GetByEmail(email string) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.businesses {
		if strings.EqualFold(b.Email, email) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *memBusinessRepo) Update(b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.businesses[b.ID]; !ok {
		return errNotFound
	}
	cp := *b
	r.businesses[b.ID] = &cp
	return nil
}

type memAgentRepo struct {
	mu     sync.Mutex
	agents map[string]*domain.Agent
}

func newMemAgentRepo() *memAgentRepo {
	return &memAgentRepo{agents: make(map[string]*domain.Agent)}
}

func (r *memAgentRepo) Create(a *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.agents[a.ID] = &cp
	return nil
}

func (r *memAgentRepo) GetByBusiness(businessID string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.agents {
		if a.BusinessID == businessID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *memAgentRepo) ListByBusiness(businessID string) ([]*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Agent
	for _, a := range r.agents {
		if a.BusinessID == businessID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memAgentRepo) Update(a *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[a.ID]; !ok {
		return errNotFound
	}
	cp := *a
	r.agents[a.ID] = &cp
	return nil
}

type memFloorRepo struct {
	mu     sync.Mutex
	floors map[string]*domain.Floor
}

func newMemFloorRepo() *memFloorRepo {
	return &memFloorRepo{floors: make(map[string]*domain.Floor)}
}

func (r *memFloorRepo) Create(f *domain.Floor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.floors[f.ID] = &cp
	return nil
}

func (r *memFloorRepo) GetByID(id string) (*domain.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.floors[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memFloorRepo) ListByBusiness(businessID string) ([]*domain.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Floor
	for _, f := range r.floors {
		if f.BusinessID == businessID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFloorRepo) Update(f *domain.Floor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.floors[f.ID]; !ok {
		return errNotFound
	}
	cp := *f
	r.floors[f.ID] = &cp
	return nil
}

type memTableRepo struct {
	mu     sync.Mutex
	tables map[string]*domain.Table
}

func newMemTableRepo() *memTableRepo {
	return &memTableRepo{tables: make(map[string]*domain.Table)}
}

func (r *memTableRepo) Create(t *domain.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *memTableRepo) GetByID(id string) (*domain.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTableRepo) ListByFloor(floorID string) ([]*domain.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Table
	for _, t := range r.tables {
		if t.FloorID == floorID && t.IsActive {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *memTableRepo) Update(t *domain.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[t.ID]; !ok {
		return errNotFound
	}
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *memTableRepo) Deactivate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return errNotFound
	}
	t.IsActive = false
	return nil
}

func (r *memTableRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[id]; !ok {
		return errNotFound
	}
	delete(r.tables, id)
	return nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*domain.Booking)}
}

func (r *memBookingRepo) Create(b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetActiveByTable(tableID string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.TableID == tableID && b.Status == domain.BookingActive {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) GetUpcomingByTable(tableID string, within time.Duration) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	horizon := time.Now().Add(within)
	for _, b := range r.bookings {
		if b.TableID == tableID && b.Status == domain.BookingUpcoming && b.StartAt.Before(horizon) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) ListActive() ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.Status == domain.BookingActive {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBookingRepo) End(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return errNotFound
	}
	if b.Status == domain.BookingEnded {
		return nil
	}
	b.Status = domain.BookingEnded
	b.EndAt = &at
	return nil
}

type memCodeStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func newMemCodeStore() *memCodeStore {
	return &memCodeStore{codes: make(map[string]string)}
}

func (s *memCodeStore) Put(_ context.Context, businessID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[businessID] = code
	return nil
}

func (s *memCodeStore) Check(_ context.Context, businessID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[businessID]
	if !ok || stored != code {
		return false, nil
	}
	delete(s.codes, businessID)
	return true, nil
}
