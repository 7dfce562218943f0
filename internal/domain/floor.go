package domain

import "time"

// Table status vocabulary. Live status is derived: the maintenance flag
// wins, then the active booking, then an upcoming booking, then free.
const (
	StatusFree        = "free"
	StatusSeated      = "seated"
	StatusBooked      = "booked"
	StatusMaintenance = "maintenance"
)

// Table shapes accepted by the layout editor.
const (
	ShapeRect   = "rect"
	ShapeSquare = "square"
	ShapeRound  = "round"
	ShapeOval   = "oval"
)

// Capacity bounds for a single table.
const (
	MinCapacity = 1
	MaxCapacity = 50
)

// Floor is a named area of a venue on which tables are placed. Width and
// height are logical units; clients derive their own pixel scale.
type Floor struct {
	ID             string    `json:"id"`
	BusinessID     string    `json:"businessId"`
	Name           string    `json:"name"`
	Width          float64   `json:"width"`
	Height         float64   `json:"height"`
	LayoutImageURL string    `json:"layoutImageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Table is a seatable unit on a floor. Position and size are logical
// units, grid-snapped by the layout service on every save.
type Table struct {
	ID          string    `json:"id"`
	FloorID     string    `json:"floorId"`
	Label       string    `json:"label"`
	Capacity    int       `json:"capacity"`
	Shape       string    `json:"shape"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	W           float64   `json:"w"`
	H           float64   `json:"h"`
	Zone        string    `json:"zone,omitempty"`
	IsActive    bool      `json:"isActive"`
	Maintenance bool      `json:"maintenance"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LiveTable is a table with its derived status and, when seated or
// booked, the booking it derives from. Returned by the live endpoint.
type LiveTable struct {
	Table
	Status  string   `json:"status"`
	Booking *Booking `json:"booking,omitempty"`
}

// Booking associates a party with a table for a time window. Walk-ins get
// an open-ended window closed by the expiry sweep or an explicit free.
type Booking struct {
	ID            string     `json:"id"`
	TableID       string     `json:"tableId"`
	CustomerName  string     `json:"customerName,omitempty"`
	CustomerPhone string     `json:"customerPhone,omitempty"`
	PartySize     int        `json:"partySize"`
	StartAt       time.Time  `json:"startAt"`
	EndAt         *time.Time `json:"endAt,omitempty"`
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Booking sources.
const (
	SourceWalkIn = "walk-in"
	SourcePhone  = "phone"
	SourceOnline = "online"
)

// Booking lifecycle states.
const (
	BookingActive   = "active"
	BookingUpcoming = "upcoming"
	BookingEnded    = "ended"
)

// FloorRepository persists floors
type FloorRepository interface {
	Create(f *Floor) error
	GetByID(id string) (*Floor, error)
	ListByBusiness(businessID string) ([]*Floor, error)
	Update(f *Floor) error
}

// TableRepository persists tables
type TableRepository interface {
	Create(t *Table) error
	GetByID(id string) (*Table, error)
	ListByFloor(floorID string) ([]*Table, error)
	Update(t *Table) error
	Deactivate(id string) error
	Delete(id string) error
}

// BookingRepository persists bookings
type BookingRepository interface {
	Create(b *Booking) error
	GetActiveByTable(tableID string) (*Booking, error)
	GetUpcomingByTable(tableID string, within time.Duration) (*Booking, error)
	ListActive() ([]*Booking, error)
	End(id string, at time.Time) error
}
