package client

import "time"

// Table status values as reported by the live endpoint.
const (
	StatusFree        = "free"
	StatusSeated      = "seated"
	StatusBooked      = "booked"
	StatusMaintenance = "maintenance"
)

// Table capacity bounds enforced by the server and pre-checked by the
// layout editor.
const (
	MinCapacity = 1
	MaxCapacity = 50
)

// Business is the authenticated tenant
type Business struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	PhoneVerified bool         `json:"phoneVerified"`
	BusinessType  string       `json:"businessType,omitempty"`
	Language      string       `json:"language,omitempty"`
	OpeningHours  OpeningHours `json:"openingHours,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// OpeningHours maps a lowercase weekday name to its open/close interval.
type OpeningHours map[string]DayHours

// DayHours is one day's opening interval in "HH:MM" local time
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// Agent is the receptionist agent configuration
type Agent struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"businessId"`
	Name         string    `json:"name"`
	SystemPrompt string    `json:"systemPrompt,omitempty"`
	Greeting     string    `json:"greeting,omitempty"`
	VoiceAgentID string    `json:"voiceAgentId,omitempty"`
	Language     string    `json:"language,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Floor is a named layout canvas
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

// Table is a seatable unit on a floor, in logical floor units
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

// LiveTable is a table with its derived status
type LiveTable struct {
	Table
	Status  string   `json:"status"`
	Booking *Booking `json:"booking,omitempty"`
}

// Booking is a party holding a table
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

// CallLog is one handled call
type CallLog struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"businessId"`
	CallerName      string    `json:"callerName,omitempty"`
	CallerNumber    string    `json:"callerNumber,omitempty"`
	Type            string    `json:"type"`
	DurationSeconds int       `json:"durationSeconds"`
	Summary         string    `json:"summary,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Pagination describes one page of a list response
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// FloorLayout is a floor with its active tables
type FloorLayout struct {
	Floor  *Floor   `json:"floor"`
	Tables []*Table `json:"tables"`
}

// LiveFloor is the live view of a floor
type LiveFloor struct {
	Floor  *Floor       `json:"floor"`
	Tables []*LiveTable `json:"tables"`
	AsOf   time.Time    `json:"asOf"`
}

// TablePlacement is one table entry of a layout save or create request
type TablePlacement struct {
	ID       string  `json:"id,omitempty"`
	Label    string  `json:"label"`
	Capacity int     `json:"capacity"`
	Shape    string  `json:"shape,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Zone     string  `json:"zone,omitempty"`
	// IsActive is optional on save. Omitted entries keep the table's
	// stored flag.
	IsActive *bool `json:"isActive,omitempty"`
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	Message  string    `json:"message"`
	Token    string    `json:"token"`
	Business *Business `json:"business"`
	AgentID  string    `json:"agentId,omitempty"`
}

// Bootstrap is the session bootstrap payload from /api/auth/me
type Bootstrap struct {
	Business *Business `json:"business"`
	Agent    *Agent    `json:"agent,omitempty"`
}
