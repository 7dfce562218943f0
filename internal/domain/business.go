package domain

import "time"

// Business is a tenant of the platform. Every other entity is scoped to
// exactly one business through the JWT claims.
type Business struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	PasswordHash  string       `json:"-"`
	Phone         string       `json:"phone,omitempty"`
	PhoneVerified bool         `json:"phoneVerified"`
	BusinessType  string       `json:"businessType,omitempty"`
	Language      string       `json:"language,omitempty"`
	OpeningHours  OpeningHours `json:"openingHours,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	IsActive      bool         `json:"-"`
}

// OpeningHours maps a lowercase weekday name to its open/close interval.
type OpeningHours map[string]DayHours

// DayHours is one day's opening interval in "HH:MM" local time. Closed
// days carry Closed=true and empty times.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// Agent is the AI receptionist configuration for a business. The platform
// provisions exactly one per business at signup.
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

// BusinessRepository persists businesses
type BusinessRepository interface {
	Create(b *Business) error
	GetByID(id string) (*Business, error)
	GetByEmail(email string) (*Business, error)
	Update(b *Business) error
}

// AgentRepository persists agent configurations
type AgentRepository interface {
	Create(a *Agent) error
	GetByBusiness(businessID string) (*Agent, error)
	ListByBusiness(businessID string) ([]*Agent, error)
	Update(a *Agent) error
}
