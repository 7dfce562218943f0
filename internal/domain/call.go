package domain

import "time"

// Call types as classified by the receptionist agent.
const (
	CallTypeOrder   = "order"
	CallTypeBooking = "booking"
	CallTypeOther   = "other"
)

// CallLog is one handled call, written by the voice pipeline and read-only
// in this service.
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

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// CallRepository reads call logs
type CallRepository interface {
	ListByBusiness(businessID string, callType string, page, limit int) ([]*CallLog, *Pagination, error)
}
