package service

import (
	"fmt"
	"log/slog"

	"github.com/pureai/hostdesk/internal/domain"
)

// CallService exposes the call history
type CallService struct {
	callRepo domain.CallRepository
	logger   *slog.Logger
}

// NewCallService creates a new call service
func NewCallService(callRepo domain.CallRepository, logger *slog.Logger) *CallService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CallService{callRepo: callRepo, logger: logger}
}

// CallPage is one page of call history
type CallPage struct {
	Calls      []*domain.CallLog  `json:"calls"`
	Pagination *domain.Pagination `json:"pagination"`
}

// List returns a page of call logs, optionally filtered by call type
func (s *CallService) List(businessID, callType string, page, limit int) (*CallPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if callType != "" {
		switch callType {
		case domain.CallTypeBooking, domain.CallTypeOrder, domain.CallTypeOther:
		default:
			return nil, fmt.Errorf("unknown call type %q", callType)
		}
	}

	calls, pagination, err := s.callRepo.ListByBusiness(businessID, callType, page, limit)
	if err != nil {
		s.logger.Error("failed to list calls",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list calls")
	}
	return &CallPage{Calls: calls, Pagination: pagination}, nil
}
