package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/pureai/hostdesk/internal/domain"
)

// CodeStore holds pending phone verification codes
type CodeStore interface {
	Put(ctx context.Context, businessID, code string) error
	Check(ctx context.Context, businessID, code string) (bool, error)
}

// BusinessService handles profile, opening hours, and phone verification
type BusinessService struct {
	businessRepo domain.BusinessRepository
	codes        CodeStore
	logger       *slog.Logger
}

// NewBusinessService creates a new business service
func NewBusinessService(businessRepo domain.BusinessRepository, codes CodeStore, logger *slog.Logger) *BusinessService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusinessService{businessRepo: businessRepo, codes: codes, logger: logger}
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	BusinessType *string `json:"businessType,omitempty"`
	Language     *string `json:"language,omitempty"`
}

// UpdateProfile applies a partial profile update
func (s *BusinessService) UpdateProfile(businessID string, update ProfileUpdate) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, errors.New("business not found")
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, errors.New("name must not be empty")
		}
		business.Name = name
	}
	if update.Phone != nil && *update.Phone != business.Phone {
		business.Phone = strings.TrimSpace(*update.Phone)
		// A new number has to be verified again.
		business.PhoneVerified = false
	}
	if update.BusinessType != nil {
		business.BusinessType = *update.BusinessType
	}
	if update.Language != nil {
		business.Language = *update.Language
	}

	if err := s.businessRepo.Update(business); err != nil {
		s.logger.Error("failed to update profile",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to update profile")
	}

	return business, nil
}

// UpdateHours replaces the opening hours wholesale
func (s *BusinessService) UpdateHours(businessID string, hours domain.OpeningHours) (domain.OpeningHours, error) {
	for day, h := range hours {
		switch day {
		case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		default:
			return nil, fmt.Errorf("unknown day %q", day)
		}
		if !h.Closed && (h.Open == "" || h.Close == "") {
			return nil, fmt.Errorf("open and close times required for %s", day)
		}
	}

	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, errors.New("business not found")
	}

	business.OpeningHours = hours
	if err := s.businessRepo.Update(business); err != nil {
		s.logger.Error("failed to update opening hours",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to update opening hours")
	}

	return business.OpeningHours, nil
}

// SendPhoneCode generates and stores a verification code for the
// business's phone number. Delivery is the SMS gateway's job; this
// service only issues the code.
func (s *BusinessService) SendPhoneCode(ctx context.Context, businessID string) error {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return errors.New("business not found")
	}
	if business.Phone == "" {
		return errors.New("no phone number on file")
	}

	code, err := generateCode()
	if err != nil {
		s.logger.Error("failed to generate verification code", slog.String("error", err.Error()))
		return errors.New("failed to send verification code")
	}

	if err := s.codes.Put(ctx, businessID, code); err != nil {
		return errors.New("failed to send verification code")
	}

	s.logger.Info("phone verification code issued",
		slog.String("business_id", businessID),
	)
	return nil
}

// VerifyPhoneCode checks a submitted code and marks the phone verified
func (s *BusinessService) VerifyPhoneCode(ctx context.Context, businessID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("code is required")
	}

	ok, err := s.codes.Check(ctx, businessID, code)
	if err != nil {
		return errors.New("failed to verify code")
	}
	if !ok {
		return errors.New("invalid or expired code")
	}

	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return errors.New("business not found")
	}
	business.PhoneVerified = true
	if err := s.businessRepo.Update(business); err != nil {
		return errors.New("failed to verify code")
	}

	s.logger.Info("phone verified", slog.String("business_id", businessID))
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
