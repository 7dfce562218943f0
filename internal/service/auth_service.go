package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/security/auth"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business signup, login, and session bootstrap
type AuthService struct {
	businessRepo domain.BusinessRepository
	agentRepo    domain.AgentRepository
	tokens       *auth.TokenManager
	tokenTTL     time.Duration
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	businessRepo domain.BusinessRepository,
	agentRepo domain.AgentRepository,
	tokens *auth.TokenManager,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		businessRepo: businessRepo,
		agentRepo:    agentRepo,
		tokens:       tokens,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// SignupResult is returned on successful registration
type SignupResult struct {
	Message  string           `json:"message"`
	Token    string           `json:"token"`
	Business *domain.Business `json:"business"`
	AgentID  string           `json:"agentId"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	Message  string           `json:"message"`
	Token    string           `json:"token"`
	Business *domain.Business `json:"business"`
}

// Signup registers a business and provisions its default agent
func (s *AuthService) Signup(businessName, email, password, businessType string) (*SignupResult, error) {
	businessName = strings.TrimSpace(businessName)
	email = strings.TrimSpace(strings.ToLower(email))

	if businessName == "" || email == "" || password == "" {
		return nil, errors.New("businessName, email, and password are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if existing, err := s.businessRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to register business")
	}

	business := &domain.Business{
		ID:           uuid.NewString(),
		Name:         businessName,
		Email:        email,
		PasswordHash: string(hash),
		BusinessType: businessType,
		Language:     "en",
		IsActive:     true,
	}

	if err := s.businessRepo.Create(business); err != nil {
		s.logger.Error("failed to create business", slog.String("error", err.Error()))
		return nil, errors.New("failed to register business")
	}

	agent := &domain.Agent{
		ID:         uuid.NewString(),
		BusinessID: business.ID,
		Name:       businessName + " Receptionist",
		Greeting:   "Thank you for calling " + businessName + ". How can I help you today?",
		Language:   business.Language,
	}
	if err := s.agentRepo.Create(agent); err != nil {
		s.logger.Error("failed to create default agent",
			slog.String("business_id", business.ID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to register business")
	}

	token, err := s.tokens.GenerateToken(business.ID, business.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to register business")
	}

	s.logger.Info("business registered",
		slog.String("business_id", business.ID),
		slog.String("email", business.Email),
	)

	return &SignupResult{
		Message:  "business registered",
		Token:    token,
		Business: business,
		AgentID:  agent.ID,
	}, nil
}

// Login authenticates a business and returns a bearer token
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	business, err := s.businessRepo.GetByEmail(email)
	if err != nil {
		s.logger.Info("login attempt with unknown email", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(business.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	token, err := s.tokens.GenerateToken(business.ID, business.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to log in")
	}

	s.logger.Info("business logged in",
		slog.String("business_id", business.ID),
		slog.String("email", business.Email),
	)

	return &LoginResult{Message: "logged in", Token: token, Business: business}, nil
}

// Me returns the business and its agent for session bootstrap
func (s *AuthService) Me(businessID string) (*domain.Business, *domain.Agent, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, nil, errors.New("business not found")
	}

	agent, err := s.agentRepo.GetByBusiness(businessID)
	if err != nil {
		// A business without an agent is still a valid session.
		agent = nil
	}

	return business, agent, nil
}
