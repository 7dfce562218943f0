package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pureai/hostdesk/internal/infrastructure/redis"
)

// VerificationRepository stores short-lived phone verification codes in
// Redis, keyed by business. The TTL is the whole expiry story: a missing
// key means no code is pending.
type VerificationRepository struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewVerificationRepository creates a verification code store
func NewVerificationRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *VerificationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &VerificationRepository{redis: client, ttl: ttl, logger: logger}
}

func verificationKey(businessID string) string {
	return fmt.Sprintf("phone_verification:%s", businessID)
}

// Put stores a code for a business, replacing any pending one
func (r *VerificationRepository) Put(ctx context.Context, businessID, code string) error {
	if err := r.redis.Set(ctx, verificationKey(businessID), code, r.ttl); err != nil {
		r.logger.Error("failed to store verification code",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// Check compares the submitted code against the pending one and consumes
// it on success
func (r *VerificationRepository) Check(ctx context.Context, businessID, code string) (bool, error) {
	stored, err := r.redis.Get(ctx, verificationKey(businessID))
	if err != nil {
		if redis.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read verification code: %w", err)
	}
	if stored != code {
		return false, nil
	}
	if err := r.redis.Delete(ctx, verificationKey(businessID)); err != nil {
		r.logger.Warn("failed to consume verification code",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
	}
	return true, nil
}
