package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/observability/metrics"
)

// BookingExpiryWorker periodically ends walk-in bookings that have been
// open longer than the hold window, and any booking whose end time has
// passed. Freed tables show up on the next live poll.
type BookingExpiryWorker struct {
	bookingRepository domain.BookingRepository
	logger            *slog.Logger
	interval          time.Duration
	holdWindow        time.Duration
	maxRetries        int
}

// NewBookingExpiryWorker creates a new booking expiry worker
func NewBookingExpiryWorker(
	bookingRepo domain.BookingRepository,
	logger *slog.Logger,
	interval time.Duration,
	holdWindow time.Duration,
) *BookingExpiryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if holdWindow <= 0 {
		holdWindow = 90 * time.Minute
	}
	return &BookingExpiryWorker{
		bookingRepository: bookingRepo,
		logger:            logger,
		interval:          interval,
		holdWindow:        holdWindow,
		maxRetries:        3,
	}
}

// Start begins the sweep loop
func (w *BookingExpiryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("booking expiry worker started",
		slog.Duration("interval", w.interval),
		slog.Duration("hold_window", w.holdWindow),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("booking expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep is one pass over the active bookings
func (w *BookingExpiryWorker) sweep(ctx context.Context) {
	bookings, err := w.bookingRepository.ListActive()
	if err != nil {
		w.logger.Error("failed to list active bookings",
			slog.String("error", err.Error()),
		)
		metrics.ObserveSweep("error")
		return
	}
	metrics.SetOccupied(len(bookings))

	now := time.Now()
	ended := 0
	for _, b := range bookings {
		if !w.expired(b, now) {
			continue
		}
		if w.endBooking(ctx, b, now) {
			ended++
		}
	}

	if ended > 0 {
		w.logger.Info("expired bookings ended", slog.Int("count", ended))
	}
	metrics.ObserveSweep("success")
}

// expired reports whether a booking should be closed. Bookings with an
// explicit end time expire when it passes; open-ended walk-ins expire
// after the hold window.
func (w *BookingExpiryWorker) expired(b *domain.Booking, now time.Time) bool {
	if b.EndAt != nil {
		return !now.Before(*b.EndAt)
	}
	return now.Sub(b.StartAt) >= w.holdWindow
}

// endBooking closes a single booking with retry logic
func (w *BookingExpiryWorker) endBooking(ctx context.Context, b *domain.Booking, now time.Time) bool {
	logger := w.logger.With(
		slog.String("booking_id", b.ID),
		slog.String("table_id", b.TableID),
	)

	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt*attempt) * time.Second
			logger.Warn("retrying booking end", slog.Int("attempt", attempt), slog.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return false
			case <-time.After(backoff):
			}
		}

		if err := w.bookingRepository.End(b.ID, now); err != nil {
			logger.Error("failed to end booking", slog.String("error", err.Error()))
			continue
		}
		logger.Info("booking ended by sweep")
		return true
	}

	logger.Error("booking end failed after retries", slog.Int("max_retries", w.maxRetries))
	metrics.ObserveSweep("error")
	return false
}
