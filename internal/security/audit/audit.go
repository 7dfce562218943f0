package audit

import (
	"context"
	"log/slog"
	"time"
)

// Logger writes structured audit records for state-changing operations.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, businessID, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("business_id", businessID),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogSeat(ctx context.Context, businessID, tableID, status, details string) {
	al.LogAction(ctx, businessID, "seat", "table", tableID, status, details)
}

func (al *Logger) LogLayoutSave(ctx context.Context, businessID, floorID, status, details string) {
	al.LogAction(ctx, businessID, "layout_save", "floor", floorID, status, details)
}

func (al *Logger) LogTableDelete(ctx context.Context, businessID, tableID, status, details string) {
	al.LogAction(ctx, businessID, "delete", "table", tableID, status, details)
}

func (al *Logger) LogDenied(ctx context.Context, businessID, reason string) {
	al.LogAction(ctx, businessID, "access_denied", "api", "", "denied", reason)
}
