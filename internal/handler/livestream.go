package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/service"
)

// LiveStreamHandler pushes live floor snapshots over a WebSocket. It is
// a push-based alternative to polling GET /api/floors/{id}/live.
type LiveStreamHandler struct {
	layout         *service.LayoutService
	interval       time.Duration
	allowedOrigins []string
	logger         *slog.Logger
}

// NewLiveStreamHandler creates a new live stream handler
func NewLiveStreamHandler(layout *service.LayoutService, interval time.Duration, allowedOrigins []string, logger *slog.Logger) *LiveStreamHandler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &LiveStreamHandler{
		layout:         layout,
		interval:       interval,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// upgrader is initialized per-request to use instance's allowed origins
func (h *LiveStreamHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/floors/{id}/live requests
func (h *LiveStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	floorID := r.PathValue("id")
	if floorID == "" {
		http.Error(w, "missing floor id", http.StatusBadRequest)
		return
	}

	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	h.logger.Debug("live stream opened",
		slog.String("floor_id", floorID),
		slog.String("business_id", businessID),
	)

	// Drain client frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() bool {
		snapshot, err := h.layout.LiveSnapshot(businessID, floorID)
		if err != nil {
			h.logger.Warn("live snapshot failed",
				slog.String("floor_id", floorID),
				slog.String("error", err.Error()),
			)
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
				time.Now().Add(time.Second))
			return false
		}
		ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := ws.WriteJSON(snapshot); err != nil {
			return false
		}
		return true
	}

	if !send() {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
