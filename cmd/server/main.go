package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pureai/hostdesk/internal/handler"
	"github.com/pureai/hostdesk/internal/infrastructure/logger"
	"github.com/pureai/hostdesk/internal/infrastructure/redis"
	"github.com/pureai/hostdesk/internal/observability/metrics"
	"github.com/pureai/hostdesk/internal/observability/tracing"
	"github.com/pureai/hostdesk/internal/repository"
	"github.com/pureai/hostdesk/internal/security/audit"
	"github.com/pureai/hostdesk/internal/security/auth"
	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/security/ratelimit"
	"github.com/pureai/hostdesk/internal/service"
	"github.com/pureai/hostdesk/internal/worker"
	"github.com/pureai/hostdesk/pkg/cache"
	"github.com/pureai/hostdesk/pkg/config"
	"github.com/pureai/hostdesk/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting HostDesk server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, tracing.Options{
		Endpoint:    cfg.OTLPEndpoint,
		Service:     "hostdesk",
		Environment: cfg.Environment,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Initialize Redis client
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 5. Initialize Postgres pool
	db, err := database.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to Postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	// 6. Initialize repositories
	businessRepo := repository.NewPostgresBusinessRepository(db.DB(), log)
	agentRepo := repository.NewPostgresAgentRepository(db.DB(), log)
	floorRepo := repository.NewPostgresFloorRepository(db.DB(), log)
	tableRepo := repository.NewPostgresTableRepository(db.DB(), log)
	bookingRepo := repository.NewPostgresBookingRepository(db.DB(), log)
	callRepo := repository.NewPostgresCallRepository(db.DB(), log)
	verificationRepo := repository.NewVerificationRepository(redisClient, 10*time.Minute, log)

	// 7. Initialize services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "hostdesk")
	snapshotCache := cache.New()
	holdWindow := time.Duration(cfg.BookingHoldMinutes) * time.Minute

	authService := service.NewAuthService(businessRepo, agentRepo, tokenManager, cfg.TokenTTL, log)
	businessService := service.NewBusinessService(businessRepo, verificationRepo, log)
	agentService := service.NewAgentService(agentRepo, log)
	callService := service.NewCallService(callRepo, log)
	layoutService := service.NewLayoutService(floorRepo, tableRepo, bookingRepo, snapshotCache, cfg.LiveCacheTTL, holdWindow, log)
	tableService := service.NewTableService(layoutService, bookingRepo, tableRepo, log)

	// 8. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	businessHandler := handler.NewBusinessHandler(businessService, authService, log)
	agentHandler := handler.NewAgentHandler(agentService, log)
	callsHandler := handler.NewCallsHandler(callService, log)
	floorsHandler := handler.NewFloorsHandler(layoutService, cfg.UploadDir, log)
	auditLogger := audit.NewLogger(log)
	tablesHandler := handler.NewTablesHandler(layoutService, tableService, auditLogger, log)
	healthHandler := handler.NewHealthHandler(db, redisClient)
	liveStream := handler.NewLiveStreamHandler(layoutService, time.Duration(cfg.LivePollSeconds)*time.Second, cfg.CORSAllowedOrigins, log)

	rateLimiter := ratelimit.NewLimiter(120, time.Minute) // covers a 5s live poll with headroom

	// 9. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/signup", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)

	mux.HandleFunc("GET /api/business/profile", businessHandler.GetProfile)
	mux.HandleFunc("PUT /api/business/profile", businessHandler.UpdateProfile)
	mux.HandleFunc("PUT /api/business/hours", businessHandler.UpdateHours)
	mux.HandleFunc("POST /api/business/phone/send-code", businessHandler.SendPhoneCode)
	mux.HandleFunc("POST /api/business/phone/verify", businessHandler.VerifyPhoneCode)

	mux.HandleFunc("GET /api/agent", agentHandler.Get)
	mux.HandleFunc("PUT /api/agent", agentHandler.Update)
	mux.HandleFunc("GET /api/agents", agentHandler.List)
	mux.HandleFunc("POST /api/agents", agentHandler.Create)

	mux.HandleFunc("GET /api/calls", callsHandler.List)
	mux.HandleFunc("GET /api/call-logs", callsHandler.ListFlat)

	mux.HandleFunc("GET /api/floors", floorsHandler.List)
	mux.HandleFunc("POST /api/floors", floorsHandler.Create)
	mux.HandleFunc("GET /api/floors/{id}/layout", floorsHandler.GetLayout)
	mux.HandleFunc("PUT /api/floors/{id}/layout", floorsHandler.SaveLayout)
	mux.HandleFunc("GET /api/floors/{id}/live", floorsHandler.Live)
	mux.HandleFunc("POST /api/floors/{id}/tables", floorsHandler.CreateTable)
	mux.HandleFunc("POST /api/floors/{id}/layout-image", floorsHandler.UploadLayoutImage)
	mux.HandleFunc("DELETE /api/floors/{id}/layout-image", floorsHandler.DeleteLayoutImage)

	mux.HandleFunc("DELETE /api/tables/{id}", tablesHandler.Deactivate)
	mux.HandleFunc("DELETE /api/tables/{id}/hard", tablesHandler.Delete)
	mux.HandleFunc("POST /api/tables/{id}/seat", tablesHandler.Seat)
	mux.HandleFunc("POST /api/tables/{id}/available", tablesHandler.SetAvailable)
	mux.HandleFunc("POST /api/tables/{id}/maintenance", tablesHandler.ToggleMaintenance)
	mux.HandleFunc("PATCH /api/tables/{id}/maintenance", tablesHandler.ToggleMaintenance)

	mux.Handle("GET /ws/floors/{id}/live", liveStream)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", healthHandler.Healthz)
	mux.HandleFunc("/readyz", healthHandler.Readyz)

	// Uploaded layout images
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> tracing -> JWT -> rate limit -> audit -> CORS.
	// JWT runs before rate limit and audit so both see the business claims.
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			otelhttp.NewHandler(
				middleware.JWTMiddleware(tokenManager, log)(
					middleware.RateLimitMiddleware(rateLimiter, auditLogger, log)(
						middleware.AuditMiddleware(auditLogger)(handlerWithCORS),
					),
				),
				"hostdesk.http",
			),
		),
		log,
	)

	// 10. Start booking expiry worker in background
	expiryWorker := worker.NewBookingExpiryWorker(bookingRepo, log, cfg.BookingSweepInterval, holdWindow)
	go expiryWorker.Start(ctx)

	// 11. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("live_poll_seconds", cfg.LivePollSeconds),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop the booking expiry worker
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
