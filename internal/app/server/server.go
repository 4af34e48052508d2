package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"nlpayroll/internal/domain/audit"
	"nlpayroll/internal/domain/auth"
	"nlpayroll/internal/domain/payroll"
	"nlpayroll/internal/platform/config"
	"nlpayroll/internal/platform/crypto"
	"nlpayroll/internal/platform/db"
	"nlpayroll/internal/platform/metrics"
	"nlpayroll/internal/transport/http/api"
	audithandler "nlpayroll/internal/transport/http/handlers/audit"
	calendarhandler "nlpayroll/internal/transport/http/handlers/calendar"
	leavehandler "nlpayroll/internal/transport/http/handlers/leave"
	payrollhandler "nlpayroll/internal/transport/http/handlers/payroll"
	"nlpayroll/internal/transport/http/middleware"
)

// Deps are the collaborators the router serves. Audit, Idempotency and Ready are optional
// and absent when no database is configured.
type Deps struct {
	Config      config.Config
	Logger      *slog.Logger
	Payroll     *payroll.Service
	Audit       *audit.Service
	Metrics     *metrics.Collector
	Idempotency *middleware.IdempotencyStore
	Perms       middleware.PermissionStore
	Ready       func(ctx context.Context) error
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	if deps.Perms == nil {
		deps.Perms = auth.NewStaticPermissions()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(deps.Logger, deps.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Total-Count", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, deps.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

		calendarhandler.NewHandler(deps.Perms).RegisterRoutes(r)
		leavehandler.NewHandler(deps.Perms).RegisterRoutes(r)

		payrollHandler := payrollhandler.NewHandler(deps.Payroll, deps.Perms, deps.Metrics, deps.Idempotency)
		payrollHandler.FilingLimit = middleware.FilingRateLimit(cfg.RateLimitPerMinute, time.Minute)
		payrollHandler.RegisterRoutes(r)

		if deps.Audit != nil {
			audithandler.NewHandler(deps.Audit, deps.Perms).RegisterRoutes(r)
		}
	})

	return router
}

// Run serves the API until ctx is cancelled. Without DATABASE_URL it runs stateless:
// returns are computed and rendered but not archived.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	rates := payroll.DefaultRegistry()
	if err := rates.RegisterFile(cfg.RatesFile); err != nil {
		return fmt.Errorf("load rates: %w", err)
	}

	deps := Deps{Config: cfg, Logger: logger, Metrics: metrics.New()}

	var pool *pgxpool.Pool
	if cfg.ArchiveEnabled() {
		var err error
		pool, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect failed: %w", err)
		}
		defer pool.Close()

		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
		}

		sealer, err := crypto.NewSealer(cfg.DataEncryptionKey)
		if err != nil {
			return err
		}
		if !sealer.Configured() {
			logger.Warn("DATA_ENCRYPTION_KEY not set; archived returns are stored unencrypted")
		}
		deps.Audit = audit.New(pool)
		deps.Idempotency = middleware.NewIdempotencyStore(pool)
		deps.Ready = pool.Ping
		deps.Payroll = payroll.NewService(payroll.NewStore(pool), rates, sealer, deps.Audit)
	} else {
		logger.Info("DATABASE_URL not set; tax return archive disabled")
		deps.Payroll = payroll.NewService(nil, rates, nil, nil)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(deps),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       2 * cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("nlpayroll server listening", "addr", cfg.Addr, "archive", cfg.ArchiveEnabled(), "rateYears", rates.Years())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
