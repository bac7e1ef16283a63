package habitservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	global "github.com/rs/zerolog/log"

	"github.com/habitline/habitline/server/internal/api"
	"github.com/habitline/habitline/server/internal/auth"
	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/factory"
	"github.com/habitline/habitline/server/internal/health"
	"github.com/habitline/habitline/server/internal/logger"
	"github.com/habitline/habitline/server/internal/services"
	"github.com/habitline/habitline/server/internal/store"
)

// Run starts the habit service HTTP server and blocks until shutdown or error.
// A non-empty buildTarget overrides HABIT_SERVER_BUILD_TARGET.
func Run(buildTarget string) error {
	log := logger.New("habit-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if buildTarget != "" {
		cfg.BuildTarget = buildTarget
		cfg.DBDriver = "auto"
		if err := cfg.ResolveDefaults(); err != nil {
			log.Error().Err(err).Msg("Invalid build-target override")
			return err
		}
	}
	log = log.Level(logger.LevelFor(string(cfg.Environment)))
	// services and middlewares log through the package-level logger
	global.Logger = log

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("time_zone", cfg.TimeZone).
		Msg("Habit service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Entity catalog invalid")
		return err
	}

	st, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Stack().Err(err).Msg("store close failed")
		}
	}()

	// Start health checkers before the router so /api/health reports them
	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	router := buildRouter(st, catalog, cfg, svcHealth)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	// HTTP server and serve
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies opens the configured store; there is no fallback driver.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}
	return st, nil
}

// buildRouter wires services into the HTTP router.
func buildRouter(st store.Store, catalog *config.Catalog, cfg *config.Config, reporter api.HealthReporter) *mux.Router {
	assigner := slug.NewAssigner(cfg.SlugMaxAttempts)
	return api.NewRouter(api.Deps{
		Users:        services.NewUserService(st, assigner, catalog),
		Categories:   services.NewCategoryService(st, assigner, catalog),
		Habits:       services.NewHabitService(st, assigner, catalog),
		Records:      services.NewRecordService(st, assigner),
		Achievements: services.NewAchievementService(st, assigner, catalog),
		Stats:        services.NewStatsService(st, cfg.MaxRangeDays),
		Authorizer:   auth.NewAuthorizerFactory(cfg).CreateAuthorizer(),
		Health:       reporter,
		Today:        cfg.Today,
	})
}

// startHealthCheckers starts component checkers and the service-level
// aggregator. All goroutines exit when ctx is cancelled.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	interval := cfg.HealthInterval()

	storeChecker := store.NewStoreHealthChecker(st, log, cfg.HealthProbeTimeout())
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, aggregateInterval(interval))
	return svcHealth
}

// aggregateInterval re-evaluates the aggregate more often than components are
// probed so a recovered component is reported within a second.
func aggregateInterval(probe time.Duration) time.Duration {
	if probe > time.Second {
		return time.Second
	}
	return probe
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
