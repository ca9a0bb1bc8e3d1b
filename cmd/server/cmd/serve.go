package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agenda-app/server/internal/api"
	"github.com/agenda-app/server/internal/api/handlers"
	"github.com/agenda-app/server/internal/api/middleware"
	"github.com/agenda-app/server/internal/auth"
	"github.com/agenda-app/server/internal/config"
	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/domain/events"
	"github.com/agenda-app/server/internal/domain/taskgroups"
	"github.com/agenda-app/server/internal/domain/tasks"
	"github.com/agenda-app/server/internal/metrics"
	"github.com/agenda-app/server/internal/storage/postgres"
	"github.com/agenda-app/server/internal/telemetry"
)

var (
	serverHost  string
	serverPort  int
	autoMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and serve the REST API until SIGINT or SIGTERM.

Examples:
  server serve
  server serve --host 127.0.0.1 --port 9090
  server serve --config /etc/agenda/config.yaml --migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "listen host (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "listen port (default: 8080)")
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")
}

func runServer(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging, cfg.Environment)
	logger.Info().Str("version", Version).Str("environment", cfg.Environment).Msg("starting agenda server")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	if autoMigrate {
		if err := postgres.MigrateUp(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return err
		}
		logger.Info().Msg("migrations applied")
	}

	pool, err := openPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init: %w", err)
	}

	go metrics.NewDBCollector(pool).Run(ctx, 15*time.Second)

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	go limiter.Run(ctx)

	handler := api.NewRouter(api.Deps{
		Config:  cfg,
		Logger:  logger,
		Tokens:  auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer),
		Limiter: limiter,
		Build:   buildInfo(),
		Services: api.Services{
			Calendars:  calendars.NewService(repo.Calendars()),
			TaskGroups: taskgroups.NewService(repo.TaskGroups()),
			Events:     events.NewService(repo.Events()),
			Tasks:      tasks.NewService(repo.Tasks()),
			Health: handlers.NewHealthChecker(repo, func() (postgres.MigrationStatus, error) {
				return postgres.Status(cfg.Database.URL, cfg.Database.MigrationsPath)
			}, Version, GitCommit),
		},
	})

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr(),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return gracefulShutdown(server, cfg.Server.ShutdownTimeout, logger)
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 && cfg.MaxIdle <= cfg.MaxConnections {
		poolCfg.MinConns = int32(cfg.MaxIdle)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return pool, nil
}

func gracefulShutdown(server *http.Server, timeout time.Duration, logger zerolog.Logger) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger.Info().Dur("timeout", timeout).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
