// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/cli"
	"github.com/carterperez-dev/epic-events/internal/client"
	"github.com/carterperez-dev/epic-events/internal/config"
	"github.com/carterperez-dev/epic-events/internal/contract"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
	"github.com/carterperez-dev/epic-events/internal/event"
	"github.com/carterperez-dev/epic-events/internal/health"
	"github.com/carterperez-dev/epic-events/internal/middleware"
	"github.com/carterperez-dev/epic-events/internal/user"
)

const (
	defaultConfigPath = "epic.yaml"
	statusTimeout     = 10 * time.Second
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	//nolint:errcheck // .env is optional
	_ = godotenv.Load()

	configPath, args := extractConfigFlag(args)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return cli.ExitBootstrap
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	auditLogger, closeAudit, err := setupAuditLogger(cfg.Log, os.Stderr)
	if err != nil {
		logger.Warn("audit log unavailable, using diagnostics logger", "error", err)
		auditLogger = logger
	} else {
		defer closeAudit()
	}

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
	} else {
		logger.Debug("telemetry ready", "exporting", telemetry.Exporting)
		defer func() {
			if err := telemetry.Shutdown(context.Background()); err != nil {
				logger.Warn("telemetry shutdown error", "error", err)
			}
		}()
	}

	opts := cli.Options{
		Out:    os.Stdout,
		Err:    os.Stderr,
		Logger: logger,
	}
	if telemetry != nil {
		opts.Tracer = telemetry.Tracer
	}

	app := cli.NewApp(connector(cfg, logger, auditLogger), admin(cfg), opts)
	return app.Run(ctx, args)
}

// connector wires every service against one database handle. It runs at
// most once per invocation, on the first command that needs the backend.
func connector(cfg *config.Config, logger, auditLogger *slog.Logger) cli.Connect {
	return func(ctx context.Context) (*cli.Services, func(), error) {
		jwtManager, err := auth.NewJWTManager(cfg.JWT)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("signing keys not found, run 'epic admin keygen'")
			}
			return nil, nil, err
		}

		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("database connected",
			"max_open_conns", cfg.Database.MaxOpenConns,
		)

		redis, err := core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, continuing without revocation list", "error", err)
			redis = nil
		}

		recorder := audit.NewSink(auditLogger)
		validate := core.NewValidator()

		departmentSvc := department.NewService(department.NewRepository(db.DB), recorder)

		userSvc := user.NewService(
			user.NewRepository(db.DB),
			departmentSvc,
			recorder,
			validate,
		)

		clientRepo := client.NewRepository(db.DB)
		clientSvc := client.NewService(
			clientRepo,
			userSvc,
			recorder,
			validate,
			client.Options{LegacyOwnership: cfg.Rules.LegacyClientOwnership},
		)

		contractSvc := contract.NewService(
			contract.NewRepository(db.DB),
			clientRepo,
			db,
			contract.SQLRepositories,
			recorder,
			validate,
		)

		eventSvc := event.NewService(
			event.NewRepository(db.DB),
			contractSvc,
			userSvc,
			recorder,
			validate,
		)

		authSvc := auth.NewService(
			jwtManager,
			auth.NewTokenStore(cfg.Session.TokenFile),
			userSvc,
			auth.NewRevocationList(redis.ClientOrNil()),
			middleware.NewLoginLimiter(redis.ClientOrNil(), cfg.RateLimit, logger),
			recorder,
			logger,
		)

		closer := func() {
			if err := redis.Close(); err != nil {
				logger.Warn("redis close error", "error", err)
			}
			if err := db.Close(); err != nil {
				logger.Warn("database close error", "error", err)
			}
		}

		return &cli.Services{
			Auth:        authSvc,
			Users:       userSvc,
			Clients:     clientSvc,
			Contracts:   contractSvc,
			Events:      eventSvc,
			Departments: departmentSvc,
		}, closer, nil
	}
}

func admin(cfg *config.Config) cli.Admin {
	return cli.Admin{
		Migrate: func(context.Context) (uint, error) {
			return core.MigrateUp(cfg.Database.URL)
		},
		Status: func(ctx context.Context) []health.Check {
			return health.Run(ctx, statusTimeout, dependencies(cfg)...)
		},
		Keygen: func(force bool) error {
			if !force {
				if _, err := os.Stat(cfg.JWT.PrivateKeyPath); err == nil {
					return core.ValidationError(
						"keys_exist",
						"signing keys already exist, use --force to replace them",
					)
				}
			}
			return auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
		},
	}
}

// dependencies connects to each dependency on its own so one failure does not
// hide the others.
func dependencies(cfg *config.Config) []health.Dependency {
	database := health.CheckerFunc(func(ctx context.Context) error {
		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // status connection
		return db.Ping(ctx)
	})

	keys := health.CheckerFunc(func(context.Context) error {
		_, err := auth.NewJWTManager(cfg.JWT)
		return err
	})

	var cache health.Checker
	if cfg.Redis.URL != "" {
		cache = health.CheckerFunc(func(ctx context.Context) error {
			rdb, err := core.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close() //nolint:errcheck // status connection
			return rdb.Ping(ctx)
		})
	}

	return []health.Dependency{
		{Name: "database", Checker: database},
		{Name: "signing keys", Checker: keys},
		{Name: "redis", Checker: cache, Optional: true},
	}
}

// extractConfigFlag pulls a leading --config <path> out of args so the
// command tree never sees it.
func extractConfigFlag(args []string) (string, []string) {
	path := os.Getenv("EPIC_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	if len(args) >= 2 && args[0] == "--config" {
		return args[1], args[2:]
	}
	return path, args
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	return slog.New(newHandler(os.Stderr, cfg.Format, parseLevel(cfg.Level, slog.LevelWarn)))
}

// setupAuditLogger keeps audit events independent of the diagnostics
// level. The returned close func is never nil on success.
func setupAuditLogger(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.AuditLevel, slog.LevelInfo)

	if cfg.AuditFile == "" {
		return slog.New(newHandler(fallback, cfg.Format, level)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.AuditFile), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create audit log directory: %w", err)
	}

	//nolint:gosec // G304: path comes from operator configuration
	f, err := os.OpenFile(cfg.AuditFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}

	closeFile := func() {
		_ = f.Close() //nolint:errcheck // append-only log
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), closeFile, nil
}

func parseLevel(name string, fallback slog.Level) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return fallback
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
