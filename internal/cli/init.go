// Package cli provides the command tree and the initialization helpers
// shared by every waterlog command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"waterlog/internal/backend"
	"waterlog/internal/config"
	applog "waterlog/internal/log"
	"waterlog/internal/render"
	"waterlog/internal/services"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// SetupLogger initializes structured logging on w at the configured level
// and makes it the default logger.
func SetupLogger(cfg *config.Config, w io.Writer) (*applog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logCfg := applog.DefaultConfig()
	logCfg.Level = level
	if w != nil {
		logCfg.Output = w
	}
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local setups.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// IsInteractive reports whether r is a terminal.
func IsInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(int(f.Fd()))
}

// App bundles the components one command invocation works with.
type App struct {
	Config   *config.Config
	Logger   *applog.Logger
	Intake   *services.IntakeService
	Agg      *services.Aggregator
	Renderer render.Renderer

	cleanup backend.CleanupFunc
}

// Bootstrap opens and initializes the store and builds the aggregator and
// renderer from a validated cfg. Any error here is a startup failure.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	renderer, err := render.NewRenderer(cfg.DailyGoal, cfg.BarHeight)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open intake log: %w", err)
	}

	agg, err := services.NewAggregator(res.Store, cfg.WindowDays)
	if err != nil {
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		return nil, fmt.Errorf("aggregator: %w", err)
	}

	logger.Info("Intake log ready",
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldGoalML, cfg.DailyGoal)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Intake:   services.NewIntakeService(res.Store, nil),
		Agg:      agg,
		Renderer: renderer,
		cleanup:  res.Cleanup,
	}, nil
}

// StorePath names the file backing the configured store, if any.
func (a *App) StorePath() string {
	switch a.Config.DataBackend {
	case config.BackendJSON:
		return a.Config.JSONPath
	case config.BackendSQLite:
		return a.Config.SQLiteDBPath
	default:
		return "(memory)"
	}
}

// Close releases the store.
func (a *App) Close() error {
	if a != nil && a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
