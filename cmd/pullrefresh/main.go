package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Elpulgo/pullrefresh/internal/app"
	"github.com/Elpulgo/pullrefresh/internal/cli"
	"github.com/Elpulgo/pullrefresh/internal/config"
	"github.com/Elpulgo/pullrefresh/internal/history"
	redisstore "github.com/Elpulgo/pullrefresh/internal/history/redis"
	"github.com/Elpulgo/pullrefresh/internal/logging"
	"github.com/Elpulgo/pullrefresh/internal/metrics"
	"github.com/Elpulgo/pullrefresh/internal/version"
)

// Build-time variables injected via ldflags by goreleaser.
var (
	buildVersion = "dev"
	commit       = "none"
	date         = "unknown"
)

// redisPasswordEnv keeps the password out of the config file.
const redisPasswordEnv = "PULLREFRESH_REDIS_PASSWORD"

const pingTimeout = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	build := version.Build{Version: buildVersion, Commit: commit, Date: date}
	if err := cli.Execute(ctx, build, runTUI); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Open(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openHistory(ctx, cfg, logger)
	defer store.Close()

	recorder := metrics.NewRecorder()
	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, recorder, logger)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metrics.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown", "err", err)
			}
		}()
	}

	model, err := app.NewModel(app.Options{
		Config:   cfg,
		Store:    store,
		Recorder: recorder,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if cfg.Watch(func(next *config.Config, err error) {
		p.Send(app.ConfigReloadedMsg{Config: next, Err: err})
	}) {
		logger.Debug("watching config file", "path", cfg.Path())
	}

	logger.Info("starting", "version", buildVersion, "mode", cfg.Mode(), "theme", cfg.GetTheme())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI application error: %w", err)
	}
	return nil
}

// openHistory connects the configured history backend. An unreachable
// Redis falls back to memory so the monitor still starts.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) history.Store {
	h := cfg.History
	if h.Backend != config.BackendRedis {
		return history.NewMemoryStore(h.Limit)
	}

	store := redisstore.New(h.RedisAddr, os.Getenv(redisPasswordEnv), h.RedisDB,
		redisstore.WithPrefix(h.Prefix),
		redisstore.WithTTL(h.TTL),
		redisstore.WithLimit(h.Limit),
	)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, keeping history in memory", "addr", h.RedisAddr, "err", err)
		store.Close()
		return history.NewMemoryStore(h.Limit)
	}
	return store
}
