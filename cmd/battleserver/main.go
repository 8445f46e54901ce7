package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vita-nex/autopvp/internal/config"
	"github.com/vita-nex/autopvp/internal/db"
	"github.com/vita-nex/autopvp/internal/game/battle"
	"github.com/vita-nex/autopvp/internal/game/notoriety"
)

const ConfigPath = "config/battleserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("AUTOPVP_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadBattleServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("battle server starting",
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.TickInterval())

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	repo := db.NewBattleRepository(database.Pool())
	registry := battle.NewRegistry()

	battles, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading battles: %w", err)
	}
	for _, b := range battles {
		if err := registry.Add(b); err != nil {
			slog.Warn("skipping battle", "battle", b.Name(), "error", err)
		}
	}
	slog.Info("battles loaded", "count", registry.Count())

	dispatcher := notoriety.New()
	if err := registry.RegisterNotoriety(dispatcher); err != nil {
		return fmt.Errorf("registering notoriety handler: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	// Driver: advance every battle once per tick.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.TickInterval())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				registry.Tick(now)
			}
		}
	})

	// Autosave: flush dirty battles periodically and once on shutdown.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.AutosaveInterval())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if _, err := repo.SaveDirty(flushCtx, registry); err != nil {
					return fmt.Errorf("final battle save: %w", err)
				}
				return nil
			case <-ticker.C:
				saved, err := repo.SaveDirty(gctx, registry)
				if err != nil {
					slog.Error("autosave failed", "error", err)
					continue
				}
				if saved > 0 {
					slog.Debug("battles autosaved", "count", saved)
				}
			}
		}
	})

	return g.Wait()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
