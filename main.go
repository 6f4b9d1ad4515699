package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"overtype/config"
	"overtype/platform"
	"overtype/storage"
	"overtype/systray"
	"overtype/web"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A second copy would install a second keyboard hook and fight over
	// the same hotkey.
	release, err := platform.AcquireSingleInstance("overtype-single-instance")
	if err != nil {
		slog.Error("Overtype is already running", "error", err)
		os.Exit(1)
	}
	defer release()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	configPath, _ := config.Path()
	slog.Info("Configuration loaded", "path", configPath, "hotkey", cfg.Hotkey.ModifierName+"+"+cfg.Hotkey.KeyName)

	// History is best effort: a broken database never blocks typing.
	var db *storage.DB
	if dir, err := config.Dir(); err != nil {
		slog.Warn("History disabled", "error", err)
	} else if d, err := storage.Open(dir); err != nil {
		slog.Warn("History disabled", "error", err)
	} else {
		db = d
		defer db.Close()
	}

	// Create agent
	agent, err := NewAgent(cfg, db)
	if err != nil {
		slog.Error("Failed to create agent", "error", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Web dashboard
	var srv *web.Server
	webURL := ""
	if cfg.Web.Enabled {
		srv = web.NewServer(db, cfg, agent, agent.ApplyConfig)
		webURL = srv.URL()
		agent.onRecord = srv.BroadcastInjection
		agent.onPhase = srv.BroadcastStatus
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("Web server error", "error", err)
			}
		}()
	}

	// Config hot-reload: external edits and dashboard saves both land here
	go func() {
		err := config.Watch(ctx, configPath, func(c *config.Config) {
			if err := agent.ApplyConfig(c); err != nil {
				slog.Warn("Reloaded config rejected", "error", err)
				return
			}
			if srv != nil {
				srv.UpdateConfig(c)
			}
		})
		if err != nil {
			slog.Warn("Config watcher stopped", "error", err)
		}
	}()

	// Run agent
	go func() {
		if err := agent.Run(ctx); err != nil {
			slog.Error("Agent error", "error", err)
			cancel()
		}
	}()

	// The tray owns the main goroutine; its message loop must run there.
	tray := systray.NewSystrayManager(webURL, agent, nil)
	go func() {
		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
			tray.Stop()
		}
	}()
	tray.Run()

	slog.Info("Overtype stopped")
}
