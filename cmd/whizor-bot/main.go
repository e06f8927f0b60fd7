package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	migrations "github.com/whizorhealth/whizor-bot/db"
	"github.com/whizorhealth/whizor-bot/internal/bot"
	"github.com/whizorhealth/whizor-bot/internal/config"
	"github.com/whizorhealth/whizor-bot/internal/db"
	"github.com/whizorhealth/whizor-bot/internal/directory"
	"github.com/whizorhealth/whizor-bot/internal/logger"
	"github.com/whizorhealth/whizor-bot/internal/monitor"
	"github.com/whizorhealth/whizor-bot/internal/webhook"
	"github.com/whizorhealth/whizor-bot/internal/whatsapp"
)

func main() {
	// Load .env for dev; missing file is fine in prod.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.L

	migrationsFS, err := fs.Sub(migrations.MigrationsFS, "migrations")
	if err != nil {
		log.Error("migrations filesystem", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// "whizor-bot migrate up|down|version|force N" runs migrations and exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if len(os.Args) < 3 {
			log.Error("usage: whizor-bot migrate <up|down|version|force N>")
			os.Exit(1)
		}
		if err := db.RunMigrate(log, cfg.Postgres, migrationsFS, os.Args[2], os.Args[3:]); err != nil {
			log.Error("migrate failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(log, cfg.Postgres, migrationsFS); err != nil {
		log.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := db.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("database open failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Error("database ping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID)
	store := directory.NewStore(pool)

	var hub *monitor.Hub
	if cfg.Monitor.Enabled {
		hub = monitor.NewHub()
	}

	b := bot.New(log, client, store, hub)

	server := webhook.NewServer(cfg.Server.Addr, cfg.WhatsApp.VerifyToken, cfg.WhatsApp.AppSecret, log, b.HandleMessage)
	if hub != nil {
		server.WithMonitor(hub.Handler(log))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", slog.String("error", err.Error()))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("webhook server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
