package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwrk-planet/guestbook/config"
	httpserver "github.com/cwrk-planet/guestbook/internal/server/http"
	"github.com/cwrk-planet/guestbook/internal/service"
	httpx "github.com/cwrk-planet/guestbook/internal/transport/http"
	"github.com/cwrk-planet/guestbook/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		println("failed to load config:", err.Error())
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting guestbook",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version, "driver", cfg.Database.Driver)

	// --- store ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connector, err := openStore(ctx, cfg.Database)
	if err != nil {
		slog.Error("connection failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() { _ = connector.Close() }()
	slog.Info("connected to store", "driver", cfg.Database.Driver)

	// --- http ---
	loc, _ := cfg.Display.Location()
	render, err := httpx.NewRenderer(cfg.Display.Title, loc)
	if err != nil {
		slog.Error("failed to parse templates", slog.Any("err", err))
		os.Exit(1)
	}

	svc := service.NewGuestbookService(connector)
	router := httpx.NewRouter(httpx.NewHandler(svc, render), cfg.HTTP.WriteTimeout)

	srv := httpserver.New(httpserver.Config{
		Addr:            cfg.HTTP.Addr,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router)

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	slog.Info("guestbook stopped")
}
