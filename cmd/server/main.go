package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"econatlas/internal/api"
	"econatlas/internal/app"
	"econatlas/internal/config"
	"econatlas/internal/fetch"
	"econatlas/internal/logging"
)

func main() {
	// Load .env if present, then the environment proper.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	// 1. Initialize Echo. The API is live immediately and answers 503
	// until the data load finishes.
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())

	a := app.New()
	h := api.NewHandler(a)
	h.RegisterRoutes(e)

	// 2. Fetch and build all stores in the background. All sources load
	// together; one failed fetch fails the whole initialization, there
	// is no partial-data fallback.
	go func() {
		t0 := time.Now()
		slog.Info("loading source tables", "regional_sources", len(cfg.Data.RegionalURLs))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.FetchTimeout)
		defer cancel()

		client := fetch.NewClient(cfg.Data.FetchTimeout)
		data, err := app.Load(ctx, cfg, client)
		if err != nil {
			slog.Error("initialization failed", "error", err)
			a.Fail(err)
			return
		}
		a.SetData(data)
		slog.Info("initialization complete", "elapsed", time.Since(t0))
	}()

	// 3. Serve until signalled, then drain.
	go func() {
		if err := e.Start(cfg.Server.Addr()); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("server ready", "addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
