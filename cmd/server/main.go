package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/taggamecreator/tag-echobound-servers/internal/api"
	"github.com/taggamecreator/tag-echobound-servers/internal/factory"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:        logger,
		ControlSecret: os.Getenv("ECHOBOUND_CONTROL_SECRET"),
	}
	if cfg.ControlSecret == "" {
		logger.Warn("ECHOBOUND_CONTROL_SECRET not set, using development default; do not run this in production")
	}
	if v := os.Getenv("ECHOBOUND_COUNTDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Error("invalid ECHOBOUND_COUNTDOWN", slog.String("value", v))
			os.Exit(1)
		}
		cfg.Countdown = d
	}

	app := factory.New(cfg)

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		WSHandler: app.WSHandler,
	})

	serverConfig := api.DefaultServerConfig()
	if v := os.Getenv("ECHOBOUND_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			logger.Error("invalid ECHOBOUND_PORT", slog.String("value", v))
			os.Exit(1)
		}
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		app.Shutdown()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
