package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"log/slog"

	"greenlight/internal/config"
	"greenlight/internal/daemon"
	"greenlight/internal/dispatch"
	"greenlight/internal/logging"
	"greenlight/internal/queue"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open content queue", slog.String("error", err.Error()))
		return
	}

	dispatcher := dispatch.New(cfg, store, dispatch.NewNotifier(cfg), logger)
	d, err := daemon.New(cfg, store, dispatcher, logger)
	if err != nil {
		logger.Error("create daemon", slog.String("error", err.Error()))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", slog.String("error", err.Error()))
		return
	}

	<-ctx.Done()
	logger.Info("greenlightd shutting down")
}
