package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"log/slog"

	"stockpile/internal/config"
	"stockpile/internal/daemon"
	"stockpile/internal/inventory"
	"stockpile/internal/logging"
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

	store, err := inventory.Open(cfg)
	if err != nil {
		logger.Error("open inventory store", slog.Any("error", err))
		return
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		logger.Error("create daemon", slog.Any("error", err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", slog.Any("error", err))
		return
	}

	<-ctx.Done()
	logger.Info("stockpiled shutting down")
}
