package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bike-deal-monitor/config"
	"bike-deal-monitor/monitor"
	"bike-deal-monitor/notify"
	"bike-deal-monitor/predictor"
	"bike-deal-monitor/scraper/cargr"
	"bike-deal-monitor/services"
	"bike-deal-monitor/storage"
	"bike-deal-monitor/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Bike Deal Monitor starting ===")
	logger.Info("Config — threshold: %d€ | interval: %ds | backoff: %ds | seen file: %s",
		cfg.DealThreshold, cfg.PollIntervalSec, cfg.ErrorBackoffSec, cfg.SeenDealsFile)

	oracle, err := predictor.New(cfg.ModelPath, cfg.EncodersPath, logger)
	if err != nil {
		logger.Error("Failed to load prediction artifacts: %v", err)
		os.Exit(1)
	}
	logger.Info("Prediction artifacts loaded from %s, %s", cfg.ModelPath, cfg.EncodersPath)

	seen := storage.NewSeenStore(cfg.SeenDealsFile, logger)
	logger.Info("Loaded %d previously seen deals", seen.Size())

	var history storage.DealWriter
	if cfg.PostgresDSN != "" {
		pg, err := storage.NewPostgresWriter(cfg.PostgresDSN)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pg.Close()
		history = pg
		logger.Info("Deal history enabled (PostgreSQL, table: deals)")
	}

	notifier := notify.NewPushover(cfg.PushoverAppToken, cfg.PushoverUserKey, logger)
	feed := cargr.New(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := monitor.New(monitor.Config{
		Threshold:    cfg.DealThreshold,
		PollInterval: time.Duration(cfg.PollIntervalSec) * time.Second,
		ErrorBackoff: time.Duration(cfg.ErrorBackoffSec) * time.Second,
	}, feed, services.NewExtractor(logger), oracle, seen, notifier, history, logger)

	m.Run(ctx)

	logger.Info("=== Bike Deal Monitor stopped ===")
}
