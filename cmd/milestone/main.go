package main

import (
	"fmt"
	"os"
	"time"

	"milestone/internal/app"
	"milestone/internal/config"
	"milestone/internal/logging"
	"milestone/internal/storage"
	"milestone/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger := logging.New(os.Stderr, cfg.LogLevel)

	backend, err := storage.Open(cfg.Backend, cfg.StatePath, logger)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	gateway := storage.NewGateway(backend, logger)
	defer gateway.Close()

	// The day is captured once; a session left open past midnight keeps it.
	today := app.DayOfYear(time.Now())
	ctrl := app.Restore(gateway.Load(), cfg.ColorRamp(), today)
	if n := ctrl.Rolled(); n > 0 {
		logger.Info("moved unfinished tasks onto today", "days", n, "today", today)
	}

	save, err := ui.Run(ctrl, cfg)
	if err != nil {
		return err
	}
	if !save {
		logger.Debug("quit without saving")
		return nil
	}
	return gateway.Save(ctrl.Document())
}
