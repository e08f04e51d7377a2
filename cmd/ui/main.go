package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"greenpulse/app"
	"greenpulse/internal"
	"greenpulse/internal/config"
	"greenpulse/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.NewDashboardService(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create dashboard service: %v", err)
	}
	defer svc.Close()

	if _, err := svc.Start(ctx); err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	reportApp := ui.NewApp(svc.Dashboard(), nil, logger)
	log.Printf("Starting greenpulse report on http://localhost:%s", cfg.Server.UIPort)
	if err := reportApp.Start(ctx, ui.Config{Port: cfg.Server.UIPort}); err != nil {
		log.Fatal(err)
	}
}
