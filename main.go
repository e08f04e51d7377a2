package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"greenpulse/app"
	"greenpulse/internal"
	"greenpulse/internal/config"
	"greenpulse/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.NewDashboardService(ctx, appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create dashboard service: %v", err)
	}
	defer svc.Close()

	if _, err := svc.Start(ctx); err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	server := ui.NewServer(svc.Dashboard(), svc.Reload, logger)
	if err := server.Start(ctx, appConfig.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
