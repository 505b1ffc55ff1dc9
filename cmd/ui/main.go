package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ncclens/internal"
	"ncclens/internal/config"
	"ncclens/internal/dashboard"
	"ncclens/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLevel(appConfig.Log.Level))
	defer logger.Sync()

	gin.SetMode(appConfig.Server.GinMode)

	server, err := ui.NewServer(ui.Options{
		Source:     dashboard.NewSource(appConfig.Data.MergedFile, appConfig.Columns, nil, logger),
		ReportFile: appConfig.Data.ReportFile,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
