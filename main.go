package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ncclens/adapters/excel"
	"ncclens/adapters/sqlite"
	"ncclens/app"
	"ncclens/internal"
	"ncclens/internal/config"
	"ncclens/internal/dashboard"
	"ncclens/internal/errors"
	"ncclens/ports"
	"ncclens/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// ingestOnStart merges the configured workbook before the dashboard comes up.
// A failed merge leaves any previous artifact in place and is not fatal.
func ingestOnStart(ctx context.Context, appConfig *config.Config, logger *internal.Logger) {
	if appConfig.Ingest.Workbook == "" {
		logger.Info("[Startup] NCC_WORKBOOK not set; serving existing %s", appConfig.Data.MergedFile)
		return
	}

	var recorder ports.RunRecorder
	if appConfig.Ledger.Path != "" {
		r, err := sqlite.Open(ctx, appConfig.Ledger.Path)
		if err != nil {
			logger.Warn("[Startup] run ledger disabled: %v", err)
		} else {
			recorder = r
			defer recorder.Close()
		}
	}

	svc := app.NewIngestService(excel.NewSheetLoader(logger), recorder, logger)
	if _, err := svc.Ingest(ctx, app.RequestFromConfig(appConfig)); err != nil {
		logger.Error("[Startup] ingest failed (%s); dashboard keeps the previous data file", errors.GetCode(err))
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLevel(appConfig.Log.Level))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ingestOnStart(ctx, appConfig, logger)

	gin.SetMode(appConfig.Server.GinMode)
	server, err := ui.NewServer(ui.Options{
		Source:     dashboard.NewSource(appConfig.Data.MergedFile, appConfig.Columns, nil, logger),
		ReportFile: appConfig.Data.ReportFile,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize UI server: %v", err)
	}

	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
