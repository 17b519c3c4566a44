package main

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/robfig/cron/v3"

	"promolotto/internal/config"
	"promolotto/internal/handlers"
	"promolotto/internal/services"
	"promolotto/internal/store"
)

func main() {
	// 1. Initialize logging
	defer logger.Init("promolotto", true, false, io.Discard).Close()

	// 2. Load configuration (.env or environment)
	cfg := config.Load()

	// 3. Initialize the snapshot store and load the configured CSV sources
	st := store.New(cfg.TicketsCSV, cfg.RechargesCSV, cfg.ResultsCSV)
	if cfg.TicketsCSV != "" || cfg.RechargesCSV != "" || cfg.ResultsCSV != "" {
		if _, err := st.Refresh(); err != nil {
			log.Fatalf("Failed to load initial snapshot: %v", err)
		}
	}

	// 4. Initialize the computation services
	validation := services.NewValidationService(cfg.BatchSize)
	winners := services.NewWinnersService(cfg.BatchSize)

	// 5. Initialize the HTTP handler
	httpHandler := handlers.NewHTTPHandler(st, validation, winners)

	// 6. Set up the Gin router
	r := gin.Default()
	httpHandler.RegisterRoutes(r)

	// 7. Schedule the background snapshot refresh
	if cfg.RefreshCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.RefreshCron, func() {
			if _, err := st.Refresh(); err != nil {
				logger.Errorf("Scheduled refresh failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Invalid REFRESH_CRON %q: %v", cfg.RefreshCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	// 8. Run the server
	logger.Infof("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
