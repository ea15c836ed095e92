// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockcast-app/stockcast/internal/api"
	"github.com/stockcast-app/stockcast/internal/cache"
	"github.com/stockcast-app/stockcast/internal/config"
	"github.com/stockcast-app/stockcast/internal/forecast"
	"github.com/stockcast-app/stockcast/internal/repository"
	"github.com/stockcast-app/stockcast/internal/service"
	"github.com/stockcast-app/stockcast/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.UseJSON()
	}

	// Initialize forecast cache (noop when disabled)
	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize forecast cache")
	}

	// Initialize the predictor chain: Gemini when configured, the naive
	// baseline otherwise
	var primary forecast.Predictor
	if cfg.Forecast.GeminiAPIKey != "" {
		primary = forecast.NewGeminiPredictor(cfg.Forecast.GeminiAPIKey, cfg.Forecast.GeminiModel)
		logger.Log.Info().Str("model", cfg.Forecast.GeminiModel).Msg("Gemini predictor enabled")
	} else {
		logger.Log.Info().Msg("No Gemini API key set, using naive predictor only")
	}
	orchestrator := forecast.NewOrchestrator(primary)

	// Initialize services
	store := repository.NewSessionStore()
	services := &api.Services{
		Store:     store,
		Inventory: service.NewInventoryService(store),
		Forecast:  service.NewForecastService(store, orchestrator, forecastCache),
		Scenario:  service.NewScenarioService(store),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
