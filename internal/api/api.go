// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stockcast-app/stockcast/internal/api/handlers"
	"github.com/stockcast-app/stockcast/internal/api/middleware"
	"github.com/stockcast-app/stockcast/internal/repository"
	"github.com/stockcast-app/stockcast/internal/service"
)

type Services struct {
	Store     *repository.SessionStore
	Inventory *service.InventoryService
	Forecast  *service.ForecastService
	Scenario  *service.ScenarioService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		sessionHandler := handlers.NewSessionHandler(services.Store)
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
		forecastHandler := handlers.NewForecastHandler(services.Forecast, services.Scenario)

		sessionGroup := apiGroup.Group("/sessions/:id")
		{
			sessionGroup.POST("/products", sessionHandler.UploadProducts)
			sessionGroup.POST("/sales", sessionHandler.UploadSales)
			sessionGroup.DELETE("", sessionHandler.DeleteSession)

			sessionGroup.POST("/forecast", forecastHandler.Generate)
			sessionGroup.POST("/scenario", forecastHandler.ApplyScenario)
			sessionGroup.GET("/report", inventoryHandler.GetReport)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
