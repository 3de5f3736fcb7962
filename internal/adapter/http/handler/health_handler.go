package handler

import (
	"net/http"

	"mockpay/internal/adapter/http/dto"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// Root handles GET /, a liveness probe naming the provider.
func Root(provider domain.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Provider: string(provider)})
	}
}

// HealthCheck handles GET /__health and pings every storage backend.
func HealthCheck(provider domain.Provider, checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := make(map[string]string, len(checkers))
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				checks[checker.Name()] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks[checker.Name()] = "healthy"
			}
		}

		status := "ok"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, dto.HealthResponse{
			Status:   status,
			Provider: string(provider),
			Checks:   checks,
		})
	}
}
