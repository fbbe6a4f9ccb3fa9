package handler

import (
	"net/http"

	"rfid-card-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck returns a handler that pings every dependency. Any failing
// dependency turns the response into a 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		deps := make(map[string]string, len(checkers))

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			deps[checker.Name()] = "up"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status":       overall,
			"dependencies": deps,
		})
	}
}
