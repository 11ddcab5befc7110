package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

const healthCheckTimeout = 5 * time.Second

// HealthChecker is anything downstream whose availability gates readiness.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers map[string]HealthChecker
	log      logger.Logger
}

// NewHealthHandler creates the health handler over a named set of checkers.
func NewHealthHandler(checkers map[string]HealthChecker, log logger.Logger) *HealthHandler {
	return &HealthHandler{checkers: checkers, log: log.With(logger.Component("http.health"))}
}

// Live always succeeds while the process is up.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready probes every registered dependency and reports per-dependency state.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checkers))
	for name, checker := range h.checkers {
		if err := checker.Health(ctx); err != nil {
			h.log.Warn("dependency unhealthy", logger.String("dependency", name), logger.Error(err))
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"status":       statusWord(status),
		"dependencies": deps,
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "ready"
	}
	return "degraded"
}
