package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/services"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http/middleware"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// ReputationHandler reports the caller's submission eligibility.
type ReputationHandler struct {
	reputation *services.ReputationService
	log        logger.Logger
}

// NewReputationHandler creates the reputation handler.
func NewReputationHandler(reputation *services.ReputationService, log logger.Logger) *ReputationHandler {
	return &ReputationHandler{reputation: reputation, log: log.With(logger.Component("http.reputation"))}
}

// Status looks up the authenticated user's tier and eligibility.
func (h *ReputationHandler) Status(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	status, err := h.reputation.Status(c.Request.Context(), sess.User.Handle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
