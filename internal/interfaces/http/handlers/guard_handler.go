package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/guard"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// GuardHandler issues the single-use CSRF tokens submissions must present.
type GuardHandler struct {
	csrf guard.CSRFStore
	log  logger.Logger
}

// NewGuardHandler creates the guard handler.
func NewGuardHandler(csrf guard.CSRFStore, log logger.Logger) *GuardHandler {
	return &GuardHandler{csrf: csrf, log: log.With(logger.Component("http.guard"))}
}

// CSRFToken mints a fresh token for the authenticated session.
func (h *GuardHandler) CSRFToken(c *gin.Context) {
	token, err := h.csrf.Issue(c.Request.Context())
	if err != nil {
		h.log.Error("failed to issue csrf token", logger.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.CSRFResponse{Token: token})
}
