package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/services"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http/middleware"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// SlashHandler serves slash proposals.
type SlashHandler struct {
	slashes *services.SlashService
	log     logger.Logger
}

// NewSlashHandler creates the slash handler.
func NewSlashHandler(slashes *services.SlashService, log logger.Logger) *SlashHandler {
	return &SlashHandler{slashes: slashes, log: log.With(logger.Component("http.slash"))}
}

// Submit validates and records a slash proposal.
func (h *SlashHandler) Submit(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := h.slashes.CheckRateLimit(c.Request.Context(), sess.User.ID); err != nil {
		respondError(c, err)
		return
	}

	var req dto.SubmitSlashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.slashes.Submit(c.Request.Context(), sess, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
