package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/discord"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// DiscordHandler exposes the webhook connectivity check.
type DiscordHandler struct {
	notifier *discord.Notifier
	log      logger.Logger
}

// NewDiscordHandler creates the discord handler.
func NewDiscordHandler(notifier *discord.Notifier, log logger.Logger) *DiscordHandler {
	return &DiscordHandler{notifier: notifier, log: log.With(logger.Component("http.discord"))}
}

// Test sends a test embed to the configured webhook.
func (h *DiscordHandler) Test(c *gin.Context) {
	if err := h.notifier.NotifyTest(); err != nil {
		h.log.Warn("webhook test failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "webhook test failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
