// Package http assembles the gin router.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/services"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http/handlers"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http/middleware"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Guard      *handlers.GuardHandler
	Reputation *handlers.ReputationHandler
	Review     *handlers.ReviewHandler
	Slash      *handlers.SlashHandler
	Discord    *handlers.DiscordHandler
	Health     *handlers.HealthHandler
}

// NewRouter builds the HTTP routing table.
func NewRouter(cfg *config.Config, auth *services.AuthService, h Handlers, log logger.Logger) *gin.Engine {
	if cfg.Logging.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.Security.AllowedOrigins))

	r.GET("/health", h.Health.Live)
	r.GET("/live", h.Health.Live)
	r.GET("/ready", h.Health.Ready)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/twitter", h.Auth.Login)
		authGroup.GET("/twitter/callback", h.Auth.Callback)
		authGroup.GET("/logout", h.Auth.Logout)
	}

	api := r.Group("/api")
	{
		api.GET("/auth/me", middleware.LoadSession(auth, cfg.Session.CookieName), h.Auth.Me)

		authed := api.Group("", middleware.RequireSession(auth, cfg.Session.CookieName))
		{
			authed.GET("/auth/csrf", h.Guard.CSRFToken)
			authed.GET("/auth/reputation", h.Reputation.Status)
			authed.POST("/discord/test", h.Discord.Test)
		}

		// State-changing routes additionally require an allowlisted Origin.
		submit := api.Group("",
			middleware.RequireOrigin(cfg.Security.AllowedOrigins),
			middleware.RequireSession(auth, cfg.Session.CookieName),
		)
		{
			submit.POST("/reviews/submit", h.Review.Submit)
			submit.POST("/slash/submit", h.Slash.Submit)
		}
	}

	return r
}
