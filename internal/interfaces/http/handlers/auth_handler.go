package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/services"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http/middleware"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// Lifetime in seconds of the transient cookies that carry OAuth state across
// the redirect round-trip.
const oauthCookieMaxAge = 600

const (
	stateCookie    = "oauth_state"
	verifierCookie = "oauth_verifier"
)

// AuthHandler serves the login flow and session introspection.
type AuthHandler struct {
	auth *services.AuthService
	cfg  *config.SessionConfig
	log  logger.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth *services.AuthService, cfg *config.SessionConfig, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg, log: log.With(logger.Component("http.auth"))}
}

// Login redirects the browser to the identity provider.
func (h *AuthHandler) Login(c *gin.Context) {
	start, err := h.auth.BeginLogin()
	if err != nil {
		h.log.Error("failed to begin login", logger.Error(err))
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, start.StateToken, oauthCookieMaxAge, "/", "", h.cfg.SecureCookies, true)
	c.SetCookie(verifierCookie, start.CodeVerifier, oauthCookieMaxAge, "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusTemporaryRedirect, start.RedirectURL)
}

// Callback completes the OAuth flow and seals the session cookie.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing code or state"})
		return
	}

	stateToken, err := c.Cookie(stateCookie)
	if err != nil {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "security check failed"})
		return
	}
	verifier, err := c.Cookie(verifierCookie)
	if err != nil {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "security check failed"})
		return
	}

	sealed, _, err := h.auth.CompleteLogin(c.Request.Context(), code, stateToken, state, verifier)
	if err != nil {
		h.log.Warn("login failed", logger.Error(err))
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/", "", h.cfg.SecureCookies, true)
	c.SetCookie(verifierCookie, "", -1, "/", "", h.cfg.SecureCookies, true)
	c.SetCookie(h.cfg.CookieName, sealed, int(h.cfg.TTL.Seconds()), "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// Logout clears the session cookie and sends the browser home.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// Me reports the authenticated user behind the session cookie.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, dto.MeResponse{Authenticated: false})
		return
	}
	c.JSON(http.StatusOK, dto.MeResponse{
		Authenticated: true,
		ID:            sess.User.ID,
		Name:          sess.User.Name,
		Username:      sess.User.Handle,
		AvatarURL:     sess.User.AvatarURL,
	})
}
