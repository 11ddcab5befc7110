// Package handlers wires the application services to gin routes and owns the
// mapping from domain errors to HTTP responses.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// respondError translates a pipeline error into the uniform error body.
// Security-control failures deliberately share one generic message so a
// probing client cannot tell which gate it tripped.
func respondError(c *gin.Context, err error) {
	var (
		eligibility *apperrors.EligibilityError
		resolution  *apperrors.ResolutionError
		validation  *apperrors.ValidationError
		blockchain  *apperrors.BlockchainError
	)

	switch {
	case apperrors.As(err, &validation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: validation.Message,
			Field: validation.Field,
		})

	case apperrors.As(err, &resolution):
		// The message tells the caller the target must link their X
		// account; never degrade it to a generic lookup failure.
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: resolution.Error(),
		})

	case apperrors.Is(err, apperrors.ErrNotAuthenticated), apperrors.Is(err, apperrors.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})

	case apperrors.As(err, &eligibility):
		score, threshold := eligibility.Score, eligibility.Threshold
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:     "credibility score too low to submit anonymous reviews",
			Score:     &score,
			Threshold: &threshold,
		})

	case apperrors.Is(err, apperrors.ErrSecurityCheck):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "security check failed"})

	case apperrors.Is(err, apperrors.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no Ethos profile found for this account"})

	case apperrors.Is(err, apperrors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "rate limit exceeded, try again later"})

	case apperrors.Is(err, apperrors.ErrOracleUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "reputation service unavailable"})

	case apperrors.As(err, &blockchain):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: blockchain.Error()})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
