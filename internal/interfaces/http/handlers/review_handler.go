package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/services"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http/middleware"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// ReviewHandler serves review submissions.
type ReviewHandler struct {
	reviews *services.ReviewService
	log     logger.Logger
}

// NewReviewHandler creates the review handler.
func NewReviewHandler(reviews *services.ReviewService, log logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log.With(logger.Component("http.review"))}
}

// Submit runs the submission pipeline. The rate limit is spent before the
// body is parsed.
func (h *ReviewHandler) Submit(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := h.reviews.CheckRateLimit(c.Request.Context(), sess.User.ID); err != nil {
		respondError(c, err)
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.reviews.Submit(c.Request.Context(), sess, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
