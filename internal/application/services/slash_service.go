package services

import (
	"context"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/guard"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/review"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/discord"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/privacy"
)

// SlashService handles slash proposals. Proposals pass the same gates as
// reviews but are only logged and acknowledged; nothing is sent to the chain.
type SlashService struct {
	csrf       guard.CSRFStore
	nonces     guard.NonceStore
	limiter    guard.RateLimiter
	reputation *ReputationService
	notifier   Notifier
	anonymizer *privacy.Anonymizer
	security   *config.SecurityConfig
	log        logger.Logger
}

// NewSlashService creates the slash service.
func NewSlashService(
	csrf guard.CSRFStore,
	nonces guard.NonceStore,
	limiter guard.RateLimiter,
	repSvc *ReputationService,
	notifier Notifier,
	anonymizer *privacy.Anonymizer,
	security *config.SecurityConfig,
	log logger.Logger,
) *SlashService {
	return &SlashService{
		csrf:       csrf,
		nonces:     nonces,
		limiter:    limiter,
		reputation: repSvc,
		notifier:   notifier,
		anonymizer: anonymizer,
		security:   security,
		log:        log.With(logger.Component("slash")),
	}
}

// CheckRateLimit spends one slash slot for the user.
func (s *SlashService) CheckRateLimit(ctx context.Context, userID string) error {
	key := s.anonymizer.RateLimitKey("slash", userID)
	ok, err := s.limiter.Allow(ctx, key, s.security.SlashRateMax, s.security.SlashRateWindow)
	if err != nil {
		s.log.Error("rate limiter unavailable", logger.Error(err))
		return apperrors.ErrRateLimited
	}
	if !ok {
		return apperrors.ErrRateLimited
	}
	return nil
}

// Submit validates and records a slash proposal.
func (s *SlashService) Submit(ctx context.Context, sess *session.Session, req *dto.SubmitSlashRequest) (*dto.SubmitSlashResponse, error) {
	userHash := s.anonymizer.UserHash(sess.User.ID)

	ok, err := s.csrf.Validate(ctx, req.CSRFToken)
	if err != nil || !ok {
		s.log.Warn("csrf validation failed", logger.UserHash(userHash))
		return nil, apperrors.ErrSecurityCheck
	}

	if req.RequestNonce == "" {
		return nil, apperrors.ErrSecurityCheck
	}
	fresh, err := s.nonces.CheckAndConsume(ctx, req.RequestNonce)
	if err != nil || !fresh {
		s.log.Warn("nonce rejected", logger.UserHash(userHash))
		return nil, apperrors.ErrSecurityCheck
	}

	if err := review.ValidateContent(req.Title, req.Description); err != nil {
		return nil, err
	}

	tier, err := s.reputation.RequireEligible(ctx, sess.User.Handle)
	if err != nil {
		return nil, err
	}

	s.log.Info("slash proposal recorded",
		logger.UserHash(userHash),
		logger.Tier(tier.String()),
		logger.String("subject", privacy.Redact(req.SubjectHandle)),
	)

	go s.notifier.NotifySlash(discord.SlashNotification{
		SubjectHandle: req.SubjectHandle,
		Title:         req.Title,
		Tier:          tier.String(),
	})

	return &dto.SubmitSlashResponse{
		Success: true,
		Message: "slash proposal recorded for moderator review",
	}, nil
}
