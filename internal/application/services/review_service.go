package services

import (
	"context"
	"fmt"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/guard"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/reputation"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/review"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/discord"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/privacy"
)

// ReviewService runs the review submission pipeline: every security and
// eligibility gate in order, then the on-chain submission. Gates that spend
// state (nonce, rate slot) run after the cheaper checks so a rejected request
// burns as little as possible.
type ReviewService struct {
	csrf       guard.CSRFStore
	nonces     guard.NonceStore
	limiter    guard.RateLimiter
	reputation *ReputationService
	oracle     ReputationOracle
	submitter  ReviewSubmitter
	notifier   Notifier
	anonymizer *privacy.Anonymizer
	security   *config.SecurityConfig
	log        logger.Logger
}

// NewReviewService creates the review service.
func NewReviewService(
	csrf guard.CSRFStore,
	nonces guard.NonceStore,
	limiter guard.RateLimiter,
	repSvc *ReputationService,
	oracle ReputationOracle,
	submitter ReviewSubmitter,
	notifier Notifier,
	anonymizer *privacy.Anonymizer,
	security *config.SecurityConfig,
	log logger.Logger,
) *ReviewService {
	return &ReviewService{
		csrf:       csrf,
		nonces:     nonces,
		limiter:    limiter,
		reputation: repSvc,
		oracle:     oracle,
		submitter:  submitter,
		notifier:   notifier,
		anonymizer: anonymizer,
		security:   security,
		log:        log.With(logger.Component("review")),
	}
}

// CheckRateLimit spends one review slot for the user. It runs before the
// request body is even parsed, so malformed floods still burn their quota.
// A limiter fault denies the request rather than waving it through.
func (s *ReviewService) CheckRateLimit(ctx context.Context, userID string) error {
	key := s.anonymizer.RateLimitKey("review", userID)
	ok, err := s.limiter.Allow(ctx, key, s.security.ReviewRateMax, s.security.ReviewRateWindow)
	if err != nil {
		s.log.Error("rate limiter unavailable", logger.Error(err))
		return apperrors.ErrRateLimited
	}
	if !ok {
		return apperrors.ErrRateLimited
	}
	return nil
}

// Submit runs the post-parse gates and records the review on chain.
func (s *ReviewService) Submit(ctx context.Context, sess *session.Session, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error) {
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

	sentiment, err := review.ParseSentiment(req.Sentiment)
	if err != nil {
		return nil, err
	}

	gateTier, err := s.reputation.RequireEligible(ctx, sess.User.Handle)
	if err != nil {
		return nil, err
	}

	accountID, err := s.resolveSubject(ctx, req.SubjectHandle)
	if err != nil {
		return nil, err
	}

	tier := disclaimerTier(gateTier, req.ReviewerTier)

	sub := &review.Submission{
		Sentiment:    sentiment,
		Subject:      review.SubjectFromAttestation(accountID),
		Comment:      req.Title,
		Description:  req.Description,
		ReviewerTier: tier,
	}

	result, err := s.submitter.SubmitReview(ctx, sub)
	if err != nil {
		return nil, err
	}

	txURL := s.submitter.ExplorerTxURL(result.TransactionHash)
	s.log.Info("review recorded",
		logger.UserHash(userHash),
		logger.Tier(tier.String()),
		logger.TxHash(result.TransactionHash),
	)

	go s.notifier.NotifyReview(discord.ReviewNotification{
		Sentiment:     string(sentiment),
		SubjectHandle: req.SubjectHandle,
		Title:         req.Title,
		Tier:          tier.String(),
		TxHash:        result.TransactionHash,
		TxURL:         txURL,
		ReviewID:      result.ReviewID,
	})

	resp := &dto.SubmitReviewResponse{
		Success:         true,
		TransactionHash: result.TransactionHash,
		TransactionURL:  txURL,
		ReviewID:        result.ReviewID,
	}
	if result.ReviewID != nil {
		resp.ReviewURL = fmt.Sprintf("https://app.ethos.network/activity/review/%d", *result.ReviewID)
	}
	return resp, nil
}

// disclaimerTier picks the tier named in the on-chain disclaimer: the value
// the client already holds from the reputation endpoint when it names an
// eligible tier, otherwise the tier the eligibility gate confirmed. The gate
// itself always runs server-side; the claimed value only affects wording.
func disclaimerTier(confirmed reputation.Tier, claimed string) reputation.Tier {
	if tier := reputation.ParseTier(claimed); tier.CanSubmit() {
		return tier
	}
	return confirmed
}

// resolveSubject turns the subject handle into the canonical X account id.
// The handle itself never reaches the chain; if no id can be resolved the
// submission fails rather than attesting a mutable name.
func (s *ReviewService) resolveSubject(ctx context.Context, handle string) (string, error) {
	profile, err := s.oracle.UserByHandle(ctx, handle)
	if err != nil {
		// A missing or unreachable profile still leaves the fallback
		// lookup a chance; ResolveXAccountID fails hard if both miss.
		profile = nil
	}
	return s.oracle.ResolveXAccountID(ctx, handle, profile)
}
