package services

import (
	"context"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/reputation"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// ReputationService evaluates a user's submission eligibility against the
// Ethos credibility score.
type ReputationService struct {
	oracle ReputationOracle
	log    logger.Logger
}

// NewReputationService creates the reputation service.
func NewReputationService(oracle ReputationOracle, log logger.Logger) *ReputationService {
	return &ReputationService{oracle: oracle, log: log.With(logger.Component("reputation"))}
}

// Status reports the tier and eligibility of the profile behind an X handle.
func (s *ReputationService) Status(ctx context.Context, handle string) (*dto.ReputationResponse, error) {
	profile, err := s.oracle.UserByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	tier := reputation.ClassifyScore(profile.Score)
	return &dto.ReputationResponse{
		Eligible:  tier.CanSubmit(),
		Tier:      tier.String(),
		Score:     profile.Score,
		Threshold: reputation.ReputableThreshold,
	}, nil
}

// RequireEligible returns the caller's tier, or an eligibility error naming
// the score and the threshold it fell short of.
func (s *ReputationService) RequireEligible(ctx context.Context, handle string) (reputation.Tier, error) {
	profile, err := s.oracle.UserByHandle(ctx, handle)
	if err != nil {
		return reputation.TierIneligible, err
	}

	tier := reputation.ClassifyScore(profile.Score)
	if !tier.CanSubmit() {
		return reputation.TierIneligible, &apperrors.EligibilityError{
			Score:     profile.Score,
			Threshold: reputation.ReputableThreshold,
		}
	}
	return tier, nil
}
