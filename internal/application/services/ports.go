package services

import (
	"context"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/review"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/discord"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/ethos"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/twitter"
)

// IdentityProvider is the OAuth identity provider the login flow talks to.
type IdentityProvider interface {
	AuthorizeURL(state, codeChallenge string) string
	Exchange(ctx context.Context, code, codeVerifier string) (*twitter.Token, error)
	Profile(ctx context.Context, accessToken string) (*session.User, error)
}

// ReputationOracle resolves Ethos profiles and X account ids.
type ReputationOracle interface {
	UserByHandle(ctx context.Context, handle string) (*ethos.Profile, error)
	ResolveXAccountID(ctx context.Context, handle string, profile *ethos.Profile) (string, error)
}

// ReviewSubmitter records reviews on chain.
type ReviewSubmitter interface {
	SubmitReview(ctx context.Context, sub *review.Submission) (*review.Result, error)
	ExplorerTxURL(txHash string) string
}

// Notifier delivers best-effort operational notifications.
type Notifier interface {
	NotifyReview(note discord.ReviewNotification)
	NotifySlash(note discord.SlashNotification)
}
