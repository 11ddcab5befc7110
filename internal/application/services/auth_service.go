package services

import (
	"context"
	"time"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
	infracrypto "github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/crypto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/sessiontoken"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/privacy"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/statetoken"
)

// LoginStart holds everything the handler needs to send the user to the
// identity provider: the redirect target plus the state token and PKCE
// verifier that round-trip through cookies.
type LoginStart struct {
	RedirectURL  string
	StateToken   string
	CodeVerifier string
}

// AuthService implements the OAuth login flow and session issuance.
type AuthService struct {
	idp        IdentityProvider
	states     *statetoken.Manager
	codec      *sessiontoken.Codec
	sessionTTL time.Duration
	anonymizer *privacy.Anonymizer
	log        logger.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(
	idp IdentityProvider,
	states *statetoken.Manager,
	codec *sessiontoken.Codec,
	sessionTTL time.Duration,
	anonymizer *privacy.Anonymizer,
	log logger.Logger,
) *AuthService {
	return &AuthService{
		idp:        idp,
		states:     states,
		codec:      codec,
		sessionTTL: sessionTTL,
		anonymizer: anonymizer,
		log:        log.With(logger.Component("auth")),
	}
}

// BeginLogin prepares an authorization redirect with PKCE S256 and a signed
// state token.
func (s *AuthService) BeginLogin() (*LoginStart, error) {
	verifier, err := infracrypto.GenerateCodeVerifier()
	if err != nil {
		return nil, err
	}

	token, state, err := s.states.Issue(verifier)
	if err != nil {
		return nil, err
	}

	return &LoginStart{
		RedirectURL:  s.idp.AuthorizeURL(state, infracrypto.CodeChallengeS256(verifier)),
		StateToken:   token,
		CodeVerifier: verifier,
	}, nil
}

// CompleteLogin finishes the OAuth callback: it verifies the state token
// against the returned state and the PKCE verifier, exchanges the code, and
// mints a sealed session token. Any state mismatch fails closed.
func (s *AuthService) CompleteLogin(ctx context.Context, code, stateToken, state, codeVerifier string) (string, *session.User, error) {
	if err := s.states.Verify(stateToken, state, codeVerifier); err != nil {
		s.log.Warn("oauth state verification failed", logger.Error(err))
		return "", nil, apperrors.ErrSecurityCheck
	}

	token, err := s.idp.Exchange(ctx, code, codeVerifier)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "code exchange failed")
	}

	user, err := s.idp.Profile(ctx, token.AccessToken)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "profile fetch failed")
	}

	sess := session.New(*user, token.AccessToken, s.sessionTTL)
	sealed, err := s.codec.Encode(sess)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("session issued", logger.UserHash(s.anonymizer.UserHash(user.ID)))
	return sealed, user, nil
}

// SessionFromToken opens a sealed session token. All failure modes collapse
// to a single invalid-session outcome.
func (s *AuthService) SessionFromToken(token string) (*session.Session, error) {
	return s.codec.Decode(token)
}
