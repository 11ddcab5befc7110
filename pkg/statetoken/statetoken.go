// Package statetoken issues and verifies the short-lived OAuth state token
// used during the X login redirect. The token is a signed JWT carried in a
// cookie, binding the callback to the browser that started the flow and to
// the PKCE verifier generated for it.
package statetoken

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// Manager creates and validates OAuth state tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager creates a state token manager. The secret is the process-wide
// session signing secret; state tokens share it since both protect the same
// browser binding.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Claims are the claims carried by a state token.
type Claims struct {
	jwt.RegisteredClaims
	// VerifierHash binds the token to the PKCE code verifier without
	// putting the verifier itself in a cookie readable by scripts.
	VerifierHash string `json:"vh"`
}

// Issue creates a signed state token bound to the given PKCE verifier.
// The returned state value doubles as the OAuth state parameter (the jti).
func (m *Manager) Issue(codeVerifier string) (token string, state string, err error) {
	now := time.Now().UTC()
	state = uuid.New().String()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        state,
		},
		VerifierHash: hashVerifier(codeVerifier),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to sign state token")
	}
	return signed, state, nil
}

// Verify checks the token signature and expiry and confirms it matches both
// the state parameter echoed by the provider and the stored PKCE verifier.
func (m *Manager) Verify(token, state, codeVerifier string) error {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrSecurityCheck
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return apperrors.ErrSecurityCheck
	}
	if claims.ID != state || claims.VerifierHash != hashVerifier(codeVerifier) {
		return apperrors.ErrSecurityCheck
	}
	return nil
}

func hashVerifier(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
