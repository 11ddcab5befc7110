// Package crypto provides the random-token and PKCE primitives used by the
// OAuth login flow and the CSRF guard.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// GenerateToken returns a URL-safe random token of n source bytes.
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateCodeVerifier returns a PKCE code verifier.
func GenerateCodeVerifier() (string, error) {
	return GenerateToken(32)
}

// CodeChallengeS256 derives the S256 code challenge for a verifier.
func CodeChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
