// Package sessiontoken seals session claims into a tamper-evident cookie
// value: HMAC-SHA256 over the canonical JSON of the claims, wrapped in
// base64. The codec is a pure function pair around a server-held secret.
package sessiontoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// Codec encodes and verifies signature-sealed session tokens.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec signing with the given secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// envelope is the wire form: the session claims plus a signature over their
// canonical serialization. Field order is fixed by struct order, which keeps
// the signed bytes deterministic.
type envelope struct {
	session.Session
	Signature string `json:"signature"`
}

// Encode attaches a fresh nonce to the claims, signs them, and returns the
// base64 token. The input session is not mutated.
func (c *Codec) Encode(s *session.Session) (string, error) {
	sealed := *s
	sealed.Nonce = uuid.New().String()

	data, err := json.Marshal(sealed)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to serialize session")
	}

	env := envelope{Session: sealed, Signature: c.sign(data)}
	out, err := json.Marshal(env)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to serialize session envelope")
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decode verifies a token and returns the claims. Every failure mode - parse
// error, expiry, signature mismatch - collapses to ErrSessionInvalid so the
// caller cannot tell which check rejected the token.
func (c *Codec) Decode(token string) (*session.Session, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.ErrSessionInvalid
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apperrors.ErrSessionInvalid
	}

	// Expiry first: an expired session is invalid regardless of signature.
	if env.IsExpired() {
		return nil, apperrors.ErrSessionInvalid
	}

	data, err := json.Marshal(env.Session)
	if err != nil {
		return nil, apperrors.ErrSessionInvalid
	}

	if !hmac.Equal([]byte(c.sign(data)), []byte(env.Signature)) {
		return nil, apperrors.ErrSessionInvalid
	}

	s := env.Session
	return &s, nil
}

func (c *Codec) sign(data []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}
