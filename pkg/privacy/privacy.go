// Package privacy provides one-way anonymization of user identifiers so that
// log fields and rate-limit keys never carry a raw X user ID or handle.
package privacy

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Anonymizer derives short, deterministic digests from user identifiers.
// The salt is a process-wide secret; without it the digests cannot be
// correlated back to accounts by anyone holding the logs.
type Anonymizer struct {
	salt    string
	enabled bool
}

// NewAnonymizer creates an Anonymizer. When disabled it passes identifiers
// through unchanged, which is only acceptable in local development.
func NewAnonymizer(salt string, enabled bool) *Anonymizer {
	return &Anonymizer{salt: salt, enabled: enabled}
}

// UserHash returns an 8-byte hex digest of the user ID.
func (a *Anonymizer) UserHash(userID string) string {
	if !a.enabled {
		return userID
	}
	h := sha3.Sum256([]byte(userID + a.salt))
	return hex.EncodeToString(h[:8])
}

// RateLimitKey builds a per-action rate-limit key from an anonymized user ID,
// e.g. "review_1a2b3c4d".
func (a *Anonymizer) RateLimitKey(action, userID string) string {
	return action + "_" + a.UserHash(userID)
}

// Redact replaces a sensitive value with a placeholder for logging.
func Redact(s string) string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}
