package session

import "time"

// User holds the identity claims obtained from X at login.
type User struct {
	// ID is the platform-issued numeric account identifier. Unlike the
	// handle it never changes, so it is the value bound into attestations.
	ID        string `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"username"`
	AvatarURL string `json:"profileImageUrl,omitempty"`
}

// Session represents an authenticated identity claim bound to a single
// browser. It is fully self-contained: created once at login, carried in a
// signed cookie, never persisted server-side.
type Session struct {
	User User `json:"user"`

	// AccessToken is the upstream X access token, kept opaque.
	AccessToken string `json:"accessToken"`

	// ExpiresAt is the absolute expiry instant in Unix milliseconds.
	ExpiresAt int64 `json:"expiresAt"`

	// Nonce is a per-session random value mixed into the signature so two
	// sessions with identical claims never produce the same token.
	Nonce string `json:"nonce,omitempty"`
}

// New creates a session for the given user expiring after ttl.
func New(user User, accessToken string, ttl time.Duration) *Session {
	return &Session{
		User:        user,
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(ttl).UnixMilli(),
	}
}

// IsExpired returns true if the session is past its expiry instant.
// An expired session is invalid regardless of signature validity.
func (s *Session) IsExpired() bool {
	return time.Now().UnixMilli() > s.ExpiresAt
}
