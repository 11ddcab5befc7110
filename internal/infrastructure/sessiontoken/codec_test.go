package sessiontoken

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

func testUser() session.User {
	return session.User{
		ID:        "123456789",
		Name:      "Test User",
		Handle:    "testuser",
		AvatarURL: "https://example.com/avatar.png",
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := NewCodec("topsecret")
	sess := session.New(testUser(), "access-token", time.Hour)

	token, err := codec.Encode(sess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.User != sess.User {
		t.Errorf("user = %+v, want %+v", got.User, sess.User)
	}
	if got.AccessToken != "access-token" {
		t.Errorf("access token = %q", got.AccessToken)
	}
	if got.Nonce == "" {
		t.Error("decoded session has no nonce")
	}
}

func TestEncodeAttachesFreshNonce(t *testing.T) {
	codec := NewCodec("topsecret")
	sess := session.New(testUser(), "access-token", time.Hour)

	t1, err := codec.Encode(sess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	t2, err := codec.Encode(sess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	s1, _ := codec.Decode(t1)
	s2, _ := codec.Decode(t2)
	if s1.Nonce == s2.Nonce {
		t.Error("two encodings share a nonce")
	}
}

func TestDecodeRejectsTampering(t *testing.T) {
	codec := NewCodec("topsecret")
	sess := session.New(testUser(), "access-token", time.Hour)
	token, err := codec.Encode(sess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(token)
	tampered := strings.Replace(string(raw), "testuser", "otheruser", 1)
	forged := base64.StdEncoding.EncodeToString([]byte(tampered))

	if _, err := codec.Decode(forged); !apperrors.Is(err, apperrors.ErrSessionInvalid) {
		t.Errorf("Decode(tampered) = %v, want ErrSessionInvalid", err)
	}
}

func TestDecodeFailsClosed(t *testing.T) {
	codec := NewCodec("topsecret")

	expired := session.New(testUser(), "access-token", -time.Minute)
	expiredToken, err := codec.Encode(expired)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	valid, err := NewCodec("othersecret").Encode(session.New(testUser(), "access-token", time.Hour))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "%%%not-base64%%%"},
		{"not json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"expired", expiredToken},
		{"wrong secret", valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := codec.Decode(tt.token); !apperrors.Is(err, apperrors.ErrSessionInvalid) {
				t.Errorf("Decode = %v, want ErrSessionInvalid", err)
			}
		})
	}
}
