package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestGenerateTokenUnique(t *testing.T) {
	t1, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	t2, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if t1 == t2 {
		t.Error("two generated tokens are equal")
	}
	if _, err := base64.RawURLEncoding.DecodeString(t1); err != nil {
		t.Errorf("token is not url-safe base64: %v", err)
	}
}

func TestCodeChallengeS256(t *testing.T) {
	verifier := "some-verifier"
	sum := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])

	if got := CodeChallengeS256(verifier); got != want {
		t.Errorf("challenge = %q, want %q", got, want)
	}
}
