package statetoken

import (
	"testing"
	"time"

	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("secret", "svc", 10*time.Minute)

	token, state, err := m.Issue("verifier-abc")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := m.Verify(token, state, "verifier-abc"); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestVerifyFailsClosed(t *testing.T) {
	m := NewManager("secret", "svc", 10*time.Minute)
	token, state, err := m.Issue("verifier-abc")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	otherSecret, _, _ := NewManager("other", "svc", 10*time.Minute).Issue("verifier-abc")
	expired, expiredState, _ := NewManager("secret", "svc", -time.Minute).Issue("verifier-abc")

	tests := []struct {
		name     string
		token    string
		state    string
		verifier string
	}{
		{"wrong state", token, "different-state", "verifier-abc"},
		{"wrong verifier", token, state, "verifier-xyz"},
		{"wrong secret", otherSecret, state, "verifier-abc"},
		{"expired", expired, expiredState, "verifier-abc"},
		{"garbage token", "not.a.jwt", state, "verifier-abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Verify(tt.token, tt.state, tt.verifier); !apperrors.Is(err, apperrors.ErrSecurityCheck) {
				t.Errorf("Verify = %v, want ErrSecurityCheck", err)
			}
		})
	}
}

func TestStatesAreUnique(t *testing.T) {
	m := NewManager("secret", "svc", 10*time.Minute)
	_, s1, _ := m.Issue("v")
	_, s2, _ := m.Issue("v")
	if s1 == s2 {
		t.Error("two issued tokens share a state value")
	}
}
