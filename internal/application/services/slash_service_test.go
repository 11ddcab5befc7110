package services

import (
	"context"
	"testing"
	"time"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/discord"
	memoryguard "github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/guard/memory"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/privacy"
)

func newSlashFixture(t *testing.T, oracle *fakeOracle) (*SlashService, *memoryguard.CSRFStore, *fakeNotifier) {
	t.Helper()
	log := testLogger(t)
	csrf := memoryguard.NewCSRFStore(time.Hour)
	notifier := &fakeNotifier{
		notes:      make(chan discord.ReviewNotification, 1),
		slashNotes: make(chan discord.SlashNotification, 1),
	}

	svc := NewSlashService(
		csrf,
		memoryguard.NewNonceStore(time.Hour),
		memoryguard.NewRateLimiter(),
		NewReputationService(oracle, log),
		notifier,
		privacy.NewAnonymizer("test-salt", true),
		testSecurity(),
		log,
	)
	return svc, csrf, notifier
}

func validSlashRequest(t *testing.T, csrf *memoryguard.CSRFStore) *dto.SubmitSlashRequest {
	t.Helper()
	token, err := csrf.Issue(context.Background())
	if err != nil {
		t.Fatalf("csrf Issue: %v", err)
	}
	return &dto.SubmitSlashRequest{
		SubjectHandle: "subject",
		Title:         "Broke a commitment",
		Description:   "Details for the moderators.",
		CSRFToken:     token,
		RequestNonce:  newRequestNonce(t),
	}
}

func TestSlashSubmitAcknowledged(t *testing.T) {
	svc, csrf, notifier := newSlashFixture(t, eligibleOracle())

	resp, err := svc.Submit(context.Background(), testSession(), validSlashRequest(t, csrf))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !resp.Success || resp.Message == "" {
		t.Errorf("response = %+v", resp)
	}

	select {
	case note := <-notifier.slashNotes:
		if note.SubjectHandle != "subject" || note.Tier != "exemplary" {
			t.Errorf("notification = %+v", note)
		}
	case <-time.After(time.Second):
		t.Error("no notification delivered")
	}
}

func TestSlashSubmitRejectsIneligibleProposer(t *testing.T) {
	oracle := eligibleOracle()
	delete(oracle.profiles, "reviewer")
	svc, csrf, _ := newSlashFixture(t, oracle)

	_, err := svc.Submit(context.Background(), testSession(), validSlashRequest(t, csrf))
	if !apperrors.Is(err, apperrors.ErrProfileNotFound) {
		t.Fatalf("Submit = %v, want ErrProfileNotFound", err)
	}
}

func TestSlashSubmitConsumesRequestNonce(t *testing.T) {
	svc, csrf, notifier := newSlashFixture(t, eligibleOracle())

	first := validSlashRequest(t, csrf)
	if _, err := svc.Submit(context.Background(), testSession(), first); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	<-notifier.slashNotes

	replay := validSlashRequest(t, csrf)
	replay.RequestNonce = first.RequestNonce
	_, err := svc.Submit(context.Background(), testSession(), replay)
	if !apperrors.Is(err, apperrors.ErrSecurityCheck) {
		t.Fatalf("replayed Submit = %v, want ErrSecurityCheck", err)
	}
}

func TestSlashSubmitAcceptsRepeatProposalsInOneSession(t *testing.T) {
	svc, csrf, notifier := newSlashFixture(t, eligibleOracle())
	sess := testSession()

	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(context.Background(), sess, validSlashRequest(t, csrf)); err != nil {
			t.Fatalf("Submit %d: %v", i+1, err)
		}
		<-notifier.slashNotes
	}
}

func TestSlashRateLimitBoundary(t *testing.T) {
	svc, _, _ := newSlashFixture(t, eligibleOracle())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.CheckRateLimit(ctx, "42"); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}
	if err := svc.CheckRateLimit(ctx, "42"); !apperrors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("fourth request = %v, want ErrRateLimited", err)
	}
}
