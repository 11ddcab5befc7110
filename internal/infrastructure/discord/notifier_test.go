package discord

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error"}, nil)
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestNotifyReviewPostsEmbed(t *testing.T) {
	received := make(chan webhookPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewNotifier(&config.DiscordConfig{Enabled: true, WebhookURL: srv.URL}, testLogger(t))
	id := int64(42)
	n.NotifyReview(ReviewNotification{
		Sentiment:     "positive",
		SubjectHandle: "subject",
		Title:         "Great collaborator",
		Tier:          "exemplary",
		TxHash:        "0xabcdef0123456789",
		TxURL:         "https://basescan.org/tx/0xabcdef0123456789",
		ReviewID:      &id,
	})

	payload := <-received
	if len(payload.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(payload.Embeds))
	}
	embed := payload.Embeds[0]
	if embed.Description != "Great collaborator" {
		t.Errorf("description = %q", embed.Description)
	}

	var sawSubject, sawReviewID bool
	for _, f := range embed.Fields {
		switch f.Name {
		case "Subject":
			sawSubject = f.Value == "@subject"
		case "Review ID":
			sawReviewID = f.Value == "42"
		}
	}
	if !sawSubject || !sawReviewID {
		t.Errorf("fields = %+v", embed.Fields)
	}
}

func TestNotifyReviewDisabledIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("disabled notifier hit the webhook")
	}))
	defer srv.Close()

	n := NewNotifier(&config.DiscordConfig{Enabled: false, WebhookURL: srv.URL}, testLogger(t))
	n.NotifyReview(ReviewNotification{Title: "x"})
}

func TestShortHash(t *testing.T) {
	long := "0x1234567890abcdef1234"
	short := shortHash(long)
	if !strings.HasPrefix(short, "0x12345678") || !strings.HasSuffix(short, "1234") {
		t.Errorf("shortHash = %q", short)
	}
	if shortHash("0xabc") != "0xabc" {
		t.Error("short input was truncated")
	}
}
