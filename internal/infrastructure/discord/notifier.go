// Package discord posts best-effort operational notifications to a Discord
// webhook. Delivery failures never affect the request that triggered them.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

const notifyTimeout = 10 * time.Second

// ReviewNotification describes a successfully submitted review.
type ReviewNotification struct {
	Sentiment     string
	SubjectHandle string
	Title         string
	Tier          string
	TxHash        string
	TxURL         string
	ReviewID      *int64
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

var sentimentColors = map[string]int{
	"positive": 0x2ecc71,
	"neutral":  0x95a5a6,
	"negative": 0xe74c3c,
}

// Notifier delivers webhook notifications.
type Notifier struct {
	cfg  *config.DiscordConfig
	http *http.Client
	log  logger.Logger
}

// NewNotifier creates a webhook notifier. A disabled config yields a notifier
// whose methods are no-ops.
func NewNotifier(cfg *config.DiscordConfig, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:  cfg,
		http: &http.Client{Timeout: notifyTimeout},
		log:  log,
	}
}

// NotifyReview announces a new anonymous review. It runs in the calling
// goroutine with its own deadline; callers typically invoke it with `go`.
func (n *Notifier) NotifyReview(note ReviewNotification) {
	if !n.cfg.Enabled || n.cfg.WebhookURL == "" {
		return
	}

	fields := []embedField{
		{Name: "Sentiment", Value: note.Sentiment, Inline: true},
		{Name: "Reviewer tier", Value: note.Tier, Inline: true},
		{Name: "Subject", Value: "@" + note.SubjectHandle, Inline: true},
		{Name: "Transaction", Value: fmt.Sprintf("[%s](%s)", shortHash(note.TxHash), note.TxURL)},
	}
	if note.ReviewID != nil {
		fields = append(fields, embedField{Name: "Review ID", Value: fmt.Sprintf("%d", *note.ReviewID), Inline: true})
	}

	payload := webhookPayload{Embeds: []embed{{
		Title:       "New anonymous review",
		Description: note.Title,
		Color:       sentimentColors[note.Sentiment],
		Fields:      fields,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}}}

	if err := n.post(payload); err != nil {
		n.log.Warn("discord notification failed", logger.Error(err))
	}
}

// SlashNotification describes a recorded slash proposal.
type SlashNotification struct {
	SubjectHandle string
	Title         string
	Tier          string
}

// NotifySlash announces a slash proposal for moderator attention.
func (n *Notifier) NotifySlash(note SlashNotification) {
	if !n.cfg.Enabled || n.cfg.WebhookURL == "" {
		return
	}

	payload := webhookPayload{Embeds: []embed{{
		Title:       "New slash proposal",
		Description: note.Title,
		Color:       0xe67e22,
		Fields: []embedField{
			{Name: "Proposer tier", Value: note.Tier, Inline: true},
			{Name: "Subject", Value: "@" + note.SubjectHandle, Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}}}

	if err := n.post(payload); err != nil {
		n.log.Warn("discord notification failed", logger.Error(err))
	}
}

// NotifyTest sends a connectivity-check embed.
func (n *Notifier) NotifyTest() error {
	if !n.cfg.Enabled || n.cfg.WebhookURL == "" {
		return fmt.Errorf("discord notifications are disabled")
	}
	return n.post(webhookPayload{Embeds: []embed{{
		Title:     "Webhook test",
		Color:     0x3498db,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}}})
}

func (n *Notifier) post(payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:10] + "…" + hash[len(hash)-4:]
}
