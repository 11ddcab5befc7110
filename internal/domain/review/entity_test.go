package review

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/reputation"
)

func TestParseSentiment(t *testing.T) {
	for _, valid := range []string{"negative", "neutral", "positive"} {
		if _, err := ParseSentiment(valid); err != nil {
			t.Errorf("ParseSentiment(%q) = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "POSITIVE", "great", "2"} {
		if _, err := ParseSentiment(invalid); err == nil {
			t.Errorf("ParseSentiment(%q) succeeded", invalid)
		}
	}
}

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		sentiment Sentiment
		want      uint8
	}{
		{SentimentNegative, 0},
		{SentimentNeutral, 1},
		{SentimentPositive, 2},
	}
	for _, tt := range tests {
		if got := tt.sentiment.Score(); got != tt.want {
			t.Errorf("%s.Score() = %d, want %d", tt.sentiment, got, tt.want)
		}
	}
}

func TestSubjectModesAreExclusive(t *testing.T) {
	byAddr := SubjectFromAddress("0x1234")
	if byAddr.Attestation() != nil {
		t.Error("address-mode subject carries an attestation")
	}
	if byAddr.Address() != "0x1234" {
		t.Errorf("address = %q", byAddr.Address())
	}

	byAtt := SubjectFromAttestation("555111")
	if byAtt.Address() != "" {
		t.Error("attestation-mode subject carries an address")
	}
	att := byAtt.Attestation()
	if att == nil || att.Account != "555111" || att.Service != "x.com" {
		t.Errorf("attestation = %+v", att)
	}
}

func TestMetadataEmbedsDisclaimer(t *testing.T) {
	sub := &Submission{
		Sentiment:    SentimentPositive,
		Subject:      SubjectFromAttestation("555111"),
		Comment:      "Great collaborator",
		Description:  "Delivered everything on time.",
		ReviewerTier: reputation.TierExemplary,
	}

	raw, err := sub.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}

	var payload struct {
		Description string `json:"description"`
		Source      string `json:"source"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}

	wantPrefix := "_This review was left anonymously by a **exemplary** Ethos user via anon.ethos.network_\n\n"
	if !strings.HasPrefix(payload.Description, wantPrefix) {
		t.Errorf("description does not start with disclaimer:\n%q", payload.Description)
	}
	if !strings.HasSuffix(payload.Description, "Delivered everything on time.") {
		t.Errorf("description lost the user text:\n%q", payload.Description)
	}
	if payload.Source != "anon.ethos.network" {
		t.Errorf("source = %q", payload.Source)
	}
}

func TestDisclaimerNamesTier(t *testing.T) {
	for _, tier := range []reputation.Tier{reputation.TierReputable, reputation.TierExemplary} {
		d := Disclaimer(tier)
		if !strings.Contains(d, "**"+tier.String()+"**") {
			t.Errorf("Disclaimer(%s) = %q", tier, d)
		}
	}
}
