package review

import (
	"encoding/json"
	"fmt"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/reputation"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// AttestationService is the platform identifier recorded in on-chain
// attestations for X accounts.
const AttestationService = "x.com"

// ProvenanceSource tags review metadata with the submitting service.
const ProvenanceSource = "anon.ethos.network"

// Sentiment is the reviewer's assessment of the subject.
type Sentiment string

const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// ParseSentiment validates a sentiment label.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(s) {
	case SentimentNegative, SentimentNeutral, SentimentPositive:
		return Sentiment(s), nil
	default:
		return "", &apperrors.ValidationError{Field: "sentiment", Message: fmt.Sprintf("unknown sentiment %q", s)}
	}
}

// Score converts the sentiment to its on-chain numeric value.
func (s Sentiment) Score() uint8 {
	switch s {
	case SentimentNegative:
		return 0
	case SentimentPositive:
		return 2
	default:
		return 1
	}
}

// Attestation links a review to an external-platform account instead of an
// on-chain wallet address.
type Attestation struct {
	// Account is the canonical platform-issued numeric account ID,
	// never a mutable handle.
	Account string
	Service string
}

// Subject identifies the reviewed party in exactly one of two addressing
// modes: a concrete wallet address, or an attestation record. The two are
// mutually exclusive; constructing one mode zeroes the other.
type Subject struct {
	address     string
	attestation *Attestation
}

// SubjectFromAddress addresses the subject by wallet address.
func SubjectFromAddress(address string) Subject {
	return Subject{address: address}
}

// SubjectFromAttestation addresses the subject by X account attestation.
func SubjectFromAttestation(accountID string) Subject {
	return Subject{attestation: &Attestation{Account: accountID, Service: AttestationService}}
}

// Address returns the wallet address, or empty when attestation-addressed.
func (s Subject) Address() string { return s.address }

// Attestation returns the attestation record, or nil when address-addressed.
func (s Subject) Attestation() *Attestation { return s.attestation }

// Submission is the unit of work sent to the blockchain. It is constructed
// per request after every gate has passed; its terminal state is either a
// confirmed transaction hash or an error. No retry state is kept.
type Submission struct {
	Sentiment   Sentiment
	Subject     Subject
	Comment     string
	Description string

	// ReviewerTier is embedded in the public disclaimer.
	ReviewerTier reputation.Tier
}

// Metadata builds the JSON metadata blob for the on-chain call: the full
// description prefixed with the anonymous disclaimer, plus a provenance tag.
func (s *Submission) Metadata() (string, error) {
	payload := struct {
		Description string `json:"description"`
		Source      string `json:"source"`
	}{
		Description: Disclaimer(s.ReviewerTier) + s.Description,
		Source:      ProvenanceSource,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal review metadata")
	}
	return string(b), nil
}

// Disclaimer returns the sentence prepended to every review description,
// naming the reviewer's tier. Its exact wording is observable on-chain.
func Disclaimer(tier reputation.Tier) string {
	return fmt.Sprintf("_This review was left anonymously by a **%s** Ethos user via %s_\n\n", tier, ProvenanceSource)
}

// Result is the outcome of a confirmed submission. ReviewID is best-effort:
// nil when the creation event could not be recovered from the logs, which is
// not a failure of the submission itself.
type Result struct {
	TransactionHash string
	ReviewID        *int64
}
