// Package dto defines the request and response payloads of the HTTP API.
package dto

// SubmitReviewRequest is the body of a review submission.
type SubmitReviewRequest struct {
	Sentiment     string `json:"sentiment" binding:"required"`
	SubjectHandle string `json:"subjectHandle" binding:"required"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	CSRFToken     string `json:"csrfToken" binding:"required"`
	RequestNonce  string `json:"requestNonce" binding:"required"`

	// ReviewerTier is the tier the client already fetched from the
	// reputation endpoint. Optional; it only affects the disclaimer
	// wording, never the eligibility gate.
	ReviewerTier string `json:"reviewerTier"`
}

// SubmitReviewResponse reports a settled review transaction. ReviewID and
// ReviewURL are omitted when the creation event could not be read back from
// the logs.
type SubmitReviewResponse struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash"`
	TransactionURL  string `json:"transactionUrl"`
	ReviewID        *int64 `json:"reviewId,omitempty"`
	ReviewURL       string `json:"reviewUrl,omitempty"`
}

// SubmitSlashRequest is the body of a slash proposal.
type SubmitSlashRequest struct {
	SubjectHandle string `json:"subjectHandle" binding:"required"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	CSRFToken     string `json:"csrfToken" binding:"required"`
	RequestNonce  string `json:"requestNonce" binding:"required"`
}

// SubmitSlashResponse acknowledges a recorded slash proposal. Slash proposals
// never reach the chain.
type SubmitSlashResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MeResponse describes the authenticated user.
type MeResponse struct {
	Authenticated bool   `json:"authenticated"`
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	Username      string `json:"username,omitempty"`
	AvatarURL     string `json:"profileImageUrl,omitempty"`
}

// CSRFResponse carries a freshly issued single-use CSRF token.
type CSRFResponse struct {
	Token string `json:"csrfToken"`
}

// ReputationResponse reports the caller's submission eligibility.
type ReputationResponse struct {
	Eligible  bool   `json:"eligible"`
	Tier      string `json:"tier"`
	Score     int    `json:"score"`
	Threshold int    `json:"threshold"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`

	// Field is set for validation failures.
	Field string `json:"field,omitempty"`

	// Score and Threshold are set for eligibility failures.
	Score     *int `json:"score,omitempty"`
	Threshold *int `json:"threshold,omitempty"`
}
