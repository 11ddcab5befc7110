package review

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// Content caps.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Injection-indicative patterns checked against title and description.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`), // inline event handlers
	regexp.MustCompile(`(?i)data:text/html`),
}

// ValidateContent applies the content policy to user-submitted text. It is
// pure and synchronous; the first failing rule wins.
func ValidateContent(title, description string) error {
	// Caps count characters, not bytes, so multibyte text is not
	// penalized.
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &apperrors.ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title too long (max %d characters)", MaxTitleLength),
		}
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return &apperrors.ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("description too long (max %d characters)", MaxDescriptionLength),
		}
	}

	content := title + " " + description
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(content) {
			return &apperrors.ValidationError{
				Field:   "content",
				Message: "content contains suspicious patterns",
			}
		}
	}

	return nil
}
