package review

import (
	"strings"
	"testing"

	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

func TestValidateContentLengths(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantField   string
	}{
		{"both empty", "", "", ""},
		{"title at cap", strings.Repeat("a", MaxTitleLength), "ok", ""},
		{"title over cap", strings.Repeat("a", MaxTitleLength+1), "ok", "title"},
		{"description at cap", "ok", strings.Repeat("b", MaxDescriptionLength), ""},
		{"description over cap", "ok", strings.Repeat("b", MaxDescriptionLength+1), "description"},
		{"multibyte title at cap", strings.Repeat("评", MaxTitleLength), "ok", ""},
		{"multibyte title over cap", strings.Repeat("评", MaxTitleLength+1), "ok", "title"},
		{"multibyte description at cap", "ok", strings.Repeat("評", MaxDescriptionLength), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.title, tt.description)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateContent = %v, want nil", err)
				}
				return
			}
			var verr *apperrors.ValidationError
			if !apperrors.As(err, &verr) {
				t.Fatalf("ValidateContent = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateContentDenylist(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantReject  bool
	}{
		{"script tag", "hello <script>alert(1)</script>", "", true},
		{"script tag uppercase", "<SCRIPT src=x>", "", true},
		{"javascript url", "click", "javascript:alert(1)", true},
		{"event handler", "x", `<img onerror = "alert(1)">`, true},
		{"data html url", "x", "data:text/html;base64,xxxx", true},
		{"pattern split across fields is still caught", "great onclick", "= something", true},
		{"benign markdown", "Solid builder", "Shipped **great** work, would trust again.", false},
		{"word containing on", "once upon a time", "nothing to see", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.title, tt.description)
			if tt.wantReject && err == nil {
				t.Error("suspicious content passed validation")
			}
			if !tt.wantReject && err != nil {
				t.Errorf("benign content rejected: %v", err)
			}
		})
	}
}
