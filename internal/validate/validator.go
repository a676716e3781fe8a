// Package validate checks user input and classifies source authority.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input limits
const (
	MinClaimChars     = 10
	MaxClaimChars     = 2000
	DefaultMaxResults = 5
	MaxSearchResults  = 20
)

// ErrValidation is wrapped by every input validation failure
var ErrValidation = errors.New("validation failed")

// Error describes one rejected input field
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation
func (e *Error) Unwrap() error {
	return ErrValidation
}

// ValidateClaim trims text and checks its length. It returns the trimmed claim.
func ValidateClaim(text string) (string, error) {
	claim := strings.TrimSpace(text)
	switch n := utf8.RuneCountInString(claim); {
	case n == 0:
		return "", &Error{Field: "claim", Message: "claim is required"}
	case n < MinClaimChars:
		return "", &Error{Field: "claim", Message: fmt.Sprintf("claim must be at least %d characters", MinClaimChars)}
	case n > MaxClaimChars:
		return "", &Error{Field: "claim", Message: fmt.Sprintf("claim must be at most %d characters", MaxClaimChars)}
	}
	return claim, nil
}

// ValidateQuery checks a search query and clamps maxResults to
// [1, MaxSearchResults]; a non-positive value becomes DefaultMaxResults.
func ValidateQuery(query string, maxResults int) (string, int, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", 0, &Error{Field: "query", Message: "query is required"}
	}
	return q, ClampResults(maxResults, DefaultMaxResults), nil
}

// ClampResults bounds n to [1, MaxSearchResults], using def when n <= 0
func ClampResults(n, def int) int {
	if n <= 0 {
		n = def
	}
	return max(1, min(n, MaxSearchResults))
}
