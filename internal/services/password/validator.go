// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package password

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation error codes. They double as translation message IDs.
const (
	CodeRequired        = "password_required"
	CodeMinLength       = "password_min_length"
	CodeEntirelyNumeric = "password_entirely_numeric"
	CodeTooSimilar      = "password_too_similar"
)

// Validator validates passwords against various criteria
type Validator struct {
	MinLength           int
	CheckUserSimilarity bool
}

// DefaultValidator returns a validator with the given minimum length.
func DefaultValidator(minLength int) *Validator {
	return &Validator{
		MinLength:           minLength,
		CheckUserSimilarity: true,
	}
}

// ValidationError represents a single password validation error
type ValidationError struct {
	Code    string
	Message string
	Data    map[string]any
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return e.Errors[0].Message
}

// Messages returns all error messages
func (e *ValidationErrors) Messages() []string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Message
	}
	return messages
}

// Validate checks a password against all configured rules. It returns nil
// when the password is acceptable.
func (v *Validator) Validate(password string, userAttributes ...string) *ValidationErrors {
	var errs []ValidationError

	if password == "" {
		return &ValidationErrors{Errors: []ValidationError{{
			Code:    CodeRequired,
			Message: "Password must not be empty.",
		}}}
	}

	if utf8.RuneCountInString(password) < v.MinLength {
		errs = append(errs, ValidationError{
			Code:    CodeMinLength,
			Message: fmt.Sprintf("Password must be at least %d characters long.", v.MinLength),
			Data:    map[string]any{"Min": v.MinLength},
		})
	}

	if isEntirelyNumeric(password) {
		errs = append(errs, ValidationError{
			Code:    CodeEntirelyNumeric,
			Message: "Password cannot be entirely numeric.",
		})
	}

	if v.CheckUserSimilarity && isSimilarToUserAttributes(password, userAttributes) {
		errs = append(errs, ValidationError{
			Code:    CodeTooSimilar,
			Message: "Password is too similar to your email address.",
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: errs}
}

func isEntirelyNumeric(password string) bool {
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return password != ""
}

// isSimilarToUserAttributes compares against each attribute and, for email
// addresses, against the local part as well.
func isSimilarToUserAttributes(password string, attributes []string) bool {
	passwordLower := strings.ToLower(password)

	for _, attr := range attributes {
		candidates := []string{strings.ToLower(attr)}
		if local, _, ok := strings.Cut(candidates[0], "@"); ok {
			candidates = append(candidates, local)
		}

		for _, c := range candidates {
			if len(c) < 3 {
				continue
			}
			if strings.Contains(passwordLower, c) || strings.Contains(c, passwordLower) {
				return true
			}
			if similarity(passwordLower, c) > 0.7 {
				return true
			}
		}
	}

	return false
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return float64(longestCommonSubsequence(a, b)) / float64(max(len(a), len(b)))
}

func longestCommonSubsequence(a, b string) int {
	m, n := len(a), len(b)
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
