package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateEffectName validates the name of a word effect.
//
// The name ends up in a CSS class ("effect-<name>"), so the rules are
// conservative:
//   - No empty names
//   - Lowercase letters, digits and dashes only
//   - Maximum length of 64 characters
//   - "none" is reserved for the no-effect outcome
func ValidateEffectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidEffect, "effect name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidEffect, "effect name too long (max 64 characters)")
	}
	if name == "none" {
		return New(ErrCodeInvalidEffect, "effect name %q is reserved", name)
	}
	if !effectNameRegex.MatchString(name) {
		return New(ErrCodeInvalidEffect, "invalid effect name: %q", name)
	}
	return nil
}

var effectNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateProbability checks that p is a finite value in [0, 1].
func ValidateProbability(field string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidEffect, "%s must be in [0, 1], got %v", field, p)
	}
	return nil
}

// ValidateStep checks that a progression step is finite and non-negative.
func ValidateStep(field string, step float64) error {
	if math.IsNaN(step) || math.IsInf(step, 0) || step < 0 {
		return New(ErrCodeInvalidEffect, "%s must be >= 0, got %v", field, step)
	}
	return nil
}

// placeholderRegex matches valid template placeholder names.
var placeholderRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidatePlaceholder validates a template placeholder name ("content",
// "ISSUE_1", ...). Names are referenced as {{name}} in templates.
func ValidatePlaceholder(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTemplate, "placeholder name cannot be empty")
	}
	if !placeholderRegex.MatchString(name) {
		return New(ErrCodeInvalidTemplate, "invalid placeholder name: %q", name)
	}
	return nil
}

// ValidatePath validates a file path from configuration or flags.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
