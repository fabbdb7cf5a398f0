// Package textutil provides text canonicalization for field matching.
package textutil

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9 ]+`)
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	tokenizeRe   = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Normalize canonicalizes free text for matching: lowercases, replaces
// every character outside [a-z0-9 ] with a space, collapses runs of
// whitespace and trims. Empty input yields an empty string.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonAlnumRe.ReplaceAllString(text, " ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeWhitespaces replaces newlines and multiple whitespace with a single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// Tokenize extracts word tokens from text (Unicode-aware).
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// Slug converts text to a hyphen-joined identifier fragment: normalized
// tokens joined by "-", capped at max tokens (0 means no cap).
func Slug(text string, max int) string {
	tokens := strings.Fields(Normalize(text))
	if max > 0 && len(tokens) > max {
		tokens = tokens[:max]
	}
	return strings.Join(tokens, "-")
}

// ContainsToken reports whether any of the given tokens appears as a
// word in the normalized text.
func ContainsToken(text string, tokens ...string) bool {
	fields := strings.Fields(Normalize(text))
	for _, f := range fields {
		for _, tok := range tokens {
			if f == tok {
				return true
			}
		}
	}
	return false
}
