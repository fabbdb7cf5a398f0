// Package rules maps normalized form-field labels to canonical profile
// keys using a fixed, ordered pattern table, and holds the confidence
// gates shared by the rule and AI passes.
package rules

import (
	"regexp"

	"github.com/jobcopilot/autofill/profile"
)

// Thresholds for the two-tier confidence gate. A match strictly below
// its threshold is skipped and highlighted for manual review. AI
// answers use the higher bar because generative answers are less
// trustworthy than deterministic label patterns.
const (
	RuleThreshold = 0.65
	AIThreshold   = 0.72
)

// BareNameConfidence is assigned when the only textual signal is the
// bare word "name". A lone "Name" label is ambiguous (full name vs
// first name) and must never auto-fill at high confidence.
const BareNameConfidence = 0.4

// Rule associates label patterns with a canonical profile key.
// Confidence encodes the empirical precision of the patterns, not the
// importance of the field.
type Rule struct {
	Key        string
	Patterns   []*regexp.Regexp
	Confidence float64
}

// Table is the classification rule set. Declaration order is
// significant: when two rules match at equal confidence, the earlier
// one wins. Patterns run against normalized text (lowercase,
// punctuation stripped), so "first_name" and "First-Name" both arrive
// as "first name". New field types are additions to this table, not
// code changes.
var Table = []Rule{
	{
		Key: profile.KeyFirstName,
		Patterns: compile(
			`\bfirst name\b`, `\bgiven name\b`, `\bfname\b`, `\bforename\b`,
		),
		Confidence: 0.95,
	},
	{
		Key: profile.KeyLastName,
		Patterns: compile(
			`\blast name\b`, `\bfamily name\b`, `\bsurname\b`, `\blname\b`,
		),
		Confidence: 0.95,
	},
	{
		Key:        profile.KeyEmail,
		Patterns:   compile(`\bemail\b`, `\be mail\b`),
		Confidence: 0.98,
	},
	{
		Key: profile.KeyPhone,
		Patterns: compile(
			`\bphone\b`, `\bmobile\b`, `\btelephone\b`, `\bcell\b`,
		),
		Confidence: 0.90,
	},
	{
		Key:        profile.KeyLinkedIn,
		Patterns:   compile(`\blinkedin\b`, `\blinked in\b`),
		Confidence: 0.92,
	},
	{
		Key: profile.KeyLocation,
		Patterns: compile(
			`\bcurrent location\b`, `\blocation\b`, `\bcity\b`,
		),
		Confidence: 0.85,
	},
	{
		Key:        profile.KeyGitHub,
		Patterns:   compile(`\bgithub\b`, `\bgit hub\b`),
		Confidence: 0.90,
	},
	{
		Key: profile.KeyPortfolio,
		Patterns: compile(
			`\bportfolio\b`, `\bpersonal website\b`, `\bwebsite\b`,
		),
		Confidence: 0.85,
	},
	{
		Key: profile.KeyWorkAuthorization,
		Patterns: compile(
			`\bwork authorization\b`, `\bauthorized to work\b`,
			`\bwork permit\b`, `\bvisa status\b`,
		),
		Confidence: 0.80,
	},
}

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// Match is the result of classifying one field label.
type Match struct {
	Key        string
	Confidence float64
	Label      string
}

// MapFieldFromText classifies a normalized label haystack against the
// rule table. Every pattern of every rule is tested; the
// highest-confidence match wins, with ties broken by declaration order.
// A haystack consisting of exactly the bare word "name" downgrades to
// first_name at BareNameConfidence. The second return is false when
// nothing matched at all.
func MapFieldFromText(haystack string) (Match, bool) {
	if haystack == "" {
		return Match{}, false
	}

	var best Match
	found := false
	for _, rule := range Table {
		for _, re := range rule.Patterns {
			if !re.MatchString(haystack) {
				continue
			}
			if !found || rule.Confidence > best.Confidence {
				best = Match{Key: rule.Key, Confidence: rule.Confidence, Label: haystack}
				found = true
			}
			break
		}
	}
	if found {
		return best, true
	}

	if haystack == "name" {
		return Match{Key: profile.KeyFirstName, Confidence: BareNameConfidence, Label: haystack}, true
	}
	return Match{}, false
}

// PassesRule reports whether a rule-pass confidence clears the gate.
// The comparison is strict: exactly RuleThreshold passes.
func PassesRule(confidence float64) bool {
	return confidence >= RuleThreshold
}

// PassesAI reports whether an AI-answer confidence clears the gate.
func PassesAI(confidence float64) bool {
	return confidence >= AIThreshold
}
