package reducer

import (
	"regexp"
	"strings"

	"sms-assistant-be/pkg/store"
)

// Rule identifies which reduction path produced the new body.
type Rule string

const (
	RuleQuote     Rule = "quote"
	RuleEntity    Rule = "entity"
	RuleTextPatch Rule = "text_patch"
	RuleNone      Rule = "none"
)

// Result of a deterministic edit pass.
type Result struct {
	Body    string
	Rule    Rule
	Applied bool
}

var (
	clockTimeRe = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm)\b|\b\d{1,2}:\d{2}\b|(?i)\b(noon|midnight)\b`)
	dateRe      = regexp.MustCompile(`(?i)\b(today|tonight|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	editLeadRe = regexp.MustCompile(`(?i)^\s*(please\s+)?(change|update|edit|revise|reword|make|set)\b(\s+(it|that|this|the\s+(announcement|poll|message|body|text)))?(\s+to(\s+say)?|\s+so(\s+that)?\s+it\s+says|\s*:)?\s*`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Apply runs the deterministic edit ladder over a pending draft body:
//
//  1. Quoted text overrides everything and becomes the body verbatim.
//  2. Structured entity patches (time, date) rewrite mentions in place.
//  3. A generic text patch strips edit phrasing and replaces the body.
//
// When nothing applies, Result.Applied is false and the caller may fall
// back to external generation.
func Apply(currentBody string, signals store.Signals, text string) Result {
	if len(signals.Quoted) > 0 {
		return Result{
			Body:    normalizeWhitespace(strings.Join(signals.Quoted, " ")),
			Rule:    RuleQuote,
			Applied: true,
		}
	}

	if currentBody != "" {
		if body, ok := applyEntityPatches(currentBody, signals.Entities); ok {
			return Result{Body: normalizeWhitespace(body), Rule: RuleEntity, Applied: true}
		}
	}

	if body, ok := applyTextPatch(currentBody, text); ok {
		return Result{Body: normalizeWhitespace(body), Rule: RuleTextPatch, Applied: true}
	}

	return Result{Body: currentBody, Rule: RuleNone, Applied: false}
}

// applyEntityPatches splices new time/date mentions into the body. A
// mention already present is replaced in place; a missing one is appended.
func applyEntityPatches(body string, entities store.Entities) (string, bool) {
	patched := body
	applied := false

	if entities.Time != "" && !strings.EqualFold(clockTimeRe.FindString(body), entities.Time) {
		if clockTimeRe.MatchString(patched) {
			patched = clockTimeRe.ReplaceAllString(patched, entities.Time)
		} else {
			patched = patched + " at " + entities.Time
		}
		applied = true
	}

	if entities.Date != "" && !strings.EqualFold(dateRe.FindString(body), entities.Date) {
		if dateRe.MatchString(patched) {
			patched = dateRe.ReplaceAllString(patched, entities.Date)
		} else {
			patched = patched + " " + entities.Date
		}
		applied = true
	}

	return patched, applied
}

// applyTextPatch strips edit phrasing and treats the remainder as the new
// body. With no current body, the whole message becomes the body.
func applyTextPatch(currentBody, text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if currentBody == "" {
		return trimmed, true
	}

	stripped := editLeadRe.ReplaceAllString(trimmed, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == "" || stripped == trimmed {
		// No edit phrasing matched; not a recognizable patch.
		return "", false
	}
	return stripped, true
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
