// Package answer canonicalizes free-text answers and decides correctness.
// Answers are compared as text, never executed.
package answer

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun      = regexp.MustCompile(`\s+`)
	trailingTerminator = regexp.MustCompile(`\s*;\s*$`)
)

// Normalize canonicalizes a raw answer for comparison: trim, collapse internal
// whitespace runs to one space, strip a single trailing semicolon, lower-case.
// Total over any input; never errors.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = trailingTerminator.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

// IsCorrect compares a user's raw answer against the canonical answer stored
// with the challenge. Canonical answers may or may not carry a trailing
// semicolon depending on authoring style, so both forms are accepted from the
// user regardless of which form is stored. Anything beyond that one tolerance
// is an exact match: reordered tokens or semantically equivalent rewrites do
// not count.
func IsCorrect(userRaw, canonicalRaw string) bool {
	u := Normalize(userRaw)
	c := Normalize(canonicalRaw)

	return u == c ||
		u == trailingTerminator.ReplaceAllString(c, "") ||
		u+";" == c
}
