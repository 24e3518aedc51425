package textmatch

import (
	"regexp"
	"strings"
	"time"
)

// separatorPattern matches separator runs that should collapse to one space.
var separatorPattern = regexp.MustCompile(`[_\-.\s]+`)

// Normalize lowercases text and collapses underscore, hyphen, dot, and
// whitespace runs into single spaces.
func Normalize(text string) string {
	cleaned := separatorPattern.ReplaceAllString(strings.ToLower(text), " ")
	return strings.TrimSpace(cleaned)
}

// Tokenize splits normalized text into its space-separated tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// Score computes a symmetric similarity between two strings in [0,1].
//
// Equal normalized strings score 1.0. A multi-word name contained in the
// other string as a whole phrase also scores 1.0; that is the certainty case
// for "Jane Doe" appearing inside "Jane Doe Summer Collection". Single-token
// containment only earns partial credit so "Jane" never fully matches
// "Jane Doe". Everything else falls back to token-set overlap. Empty input
// on either side scores 0.0.
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}

	shorter, longer := na, nb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	shortTokens := strings.Fields(shorter)
	if len(shortTokens) >= 2 && containsPhrase(longer, shorter) {
		return 1.0
	}

	return tokenOverlap(strings.Fields(na), strings.Fields(nb))
}

// containsPhrase reports whether needle appears in haystack on word
// boundaries. Plain substring checks would match "ann" inside "annette".
func containsPhrase(haystack, needle string) bool {
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], needle)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(needle)
		startOK := start == 0 || haystack[start-1] == ' '
		endOK := end == len(haystack) || haystack[end] == ' '
		if startOK && endOK {
			return true
		}
		idx = start + 1
		if idx >= len(haystack) {
			return false
		}
	}
}

// tokenOverlap returns the Jaccard overlap of two token sets.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	seen := make(map[string]struct{}, len(a))
	for _, token := range a {
		seen[token] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for token := range seen {
		union[token] = struct{}{}
	}
	intersection := 0
	counted := make(map[string]struct{}, len(b))
	for _, token := range b {
		if _, dup := counted[token]; dup {
			continue
		}
		counted[token] = struct{}{}
		union[token] = struct{}{}
		if _, ok := seen[token]; ok {
			intersection++
		}
	}
	if len(union) == 0 {
		return 0.0
	}
	return float64(intersection) / float64(len(union))
}

// DateScore compares two dates within a tolerance window measured in days.
// Exact matches score 1.0, decaying linearly to 0.0 at the boundary and
// beyond. Zero-value dates score 0.0. A non-positive tolerance accepts exact
// matches only.
func DateScore(a, b time.Time, toleranceDays int) float64 {
	if a.IsZero() || b.IsZero() {
		return 0.0
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	days := diff.Hours() / 24
	if toleranceDays <= 0 {
		if days == 0 {
			return 1.0
		}
		return 0.0
	}
	if days >= float64(toleranceDays) {
		return 0.0
	}
	return 1.0 - days/float64(toleranceDays)
}
