// Package extract pulls structured parameters out of free-text admin
// instructions.  The matching is intentionally permissive — these are
// recognition patterns, not a grammar.  Each extractor is independent and
// returns (value, ok) so callers compose them with explicit fallthrough.
package extract

import (
	"regexp"
	"strings"
	"time"
)

var (
	secretRe = regexp.MustCompile(`(?i)(?:password|key|code|pin)\s*(?:is)?\s*:?\s*(\S+)`)
	dateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	queryRe  = regexp.MustCompile(`(?i)search\s+(?:all\s+)?(?:messages?\s+)?(?:for\s+)?["']?([^"']+)["']?`)
	userIDRe = regexp.MustCompile(`(?i)(?:audit\s+(?:user|entity)\s+)?([a-f0-9-]{8,})`)
)

// Secret finds a candidate secret: the token following one of the labels
// password/key/code/pin, optionally joined by "is" or ":".  The token is
// taken verbatim.
func Secret(text string) (string, bool) {
	m := secretRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Day finds a YYYY-MM-DD substring and returns the start of that UTC day.
// Absent or unparseable dates fall back to the current UTC day derived
// from now.
func Day(text string, now time.Time) time.Time {
	if m := dateRe.FindString(text); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t.UTC()
		}
	}
	return now.UTC().Truncate(24 * time.Hour)
}

// Query finds the search query: text following "search", with optional
// "all"/"messages"/"for" noise words and optional quoting.
func Query(text string) (string, bool) {
	m := queryRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	q := strings.TrimSpace(m[1])
	if q == "" {
		return "", false
	}
	return q, true
}

// UserID finds the first hexadecimal-or-hyphen token of length >= 8,
// optionally preceded by "audit user"/"audit entity".
func UserID(text string) (string, bool) {
	m := userIDRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
