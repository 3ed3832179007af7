// Package region canonicalizes free-text place names into a display
// form and a slug key used for lookups and reporting.
package region

import (
	"regexp"
	"strings"

	"gatherly/pkg/sanitizer"
)

var reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Display canonicalizes a free-text place name for display: whitespace
// is collapsed, then each space-separated token is title-cased, with
// hyphen segments inside a token title-cased independently
// ("san-francisco bay" becomes "San-Francisco Bay"). Non-string or
// blank input yields "".
func Display(value any) string {
	s := sanitizer.CollapseWhitespace(sanitizer.Text(value))
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, word := range words {
		segments := strings.Split(word, "-")
		for j, segment := range segments {
			segments[j] = titleCase(segment)
		}
		words[i] = strings.Join(segments, "-")
	}
	return strings.Join(words, " ")
}

// Key returns the slug form of a place name: lower-case, every run of
// non-alphanumeric characters replaced by a single hyphen, no leading
// or trailing hyphen. Key is idempotent.
func Key(value any) string {
	s := strings.ToLower(sanitizer.CollapseWhitespace(sanitizer.Text(value)))
	if s == "" {
		return ""
	}
	s = reNonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Resolve picks the reporting region for a lead. First non-empty wins:
// the stored region, the member city, the host city, the country, then
// the literal "Unknown". Candidates are expected to already be in
// canonical form; Resolve does not re-case them.
func Resolve(stored, memberCity, hostCity, country string) string {
	for _, candidate := range []string{stored, memberCity, hostCity, country} {
		if s := sanitizer.CollapseWhitespace(candidate); s != "" {
			return s
		}
	}
	return "Unknown"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
