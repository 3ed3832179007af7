package geo

import "strings"

type Country struct {
	Code    string   // ISO 3166-1 alpha-2 country code (e.g., "US", "FR")
	Name    string   // Human-readable country name
	Aliases []string // Common free-text spellings seen in responses
}

var Countries = map[string]Country{
	"US": {Code: "US", Name: "United States", Aliases: []string{"USA", "United States of America", "America"}},
	"CA": {Code: "CA", Name: "Canada"},
	"GB": {Code: "GB", Name: "United Kingdom", Aliases: []string{"UK", "England", "Great Britain", "Scotland", "Wales"}},
	"FR": {Code: "FR", Name: "France"},
	"DE": {Code: "DE", Name: "Germany", Aliases: []string{"Deutschland"}},
	"ES": {Code: "ES", Name: "Spain", Aliases: []string{"España"}},
	"IT": {Code: "IT", Name: "Italy", Aliases: []string{"Italia"}},
	"NL": {Code: "NL", Name: "Netherlands", Aliases: []string{"Holland"}},
	"AU": {Code: "AU", Name: "Australia"},
	"NZ": {Code: "NZ", Name: "New Zealand"},
	"IL": {Code: "IL", Name: "Israel"},
	"IN": {Code: "IN", Name: "India"},
	"BR": {Code: "BR", Name: "Brazil", Aliases: []string{"Brasil"}},
	"MX": {Code: "MX", Name: "Mexico", Aliases: []string{"México"}},
	"JP": {Code: "JP", Name: "Japan"},
}

// LookupCountry matches a free-text value against the known country
// codes, names, and aliases, case-insensitively. The second return
// value reports whether a match was found.
func LookupCountry(value string) (Country, bool) {
	needle := strings.TrimSpace(value)
	if needle == "" {
		return Country{}, false
	}

	for _, country := range Countries {
		if strings.EqualFold(needle, country.Code) || strings.EqualFold(needle, country.Name) {
			return country, true
		}
		for _, alias := range country.Aliases {
			if strings.EqualFold(needle, alias) {
				return country, true
			}
		}
	}
	return Country{}, false
}

// CountryFromPlace scans a free-text place string (e.g. "Paris, France")
// for a trailing country name or code. Returns the empty Country when
// nothing matches.
func CountryFromPlace(place string) (Country, bool) {
	if country, ok := LookupCountry(place); ok {
		return country, true
	}

	parts := strings.Split(place, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if country, ok := LookupCountry(parts[i]); ok {
			return country, true
		}
	}
	return Country{}, false
}
