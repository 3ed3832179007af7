package region

import "testing"

func TestDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "collapses runs of whitespace",
			input: "  san   francisco ",
			want:  "San Francisco",
		},
		{
			name:  "hyphen segments title-cased independently",
			input: "san-francisco bay",
			want:  "San-Francisco Bay",
		},
		{
			name:  "already canonical",
			input: "Portland",
			want:  "Portland",
		},
		{
			name:  "uppercase input",
			input: "NEW YORK",
			want:  "New York",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   \t ",
			want:  "",
		},
		{
			name:  "non-string input",
			input: 12,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Display(tt.input)
			if got != tt.want {
				t.Errorf("Display(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "punctuation collapsed to single hyphens",
			input: "San Francisco, CA!",
			want:  "san-francisco-ca",
		},
		{
			name:  "leading and trailing junk trimmed",
			input: "  --Portland-- ",
			want:  "portland",
		},
		{
			name:  "whitespace runs",
			input: "new   york",
			want:  "new-york",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "non-string input",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.input)
			if got != tt.want {
				t.Errorf("Key(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{"San Francisco, CA!", "portland", "", "a--b  c", "Über-Straße 9"}
	for _, input := range inputs {
		once := Key(input)
		twice := Key(once)
		if once != twice {
			t.Errorf("Key not idempotent for %q: Key=%q, Key(Key)=%q", input, once, twice)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		stored     string
		memberCity string
		hostCity   string
		country    string
		want       string
	}{
		{
			name:   "stored region wins",
			stored: "Bay Area",
			want:   "Bay Area",
		},
		{
			name:       "member city before host city",
			memberCity: "Oakland",
			hostCity:   "Berkeley",
			want:       "Oakland",
		},
		{
			name:     "host city before country",
			hostCity: "Berkeley",
			country:  "US",
			want:     "Berkeley",
		},
		{
			name:    "country code as last resort",
			country: "US",
			want:    "US",
		},
		{
			name:    "blank stored region skipped",
			stored:  "   ",
			country: "United States",
			want:    "United States",
		},
		{
			name: "nothing known",
			want: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.stored, tt.memberCity, tt.hostCity, tt.country)
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}
