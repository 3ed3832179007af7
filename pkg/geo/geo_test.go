package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatherly/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Service: "test"})
}

func TestLookupCountry(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantOK   bool
	}{
		{
			name:     "by code",
			input:    "us",
			wantCode: "US",
			wantOK:   true,
		},
		{
			name:     "by name",
			input:    "United Kingdom",
			wantCode: "GB",
			wantOK:   true,
		},
		{
			name:     "by alias",
			input:    "UK",
			wantCode: "GB",
			wantOK:   true,
		},
		{
			name:   "unknown",
			input:  "Atlantis",
			wantOK: false,
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupCountry(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("LookupCountry(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Code != tt.wantCode {
				t.Errorf("LookupCountry(%q) code = %q, want %q", tt.input, got.Code, tt.wantCode)
			}
		})
	}
}

func TestCountryFromPlace(t *testing.T) {
	tests := []struct {
		name     string
		place    string
		wantCode string
		wantOK   bool
	}{
		{
			name:     "trailing country name",
			place:    "Paris, France",
			wantCode: "FR",
			wantOK:   true,
		},
		{
			name:     "trailing country code",
			place:    "Tel Aviv, IL",
			wantCode: "IL",
			wantOK:   true,
		},
		{
			name:   "city only",
			place:  "Springfield",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CountryFromPlace(tt.place)
			if ok != tt.wantOK {
				t.Fatalf("CountryFromPlace(%q) ok = %v, want %v", tt.place, ok, tt.wantOK)
			}
			if ok && got.Code != tt.wantCode {
				t.Errorf("CountryFromPlace(%q) code = %q, want %q", tt.place, got.Code, tt.wantCode)
			}
		})
	}
}

func TestParseCoords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{name: "valid", input: "37.7749,-122.4194", wantOK: true},
		{name: "with spaces", input: " 37.7749 , -122.4194 ", wantOK: true},
		{name: "latitude out of range", input: "91,0", wantOK: false},
		{name: "longitude out of range", input: "0,181", wantOK: false},
		{name: "not numbers", input: "san,francisco", wantOK: false},
		{name: "single value", input: "37.7749", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := ParseCoords(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ParseCoords(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
		})
	}
}

func TestResolveCountryFromCoords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "" || r.URL.Query().Get("longitude") == "" {
			t.Errorf("missing coordinates in query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(reverseGeocodeResponse{CountryName: "United States", CountryCode: "US"})
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, 2*time.Second, testLogger())
	got := resolver.ResolveCountry(context.Background(), "37.7749,-122.4194", "")
	if got != "United States" {
		t.Errorf("ResolveCountry() = %q, want %q", got, "United States")
	}
}

func TestResolveCountryFallsBackToCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, 2*time.Second, testLogger())

	got := resolver.ResolveCountry(context.Background(), "37.7749,-122.4194", "Lyon, France")
	if got != "France" {
		t.Errorf("ResolveCountry() with failing geocoder = %q, want %q", got, "France")
	}
}

func TestResolveCountryNothingKnown(t *testing.T) {
	resolver := NewResolver("", 2*time.Second, testLogger())

	got := resolver.ResolveCountry(context.Background(), "", "Springfield")
	if got != "" {
		t.Errorf("ResolveCountry() = %q, want empty string", got)
	}
}
