// Package geo resolves a best-effort country for a lead from either a
// "lat,lng" coordinate string or a free-text city. Resolution is
// network-dependent and never required to succeed: every failure path
// yields an empty string, which callers store as-is.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gatherly/pkg/logger"
)

type Resolver struct {
	endpoint string
	client   *http.Client
	log      *logger.Logger
}

func NewResolver(endpoint string, timeout time.Duration, log *logger.Logger) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// ResolveCountry returns the country name for the given coordinates or
// city, or "" when nothing can be determined. Coordinates take
// precedence; the city path is table-only and never hits the network.
func (r *Resolver) ResolveCountry(ctx context.Context, coords, city string) string {
	if lat, lng, ok := ParseCoords(coords); ok {
		if name := r.reverseGeocode(ctx, lat, lng); name != "" {
			return name
		}
	}

	if country, ok := CountryFromPlace(city); ok {
		return country.Name
	}

	return ""
}

// ParseCoords parses a "lat,lng" string. Values outside the valid
// latitude/longitude ranges are rejected.
func ParseCoords(coords string) (lat, lng float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(coords), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

type reverseGeocodeResponse struct {
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
}

func (r *Resolver) reverseGeocode(ctx context.Context, lat, lng float64) string {
	if r.endpoint == "" {
		return ""
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		r.log.Warn("failed to build reverse geocode request", "error", err)
		return ""
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Warn("reverse geocode request failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Warn("reverse geocode returned non-OK status", "status", resp.StatusCode)
		return ""
	}

	var body reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		r.log.Warn("failed to decode reverse geocode response", "error", err)
		return ""
	}

	if body.CountryName != "" {
		return body.CountryName
	}
	if country, ok := Countries[strings.ToUpper(body.CountryCode)]; ok {
		return country.Name
	}
	return body.CountryCode
}

// String renders coordinates back into the stored "lat,lng" form.
func String(lat, lng float64) string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64),
	)
}
