// Package mapper translates raw questionnaire payloads into the
// canonical per-role response shapes.
//
// Three historical payload shapes are accepted:
//
//  1. current: already nested under a "member"/"host" sub-key, with
//     canonical field names;
//  2. flat: canonical field names at the top level;
//  3. legacy: superseded field names and shapes: a "location"
//     object instead of locationCity/locationCoords, a "rate" string
//     instead of rateAmount, a "rateRange" object instead of
//     rateMin/rateMax, and a "pricingSelections" array instead of a
//     single pricingSelection.
//
// Mapping is pure and total: any input, including nil, yields a fully
// populated shape with empty strings and empty slices for missing
// answers. Canonical names win over legacy names whenever the
// canonical value is non-empty after sanitization.
package mapper

import (
	"gatherly/pkg/geo"
	"gatherly/pkg/model"
	"gatherly/pkg/region"
	"gatherly/pkg/sanitizer"
)

// MemberFromRaw extracts the canonical member shape from an
// arbitrarily shaped payload.
func MemberFromRaw(raw map[string]any) *model.MemberResponses {
	city, coords := extractLocation(raw)

	return &model.MemberResponses{
		LocationCity:        city,
		LocationCoords:      coords,
		Interests:           sanitizer.Array(raw["interests"]),
		InterestsOther:      sanitizer.Text(raw["interestsOther"]),
		InterestThemes:      sanitizer.Array(raw["interestThemes"]),
		Motivations:         sanitizer.Array(raw["motivations"]),
		MotivationsOther:    sanitizer.Text(raw["motivationsOther"]),
		ExperiencesPerMonth: sanitizer.Text(raw["experiencesPerMonth"]),
		PricingSelection:    extractPricingSelection(raw),
	}
}

// HostFromRaw extracts the canonical host shape from an arbitrarily
// shaped payload.
func HostFromRaw(raw map[string]any) *model.HostResponses {
	city, coords := extractLocation(raw)
	rateAmount, rateMin, rateMax := extractRate(raw)

	return &model.HostResponses{
		LocationCity:       city,
		LocationCoords:     coords,
		Experience:         sanitizer.Text(raw["experience"]),
		SessionsPerMonth:   sanitizer.Text(raw["sessionsPerMonth"]),
		BookingsPerSession: sanitizer.Text(raw["bookingsPerSession"]),
		RateAmount:         rateAmount,
		RateMin:            rateMin,
		RateMax:            rateMax,
		Tools:              sanitizer.Array(raw["tools"]),
		ToolsOther:         sanitizer.Text(raw["toolsOther"]),
		Features:           sanitizer.Array(raw["features"]),
		FeaturesOther:      sanitizer.Text(raw["featuresOther"]),
	}
}

// extractLocation resolves the location pair. Canonical locationCity
// and locationCoords win; the legacy "location" object with city and
// coords sub-fields is the fallback. The city always goes through
// region canonicalization regardless of which shape supplied it.
func extractLocation(raw map[string]any) (city, coords string) {
	city = sanitizer.Text(raw["locationCity"])
	coords = coordsText(raw["locationCoords"])

	if legacy := sanitizer.Map(raw["location"]); legacy != nil {
		if city == "" {
			city = sanitizer.Text(legacy["city"])
		}
		if coords == "" {
			coords = coordsText(legacy["coords"])
		}
	}

	return region.Display(city), coords
}

// coordsText accepts coordinates either as a "lat,lng" string or as a
// legacy {lat, lng} object and renders the stored string form.
func coordsText(value any) string {
	if s := sanitizer.Text(value); s != "" {
		return s
	}

	obj := sanitizer.Map(value)
	if obj == nil {
		return ""
	}
	lat, okLat := obj["lat"].(float64)
	lng, okLng := obj["lng"].(float64)
	if !okLat || !okLng {
		return ""
	}
	return geo.String(lat, lng)
}

// extractRate resolves the three rate fields. Canonical names win;
// the legacy single "rate" string backs rateAmount and the legacy
// "rateRange" object backs rateMin/rateMax.
func extractRate(raw map[string]any) (amount, min, max string) {
	amount = sanitizer.Text(raw["rateAmount"])
	if amount == "" {
		amount = sanitizer.Text(raw["rate"])
	}

	min = sanitizer.Text(raw["rateMin"])
	max = sanitizer.Text(raw["rateMax"])
	if legacy := sanitizer.Map(raw["rateRange"]); legacy != nil {
		if min == "" {
			min = sanitizer.Text(legacy["min"])
		}
		if max == "" {
			max = sanitizer.Text(legacy["max"])
		}
	}

	return amount, min, max
}

// extractPricingSelection resolves the singular pricing field, falling
// back to the first element of the legacy pricingSelections array when
// the singular forms are empty.
func extractPricingSelection(raw map[string]any) string {
	if s := sanitizer.Text(raw["pricingSelection"]); s != "" {
		return s
	}
	if selections := sanitizer.Array(raw["pricingSelections"]); len(selections) > 0 {
		return selections[0]
	}
	return ""
}
