// Package validator gates lead submissions. Rules run in a fixed
// order and short-circuit on the first failure, producing a single
// human-readable reason. Drafts are never validated; the same checks
// also filter incomplete historical records out of admin reporting.
package validator

import (
	"github.com/go-playground/validator/v10"

	"gatherly/pkg/model"
)

// Sentinel answers in multi-select fields that require a free-text
// companion. The strings match the questionnaire wording exactly.
const (
	SentinelInterestsOther   = "Other / Make a Suggestion -"
	SentinelMotivationsOther = "Other:"
	SentinelToolsOther       = "Other"
)

type LeadValidator struct {
	validate *validator.Validate
}

func NewLeadValidator() *LeadValidator {
	return &LeadValidator{validate: validator.New()}
}

// ValidateLead runs struct-level checks (role enum, email shape tags)
// on a lead document before persistence.
func (v *LeadValidator) ValidateLead(lead *model.Lead) error {
	return v.validate.Struct(lead)
}

// SubmissionReason reports why a lead's responses are incomplete for
// submission, or "" when they pass. Only the side matching the role is
// inspected; a missing side is itself a failure.
func SubmissionReason(role model.Role, responses model.Responses) string {
	switch role {
	case model.RoleMember:
		return memberReason(responses.Member)
	case model.RoleHost:
		return hostReason(responses.Host)
	}
	return "unknown role"
}

func memberReason(r *model.MemberResponses) string {
	if r == nil {
		return "member responses are missing"
	}
	if r.LocationCity == "" && r.LocationCoords == "" {
		return "location is required (city or coordinates)"
	}
	if len(r.Interests) == 0 {
		return "at least one interest is required"
	}
	if contains(r.Interests, SentinelInterestsOther) && r.InterestsOther == "" {
		return "the Other interest suggestion needs a description"
	}
	if len(r.Motivations) == 0 {
		return "at least one motivation is required"
	}
	if contains(r.Motivations, SentinelMotivationsOther) && r.MotivationsOther == "" {
		return "the Other motivation needs a description"
	}
	if r.ExperiencesPerMonth == "" {
		return "experiences per month is required"
	}
	if r.PricingSelection == "" {
		return "a pricing selection is required"
	}
	return ""
}

func hostReason(r *model.HostResponses) string {
	if r == nil {
		return "host responses are missing"
	}
	if r.LocationCity == "" && r.LocationCoords == "" {
		return "location is required (city or coordinates)"
	}
	if r.Experience == "" {
		return "experience is required"
	}
	if r.SessionsPerMonth == "" || r.BookingsPerSession == "" {
		return "sessions per month and bookings per session are required"
	}
	if r.RateAmount == "" && (r.RateMin == "" || r.RateMax == "") {
		return "a rate is required (single amount or a min and max)"
	}
	if len(r.Tools) == 0 {
		return "at least one tool is required"
	}
	if contains(r.Tools, SentinelToolsOther) && r.ToolsOther == "" {
		return "the Other tool needs a description"
	}
	if len(r.Features) == 0 && r.FeaturesOther == "" {
		return "at least one feature or a feature suggestion is required"
	}
	return ""
}

func contains(items []string, needle string) bool {
	for _, item := range items {
		if item == needle {
			return true
		}
	}
	return false
}
