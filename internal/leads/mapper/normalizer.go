package mapper

import (
	"gatherly/pkg/model"
	"gatherly/pkg/sanitizer"
)

// NormalizeLeadResponses produces the canonical {member, host}
// envelope for a role from a raw payload. If the payload carries the
// role's sub-key, mapping runs against that nested object; otherwise
// the payload itself is treated as the flat legacy shape. Exactly one
// side of the envelope is populated, selected by role.
//
// Roles outside {member, host} are a caller contract violation and
// must be rejected upstream; this function returns an empty envelope
// for them rather than guessing.
func NormalizeLeadResponses(role model.Role, raw map[string]any) model.Responses {
	switch role {
	case model.RoleMember:
		src := raw
		if nested := sanitizer.Map(raw["member"]); nested != nil {
			src = nested
		}
		return model.Responses{Member: MemberFromRaw(src)}
	case model.RoleHost:
		src := raw
		if nested := sanitizer.Map(raw["host"]); nested != nil {
			src = nested
		}
		return model.Responses{Host: HostFromRaw(src)}
	}
	return model.Responses{}
}
