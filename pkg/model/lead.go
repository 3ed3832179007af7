package model

import (
	"time"

	"gatherly/pkg/region"
)

type Role string

const (
	RoleMember Role = "member"
	RoleHost   Role = "host"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleHost
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// MemberResponses is the canonical member questionnaire shape. Every
// field is always present after normalization; missing answers are
// empty strings or empty slices, never absent keys.
type MemberResponses struct {
	LocationCity        string   `bson:"locationCity" json:"locationCity"`
	LocationCoords      string   `bson:"locationCoords" json:"locationCoords"`
	Interests           []string `bson:"interests" json:"interests"`
	InterestsOther      string   `bson:"interestsOther" json:"interestsOther"`
	InterestThemes      []string `bson:"interestThemes" json:"interestThemes"`
	Motivations         []string `bson:"motivations" json:"motivations"`
	MotivationsOther    string   `bson:"motivationsOther" json:"motivationsOther"`
	ExperiencesPerMonth string   `bson:"experiencesPerMonth" json:"experiencesPerMonth"`
	PricingSelection    string   `bson:"pricingSelection" json:"pricingSelection"`
}

// HostResponses is the canonical host questionnaire shape.
type HostResponses struct {
	LocationCity       string   `bson:"locationCity" json:"locationCity"`
	LocationCoords     string   `bson:"locationCoords" json:"locationCoords"`
	Experience         string   `bson:"experience" json:"experience"`
	SessionsPerMonth   string   `bson:"sessionsPerMonth" json:"sessionsPerMonth"`
	BookingsPerSession string   `bson:"bookingsPerSession" json:"bookingsPerSession"`
	RateAmount         string   `bson:"rateAmount" json:"rateAmount"`
	RateMin            string   `bson:"rateMin" json:"rateMin"`
	RateMax            string   `bson:"rateMax" json:"rateMax"`
	Tools              []string `bson:"tools" json:"tools"`
	ToolsOther         string   `bson:"toolsOther" json:"toolsOther"`
	Features           []string `bson:"features" json:"features"`
	FeaturesOther      string   `bson:"featuresOther" json:"featuresOther"`
}

// Responses is the canonical envelope: exactly one side is populated,
// selected by the lead's role; the other is nil.
type Responses struct {
	Member *MemberResponses `bson:"member" json:"member"`
	Host   *HostResponses   `bson:"host" json:"host"`
}

// LocationCity returns the city of whichever side is populated.
func (r Responses) LocationCity() string {
	if r.Member != nil {
		return r.Member.LocationCity
	}
	if r.Host != nil {
		return r.Host.LocationCity
	}
	return ""
}

// LocationCoords returns the coordinates of whichever side is populated.
func (r Responses) LocationCoords() string {
	if r.Member != nil {
		return r.Member.LocationCoords
	}
	if r.Host != nil {
		return r.Host.LocationCoords
	}
	return ""
}

// Lead is one questionnaire submission or in-progress draft.
type Lead struct {
	ID                 string     `bson:"_id,omitempty" json:"id,omitempty"`
	Role               Role       `bson:"role" json:"role" validate:"required,oneof=member host"`
	Status             Status     `bson:"status" json:"status"`
	DraftID            string     `bson:"draft_id,omitempty" json:"draftId,omitempty"`
	Responses          Responses  `bson:"responses" json:"responses"`
	QuestionVersion    string     `bson:"question_version" json:"questionVersion"`
	Country            string     `bson:"country" json:"country"`
	Region             string     `bson:"region" json:"region"`
	RegionKey          string     `bson:"region_key" json:"regionKey"`
	Email              string     `bson:"email" json:"email"`
	Source             string     `bson:"source" json:"source"`
	SessionID          string     `bson:"session_id,omitempty" json:"sessionId,omitempty"`
	SubmittedAt        *time.Time `bson:"submitted_at,omitempty" json:"submittedAt,omitempty"`
	WelcomeEmailSentAt *time.Time `bson:"welcome_email_sent_at,omitempty" json:"welcomeEmailSentAt,omitempty"`
	CreatedAt          time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updatedAt"`
}

// SetRegion stores a region together with its slug key. Region and
// RegionKey are never written independently.
func (l *Lead) SetRegion(value string) {
	l.Region = value
	l.RegionKey = region.Key(value)
}
