package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gatherly/internal/leads/mapper"
	"gatherly/internal/leads/repository"
	"gatherly/internal/leads/validator"
	"gatherly/pkg/analytics"
	"gatherly/pkg/config"
	apperrors "gatherly/pkg/errors"
	"gatherly/pkg/geo"
	"gatherly/pkg/mailer"
	"gatherly/pkg/model"
	"gatherly/pkg/region"
)

// DraftInput is one autosave call from the questionnaire client.
type DraftInput struct {
	Role            string         `json:"role"`
	DraftID         string         `json:"draftId"`
	Email           string         `json:"email"`
	QuestionVersion string         `json:"questionVersion"`
	SessionID       string         `json:"sessionId"`
	Source          string         `json:"source"`
	Responses       map[string]any `json:"responses"`
}

type DraftResult struct {
	DraftID   string       `json:"draftId"`
	Status    model.Status `json:"status"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SubmissionInput is a final one-shot submission.
type SubmissionInput struct {
	Role            string         `json:"role"`
	Email           string         `json:"email"`
	QuestionVersion string         `json:"questionVersion"`
	SessionID       string         `json:"sessionId"`
	Source          string         `json:"source"`
	Responses       map[string]any `json:"responses"`
}

// ReportRow is one lead as it appears in admin reporting, with the
// region derived at read time.
type ReportRow struct {
	ID          string          `json:"id"`
	Role        model.Role      `json:"role"`
	Status      model.Status    `json:"status"`
	Email       string          `json:"email"`
	Country     string          `json:"country"`
	Region      string          `json:"region"`
	RegionKey   string          `json:"regionKey"`
	Responses   model.Responses `json:"responses"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty"`
}

type Report struct {
	Rows          []ReportRow      `json:"rows"`
	Total         int64            `json:"total"`
	Drafts        int64            `json:"drafts"`
	Submitted     int64            `json:"submitted"`
	Members       int64            `json:"members"`
	Hosts         int64            `json:"hosts"`
	RegionCounts  map[string]int64 `json:"regionCounts"`
	ExcludedCount int              `json:"excludedCount"`
}

type LeadService interface {
	SaveDraft(ctx context.Context, input DraftInput) (*DraftResult, error)
	SubmitLead(ctx context.Context, input SubmissionInput) (*model.Lead, error)
	Report(ctx context.Context, limit int, offset int64) (*Report, error)
	Reset(ctx context.Context) (int64, error)
}

type leadService struct {
	repo      repository.LeadRepository
	validator *validator.LeadValidator
	geo       *geo.Resolver
	sender    mailer.Sender
	events    analytics.Publisher
	cfg       *config.Config
}

func NewLeadService(
	repo repository.LeadRepository,
	leadValidator *validator.LeadValidator,
	geoResolver *geo.Resolver,
	sender mailer.Sender,
	events analytics.Publisher,
	cfg *config.Config,
) LeadService {
	return &leadService{
		repo:      repo,
		validator: leadValidator,
		geo:       geoResolver,
		sender:    sender,
		events:    events,
		cfg:       cfg,
	}
}

// SaveDraft upserts one autosave, keyed by (draftId, role). Drafts are
// stored as-is after normalization; completeness is only checked at
// submission time.
func (s *leadService) SaveDraft(ctx context.Context, input DraftInput) (*DraftResult, error) {
	role := model.Role(strings.TrimSpace(input.Role))

	if !s.cfg.DraftsEnabled {
		s.cfg.Log.Info("draft save rejected, drafts disabled", "role", role)
		return nil, apperrors.DraftsDisabled(string(role))
	}

	if !role.Valid() {
		return nil, apperrors.InvalidInput("role must be either member or host")
	}

	email := strings.TrimSpace(input.Email)
	if email != "" && !validEmailShape(email) {
		return nil, apperrors.InvalidInput("email address is malformed")
	}

	draftID := strings.TrimSpace(input.DraftID)
	if draftID == "" {
		draftID = uuid.New().String()
	}

	questionVersion := strings.TrimSpace(input.QuestionVersion)
	if questionVersion == "" {
		questionVersion = s.cfg.DefaultQuestionVersion
	}

	lead := &model.Lead{
		Role:            role,
		Status:          model.StatusDraft,
		DraftID:         draftID,
		Responses:       mapper.NormalizeLeadResponses(role, input.Responses),
		QuestionVersion: questionVersion,
		Email:           email,
		Source:          strings.TrimSpace(input.Source),
		SessionID:       strings.TrimSpace(input.SessionID),
	}

	if err := s.validator.ValidateLead(lead); err != nil {
		return nil, apperrors.Validation("lead failed validation", map[string]any{
			"error": err.Error(),
		})
	}

	saved, err := s.repo.UpsertDraft(ctx, lead)
	if err != nil {
		s.cfg.Log.Error("Failed to save draft",
			"draft_id", draftID,
			"role", role,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to save draft", err)
	}

	if err := s.events.Publish(ctx, analytics.Event{
		Type:    analytics.EventDraftSaved,
		DraftID: saved.DraftID,
		Role:    string(saved.Role),
		Source:  saved.Source,
	}); err != nil {
		s.cfg.Log.Warn("failed to publish draft event", "draft_id", saved.DraftID, "error", err)
	}

	s.cfg.Log.Info("Draft saved",
		"draft_id", saved.DraftID,
		"role", saved.Role,
		"question_version", saved.QuestionVersion,
	)

	return &DraftResult{
		DraftID:   saved.DraftID,
		Status:    saved.Status,
		UpdatedAt: saved.UpdatedAt,
	}, nil
}

// SubmitLead creates a submitted lead directly, bypassing the draft
// phase. Country is resolved best-effort before persistence; the
// welcome email runs as a detached effect whose failure never fails
// the submission. Completeness is not checked here: incomplete
// submissions persist and are filtered at reporting time instead.
func (s *leadService) SubmitLead(ctx context.Context, input SubmissionInput) (*model.Lead, error) {
	role := model.Role(strings.TrimSpace(input.Role))
	if !role.Valid() {
		return nil, apperrors.InvalidInput("role must be either member or host")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperrors.InvalidInput("email address is required")
	}
	if !validEmailShape(email) {
		return nil, apperrors.InvalidInput("email address is malformed")
	}

	questionVersion := strings.TrimSpace(input.QuestionVersion)
	if questionVersion == "" {
		questionVersion = s.cfg.DefaultQuestionVersion
	}

	responses := mapper.NormalizeLeadResponses(role, input.Responses)
	country := s.geo.ResolveCountry(ctx, responses.LocationCoords(), responses.LocationCity())

	now := time.Now().UTC().Truncate(time.Millisecond)
	lead := &model.Lead{
		Role:            role,
		Status:          model.StatusSubmitted,
		Responses:       responses,
		QuestionVersion: questionVersion,
		Country:         country,
		Email:           email,
		Source:          strings.TrimSpace(input.Source),
		SessionID:       strings.TrimSpace(input.SessionID),
		SubmittedAt:     &now,
	}
	lead.SetRegion(region.Resolve("", memberCity(responses), hostCity(responses), country))

	if err := s.validator.ValidateLead(lead); err != nil {
		return nil, apperrors.Validation("lead failed validation", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Insert(ctx, lead); err != nil {
		s.cfg.Log.Error("Failed to create lead",
			"role", role,
			"email", email,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create lead", err)
	}

	s.cfg.Log.Info("Lead submitted",
		"id", lead.ID,
		"role", lead.Role,
		"region_key", lead.RegionKey,
		"country", lead.Country,
	)

	go s.postSubmitEffects(*lead)

	return lead, nil
}

// postSubmitEffects runs the detached side effects of a submission:
// the best-effort welcome email and the analytics event. It is fired
// on its own goroutine with its own context; the caller's success
// path never waits on it.
func (s *leadService) postSubmitEffects(lead model.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, analytics.Event{
		Type:      analytics.EventLeadSubmitted,
		LeadID:    lead.ID,
		Role:      string(lead.Role),
		Source:    lead.Source,
		RegionKey: lead.RegionKey,
	}); err != nil {
		s.cfg.Log.Warn("failed to publish submission event", "id", lead.ID, "error", err)
	}

	if s.sender == nil {
		return
	}

	_, err := s.sender.Send(ctx, mailer.Message{
		To:      lead.Email,
		Subject: "Welcome to Gatherly",
		Text:    "Thanks for signing up. We'll be in touch as soon as we launch in your area.",
	})
	if err != nil {
		s.cfg.Log.Warn("welcome email send failed",
			"id", lead.ID,
			"email", lead.Email,
			"error", err,
		)
		return
	}

	if err := s.repo.MarkWelcomeEmailSent(ctx, lead.ID, time.Now().UTC()); err != nil {
		s.cfg.Log.Warn("failed to record welcome email timestamp", "id", lead.ID, "error", err)
	}
}

// Report builds the admin aggregation. Reads run concurrently and the
// report fails if any of them fails. Stored rows are re-normalized and
// validator-filtered so incomplete drafts and corrupt legacy records
// are silently excluded rather than erroring the whole report.
func (s *leadService) Report(ctx context.Context, limit int, offset int64) (*Report, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		leads                   []*model.Lead
		total, drafts, subCount int64
		members, hosts          int64
		errFind, errTotal       error
		errDrafts, errSubmitted error
		errMembers, errHosts    error
	)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		leads, errFind = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, errTotal = s.repo.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		drafts, errDrafts = s.repo.CountByStatus(ctx, model.StatusDraft)
	}()
	go func() {
		defer wg.Done()
		subCount, errSubmitted = s.repo.CountByStatus(ctx, model.StatusSubmitted)
	}()
	go func() {
		defer wg.Done()
		members, errMembers = s.repo.CountByRole(ctx, model.RoleMember)
	}()
	go func() {
		defer wg.Done()
		hosts, errHosts = s.repo.CountByRole(ctx, model.RoleHost)
	}()
	wg.Wait()

	for _, err := range []error{errFind, errTotal, errDrafts, errSubmitted, errMembers, errHosts} {
		if err != nil {
			s.cfg.Log.Error("Failed to build lead report", "error", err)
			return nil, apperrors.Internal("Failed to build lead report", err)
		}
	}

	report := &Report{
		Rows:         []ReportRow{},
		Total:        total,
		Drafts:       drafts,
		Submitted:    subCount,
		Members:      members,
		Hosts:        hosts,
		RegionCounts: map[string]int64{},
	}

	for _, lead := range leads {
		responses := renormalizeStored(lead)
		if reason := validator.SubmissionReason(lead.Role, responses); reason != "" {
			report.ExcludedCount++
			continue
		}

		resolved := region.Resolve(lead.Region, memberCity(responses), hostCity(responses), lead.Country)
		key := region.Key(resolved)
		report.RegionCounts[key]++
		report.Rows = append(report.Rows, ReportRow{
			ID:          lead.ID,
			Role:        lead.Role,
			Status:      lead.Status,
			Email:       lead.Email,
			Country:     lead.Country,
			Region:      resolved,
			RegionKey:   key,
			Responses:   responses,
			SubmittedAt: lead.SubmittedAt,
		})
	}

	return report, nil
}

// Reset is the administrative bulk delete.
func (s *leadService) Reset(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to reset leads", "error", err)
		return 0, apperrors.Internal("Failed to reset leads", err)
	}

	if err := s.events.Publish(ctx, analytics.Event{Type: analytics.EventLeadsReset}); err != nil {
		s.cfg.Log.Warn("failed to publish reset event", "error", err)
	}

	s.cfg.Log.Info("Leads reset", "deleted", deleted)
	return deleted, nil
}

// renormalizeStored runs stored responses back through the normalizer.
// Rows written by older versions of the product may carry legacy
// shapes or missing sides; the round-trip guarantees the canonical
// envelope before validation.
func renormalizeStored(lead *model.Lead) model.Responses {
	raw, err := json.Marshal(lead.Responses)
	if err != nil {
		return model.Responses{}
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return model.Responses{}
	}
	return mapper.NormalizeLeadResponses(lead.Role, asMap)
}

func memberCity(r model.Responses) string {
	if r.Member != nil {
		return r.Member.LocationCity
	}
	return ""
}

func hostCity(r model.Responses) string {
	if r.Host != nil {
		return r.Host.LocationCity
	}
	return ""
}

// validEmailShape is the basic email gate: an "@" with something in
// front of it and a domain containing an inner dot.
func validEmailShape(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
