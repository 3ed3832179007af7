package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gatherly/internal/leads/repository"
	"gatherly/internal/leads/validator"
	"gatherly/pkg/analytics"
	"gatherly/pkg/config"
	apperrors "gatherly/pkg/errors"
	"gatherly/pkg/geo"
	"gatherly/pkg/logger"
	"gatherly/pkg/mailer"
	"gatherly/pkg/model"
)

type stubRepo struct {
	mu        sync.Mutex
	drafts    map[string]*model.Lead
	inserted  []*model.Lead
	emailSent map[string]time.Time
	failReads bool
	upserts   int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		drafts:    map[string]*model.Lead{},
		emailSent: map[string]time.Time{},
	}
}

func draftKey(draftID string, role model.Role) string {
	return draftID + "/" + string(role)
}

func (r *stubRepo) EnsureIndexes(context.Context) error { return nil }

func (r *stubRepo) UpsertDraft(_ context.Context, lead *model.Lead) (*model.Lead, error) {
	r.upserts++
	key := draftKey(lead.DraftID, lead.Role)
	now := time.Now().UTC()

	existing, ok := r.drafts[key]
	if !ok {
		saved := *lead
		saved.Status = model.StatusDraft
		saved.CreatedAt = now
		saved.UpdatedAt = now
		if saved.Email == "" {
			saved.Email = fmt.Sprintf("draft-%s@drafts.local", lead.DraftID)
		}
		r.drafts[key] = &saved
		return &saved, nil
	}

	existing.Responses = lead.Responses
	existing.Source = lead.Source
	existing.QuestionVersion = lead.QuestionVersion
	existing.SessionID = lead.SessionID
	if lead.Email != "" {
		existing.Email = lead.Email
	}
	existing.UpdatedAt = now
	return existing, nil
}

func (r *stubRepo) Insert(_ context.Context, lead *model.Lead) error {
	lead.ID = fmt.Sprintf("lead-%d", len(r.inserted)+1)
	r.inserted = append(r.inserted, lead)
	return nil
}

func (r *stubRepo) FindByDraftKey(_ context.Context, draftID string, role model.Role) (*model.Lead, error) {
	if lead, ok := r.drafts[draftKey(draftID, role)]; ok {
		return lead, nil
	}
	return nil, errors.New("not found")
}

func (r *stubRepo) FindAll(context.Context, int, int64) ([]*model.Lead, error) {
	if r.failReads {
		return nil, errors.New("storage unavailable")
	}
	var out []*model.Lead
	for _, lead := range r.drafts {
		out = append(out, lead)
	}
	out = append(out, r.inserted...)
	return out, nil
}

func (r *stubRepo) Count(context.Context) (int64, error) {
	if r.failReads {
		return 0, errors.New("storage unavailable")
	}
	return int64(len(r.drafts) + len(r.inserted)), nil
}

func (r *stubRepo) CountByStatus(_ context.Context, status model.Status) (int64, error) {
	if r.failReads {
		return 0, errors.New("storage unavailable")
	}
	if status == model.StatusDraft {
		return int64(len(r.drafts)), nil
	}
	return int64(len(r.inserted)), nil
}

func (r *stubRepo) CountByRole(_ context.Context, role model.Role) (int64, error) {
	if r.failReads {
		return 0, errors.New("storage unavailable")
	}
	var n int64
	for _, lead := range r.drafts {
		if lead.Role == role {
			n++
		}
	}
	for _, lead := range r.inserted {
		if lead.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubRepo) MarkWelcomeEmailSent(_ context.Context, id string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emailSent[id] = sentAt
	return nil
}

func (r *stubRepo) welcomeEmailRecorded(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.emailSent[id]
	return ok
}

func (r *stubRepo) DeleteAll(context.Context) (int64, error) {
	n := int64(len(r.drafts) + len(r.inserted))
	r.drafts = map[string]*model.Lead{}
	r.inserted = nil
	return n, nil
}

var _ repository.LeadRepository = (*stubRepo)(nil)

type recordingSender struct {
	sent chan mailer.Message
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	s.sent <- msg
	return "delivery-id", nil
}

func testConfig(draftsEnabled bool) *config.Config {
	return &config.Config{
		DraftsEnabled:          draftsEnabled,
		DefaultQuestionVersion: "2026-02-v1",
		ReadTimeout:            5 * time.Second,
		WriteTimeout:           5 * time.Second,
		GeocodeTimeout:         time.Second,
		Log:                    logger.New(logger.Config{Level: "error", Service: "test"}),
	}
}

func newTestService(repo repository.LeadRepository, cfg *config.Config, sender mailer.Sender) LeadService {
	return NewLeadService(
		repo,
		validator.NewLeadValidator(),
		geo.NewResolver("", time.Second, cfg.Log),
		sender,
		analytics.Default(),
		cfg,
	)
}

func memberDraftInput() DraftInput {
	return DraftInput{
		Role:    "member",
		DraftID: "d-1",
		Responses: map[string]any{
			"locationCity": "oakland",
			"interests":    []any{"Hiking"},
		},
	}
}

func TestSaveDraftDisabled(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(false), nil)

	_, err := svc.SaveDraft(context.Background(), memberDraftInput())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeDraftsDisabled {
		t.Fatalf("error code = %s, want %s", appErr.Code, apperrors.CodeDraftsDisabled)
	}
	if appErr.Details["role"] != "member" {
		t.Errorf("disabled condition should carry the role, got %v", appErr.Details)
	}
	if repo.upserts != 0 {
		t.Error("storage should not be touched when drafts are disabled")
	}
}

func TestSaveDraftRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DraftInput)
	}{
		{
			name:   "unknown role",
			mutate: func(in *DraftInput) { in.Role = "admin" },
		},
		{
			name:   "empty role",
			mutate: func(in *DraftInput) { in.Role = "" },
		},
		{
			name:   "email without at sign",
			mutate: func(in *DraftInput) { in.Email = "nobody.example.com" },
		},
		{
			name:   "email without domain dot",
			mutate: func(in *DraftInput) { in.Email = "nobody@example" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubRepo()
			svc := newTestService(repo, testConfig(true), nil)

			input := memberDraftInput()
			tt.mutate(&input)

			_, err := svc.SaveDraft(context.Background(), input)
			if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
				t.Errorf("error = %v, want invalid input", err)
			}
			if repo.upserts != 0 {
				t.Error("storage should not be touched on input rejection")
			}
		})
	}
}

func TestSaveDraftMintsIDAndDefaultsVersion(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	input := memberDraftInput()
	input.DraftID = "  "
	input.QuestionVersion = ""

	result, err := svc.SaveDraft(context.Background(), input)
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if result.DraftID == "" {
		t.Error("a draft id should have been minted")
	}
	if result.Status != model.StatusDraft {
		t.Errorf("status = %s, want draft", result.Status)
	}

	saved, err := repo.FindByDraftKey(context.Background(), result.DraftID, model.RoleMember)
	if err != nil {
		t.Fatalf("draft not stored: %v", err)
	}
	if saved.QuestionVersion != "2026-02-v1" {
		t.Errorf("QuestionVersion = %q, want default", saved.QuestionVersion)
	}
}

func TestSaveDraftUpsertsInPlace(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	first := memberDraftInput()
	if _, err := svc.SaveDraft(context.Background(), first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := memberDraftInput()
	second.Responses = map[string]any{"locationCity": "berkeley"}
	if _, err := svc.SaveDraft(context.Background(), second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(repo.drafts) != 1 {
		t.Fatalf("stored %d drafts for one key, want 1", len(repo.drafts))
	}
	saved, _ := repo.FindByDraftKey(context.Background(), "d-1", model.RoleMember)
	if saved.Responses.Member.LocationCity != "Berkeley" {
		t.Errorf("latest save should win, city = %q", saved.Responses.Member.LocationCity)
	}
}

func TestSaveDraftPlaceholderEmailOnlyOnInsert(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	input := memberDraftInput()
	input.Email = "member@example.com"
	if _, err := svc.SaveDraft(context.Background(), input); err != nil {
		t.Fatalf("save with email: %v", err)
	}

	input.Email = ""
	if _, err := svc.SaveDraft(context.Background(), input); err != nil {
		t.Fatalf("save without email: %v", err)
	}

	saved, _ := repo.FindByDraftKey(context.Background(), "d-1", model.RoleMember)
	if saved.Email != "member@example.com" {
		t.Errorf("email = %q, a later save without email must not clobber it", saved.Email)
	}
}

func TestSubmitLeadRequiresEmailAndRole(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	_, err := svc.SubmitLead(context.Background(), SubmissionInput{Role: "member"})
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("missing email: error = %v, want invalid input", err)
	}

	_, err = svc.SubmitLead(context.Background(), SubmissionInput{Role: "visitor", Email: "a@b.com"})
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("bad role: error = %v, want invalid input", err)
	}
}

func TestSubmitLeadPersistsWithoutCompletenessCheck(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	// Deliberately incomplete responses: the submit path stores them
	// anyway; reporting filters them later.
	lead, err := svc.SubmitLead(context.Background(), SubmissionInput{
		Role:      "member",
		Email:     "member@example.com",
		Responses: map[string]any{"locationCity": "oakland"},
	})
	if err != nil {
		t.Fatalf("SubmitLead() error = %v", err)
	}
	if lead.Status != model.StatusSubmitted {
		t.Errorf("status = %s, want submitted", lead.Status)
	}
	if lead.SubmittedAt == nil {
		t.Error("SubmittedAt not stamped")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d leads, want 1", len(repo.inserted))
	}
}

func TestSubmitLeadRegionConsistency(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	lead, err := svc.SubmitLead(context.Background(), SubmissionInput{
		Role:      "host",
		Email:     "host@example.com",
		Responses: map[string]any{"locationCity": "san  francisco"},
	})
	if err != nil {
		t.Fatalf("SubmitLead() error = %v", err)
	}
	if lead.Region != "San Francisco" {
		t.Errorf("Region = %q, want %q", lead.Region, "San Francisco")
	}
	if lead.RegionKey != "san-francisco" {
		t.Errorf("RegionKey = %q, want %q", lead.RegionKey, "san-francisco")
	}
}

func TestSubmitLeadSendsWelcomeEmailDetached(t *testing.T) {
	repo := newStubRepo()
	sender := &recordingSender{sent: make(chan mailer.Message, 1)}
	svc := newTestService(repo, testConfig(true), sender)

	lead, err := svc.SubmitLead(context.Background(), SubmissionInput{
		Role:      "member",
		Email:     "member@example.com",
		Responses: map[string]any{"locationCity": "oakland"},
	})
	if err != nil {
		t.Fatalf("SubmitLead() error = %v", err)
	}

	select {
	case msg := <-sender.sent:
		if msg.To != "member@example.com" {
			t.Errorf("welcome email to %q", msg.To)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was never attempted")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !repo.welcomeEmailRecorded(lead.ID) {
		if time.Now().After(deadline) {
			t.Fatal("welcome email timestamp never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func submitComplete(t *testing.T, svc LeadService, email string) *model.Lead {
	t.Helper()
	lead, err := svc.SubmitLead(context.Background(), SubmissionInput{
		Role:  "member",
		Email: email,
		Responses: map[string]any{
			"locationCity":        "oakland",
			"interests":           []any{"Hiking"},
			"motivations":         []any{"Community"},
			"experiencesPerMonth": "2-4",
			"pricingSelection":    "$10/mo",
		},
	})
	if err != nil {
		t.Fatalf("SubmitLead() error = %v", err)
	}
	return lead
}

func TestReportFiltersIncompleteRows(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	submitComplete(t, svc, "one@example.com")

	// An incomplete submission persists but must not survive reporting.
	if _, err := svc.SubmitLead(context.Background(), SubmissionInput{
		Role:      "member",
		Email:     "two@example.com",
		Responses: map[string]any{"locationCity": "oakland"},
	}); err != nil {
		t.Fatalf("SubmitLead() error = %v", err)
	}

	report, err := svc.Report(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("report rows = %d, want 1", len(report.Rows))
	}
	if report.ExcludedCount != 1 {
		t.Errorf("excluded = %d, want 1", report.ExcludedCount)
	}
	if report.Total != 2 {
		t.Errorf("total = %d, want 2 (counts are raw)", report.Total)
	}
	if report.Members != 2 || report.Hosts != 0 {
		t.Errorf("role counts = %d/%d, want 2/0", report.Members, report.Hosts)
	}
	if report.RegionCounts["oakland"] != 1 {
		t.Errorf("region counts = %v, want oakland:1", report.RegionCounts)
	}
}

func TestReportFailsWhenAnyReadFails(t *testing.T) {
	repo := newStubRepo()
	repo.failReads = true
	svc := newTestService(repo, testConfig(true), nil)

	if _, err := svc.Report(context.Background(), 10, 0); err == nil {
		t.Fatal("Report() should fail when a storage read fails")
	}
}

func TestReset(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, testConfig(true), nil)

	submitComplete(t, svc, "one@example.com")
	if _, err := svc.SaveDraft(context.Background(), memberDraftInput()); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	deleted, err := svc.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
}
