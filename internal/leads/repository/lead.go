package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	leadserrors "gatherly/internal/leads/errors"
	"gatherly/pkg/config"
	"gatherly/pkg/model"
)

const (
	CollectionName = "Leads"

	draftKeyIndexName = "draft_id_role_unique"
)

type LeadRepository interface {
	EnsureIndexes(ctx context.Context) error
	UpsertDraft(ctx context.Context, lead *model.Lead) (*model.Lead, error)
	Insert(ctx context.Context, lead *model.Lead) error
	FindByDraftKey(ctx context.Context, draftID string, role model.Role) (*model.Lead, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Lead, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.Status) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	MarkWelcomeEmailSent(ctx context.Context, id string, sentAt time.Time) error
	DeleteAll(ctx context.Context) (int64, error)
}

type mongoLeadRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLeadRepository(db *mongo.Database, cfg *config.Config) LeadRepository {
	return &mongoLeadRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoLeadRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureIndexes creates the unique partial index backing the
// (draftId, role) upsert key. The partial filter keeps one-shot
// submissions (no draft id) out of the uniqueness constraint.
func (r *mongoLeadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "draft_id", Value: 1}, {Key: "role", Value: 1}},
		Options: options.Index().
			SetName(draftKeyIndexName).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"draft_id": bson.M{"$type": "string", "$gt": ""},
			}),
	})
	if err != nil {
		return fmt.Errorf("failed to create lead indexes: %w", err)
	}
	return nil
}

// UpsertDraft writes a draft save atomically, keyed by (draftId, role).
// Repeated saves for the same key update in place; concurrent saves are
// last-write-wins at the storage layer. Email is only defaulted to the
// draft placeholder on insert so a later save without an email does not
// clobber one supplied earlier.
func (r *mongoLeadRepository) UpsertDraft(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	set := bson.M{
		"status":           model.StatusDraft,
		"source":           lead.Source,
		"responses":        lead.Responses,
		"question_version": lead.QuestionVersion,
		"session_id":       lead.SessionID,
		"updated_at":       now,
	}
	setOnInsert := bson.M{
		"_id":        primitive.NewObjectID().Hex(),
		"created_at": now,
		"country":    "",
		"region":     "",
		"region_key": "",
	}
	if lead.Email != "" {
		set["email"] = lead.Email
	} else {
		setOnInsert["email"] = draftPlaceholderEmail(lead.DraftID)
	}

	filter := bson.M{"draft_id": lead.DraftID, "role": lead.Role}
	update := bson.M{"$set": set, "$setOnInsert": setOnInsert}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved model.Lead
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, fmt.Errorf("failed to upsert draft [%s/%s]: %w", lead.DraftID, lead.Role, err)
	}
	return &saved, nil
}

func (r *mongoLeadRepository) Insert(ctx context.Context, lead *model.Lead) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.ID == "" {
		// String hex ids keep every document decodable into the model;
		// server-generated ObjectIDs would not round-trip.
		lead.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.collection.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (r *mongoLeadRepository) FindByDraftKey(ctx context.Context, draftID string, role model.Role) (*model.Lead, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var lead model.Lead
	err := r.collection.FindOne(ctx, bson.M{"draft_id": draftID, "role": role}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s/%s", leadserrors.ErrNotFound, draftID, role)
		}
		return nil, fmt.Errorf("failed to find draft [%s/%s]: %w", draftID, role, err)
	}
	return &lead, nil
}

func (r *mongoLeadRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Lead, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []*model.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return leads, nil
}

func (r *mongoLeadRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *mongoLeadRepository) CountByStatus(ctx context.Context, status model.Status) (int64, error) {
	return r.count(ctx, bson.M{"status": status})
}

func (r *mongoLeadRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	return r.count(ctx, bson.M{"role": role})
}

func (r *mongoLeadRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

func (r *mongoLeadRepository) MarkWelcomeEmailSent(ctx context.Context, id string, sentAt time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %s", leadserrors.ErrInvalidID, id)
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"welcome_email_sent_at": sentAt.UTC().Truncate(time.Millisecond)}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark welcome email sent: %w", err)
	}
	return nil
}

// DeleteAll is the administrative bulk reset, the only hard delete in
// the system.
func (r *mongoLeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete leads: %w", err)
	}
	return result.DeletedCount, nil
}

func draftPlaceholderEmail(draftID string) string {
	return fmt.Sprintf("draft-%s@drafts.local", draftID)
}
