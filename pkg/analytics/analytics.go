// Package analytics publishes lead lifecycle events to Kafka. The
// publisher is a process-wide singleton, initialized at most once, and
// degrades to a no-op when no brokers are configured. Publishing is
// best-effort: callers log failures and move on.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"gatherly/pkg/logger"
)

const (
	EventDraftSaved    = "lead.draft_saved"
	EventLeadSubmitted = "lead.submitted"
	EventLeadsReset    = "lead.bulk_reset"
)

type Event struct {
	Type       string    `json:"type"`
	LeadID     string    `json:"leadId,omitempty"`
	DraftID    string    `json:"draftId,omitempty"`
	Role       string    `json:"role,omitempty"`
	Source     string    `json:"source,omitempty"`
	RegionKey  string    `json:"regionKey,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

var (
	initOnce         sync.Once
	defaultPublisher Publisher = noopPublisher{}
)

// Init sets up the process-wide publisher. Idempotent; only the first
// call takes effect. Without brokers the publisher stays a no-op.
func Init(brokers []string, topic string, log *logger.Logger) {
	initOnce.Do(func() {
		if len(brokers) == 0 || topic == "" {
			log.Warn("no Kafka brokers configured, analytics events disabled")
			return
		}
		defaultPublisher = NewKafkaPublisher(brokers, topic)
		log.Info("analytics publisher initialized", "brokers", brokers, "topic", topic)
	})
}

// Default returns the process-wide publisher, a no-op until Init runs
// with brokers configured. Safe for concurrent use.
func Default() Publisher {
	return defaultPublisher
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 100 * time.Millisecond,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode analytics event: %w", err)
	}

	key := event.DraftID
	if key == "" {
		key = event.LeadID
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(uuid.New().String())},
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish analytics event: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }
