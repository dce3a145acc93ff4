// Package events publishes qualification decisions to downstream consumers
// such as pipeline dashboards and CRM sync workers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/voxline-ai/sales-triage/internal/decisions"
	"github.com/voxline-ai/sales-triage/pkg/logging"
)

// DecisionEvent is the wire shape published after every triage decision.
type DecisionEvent struct {
	ConversationID    string    `json:"conversation_id"`
	Stage             string    `json:"stage"`
	Score             int       `json:"score"`
	IntentLabel       string    `json:"intent_label"`
	RecommendTransfer bool      `json:"recommend_transfer"`
	TransferTarget    string    `json:"transfer_target,omitempty"`
	RoutingPriority   string    `json:"routing_priority"`
	Urgency           string    `json:"urgency"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewDecisionEvent builds the event for a stored decision record.
func NewDecisionEvent(rec decisions.Record) DecisionEvent {
	return DecisionEvent{
		ConversationID:    rec.ConversationID,
		Stage:             string(rec.Stage),
		Score:             rec.Score,
		IntentLabel:       rec.IntentLabel,
		RecommendTransfer: rec.RecommendTransfer,
		TransferTarget:    rec.TransferTarget,
		RoutingPriority:   rec.RoutingPriority,
		Urgency:           rec.Urgency,
		OccurredAt:        rec.CreatedAt,
	}
}

// Publisher sends decision events to the outside world.
type Publisher interface {
	PublishDecision(ctx context.Context, event DecisionEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes decision events to a Kafka topic, keyed by
// conversation id so one conversation's decisions stay ordered.
type KafkaPublisher struct {
	writer messageWriter
	logger *logging.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, logger *logging.Logger) *KafkaPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// PublishDecision sends one event.
func (p *KafkaPublisher) PublishDecision(ctx context.Context, event DecisionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal decision event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ConversationID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write decision event: %w", err)
	}

	p.logger.Debug("published decision event", "conversation_id", event.ConversationID, "stage", event.Stage)
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishDecision(ctx context.Context, event DecisionEvent) error { return nil }
func (NoopPublisher) Close() error                                                   { return nil }
