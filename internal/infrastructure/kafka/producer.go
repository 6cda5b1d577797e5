package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/makehaven/profile-membership/internal/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event types published to the membership topic
const (
	EventTypeMembershipFinalized = "membership.finalized"
	EventTypeFollowupSent        = "membership.followup_sent"
)

// MembershipFinalizedEvent records a completed activation handshake
type MembershipFinalizedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// FollowupSentEvent records a dispatched follow-up email
type FollowupSentEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	ProfileID string    `json:"profile_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEventID generates a unique event identifier
func NewEventID() string {
	return uuid.New().String()
}

// Producer handles publishing membership events to Kafka
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}

	return &Producer{
		writer: writer,
	}
}

// PublishMembershipFinalized publishes a membership finalized event
func (p *Producer) PublishMembershipFinalized(ctx context.Context, event *MembershipFinalizedEvent) error {
	event.EventType = EventTypeMembershipFinalized
	return p.publish(ctx, event.UserID, event)
}

// PublishFollowupSent publishes a follow-up sent event
func (p *Producer) PublishFollowupSent(ctx context.Context, event *FollowupSentEvent) error {
	event.EventType = EventTypeFollowupSent
	return p.publish(ctx, event.UserID, event)
}

func (p *Producer) publish(ctx context.Context, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
