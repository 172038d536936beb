package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher emits exam lifecycle events. Publishing is best-effort
// from the services' point of view: a failed publish is logged by the
// caller and never fails the operation that produced the event.
type EventPublisher interface {
	PublishExamEvent(ctx context.Context, event *ExamEvent) error
	Close() error
}

// PublisherConfig configures the Kafka publisher.
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

type kafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topic     string
}

// NewKafkaEventPublisher builds a watermill Kafka publisher. All exam
// events go to a single topic; consumers route on the event_type
// metadata header.
func NewKafkaEventPublisher(config PublisherConfig) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &kafkaEventPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topic:     config.TopicName,
	}, nil
}

func (p *kafkaEventPublisher) PublishExamEvent(ctx context.Context, event *ExamEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal exam event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish exam event %s: %w", event.Type, err)
	}

	p.logger.Debug("Published exam event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topic)
	return nil
}

func (p *kafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher records events in memory. It backs tests and any
// deployment that runs without Kafka.
type MockEventPublisher struct {
	Events []ExamEvent
	Logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{Logger: logger}
}

func (m *MockEventPublisher) PublishExamEvent(ctx context.Context, event *ExamEvent) error {
	m.Events = append(m.Events, *event)
	m.Logger.Debug("Recorded exam event", "event_type", event.Type)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// GetPublishedEvents returns the recorded events.
func (m *MockEventPublisher) GetPublishedEvents() []ExamEvent {
	return m.Events
}

// ClearEvents drops the recorded events.
func (m *MockEventPublisher) ClearEvents() {
	m.Events = nil
}
