package config

import (
	"log/slog"
	"strings"

	"github.com/sinavly/exam-engine/internal/events"
)

const (
	PublisherKafka = "kafka"
	PublisherMock  = "mock"
)

// EventConfig selects and configures the exam event publisher.
type EventConfig struct {
	Enabled      bool
	Publisher    string // PublisherKafka or PublisherMock
	KafkaBrokers string // comma-separated host:port list
	Topic        string
}

func (c *EventConfig) brokerList() []string {
	brokers := strings.Split(c.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// CreateEventPublisher builds the publisher the services emit exam
// lifecycle events through. Anything other than an enabled kafka
// configuration yields the in-memory mock, so the engine never refuses
// to start over event plumbing.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled || c.Publisher != PublisherKafka {
		if c.Enabled && c.Publisher != PublisherMock {
			logger.Warn("Unknown event publisher, using mock", "publisher", c.Publisher)
		} else {
			logger.Info("Using mock event publisher")
		}
		return events.NewMockEventPublisher(logger), nil
	}

	logger.Info("Connecting Kafka event publisher",
		"brokers", c.KafkaBrokers, "topic", c.Topic)
	return events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: c.brokerList(),
		TopicName:    c.Topic,
		Logger:       logger,
	})
}
