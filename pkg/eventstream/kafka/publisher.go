// Package kafka publishes chat events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/planora/planora/pkg/eventstream"
)

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Config configures a Publisher.
type Config struct {
	// Brokers are the bootstrap broker addresses (host:port).
	Brokers []string

	// Topic receives one message per chat event, keyed by event id.
	Topic string

	// WriteTimeout bounds each publish. Defaults to 5s.
	WriteTimeout time.Duration
}

// Publisher writes chat events as JSON messages.
type Publisher struct {
	writer  MessageWriter
	timeout time.Duration
}

// NewPublisher creates a Publisher backed by a kafka-go Writer.
func NewPublisher(c Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	if c.Topic == "" {
		return nil, errors.New("kafka publisher requires a topic")
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return NewPublisherWithWriter(w, c.WriteTimeout), nil
}

// NewPublisherWithWriter creates a Publisher around an existing writer.
func NewPublisherWithWriter(w MessageWriter, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{writer: w, timeout: timeout}
}

// PublishChat encodes the event and writes it to the topic.
func (p *Publisher) PublishChat(ctx context.Context, event *eventstream.ChatRelayedEvent) error {
	if event == nil {
		return eventstream.ErrNilChatEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding chat event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafkago.Message{
		Key:   []byte(event.EventID),
		Value: value,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "schema_version", Value: []byte(fmt.Sprint(event.SchemaVersion))},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing chat event %s: %w", event.EventID, err)
	}
	return nil
}

// Close flushes pending writes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
