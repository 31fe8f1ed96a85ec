// Package kafka publishes surfaced opportunities to a Kafka topic, one
// message per opportunity keyed by its id.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Config configures a Publisher.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes opportunities of each cycle to a topic.
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher creates a Publisher. The writer connects lazily on the first
// write.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           timeout,
	}
	return &Publisher{writer: w, topic: cfg.Topic}, nil
}

// PublishSnapshot writes every opportunity of snap. An empty snapshot
// writes nothing.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap domain.CycleSnapshot) error {
	msgs, err := Messages(snap)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: publish run %s to %s: %w", snap.RunID, p.topic, err)
	}
	return nil
}

// Close flushes pending writes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Messages converts snap into Kafka messages. The key is the opportunity id
// so every sighting of one opportunity lands on the same partition.
func Messages(snap domain.CycleSnapshot) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(snap.Opportunities))
	for _, opp := range snap.Opportunities {
		value, err := json.Marshal(opp)
		if err != nil {
			return nil, fmt.Errorf("kafka: marshal opportunity %s: %w", opp.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(opp.ID),
			Value: value,
			Time:  opp.DetectedAt,
			Headers: []kafka.Header{
				{Key: "run_id", Value: []byte(snap.RunID)},
				{Key: "sport", Value: []byte(opp.Sport)},
			},
		})
	}
	return msgs, nil
}
