package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// publishTimeout bounds a single Publish, retries included.
const publishTimeout = 3 * time.Second

// Producer publishes domain events to a single Kafka topic. The routing key
// becomes the message key and the "event_type" header.
type Producer struct {
	writer *kafkago.Writer
}

// Config holds the Kafka producer settings.
type Config struct {
	Brokers []string
	Topic   string
}

// NewProducer creates a producer. Connections are opened lazily on first write.
func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            2,
		WriteTimeout:           2 * time.Second,
		AllowAutoTopicCreation: true,
	}
	log.Printf("Kafka producer configured for topic %s on %v", cfg.Topic, cfg.Brokers)
	return &Producer{writer: w}, nil
}

// Publish marshals event to JSON and writes it to the topic.
func (p *Producer) Publish(ctx context.Context, routingKey string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(routingKey),
		Value: data,
		Time:  time.Now(),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(routingKey)},
			{Key: "content_type", Value: []byte("application/json")},
		},
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s failed: %w", routingKey, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
