package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	brokers    []string
	writer     *kafka.Writer
	logger     zerolog.Logger
	maxRetries int
}

type ProducerOption func(*Producer)

func WithMaxRetries(n int) ProducerOption {
	return func(p *Producer) {
		p.maxRetries = n
	}
}

func NewProducer(brokers []string, logger zerolog.Logger, opts ...ProducerOption) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	p := &Producer{
		brokers:    brokers,
		writer:     writer,
		logger:     logger.With().Str("component", "kafka_producer").Logger(),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes payload as JSON, retrying with a linear backoff.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	attempts := max(p.maxRetries, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = p.writer.WriteMessages(ctx, message); lastErr == nil {
			p.logger.Debug().Str("topic", topic).Str("key", key).Msg("published")
			return nil
		}
		p.logger.Warn().Err(lastErr).Int("attempt", i+1).Str("topic", topic).Msg("publish failed")

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("failed to write message to Kafka after %d attempts: %w", attempts, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and reads its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}
	p.logger.Info().Int("partitions", len(partitions)).Msg("connected to kafka")
	return nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
