package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/cenkalti/backoff/v4"
)

const (
	kafkaMaxRetries     = 3
	kafkaInitialBackoff = 100 * time.Millisecond
	kafkaMaxBackoff     = 5 * time.Second
)

// Kafka publishes events through a sarama synchronous producer.
type Kafka struct {
	producer sarama.SyncProducer
	mu       sync.RWMutex
	closed   bool
}

// NewKafka creates a Kafka publisher for the given broker addresses.
func NewKafka(brokers []string) (*Kafka, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = kafkaMaxRetries
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Kafka{producer: producer}, nil
}

// Publish sends one event to the topic, retrying transient send failures
// with exponential backoff until the context is done.
func (k *Kafka) Publish(ctx context.Context, topic string, event Event) error {
	k.mu.RLock()
	if k.closed {
		k.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	k.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.SessionID),
		Value: sarama.ByteEncoder(data),
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = kafkaInitialBackoff
	policy.MaxInterval = kafkaMaxBackoff

	return backoff.Retry(func() error {
		_, _, err := k.producer.SendMessage(msg)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, kafkaMaxRetries), ctx))
}

// Close shuts the producer down. Publish calls after Close fail fast.
func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true
	return k.producer.Close()
}
