// Package kafka wraps the franz-go client for the two roles this service
// plays: producing reviewer alerts and consuming storage-upload events.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records synchronously. A nil Producer is valid and means
// Kafka is not configured; Produce then reports unavailability to the caller,
// which treats publication as best-effort anyway.
type Producer struct {
	cl *kgo.Client
}

// NewProducer connects to the given brokers. Returns nil when brokers is
// empty so local runs without Kafka still start.
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{cl: cl}, nil
}

// Produce writes one record and waits for the broker ack.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte) error {
	if p == nil || p.cl == nil {
		return errors.New("kafka producer not configured")
	}
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	return p.cl.ProduceSync(ctx, rec).FirstErr()
}

// EnsureTopics creates the service's topics if they do not exist yet.
func (p *Producer) EnsureTopics(ctx context.Context, topics ...string) error {
	if p == nil || p.cl == nil {
		return nil
	}
	adm := kadm.NewClient(p.cl)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, res := range resp.Sorted() {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", res.Topic, res.Err)
		}
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *Producer) Close() {
	if p != nil && p.cl != nil {
		p.cl.Close()
	}
}
