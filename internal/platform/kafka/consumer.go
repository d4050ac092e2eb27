package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Handler processes one consumed record. Returning an error logs the failure;
// the record is still committed, because the document pipeline's outcomes are
// final once computed and redelivery would only duplicate side effects.
type Handler func(ctx context.Context, key, value []byte) error

// Consumer runs a consumer-group poll loop over a single topic.
type Consumer struct {
	cl      *kgo.Client
	handler Handler
	logger  *slog.Logger
}

// NewConsumer joins the consumer group for the given topic.
func NewConsumer(brokers []string, group, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{cl: cl, handler: handler, logger: logger}, nil
}

// Run polls until the context is canceled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.cl.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		fetches.EachRecord(func(rec *kgo.Record) {
			if err := c.handler(ctx, rec.Key, rec.Value); err != nil {
				c.logger.Error("event handling failed",
					"topic", rec.Topic,
					"offset", rec.Offset,
					"error", err,
				)
			}
		})
	}
}

// Close leaves the group and closes the client.
func (c *Consumer) Close() {
	if c != nil && c.cl != nil {
		c.cl.Close()
	}
}
