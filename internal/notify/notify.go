// Package notify delivers human-review alerts. Delivery is fire-and-forget:
// the pipeline reports an alert and moves on, and the dispatcher deals with
// dedup and broker health on its own.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mediconnect/internal/platform/redis"
)

// Alert is one review notification.
type Alert struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	// DedupKey, when set, suppresses duplicate alerts for the same triggering
	// event under at-least-once redelivery.
	DedupKey string `json:"-"`
}

// Dispatcher publishes alerts.
type Dispatcher interface {
	Publish(ctx context.Context, alert Alert) error
}

// producer is the broker surface the dispatcher needs; satisfied by
// kafka.Producer.
type producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// dedup claims and releases delivery rights for an alert key. A claim that
// is not followed by a successful delivery must be released, otherwise the
// redelivered event is suppressed and the alert is lost for the whole TTL.
type dedup interface {
	claim(ctx context.Context, key string) bool
	release(ctx context.Context, key string)
}

// KafkaDispatcher publishes alerts to the review topic, deduplicating on the
// alert's key via Redis and tripping a circuit breaker when the broker is
// unhealthy.
type KafkaDispatcher struct {
	producer producer
	topic    string
	dedup    dedup
	breaker  *circuitBreaker
	logger   *slog.Logger
}

// NewKafkaDispatcher wires the dispatcher. redisClient may be nil; dedup then
// degrades to at-least-once delivery.
func NewKafkaDispatcher(p producer, topic string, redisClient *redis.Client, dedupTTL time.Duration, logger *slog.Logger) *KafkaDispatcher {
	d := &KafkaDispatcher{
		producer: p,
		topic:    topic,
		breaker:  newCircuitBreaker(5, time.Minute),
		logger:   logger,
	}
	if redisClient != nil {
		d.dedup = &redisDedup{client: redisClient, ttl: dedupTTL, logger: logger}
	}
	return d
}

// Publish delivers one alert. An already-sent dedup key is a silent success;
// an open circuit is an error the best-effort wrapper logs and drops. The
// dedup key is only kept when the broker acked the record, so a failed
// delivery stays sendable on redelivery.
func (d *KafkaDispatcher) Publish(ctx context.Context, alert Alert) error {
	if !d.breaker.allow() {
		return errors.New("alert broker circuit open")
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	claimed := false
	if alert.DedupKey != "" && d.dedup != nil {
		if !d.dedup.claim(ctx, alert.DedupKey) {
			d.logger.InfoContext(ctx, "alert suppressed by dedup key",
				"dedup_key", alert.DedupKey,
			)
			return nil
		}
		claimed = true
	}

	if err := d.producer.Produce(ctx, d.topic, []byte(alert.DedupKey), payload); err != nil {
		d.breaker.recordFailure()
		if claimed {
			d.dedup.release(ctx, alert.DedupKey)
		}
		return fmt.Errorf("publish alert: %w", err)
	}
	d.breaker.recordSuccess()
	return nil
}

// redisDedup claims alert keys with SET NX. Redis errors degrade to sending
// (at-least-once beats never).
type redisDedup struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func (r *redisDedup) claim(ctx context.Context, key string) bool {
	ok, err := r.client.SetNX(ctx, "notify:"+key, "1", r.ttl).Result()
	if err != nil {
		r.logger.WarnContext(ctx, "alert dedup check failed, sending anyway",
			"dedup_key", key,
			"error", err.Error(),
		)
		return true
	}
	return ok
}

func (r *redisDedup) release(ctx context.Context, key string) {
	if err := r.client.Del(ctx, "notify:"+key).Err(); err != nil {
		r.logger.WarnContext(ctx, "alert dedup release failed",
			"dedup_key", key,
			"error", err.Error(),
		)
	}
}
