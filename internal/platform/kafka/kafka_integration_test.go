//go:build integration

package kafka_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mediconnect/internal/platform/kafka"
	"mediconnect/pkg/testutil/containers"
)

func TestProduceConsumeRoundTrip(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	producer, err := kafka.NewProducer(rp.Brokers)
	require.NoError(t, err)
	t.Cleanup(producer.Close)

	const topic = "diploma-uploads-test"
	require.NoError(t, producer.EnsureTopics(ctx, topic))
	// Second call must tolerate the topic already existing.
	require.NoError(t, producer.EnsureTopics(ctx, topic))

	received := make(chan string, 1)
	consumer, err := kafka.NewConsumer(rp.Brokers, "pipeline-test", topic,
		func(_ context.Context, _, value []byte) error {
			received <- string(value)
			return nil
		},
		slog.New(slog.DiscardHandler),
	)
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- consumer.Run(runCtx) }()
	t.Cleanup(func() {
		cancel()
		consumer.Close()
		<-done
	})

	require.NoError(t, producer.Produce(ctx, topic, []byte("diplomas"), []byte(`{"bucket":"diplomas","key":"doctors/D-1/file.pdf"}`)))

	select {
	case got := <-received:
		require.JSONEq(t, `{"bucket":"diplomas","key":"doctors/D-1/file.pdf"}`, got)
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for consumed record")
	}
}

func TestProducerNilWhenUnconfigured(t *testing.T) {
	producer, err := kafka.NewProducer(nil)
	require.NoError(t, err)
	require.Nil(t, producer)

	require.Error(t, producer.Produce(context.Background(), "any", nil, nil))
	require.NoError(t, producer.EnsureTopics(context.Background(), "any"))
}
