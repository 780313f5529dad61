//go:build integration

package consumer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"tracker/pkg/testutil/containers"
)

func TestConsumerDeliversRecords(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const topic = "consumer-it"
	require.NoError(t, EnsureTopic(ctx, []string{rp.Broker}, topic, 1))
	require.NoError(t, EnsureTopic(ctx, []string{rp.Broker}, topic, 1), "second create is a no-op")

	producer, err := kgo.NewClient(kgo.SeedBrokers(rp.Broker))
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, producer.ProduceSync(ctx, &kgo.Record{Topic: topic, Value: []byte("hello")}).FirstErr())

	received := make(chan *Message, 1)
	c, err := New(Config{Brokers: []string{rp.Broker}, Topic: topic, GroupID: "consumer-it"},
		HandlerFunc(func(_ context.Context, msg *Message) error {
			received <- msg
			return nil
		}),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	defer c.Close()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Run(runCtx) }()

	select {
	case msg := <-received:
		require.Equal(t, []byte("hello"), msg.Value)
	case <-ctx.Done():
		t.Fatal("timed out waiting for record")
	}
	stop()
	require.NoError(t, <-done)
}
