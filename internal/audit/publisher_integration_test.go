//go:build integration

package audit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"tracker/internal/audit"
	"tracker/internal/audit/index"
	"tracker/internal/audit/store"
	"tracker/internal/platform/kafka/consumer"
	"tracker/pkg/testutil/containers"
)

func TestConsumedEventsReachEverySink(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	const topic = "audit-it"
	require.NoError(t, consumer.EnsureTopic(ctx, []string{rp.Broker}, topic, 1))

	logStore := store.NewInMemoryStore()
	cube := audit.NewMetricsCube(prometheus.NewRegistry())
	idx := index.NewInMemoryIndex()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := audit.NewPublisher("ns1", logStore, cube, idx, audit.WithLogger(logger))

	producer, err := kgo.NewClient(kgo.SeedBrokers(rp.Broker))
	require.NoError(t, err)
	defer producer.Close()
	for _, v := range []string{
		"not json",
		`{"time":1000,"entityId":{"namespace":"ns2","entity":"DATASET","dataset":"purchases"},"type":"ACCESS"}`,
		`{"time":2000,"entityId":{"namespace":"ns1","entity":"DATASET","dataset":"purchases"},"type":"ACCESS"}`,
	} {
		require.NoError(t, producer.ProduceSync(ctx, &kgo.Record{Topic: topic, Value: []byte(v)}).FirstErr())
	}

	c, err := consumer.New(consumer.Config{Brokers: []string{rp.Broker}, Topic: topic, GroupID: "audit-it"}, pub, logger)
	require.NoError(t, err)
	defer c.Close()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Run(runCtx) }()

	entity := audit.EntityID{Namespace: "ns1", Entity: "DATASET", Name: "purchases"}
	require.Eventually(t, func() bool {
		_, ok, _ := idx.Latest(ctx, entity)
		return ok
	}, 60*time.Second, 200*time.Millisecond)

	stop()
	require.NoError(t, <-done)

	msgs, err := logStore.ListByEntity(ctx, entity, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, int64(1), cube.Count("ns1", "", "", time.Time{}, time.Time{}))
	require.Equal(t, int64(0), cube.Count("ns2", "", "", time.Time{}, time.Time{}))
}
