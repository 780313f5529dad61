package audit

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCube(t *testing.T) {
	cube := NewMetricsCube(prometheus.NewRegistry())
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)

	record := func(ns, entity string, typ Type, at time.Time) {
		require.NoError(t, cube.Record(ctx, Message{
			Time:     at.UnixMilli(),
			EntityID: EntityID{Namespace: ns, Entity: entity, Name: "x"},
			Type:     typ,
		}))
	}
	record("ns1", "DATASET", TypeAccess, base)
	record("ns1", "DATASET", TypeAccess, base.Add(10*time.Minute))
	record("ns1", "DATASET", TypeCreate, base.Add(2*time.Hour))
	record("ns1", "STREAM", TypeAccess, base)
	record("ns2", "DATASET", TypeAccess, base)

	assert.Equal(t, int64(5), cube.Count("", "", "", time.Time{}, time.Time{}))
	assert.Equal(t, int64(4), cube.Count("ns1", "", "", time.Time{}, time.Time{}))
	assert.Equal(t, int64(2), cube.Count("ns1", "DATASET", TypeAccess, time.Time{}, time.Time{}))
	assert.Equal(t, int64(1), cube.Count("ns1", "DATASET", "", base.Add(time.Hour), time.Time{}))
	assert.Equal(t, int64(3), cube.Count("ns1", "", "", base, base.Add(time.Hour)))

	assert.Equal(t, float64(2), promtest.ToFloat64(cube.events.WithLabelValues("ns1", "DATASET", "ACCESS")))
}
