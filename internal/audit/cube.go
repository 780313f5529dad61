package audit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CubeKey is one cell of the metrics cube.
type CubeKey struct {
	Namespace  string
	EntityType string
	AuditType  Type
	// Hour is the event time truncated to the hour.
	Hour time.Time
}

// MetricsCube counts events by namespace, entity type, audit type and hour.
// Totals are exported to Prometheus; hourly cells are kept in memory for queries.
type MetricsCube struct {
	events *prometheus.CounterVec

	mu    sync.RWMutex
	cells map[CubeKey]int64
}

func NewMetricsCube(reg prometheus.Registerer) *MetricsCube {
	return &MetricsCube{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_audit_events_total",
			Help: "Audit events by namespace, entity type and audit type",
		}, []string{"namespace", "entity_type", "audit_type"}),
		cells: make(map[CubeKey]int64),
	}
}

func (c *MetricsCube) Record(_ context.Context, msg Message) error {
	c.events.WithLabelValues(msg.EntityID.Namespace, msg.EntityID.Entity, string(msg.Type)).Inc()

	key := CubeKey{
		Namespace:  msg.EntityID.Namespace,
		EntityType: msg.EntityID.Entity,
		AuditType:  msg.Type,
		Hour:       msg.EventTime().Truncate(time.Hour),
	}
	c.mu.Lock()
	c.cells[key]++
	c.mu.Unlock()
	return nil
}

// Count sums the cells matching namespace, entity type and audit type with an
// hour in [from, to). Empty filters match everything.
func (c *MetricsCube) Count(namespace, entityType string, auditType Type, from, to time.Time) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int64
	for key, n := range c.cells {
		if namespace != "" && key.Namespace != namespace {
			continue
		}
		if entityType != "" && key.EntityType != entityType {
			continue
		}
		if auditType != "" && key.AuditType != auditType {
			continue
		}
		if !from.IsZero() && key.Hour.Before(from.Truncate(time.Hour)) {
			continue
		}
		if !to.IsZero() && !key.Hour.Before(to) {
			continue
		}
		total += n
	}
	return total
}
