package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tracker/internal/platform/kafka/consumer"
)

// Drop reasons.
const (
	DropForeignNamespace = "foreign_namespace"
	DropMalformed        = "malformed"
	DropNoNamespace      = "no_namespace"
)

// LogStore appends messages to the audit log.
type LogStore interface {
	Append(ctx context.Context, msg Message) error
}

// Cube aggregates message counts.
type Cube interface {
	Record(ctx context.Context, msg Message) error
}

// LatestIndex remembers the newest event time per entity.
type LatestIndex interface {
	Touch(ctx context.Context, msg Message) error
}

// Publisher fans each event for its namespace out to three sinks. The sinks are
// independent: a failing write is logged and counted and the remaining sinks
// are still written.
type Publisher struct {
	namespace string
	log       LogStore
	cube      Cube
	index     LatestIndex
	logger    *slog.Logger
	metrics   *Metrics
	breakers  map[string]*sinkBreaker
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithSinkBreaker guards each sink with its own breaker. After threshold
// consecutive failures writes to that sink are skipped for cooldown.
func WithSinkBreaker(threshold int, cooldown time.Duration) Option {
	return func(p *Publisher) {
		p.breakers = make(map[string]*sinkBreaker, 3)
		for _, sink := range []string{SinkLog, SinkCube, SinkIndex} {
			p.breakers[sink] = newSinkBreaker(threshold, cooldown, nil)
		}
	}
}

// NewPublisher creates a publisher bound to namespace.
func NewPublisher(namespace string, log LogStore, cube Cube, index LatestIndex, opts ...Option) *Publisher {
	p := &Publisher{
		namespace: namespace,
		log:       log,
		cube:      cube,
		index:     index,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process decodes raw and writes it to every sink.
// Blank input is ignored. Undecodable input returns ErrMalformedEvent and an
// entity without a namespace returns ErrNoNamespace. Events for another
// namespace are dropped without error.
func (p *Publisher) Process(ctx context.Context, raw []byte) error {
	msg, ok, err := Parse(raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoNamespace):
			p.countDrop(DropNoNamespace)
		default:
			p.countDrop(DropMalformed)
		}
		return err
	}
	if !ok {
		return nil
	}
	if msg.EntityID.Namespace != p.namespace {
		p.countDrop(DropForeignNamespace)
		return nil
	}

	p.write(ctx, SinkLog, msg, p.log.Append)
	p.write(ctx, SinkCube, msg, p.cube.Record)
	p.write(ctx, SinkIndex, msg, p.index.Touch)

	if p.metrics != nil {
		p.metrics.IncProcessed()
	}
	return nil
}

// Handle adapts Process to the Kafka consumer.
func (p *Publisher) Handle(ctx context.Context, msg *consumer.Message) error {
	return p.Process(ctx, msg.Value)
}

func (p *Publisher) write(ctx context.Context, sink string, msg Message, fn func(context.Context, Message) error) {
	breaker := p.breakers[sink]
	if breaker != nil && !breaker.allow() {
		if p.metrics != nil {
			p.metrics.IncSinkSkipped(sink)
		}
		return
	}
	err := fn(ctx, msg)
	if breaker != nil {
		breaker.record(err)
	}
	if err != nil {
		p.logger.WarnContext(ctx, "audit sink write failed",
			"sink", sink,
			"namespace", msg.EntityID.Namespace,
			"entity", msg.EntityID.Key(),
			"audit_type", string(msg.Type),
			"error", err,
		)
		if p.metrics != nil {
			p.metrics.IncSinkFailure(sink)
		}
	}
}

func (p *Publisher) countDrop(reason string) {
	if p.metrics != nil {
		p.metrics.IncDropped(reason)
	}
}
