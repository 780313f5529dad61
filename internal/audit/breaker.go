package audit

import (
	"sync"
	"time"
)

const (
	defaultBreakerThreshold = 5
	defaultBreakerCooldown  = 30 * time.Second
)

// sinkBreaker stops writes to one sink after threshold consecutive failures.
// While open, writes are skipped until cooldown elapses; the next write is a
// trial and a single failure reopens the breaker.
type sinkBreaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	failures  int
	openUntil time.Time
	open      bool
}

func newSinkBreaker(threshold int, cooldown time.Duration, now func() time.Time) *sinkBreaker {
	if threshold <= 0 {
		threshold = defaultBreakerThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &sinkBreaker{threshold: threshold, cooldown: cooldown, now: now}
}

func (b *sinkBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	if b.now().Before(b.openUntil) {
		return false
	}
	// half-open
	b.open = false
	b.failures = b.threshold - 1
	return true
}

func (b *sinkBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		b.open = false
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.open = true
		b.openUntil = b.now().Add(b.cooldown)
	}
}

func (b *sinkBreaker) isOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}
