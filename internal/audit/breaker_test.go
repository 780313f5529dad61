package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSinkBreaker(t *testing.T) {
	errDown := errors.New("down")

	t.Run("opens after threshold consecutive failures", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(1000, 0)}
		b := newSinkBreaker(3, time.Minute, clock.now)

		b.record(errDown)
		b.record(errDown)
		assert.True(t, b.allow())
		b.record(errDown)

		assert.True(t, b.isOpen())
		assert.False(t, b.allow())
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		b := newSinkBreaker(2, time.Minute, nil)
		b.record(errDown)
		b.record(nil)
		b.record(errDown)
		assert.False(t, b.isOpen())
	})

	t.Run("half-open trial failure reopens", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(1000, 0)}
		b := newSinkBreaker(3, time.Minute, clock.now)
		for range 3 {
			b.record(errDown)
		}

		clock.advance(time.Minute)
		assert.True(t, b.allow())
		b.record(errDown)
		assert.True(t, b.isOpen())
		assert.False(t, b.allow())
	})

	t.Run("half-open trial success closes", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(1000, 0)}
		b := newSinkBreaker(1, time.Second, clock.now)
		b.record(errDown)
		assert.False(t, b.allow())

		clock.advance(2 * time.Second)
		assert.True(t, b.allow())
		b.record(nil)
		assert.False(t, b.isOpen())
		assert.True(t, b.allow())
	})

	t.Run("non-positive settings use defaults", func(t *testing.T) {
		b := newSinkBreaker(0, 0, nil)
		assert.Equal(t, defaultBreakerThreshold, b.threshold)
		assert.Equal(t, defaultBreakerCooldown, b.cooldown)
	})
}
