package frameclock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	t.Run("delivers frames to subscribed channels", func(t *testing.T) {
		m := NewManual()
		other := m.Channel()

		var main, side []int64
		m.Subscribe(func(ft int64) { main = append(main, ft) })
		other.Subscribe(func(ft int64) { side = append(side, ft) })

		m.Step(10 * time.Millisecond)
		other.Unsubscribe()
		m.Step(10 * time.Millisecond)

		assert.Equal(t, []int64{int64(10 * time.Millisecond), int64(20 * time.Millisecond)}, main)
		assert.Equal(t, []int64{int64(10 * time.Millisecond)}, side)
		assert.Equal(t, 2, m.Frames())
		assert.Equal(t, 1, other.Frames())

		subscribes, unsubscribes := other.Subscriptions()
		assert.Equal(t, 1, subscribes)
		assert.Equal(t, 1, unsubscribes)
	})

	t.Run("advance moves time without frames", func(t *testing.T) {
		m := NewManual()
		calls := 0
		m.Subscribe(func(int64) { calls++ })

		m.Advance(time.Second)
		assert.Equal(t, int64(time.Second), m.Now())
		assert.Equal(t, 0, calls)
	})

	t.Run("subscribing during a frame starts on the next one", func(t *testing.T) {
		m := NewManual()
		late := m.Channel()

		calls := 0
		m.Subscribe(func(int64) {
			late.Subscribe(func(int64) { calls++ })
		})

		m.Step(time.Millisecond)
		assert.Equal(t, 0, calls)
		m.Step(time.Millisecond)
		assert.Equal(t, 1, calls)
	})
}

func TestTicker(t *testing.T) {
	t.Run("runs until idle", func(t *testing.T) {
		tk := NewTicker(time.Millisecond)

		var frames []int64
		tk.Subscribe(func(ft int64) {
			frames = append(frames, ft)
			if len(frames) == 3 {
				tk.Unsubscribe()
			}
		})

		assert.NoError(t, tk.Run(context.Background(), true))
		assert.Len(t, frames, 3)
		assert.Less(t, frames[0], frames[2])
	})

	t.Run("stops with its context", func(t *testing.T) {
		tk := NewTicker(time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, tk.Run(ctx, false), context.DeadlineExceeded)
	})
}

func TestTickerChannels(t *testing.T) {
	tk := NewTicker(time.Millisecond)
	a, b := tk.Channel(), tk.Channel()

	var fromA, fromB int
	a.Subscribe(func(int64) {
		fromA++
		if fromA == 2 {
			a.Unsubscribe()
		}
	})
	b.Subscribe(func(int64) {
		fromB++
		if fromB == 4 {
			b.Unsubscribe()
		}
	})

	assert.NoError(t, tk.Run(context.Background(), true))
	assert.Equal(t, 2, fromA)
	assert.Equal(t, 4, fromB)
	assert.LessOrEqual(t, a.Now(), tk.Now())
}
