package frameclock

import (
	"context"
	"time"
)

// Ticker delivers frames at a fixed interval from the goroutine calling Run.
// Subscribe, Unsubscribe and Run must all happen on that goroutine, which is
// also the one owning the schedulers it drives.
type Ticker struct {
	hub
	interval time.Duration
	start    time.Time
	main     *Channel
}

func NewTicker(interval time.Duration) *Ticker {
	t := &Ticker{
		interval: interval,
		start:    time.Now(),
	}
	t.hub.now = t.Now
	t.main = t.Channel()
	return t
}

// Now returns the monotonic time since the ticker was created.
func (t *Ticker) Now() int64 { return int64(time.Since(t.start)) }

func (t *Ticker) Subscribe(cb func(frameTimeNanos int64)) { t.main.Subscribe(cb) }

func (t *Ticker) Unsubscribe() { t.main.Unsubscribe() }

func (t *Ticker) Subscribed() bool { return t.main.Subscribed() }

// Run delivers frames until ctx is done or, when untilIdle is set, until no
// channel has a subscriber.
func (t *Ticker) Run(ctx context.Context, untilIdle bool) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if untilIdle && t.idle() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.deliver(t.Now())
		}
	}
}
