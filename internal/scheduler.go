package internal

import "time"

// FrameCallback receives the start time of a frame in monotonic nanoseconds.
type FrameCallback = func(frameTimeNanos int64)

// TimingSource is the frame clock driving the schedulers.
type TimingSource interface {
	Subscribe(cb FrameCallback)
	Unsubscribe()
}

type subscriptionState int

const (
	Unsubscribed subscriptionState = iota
	Subscribed
)

func (s subscriptionState) String() string {
	if s == Subscribed {
		return "subscribed"
	}
	return "unsubscribed"
}

// subscription tracks whether a scheduler currently listens to its source.
// Each subscription gets a new generation so callbacks from an older one are
// recognized and dropped.
type subscription struct {
	state      subscriptionState
	generation int
}

// subscribe moves to Subscribed, it reports false if already there.
func (s *subscription) subscribe() bool {
	if s.state == Subscribed {
		return false
	}
	s.state = Subscribed
	s.generation++
	return true
}

// unsubscribe moves to Unsubscribed, it reports false if already there.
func (s *subscription) unsubscribe() bool {
	if s.state == Unsubscribed {
		return false
	}
	s.state = Unsubscribed
	return true
}

func (s *subscription) current(generation int) bool {
	return s.state == Subscribed && s.generation == generation
}

// FrameClock turns absolute frame times into deltas and guards against
// re-entrant frames.
type FrameClock struct {
	// incremented each time a frame completes
	clock int

	last    int64
	hasLast bool

	running bool
}

func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Run executes fn with the time elapsed since the previous frame. The first
// frame after a Reset sees a zero delta, as does a frame time going backwards.
// It returns false without calling fn when a frame is already running.
func (f *FrameClock) Run(frameTimeNanos int64, fn func(dt time.Duration)) bool {
	if f.running {
		return false
	}

	var dt time.Duration
	if f.hasLast && frameTimeNanos > f.last {
		dt = time.Duration(frameTimeNanos - f.last)
	}
	if !f.hasLast || frameTimeNanos > f.last {
		f.last = frameTimeNanos
	}
	f.hasLast = true

	f.running = true
	defer func() {
		f.clock++
		f.running = false
	}()

	fn(dt)
	return true
}

// Reset forgets the previous frame time.
func (f *FrameClock) Reset() {
	f.hasLast = false
	f.last = 0
}

func (f *FrameClock) Running() bool { return f.running }

func (f *FrameClock) Time() int { return f.clock }
