// Package frameclock provides timing sources for the frameflow schedulers.
package frameclock

import "time"

// Manual is a clock that only moves when told to. It is the timing source
// used by tests and by drivers that already own a frame loop.
//
// Every Channel created from the same Manual shares its time, so a graph
// scheduler and a mount scheduler can be driven by one clock. Manual itself
// subscribes through its main channel.
type Manual struct {
	hub
	now  int64
	main *Channel
}

func NewManual() *Manual {
	m := &Manual{}
	m.hub.now = m.Now
	m.main = m.Channel()
	return m
}

// Now returns the current time in nanoseconds.
func (m *Manual) Now() int64 { return m.now }

// Advance moves time forward without delivering a frame.
func (m *Manual) Advance(d time.Duration) { m.now += int64(d) }

// Step moves time forward by d and delivers a frame.
func (m *Manual) Step(d time.Duration) {
	m.now += int64(d)
	m.Frame()
}

// StepN calls Step n times.
func (m *Manual) StepN(n int, d time.Duration) {
	for range n {
		m.Step(d)
	}
}

// Frame delivers a frame at the current time to every subscribed channel.
func (m *Manual) Frame() { m.deliver(m.now) }

// Idle reports whether no channel has a subscriber.
func (m *Manual) Idle() bool { return m.idle() }

// Subscribe subscribes to the manual clock's main channel.
func (m *Manual) Subscribe(cb func(frameTimeNanos int64)) { m.main.Subscribe(cb) }

func (m *Manual) Unsubscribe() { m.main.Unsubscribe() }

// Subscribed reports whether the main channel has a subscriber.
func (m *Manual) Subscribed() bool { return m.main.Subscribed() }

// Frames returns the number of frames delivered on the main channel.
func (m *Manual) Frames() int { return m.main.Frames() }
