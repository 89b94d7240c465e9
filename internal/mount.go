package internal

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// MountSource is a host with mount work that can be performed in small units.
type MountSource interface {
	HasMoreWork() bool
	DoWork()
}

// Clock reports the current time in the same monotonic nanoseconds as the
// frame times delivered by the timing source.
type Clock interface {
	Now() int64
}

type monotonicClock struct {
	start time.Time
}

func (c monotonicClock) Now() int64 { return int64(time.Since(c.start)) }

// MonotonicClock measures time since its creation.
func MonotonicClock() Clock { return monotonicClock{start: time.Now()} }

// defaultClock reads "now" from the timing source when it can tell time,
// so deadlines share the time base of the frames it delivers.
func defaultClock(source TimingSource) Clock {
	if c, ok := source.(Clock); ok {
		return c
	}
	return MonotonicClock()
}

type SourceState int

const (
	SourceUnregistered SourceState = iota
	SourceIdle
	SourceHasWork
	SourceDraining
)

func (s SourceState) String() string {
	switch s {
	case SourceUnregistered:
		return "unregistered"
	case SourceIdle:
		return "idle"
	case SourceHasWork:
		return "has-work"
	case SourceDraining:
		return "draining"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

type mountEntry struct {
	source  MountSource
	state   SourceState
	removed bool
}

// MountScheduler spreads pending mount work over the idle time left in each
// frame, visiting sources round-robin in registration order.
type MountScheduler struct {
	guard  goroutineGuard
	logger *log.Logger

	source TimingSource
	sub    subscription
	clock  Clock

	frameInterval time.Duration
	safetyBuffer  time.Duration

	entries []*mountEntry
	index   map[MountSource]*mountEntry

	// next entry to visit, kept across frames
	cursor int

	running bool
	frames  int
}

type MountConfig struct {
	FrameInterval time.Duration
	SafetyBuffer  time.Duration
}

func NewMountScheduler(source TimingSource, clock Clock, cfg MountConfig, logger *log.Logger) *MountScheduler {
	if logger == nil {
		logger = log.Default()
	}
	if clock == nil {
		clock = defaultClock(source)
	}

	return &MountScheduler{
		guard:         newGoroutineGuard(),
		logger:        logger,
		source:        source,
		clock:         clock,
		frameInterval: cfg.FrameInterval,
		safetyBuffer:  cfg.SafetyBuffer,
		index:         make(map[MountSource]*mountEntry),
	}
}

// RegisterSource queues a source; its work starts on the next frame.
func (m *MountScheduler) RegisterSource(src MountSource) {
	m.guard.check()

	if !m.register(src) {
		return
	}
	m.subscribe()
}

// RegisterSourceAt queues a source and, since the current frame time is
// known, immediately drains work within what is left of that frame.
func (m *MountScheduler) RegisterSourceAt(src MountSource, frameTimeNanos int64) {
	m.guard.check()

	m.register(src)
	if !m.running {
		m.drain(frameTimeNanos)
	}

	if m.Pending() > 0 {
		m.subscribe()
	} else {
		m.unsubscribe()
	}
}

func (m *MountScheduler) register(src MountSource) bool {
	if src == nil {
		return false
	}
	if _, ok := m.index[src]; ok {
		return false
	}

	e := &mountEntry{source: src, state: SourceIdle}
	m.entries = append(m.entries, e)
	m.index[src] = e
	m.logger.Debug("mount source registered", "pending", m.Pending())
	return true
}

// UnregisterSource drops a source whether or not it has work left.
func (m *MountScheduler) UnregisterSource(src MountSource) {
	m.guard.check()

	e, ok := m.index[src]
	if !ok {
		return
	}

	delete(m.index, src)
	e.removed = true
	e.state = SourceUnregistered

	if !m.running {
		m.compact()
		if len(m.entries) == 0 {
			m.unsubscribe()
		}
	}
}

// Pending returns the number of registered sources.
func (m *MountScheduler) Pending() int { return len(m.index) }

// State returns the state of a registered source.
func (m *MountScheduler) State(src MountSource) SourceState {
	if e, ok := m.index[src]; ok {
		return e.state
	}
	return SourceUnregistered
}

// IsSubscribed reports whether the scheduler listens to its timing source.
func (m *MountScheduler) IsSubscribed() bool { return m.sub.state == Subscribed }

// Frames returns the number of frames drained so far.
func (m *MountScheduler) Frames() int { return m.frames }

// DoFrame drains work for the frame starting at frameTimeNanos.
func (m *MountScheduler) DoFrame(frameTimeNanos int64) {
	m.guard.check()

	if m.running {
		return
	}

	m.drain(frameTimeNanos)
	if len(m.entries) == 0 {
		m.unsubscribe()
	}
}

// Deadline returns the time by which work for the frame must stop.
func (m *MountScheduler) Deadline(frameTimeNanos int64) int64 {
	return frameTimeNanos + int64(m.frameInterval) - int64(m.safetyBuffer)
}

func (m *MountScheduler) drain(frameTimeNanos int64) {
	deadline := m.Deadline(frameTimeNanos)

	m.running = true
	defer func() {
		m.running = false
		m.compact()
		m.frames++
	}()

	units := 0
	for len(m.entries) > 0 {
		if m.cursor >= len(m.entries) {
			m.cursor = 0
		}

		e := m.entries[m.cursor]
		if e.removed {
			m.removeAt(m.cursor)
			continue
		}

		if m.clock.Now() >= deadline {
			break
		}

		if !e.source.HasMoreWork() {
			delete(m.index, e.source)
			e.state = SourceUnregistered
			m.removeAt(m.cursor)
			continue
		}

		e.state = SourceDraining
		e.source.DoWork()
		if !e.removed {
			e.state = SourceHasWork
		}

		units++
		m.cursor++
	}

	m.logger.Debug("mount frame drained", "units", units, "pending", m.Pending())
}

func (m *MountScheduler) removeAt(i int) {
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	if m.cursor > i {
		m.cursor--
	}
}

// compact drops entries unregistered while a frame was draining.
func (m *MountScheduler) compact() {
	for i := 0; i < len(m.entries); {
		if m.entries[i].removed {
			m.removeAt(i)
			continue
		}
		i++
	}
	if m.cursor >= len(m.entries) {
		m.cursor = 0
	}
}

func (m *MountScheduler) subscribe() {
	if !m.sub.subscribe() {
		return
	}

	m.logger.Debug("mount scheduler subscribed")
	if m.source != nil {
		generation := m.sub.generation
		m.source.Subscribe(func(frameTimeNanos int64) {
			if !m.sub.current(generation) {
				return
			}
			m.DoFrame(frameTimeNanos)
		})
	}
}

func (m *MountScheduler) unsubscribe() {
	if !m.sub.unsubscribe() {
		return
	}

	m.logger.Debug("mount scheduler unsubscribed")
	if m.source != nil {
		m.source.Unsubscribe()
	}
}
