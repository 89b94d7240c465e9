package frameflow

import "github.com/AnatoleLucet/frameflow/internal"

// MountSource is a host with outstanding mount work, performed one unit at a time.
type MountSource = internal.MountSource

type SourceState = internal.SourceState

const (
	SourceUnregistered = internal.SourceUnregistered
	SourceIdle         = internal.SourceIdle
	SourceHasWork      = internal.SourceHasWork
	SourceDraining     = internal.SourceDraining
)

// MountScheduler spreads mount work over the idle time of each frame.
//
// On every frame it performs one unit of work per source, round-robin in
// registration order, until the frame deadline
// (frame start + frame interval - safety buffer) is reached or every source is
// drained. Work interrupted by the deadline resumes at the same source on the
// next frame. The scheduler listens to its timing source only while sources
// are registered.
type MountScheduler struct {
	scheduler *internal.MountScheduler
}

// NewMountScheduler creates a mount scheduler bound to the calling goroutine.
// Frame interval and safety buffer come from WithConfig, defaulting to DefaultConfig.
func NewMountScheduler(source TimingSource, opts ...Option) *MountScheduler {
	o := newOptions(opts)
	cfg := internal.MountConfig{
		FrameInterval: o.config.FrameInterval.Duration,
		SafetyBuffer:  o.config.SafetyBuffer.Duration,
	}

	return &MountScheduler{
		internal.NewMountScheduler(source, o.clock, cfg, o.logger),
	}
}

// RegisterSource queues src; its work starts on the next frame.
// Registering a source twice keeps its original position.
func (m *MountScheduler) RegisterSource(src MountSource) { m.scheduler.RegisterSource(src) }

// RegisterSourceAt queues src and drains work right away within the time left
// in the frame that started at frameTimeNanos.
func (m *MountScheduler) RegisterSourceAt(src MountSource, frameTimeNanos int64) {
	m.scheduler.RegisterSourceAt(src, frameTimeNanos)
}

// UnregisterSource drops src, whether or not it has work left.
func (m *MountScheduler) UnregisterSource(src MountSource) { m.scheduler.UnregisterSource(src) }

// DoFrame drains work for the frame starting at frameTimeNanos.
func (m *MountScheduler) DoFrame(frameTimeNanos int64) { m.scheduler.DoFrame(frameTimeNanos) }

// Pending returns the number of registered sources.
func (m *MountScheduler) Pending() int { return m.scheduler.Pending() }

func (m *MountScheduler) State(src MountSource) SourceState { return m.scheduler.State(src) }

func (m *MountScheduler) IsSubscribed() bool { return m.scheduler.IsSubscribed() }

func (m *MountScheduler) Frames() int { return m.scheduler.Frames() }
