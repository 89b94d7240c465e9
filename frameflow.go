// Package frameflow is a frame-clocked dataflow engine for animations.
//
// Nodes compute a value each frame from their inputs. A Binding groups nodes
// and edges into one animation that is activated, finished and cancelled as
// a unit. The Scheduler listens to a TimingSource only while bindings are
// active and runs one topologically ordered pass per frame.
//
// A MountScheduler, driven by the same kind of TimingSource, spreads pending
// mount work over the time left in each frame.
//
// Both schedulers are single-threaded: they must only be used from the
// goroutine that created them.
package frameflow

import (
	"github.com/charmbracelet/log"

	"github.com/AnatoleLucet/frameflow/internal"
)

// FrameCallback receives the start time of a frame in monotonic nanoseconds.
type FrameCallback = internal.FrameCallback

// TimingSource is the frame clock driving the schedulers.
// See the frameclock package for implementations.
type TimingSource = internal.TimingSource

type options struct {
	logger *log.Logger
	clock  internal.Clock
	config Config
}

func newOptions(opts []Option) *options {
	o := &options{config: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*options)

// WithLogger sets the logger used for lifecycle debug output and frame errors.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig sets the frame timing used by the MountScheduler.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithClock sets the clock the MountScheduler compares against its deadline.
// It must share its time base with the timing source. By default the timing
// source itself is used when it has a Now method, and a monotonic clock
// started with the scheduler otherwise.
func WithClock(c interface{ Now() int64 }) Option {
	return func(o *options) { o.clock = c }
}

// Scheduler drives the dataflow graph, one pass per frame.
type Scheduler struct {
	scheduler *internal.Scheduler
}

// NewScheduler creates a scheduler bound to the calling goroutine.
func NewScheduler(source TimingSource, opts ...Option) *Scheduler {
	o := newOptions(opts)
	return &Scheduler{
		internal.NewScheduler(source, o.logger),
	}
}

// CreateBinding returns a new inactive binding.
func (s *Scheduler) CreateBinding() *Binding {
	return &Binding{s.scheduler.NewBinding()}
}

// DoFrame runs one propagation pass for the frame starting at frameTimeNanos.
// Frames normally come from the timing source; calling it directly is useful
// when driving the graph by hand. The returned error joins the sink errors
// that no binding error listener handled.
func (s *Scheduler) DoFrame(frameTimeNanos int64) error {
	return s.scheduler.DoFrame(frameTimeNanos)
}

// HasReferencesToNodes reports whether the scheduler still holds any node.
// It is false once every binding has finished or been cancelled.
func (s *Scheduler) HasReferencesToNodes() bool { return s.scheduler.HasReferencesToNodes() }

// IsSubscribed reports whether the scheduler currently listens to its timing source.
func (s *Scheduler) IsSubscribed() bool { return s.scheduler.IsSubscribed() }

// ActiveBindings returns the number of bindings in the graph.
func (s *Scheduler) ActiveBindings() int { return len(s.scheduler.ActiveBindings()) }

// Frames returns how many frames have run.
func (s *Scheduler) Frames() int { return s.scheduler.Frames() }

type BindingState = internal.BindingState

const (
	BindingInactive  = internal.BindingInactive
	BindingActive    = internal.BindingActive
	BindingFinished  = internal.BindingFinished
	BindingCancelled = internal.BindingCancelled
)

// DefaultInput is the input slot fed by AddEdge.
const DefaultInput = internal.DefaultInput

// Binding is one animation: a set of nodes and edges activated together.
type Binding struct {
	binding *internal.Binding
}

// ID returns the binding's unique identifier.
func (b *Binding) ID() string { return b.binding.ID() }

func (b *Binding) State() BindingState { return b.binding.State() }

// AddNode declares nodes that belong to the binding without connecting them.
func (b *Binding) AddNode(nodes ...Node) {
	for _, n := range nodes {
		b.binding.AddNode(unwrap(n))
	}
}

// AddEdge feeds the output of from into the default input of to.
func (b *Binding) AddEdge(from, to Node) {
	b.binding.AddEdge(unwrap(from), unwrap(to))
}

// AddEdgeToInput feeds the output of from into the named input of to.
func (b *Binding) AddEdgeToInput(from, to Node, input string) {
	b.binding.AddEdgeToInput(unwrap(from), unwrap(to), input)
}

// SetGatingNodes chooses which nodes must finish for the binding to finish.
// By default those are the nodes that feed no other node.
func (b *Binding) SetGatingNodes(nodes ...Node) {
	gating := make([]*internal.Node, 0, len(nodes))
	for _, n := range nodes {
		gating = append(gating, unwrap(n))
	}
	b.binding.SetGatingNodes(gating...)
}

// SetListener sets the function called exactly once when the binding finishes.
func (b *Binding) SetListener(onFinished func()) { b.binding.SetListener(onFinished) }

// OnError sets the function receiving sink errors raised while the binding runs.
// A binding that raised an error is cancelled at the end of the frame.
func (b *Binding) OnError(fn func(error)) { b.binding.OnError(fn) }

// Activate validates the binding and starts it on the next frame.
// Cycles and foreign node references are rejected before anything changes.
// A binding can only be activated once.
func (b *Binding) Activate() error {
	return b.binding.Scheduler().Activate(b.binding)
}

// Cancel stops an active binding without calling its listener.
// Called during a frame, the cancel is applied once the frame completes, but
// the binding's nodes can already be reused by bindings activated after it.
func (b *Binding) Cancel() {
	b.binding.Scheduler().Cancel(b.binding)
}
