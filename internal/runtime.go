package internal

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// Scheduler owns the graph of active bindings and runs one propagation pass
// per frame while at least one binding is active.
type Scheduler struct {
	guard  goroutineGuard
	logger *log.Logger

	source TimingSource
	sub    subscription

	graph  *Graph
	heap   *PriorityHeap
	frames *FrameClock

	// active bindings in activation order
	bindings []*Binding

	ops    *OpQueue
	notify *NotifyQueue
}

func NewScheduler(source TimingSource, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}

	return &Scheduler{
		guard:  newGoroutineGuard(),
		logger: logger,
		source: source,
		graph:  NewGraph(),
		heap:   NewHeap(),
		frames: NewFrameClock(),
		ops:    NewOpQueue(),
		notify: NewNotifyQueue(),
	}
}

func (s *Scheduler) checkGoroutine() { s.guard.check() }

// Activate validates the binding and inserts it in the graph. When called
// while a frame runs the insertion is deferred until the frame completes.
func (s *Scheduler) Activate(b *Binding) error {
	s.checkGoroutine()

	if b.state != BindingInactive || b.pending {
		return &GraphError{Kind: ErrBindingReused, Binding: b.id, Msg: "binding is " + b.state.String()}
	}

	v, err := b.validate()
	if err != nil {
		s.logger.Debug("binding rejected", "binding", b.id, "err", err)
		return err
	}

	for _, n := range b.nodes {
		n.owner = b
		n.height = v.heights[n]
	}
	b.terminals = v.terminals
	b.state = BindingActive

	if s.frames.Running() {
		b.pending = true
		s.ops.Enqueue(opActivate, b)
		return nil
	}

	s.attach(b)
	return nil
}

// Cancel removes an active binding without notifying its listener.
func (s *Scheduler) Cancel(b *Binding) {
	s.checkGoroutine()

	if b.state != BindingActive {
		return
	}

	if s.frames.Running() {
		b.cancelling = true
		s.ops.Enqueue(opCancel, b)
		return
	}

	s.cancel(b)
	s.maybeUnsubscribe()
}

func (s *Scheduler) attach(b *Binding) {
	b.pending = false
	if b.state != BindingActive {
		return
	}

	if len(b.nodes) == 0 {
		b.state = BindingFinished
		s.logger.Debug("empty binding finished", "binding", b.id)
		s.notify.Enqueue(b)
		s.notify.Run()
		return
	}

	s.graph.Insert(b)
	s.bindings = append(s.bindings, b)
	s.logger.Debug("binding activated", "binding", b.id, "nodes", len(b.nodes), "edges", len(b.edges))

	s.subscribe()
}

func (s *Scheduler) cancel(b *Binding) {
	if b.state != BindingActive {
		return
	}

	if b.pending {
		// never reached the graph
		s.release(b, BindingCancelled)
		return
	}

	s.bindings = removeBinding(s.bindings, b)
	s.detach(b, BindingCancelled)
	s.logger.Debug("binding cancelled", "binding", b.id)
}

// detach removes the binding's nodes from the graph and releases them.
func (s *Scheduler) detach(b *Binding, state BindingState) {
	s.graph.Remove(b)
	s.release(b, state)
}

func (s *Scheduler) release(b *Binding, state BindingState) {
	for _, n := range b.nodes {
		if n.owner == b {
			n.release()
		}
	}
	b.state = state
}

func (s *Scheduler) apply(kind opKind, b *Binding) {
	switch kind {
	case opActivate:
		s.attach(b)
	case opCancel:
		s.cancel(b)
	}
}

// DoFrame runs one propagation pass. It returns the runtime errors no
// binding error listener handled.
func (s *Scheduler) DoFrame(frameTimeNanos int64) error {
	s.checkGoroutine()

	var err error
	ran := s.frames.Run(frameTimeNanos, func(dt time.Duration) {
		err = s.propagate(dt)
	})
	if !ran {
		s.logger.Debug("ignoring re-entrant frame", "frame", frameTimeNanos)
		return nil
	}

	s.ops.Drain(s.apply)
	s.maybeUnsubscribe()

	return err
}

func (s *Scheduler) propagate(dt time.Duration) error {
	s.heap.InsertAll(s.graph.Nodes())
	s.heap.Drain(func(n *Node) {
		if err := n.update(dt, s.graph.Input(n, DefaultInput)); err != nil {
			n.owner.errs = append(n.owner.errs, err)
		}
	})

	var finished, failed []*Binding
	kept := make([]*Binding, 0, len(s.bindings))
	for _, b := range s.bindings {
		switch {
		case len(b.errs) > 0:
			failed = append(failed, b)
		case b.isFinished():
			finished = append(finished, b)
		default:
			kept = append(kept, b)
		}
	}
	s.bindings = kept

	for _, b := range failed {
		s.detach(b, BindingCancelled)
	}
	for _, b := range finished {
		s.detach(b, BindingFinished)
		s.logger.Debug("binding finished", "binding", b.id, "frame", s.frames.Time())
		s.notify.Enqueue(b)
	}

	var unhandled []error
	for _, b := range failed {
		err := errors.Join(b.errs...)
		b.errs = nil

		if b.onError != nil {
			b.onError(err)
			continue
		}
		s.logger.Error("binding failed", "binding", b.id, "err", err)
		unhandled = append(unhandled, err)
	}

	s.notify.Run()

	return errors.Join(unhandled...)
}

func (s *Scheduler) subscribe() {
	if !s.sub.subscribe() {
		return
	}

	s.frames.Reset()
	s.logger.Debug("subscribed to timing source")

	if s.source != nil {
		generation := s.sub.generation
		s.source.Subscribe(func(frameTimeNanos int64) {
			if !s.sub.current(generation) {
				s.logger.Debug("ignoring frame after unsubscribe", "frame", frameTimeNanos)
				return
			}
			_ = s.DoFrame(frameTimeNanos)
		})
	}
}

func (s *Scheduler) maybeUnsubscribe() {
	if len(s.bindings) > 0 || s.ops.Len() > 0 {
		return
	}
	if !s.sub.unsubscribe() {
		return
	}

	s.logger.Debug("unsubscribed from timing source")
	if s.source != nil {
		s.source.Unsubscribe()
	}
}

// IsSubscribed reports whether the scheduler listens to its timing source.
func (s *Scheduler) IsSubscribed() bool { return s.sub.state == Subscribed }

// ActiveBindings returns the bindings currently in the graph, in activation order.
func (s *Scheduler) ActiveBindings() []*Binding {
	return append([]*Binding(nil), s.bindings...)
}

// HasReferencesToNodes reports whether any graph state is still held.
func (s *Scheduler) HasReferencesToNodes() bool {
	return len(s.bindings) > 0 || s.ops.Len() > 0 || s.heap.Len() > 0 || s.graph.HasReferences()
}

// Frames returns the number of frames run so far.
func (s *Scheduler) Frames() int { return s.frames.Time() }

func removeBinding(bindings []*Binding, b *Binding) []*Binding {
	for i, other := range bindings {
		if other == b {
			return append(bindings[:i], bindings[i+1:]...)
		}
	}
	return bindings
}
