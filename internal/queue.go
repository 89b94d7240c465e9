package internal

import "fmt"

type opKind int

const (
	opActivate opKind = iota
	opCancel
)

type bindingOp struct {
	kind    opKind
	binding *Binding
}

// OpQueue defers binding activations and cancellations requested while a
// frame is running. They are applied once the frame completes.
type OpQueue struct {
	ops []bindingOp
}

func NewOpQueue() *OpQueue {
	return &OpQueue{
		ops: make([]bindingOp, 0),
	}
}

func (q *OpQueue) Len() int { return len(q.ops) }

func (q *OpQueue) Enqueue(kind opKind, b *Binding) {
	q.ops = append(q.ops, bindingOp{kind: kind, binding: b})
}

// Drain applies queued ops in request order. Ops enqueued while draining are
// applied in the same drain.
func (q *OpQueue) Drain(apply func(opKind, *Binding)) {
	for len(q.ops) > 0 {
		op := q.ops[0]
		q.ops = q.ops[1:]
		apply(op.kind, op.binding)
	}
	q.ops = q.ops[:0]
}

// NotifyQueue holds finished bindings whose listeners have not run yet.
type NotifyQueue struct {
	bindings []*Binding
}

func NewNotifyQueue() *NotifyQueue {
	return &NotifyQueue{
		bindings: make([]*Binding, 0),
	}
}

func (q *NotifyQueue) Enqueue(b *Binding) {
	q.bindings = append(q.bindings, b)
}

// Run calls each listener once, in the order the bindings were enqueued.
func (q *NotifyQueue) Run() {
	bindings := q.bindings
	q.bindings = nil

	for _, b := range bindings {
		if b.notified {
			panic(fmt.Errorf("%w: %s", ErrDoubleFinish, b.id))
		}
		b.notified = true

		if b.listener != nil {
			b.listener()
		}
	}
}
