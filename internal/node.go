package internal

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

type NodeKind int

const (
	KindSettable NodeKind = iota
	KindConstant
	KindTiming
	KindInterpolator
	KindSimple
	KindOutputOnly
	KindPropertySink
	KindSpring
)

func (k NodeKind) String() string {
	switch k {
	case KindSettable:
		return "settable"
	case KindConstant:
		return "constant"
	case KindTiming:
		return "timing"
	case KindInterpolator:
		return "interpolator"
	case KindSimple:
		return "simple"
	case KindOutputOnly:
		return "output"
	case KindPropertySink:
		return "sink"
	case KindSpring:
		return "spring"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultInput is the input slot used by single-input nodes.
const DefaultInput = "default"

var nodeSeq atomic.Int64

type Node struct {
	id   int64
	kind NodeKind

	// owning binding while activated, nil otherwise
	owner *Binding

	// arena slot while inserted in the graph, -1 otherwise
	slot int

	// the node's depth in its binding, inputs always have a lower height
	height int

	flags NodeFlags

	value    float64
	finished bool

	// false until the first update since the node was inserted
	updated bool

	// settable
	assigned       float64
	assignedFinish bool

	// timing
	duration time.Duration
	elapsed  time.Duration

	// interpolator
	interpolate func(float64) float64

	sink   *sinkState
	spring *springState
}

func newNode(kind NodeKind) *Node {
	return &Node{
		id:   nodeSeq.Add(1),
		kind: kind,
		slot: -1,
	}
}

func NewSettableNode(initial float64) *Node {
	n := newNode(KindSettable)
	n.assigned = initial
	n.value = initial
	return n
}

func NewConstantNode(v float64) *Node {
	n := newNode(KindConstant)
	n.assigned = v
	n.value = v
	return n
}

func NewTimingNode(d time.Duration) *Node {
	n := newNode(KindTiming)
	n.duration = d
	return n
}

func NewInterpolatorNode(fn func(float64) float64) *Node {
	n := newNode(KindInterpolator)
	n.interpolate = fn
	return n
}

func NewSimpleNode() *Node { return newNode(KindSimple) }

func NewOutputOnlyNode() *Node { return newNode(KindOutputOnly) }

func NewPropertySinkNode(group TargetGroup, property Property) *Node {
	n := newNode(KindPropertySink)
	n.sink = &sinkState{group: group, property: property}
	return n
}

func NewSpringNode(cfg SpringConfig) *Node {
	n := newNode(KindSpring)
	n.spring = &springState{config: cfg.withDefaults()}
	return n
}

func (n *Node) ID() int64      { return n.id }
func (n *Node) Kind() NodeKind { return n.kind }
func (n *Node) Value() float64 { return n.value }

// Finished reports the finished flag recorded by the node's last update.
func (n *Node) Finished() bool { return n.finished }

// Active reports whether the node currently sits in a graph.
func (n *Node) Active() bool { return n.slot >= 0 }

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d", n.kind, n.id)
}

// AcceptsInput reports whether an edge may target the given input slot.
func (n *Node) AcceptsInput(input string) bool {
	switch n.kind {
	case KindSettable, KindConstant, KindTiming:
		return false
	default:
		return input == DefaultInput
	}
}

// RequiredInputs lists the slots that must be fed before the node can be activated.
func (n *Node) RequiredInputs() []string {
	switch n.kind {
	case KindSettable, KindConstant, KindTiming:
		return nil
	default:
		return []string{DefaultInput}
	}
}

// SetValue assigns a settable node's output, picked up on the next frame.
func (n *Node) SetValue(v float64) {
	n.assigned = v
	if !n.Active() {
		n.value = v
	}
}

// Finish marks a settable node as finished from the next frame on. Called on
// an inactive node, it takes effect on the node's first frame.
func (n *Node) Finish() { n.assignedFinish = true }

// reset prepares the node for a fresh activation.
func (n *Node) reset() {
	n.updated = false
	n.finished = false
	n.elapsed = 0
	if n.spring != nil {
		n.spring.started = false
	}
}

// release hands the node back once its binding retires. A finish requested
// during that activation does not carry over to the next one.
func (n *Node) release() {
	n.owner = nil
	n.assignedFinish = false
}

// update recomputes the node's output from its input, dt is the time elapsed
// since the previous frame. The first update after activation always sees dt=0.
func (n *Node) update(dt time.Duration, in *Node) error {
	if !n.updated || dt < 0 {
		dt = 0
	}
	n.updated = true

	switch n.kind {
	case KindSettable:
		n.value = n.assigned
		n.finished = n.assignedFinish

	case KindConstant:
		n.value = n.assigned
		n.finished = true

	case KindTiming:
		n.elapsed += dt
		if n.duration <= 0 {
			n.value = 1
		} else {
			n.value = clamp(float64(n.elapsed)/float64(n.duration), 0, 1)
		}
		n.finished = n.value >= 1

	case KindInterpolator:
		n.value = n.interpolate(in.value)
		n.finished = in.finished

	case KindSimple, KindOutputOnly:
		n.value = in.value
		n.finished = in.finished

	case KindPropertySink:
		n.value = in.value
		n.finished = in.finished
		return n.sink.apply(n.value)

	case KindSpring:
		n.value = n.spring.step(dt, in.value)
		n.finished = n.spring.atRest && in.finished

	default:
		panic(fmt.Sprintf("unknown node kind %d", n.kind))
	}

	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
