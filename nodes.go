package frameflow

import (
	"time"

	"github.com/AnatoleLucet/frameflow/internal"
)

// Node is a vertex of the dataflow graph.
type Node interface {
	// Value returns the output computed on the node's last update.
	Value() float64
	// Finished reports the finished flag computed on the node's last update.
	Finished() bool

	node() *internal.Node
}

func unwrap(n Node) *internal.Node {
	if n == nil {
		return nil
	}
	return n.node()
}

type baseNode struct {
	n *internal.Node
}

func (b baseNode) Value() float64       { return b.n.Value() }
func (b baseNode) Finished() bool       { return b.n.Finished() }
func (b baseNode) String() string       { return b.n.String() }
func (b baseNode) node() *internal.Node { return b.n }

// SettableNode outputs whatever value was last assigned to it.
// It only finishes when Finish is called.
type SettableNode struct{ baseNode }

func NewSettableNode() *SettableNode {
	return &SettableNode{baseNode{internal.NewSettableNode(0)}}
}

// SetValue assigns the node's output; it propagates on the next frame.
func (n *SettableNode) SetValue(v float64) { n.n.SetValue(v) }

// Finish marks the node finished from the next frame on.
func (n *SettableNode) Finish() { n.n.Finish() }

// ConstantNode always outputs the same value and is always finished.
type ConstantNode struct{ baseNode }

func NewConstantNode(v float64) *ConstantNode {
	return &ConstantNode{baseNode{internal.NewConstantNode(v)}}
}

// TimingNode outputs the fraction of its duration elapsed since activation,
// clamped to [0, 1], and finishes on reaching 1.
type TimingNode struct{ baseNode }

func NewTimingNode(d time.Duration) *TimingNode {
	return &TimingNode{baseNode{internal.NewTimingNode(d)}}
}

// InterpolatorNode maps its input through fn and finishes with its input.
// See the interpolate package for common curves.
type InterpolatorNode struct{ baseNode }

func NewInterpolatorNode(fn func(float64) float64) *InterpolatorNode {
	return &InterpolatorNode{baseNode{internal.NewInterpolatorNode(fn)}}
}

// SimpleNode passes its input through unchanged.
type SimpleNode struct{ baseNode }

func NewSimpleNode() *SimpleNode {
	return &SimpleNode{baseNode{internal.NewSimpleNode()}}
}

// OutputOnlyNode is a terminal that exposes its input's value for inspection.
type OutputOnlyNode struct{ baseNode }

func NewOutputOnlyNode() *OutputOnlyNode {
	return &OutputOnlyNode{baseNode{internal.NewOutputOnlyNode()}}
}

// PropertySinkNode writes its input's value to a property of every target in
// its mount content group.
type PropertySinkNode struct{ baseNode }

func NewPropertySinkNode(group TargetGroup, property Property) *PropertySinkNode {
	return &PropertySinkNode{baseNode{internal.NewPropertySinkNode(group, property)}}
}

// SetMountContentGroup redirects the sink to a new group, applying the
// node's current value to it right away. The animation's progress is kept.
func (n *PropertySinkNode) SetMountContentGroup(group TargetGroup) error {
	return n.n.SetTargetGroup(group)
}

func (n *PropertySinkNode) MountContentGroup() TargetGroup { return n.n.TargetGroup() }

type SpringConfig = internal.SpringConfig

// SpringNode follows its input with a damped spring. It finishes once the
// spring rests on its input's value and the input is finished.
type SpringNode struct{ baseNode }

func NewSpringNode(cfg SpringConfig) *SpringNode {
	return &SpringNode{baseNode{internal.NewSpringNode(cfg)}}
}
