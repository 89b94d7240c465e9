package internal

import (
	"fmt"

	"github.com/google/uuid"
)

type BindingState int

const (
	BindingInactive BindingState = iota
	BindingActive
	BindingFinished
	BindingCancelled
)

func (s BindingState) String() string {
	switch s {
	case BindingInactive:
		return "inactive"
	case BindingActive:
		return "active"
	case BindingFinished:
		return "finished"
	case BindingCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Edge connects the output of From to the named input of To.
type Edge struct {
	From  *Node
	To    *Node
	Input string
}

// Binding is a subgraph that is activated, finished and cancelled as a unit.
type Binding struct {
	id        string
	scheduler *Scheduler

	nodes    []*Node
	declared map[*Node]struct{}
	edges    []Edge

	// explicit completion gate, terminals are used when nil
	gating    []*Node
	terminals []*Node

	listener func()
	onError  func(error)

	state BindingState

	// waiting in the scheduler's op queue
	pending bool

	// a cancel is queued, its nodes may be claimed by a binding activated after it
	cancelling bool

	// set once the finish listener was dispatched
	notified bool

	// runtime errors collected during the current frame
	errs []error
}

func (s *Scheduler) NewBinding() *Binding {
	s.checkGoroutine()

	return &Binding{
		id:        uuid.NewString(),
		scheduler: s,
		declared:  make(map[*Node]struct{}),
	}
}

func (b *Binding) ID() string          { return b.id }
func (b *Binding) State() BindingState { return b.state }

// Nodes returns the declared nodes in declaration order.
func (b *Binding) Nodes() []*Node { return b.nodes }

func (b *Binding) mustBeInactive(op string) {
	b.scheduler.checkGoroutine()

	if b.state != BindingInactive || b.pending {
		panic(fmt.Errorf("%w: %s on %s binding %s", ErrBindingReused, op, b.state, b.id))
	}
}

// AddNode declares nodes owned by the binding.
func (b *Binding) AddNode(nodes ...*Node) {
	b.mustBeInactive("AddNode")

	for _, n := range nodes {
		b.declare(n)
	}
}

func (b *Binding) declare(n *Node) {
	if n == nil {
		return
	}
	if _, ok := b.declared[n]; ok {
		return
	}

	b.declared[n] = struct{}{}
	b.nodes = append(b.nodes, n)
}

// AddEdge connects from to the default input of to, declaring both.
func (b *Binding) AddEdge(from, to *Node) {
	b.AddEdgeToInput(from, to, DefaultInput)
}

func (b *Binding) AddEdgeToInput(from, to *Node, input string) {
	b.mustBeInactive("AddEdge")

	b.declare(from)
	b.declare(to)
	b.edges = append(b.edges, Edge{From: from, To: to, Input: input})
}

// SetGatingNodes overrides which nodes decide when the binding is finished.
func (b *Binding) SetGatingNodes(nodes ...*Node) {
	b.mustBeInactive("SetGatingNodes")

	b.gating = append(make([]*Node, 0, len(nodes)), nodes...)
}

// SetListener sets the function called once when the binding finishes.
func (b *Binding) SetListener(fn func()) {
	b.scheduler.checkGoroutine()
	b.listener = fn
}

// OnError sets the function receiving runtime errors raised by the binding's nodes.
func (b *Binding) OnError(fn func(error)) {
	b.scheduler.checkGoroutine()
	b.onError = fn
}

// GatingNodes returns the nodes that must all be finished for the binding to finish.
func (b *Binding) GatingNodes() []*Node {
	if b.gating != nil {
		return b.gating
	}
	return b.terminals
}

func (b *Binding) isFinished() bool {
	for _, n := range b.GatingNodes() {
		if !n.updated || !n.finished {
			return false
		}
	}
	return true
}

type validation struct {
	heights   map[*Node]int
	terminals []*Node
}

// validate checks the binding's structure without mutating any node.
func (b *Binding) validate() (*validation, error) {
	index := make(map[*Node]int, len(b.nodes))
	for i, n := range b.nodes {
		if n.owner != nil && !n.owner.cancelling {
			return nil, invalidRef(b.id, "%s is owned by binding %s", n, n.owner.id)
		}
		index[n] = i
	}

	outgoing := make([][]int, len(b.nodes))
	indeg := make([]int, len(b.nodes))
	fed := make(map[*Node]map[string]bool, len(b.nodes))

	for _, e := range b.edges {
		if e.From == nil || e.To == nil {
			return nil, invalidRef(b.id, "edge with nil endpoint")
		}
		if !e.To.AcceptsInput(e.Input) {
			return nil, invalidRef(b.id, "%s has no input %q", e.To, e.Input)
		}
		if fed[e.To][e.Input] {
			return nil, invalidRef(b.id, "%s input %q is fed twice", e.To, e.Input)
		}
		if fed[e.To] == nil {
			fed[e.To] = make(map[string]bool)
		}
		fed[e.To][e.Input] = true

		from, to := index[e.From], index[e.To]
		outgoing[from] = append(outgoing[from], to)
		indeg[to]++
	}

	for _, n := range b.gating {
		if _, ok := b.declared[n]; !ok {
			return nil, invalidRef(b.id, "gating node %v is not part of the binding", n)
		}
	}

	heights, ok := topoHeights(b.nodes, outgoing, indeg)
	if !ok {
		return nil, cycleError(b.id, findCycle(b.nodes, outgoing))
	}

	for _, n := range b.nodes {
		for _, input := range n.RequiredInputs() {
			if !fed[n][input] {
				return nil, invalidRef(b.id, "%s input %q is not connected", n, input)
			}
		}
	}

	v := &validation{heights: heights}
	for i, n := range b.nodes {
		if len(outgoing[i]) == 0 {
			v.terminals = append(v.terminals, n)
		}
	}
	return v, nil
}

// topoHeights runs Kahn's algorithm in declaration order, returning each
// node's height. ok is false when a cycle prevents a full ordering.
func topoHeights(nodes []*Node, outgoing [][]int, indeg []int) (map[*Node]int, bool) {
	remaining := append([]int(nil), indeg...)
	height := make([]int, len(nodes))

	ready := make([]int, 0, len(nodes))
	for i, d := range remaining {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	visited := 0
	for len(ready) > 0 {
		u := ready[0]
		ready = ready[1:]
		visited++

		for _, v := range outgoing[u] {
			height[v] = max(height[v], height[u]+1)
			remaining[v]--
			if remaining[v] == 0 {
				ready = append(ready, v)
			}
		}
	}

	if visited != len(nodes) {
		return nil, false
	}

	heights := make(map[*Node]int, len(nodes))
	for i, n := range nodes {
		heights[n] = height[i]
	}
	return heights, true
}

// findCycle performs a DFS in declaration order and returns one cycle,
// starting and ending on the same node.
func findCycle(nodes []*Node, outgoing [][]int) []*Node {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(nodes))
	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range outgoing[u] {
			if color[v] == white {
				parent[v] = u
				if dfs(v) {
					return true
				}
				continue
			}
			if color[v] == gray {
				// back-edge u -> v, walk parents from u back to v
				for cur := u; cur != v && cur != -1; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range nodes {
		if color[i] == white && dfs(i) {
			break
		}
	}

	// cycle holds u, ..., v; emit v -> ... -> u -> v
	path := make([]*Node, 0, len(cycle)+1)
	for i := len(cycle) - 1; i >= 0; i-- {
		path = append(path, nodes[cycle[i]])
	}
	if len(cycle) > 0 {
		path = append(path, nodes[cycle[len(cycle)-1]])
	}
	return path
}

func (b *Binding) Scheduler() *Scheduler { return b.scheduler }
