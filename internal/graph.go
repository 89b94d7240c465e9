package internal

import "iter"

type inputLink struct {
	from  int
	input string
}

// Graph is the arena holding every node of the active bindings.
// Nodes are addressed by slot and edges are stored as slot pairs.
type Graph struct {
	nodes []*Node
	free  []int

	inputs  [][]inputLink // slot -> edges feeding it
	outputs [][]int       // slot -> slots it feeds

	count int
}

func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the number of live nodes.
func (g *Graph) Len() int { return g.count }

// Nodes iterates live nodes in slot order.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range g.nodes {
			if n == nil {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Insert places a validated binding's nodes and edges in the graph.
func (g *Graph) Insert(b *Binding) {
	for _, n := range b.nodes {
		g.insertNode(n)
	}

	for _, e := range b.edges {
		from, to := e.From.slot, e.To.slot
		g.inputs[to] = append(g.inputs[to], inputLink{from: from, input: e.Input})
		g.outputs[from] = append(g.outputs[from], to)
	}
}

func (g *Graph) insertNode(n *Node) {
	var slot int
	if len(g.free) > 0 {
		slot = g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
		g.nodes[slot] = n
	} else {
		slot = len(g.nodes)
		g.nodes = append(g.nodes, n)
		g.inputs = append(g.inputs, nil)
		g.outputs = append(g.outputs, nil)
	}

	n.slot = slot
	n.SetFlags(FlagNone)
	n.reset()
	g.count++
}

// Remove sweeps a binding's slots out of the graph.
func (g *Graph) Remove(b *Binding) {
	for _, n := range b.nodes {
		slot := n.slot
		if slot < 0 || g.nodes[slot] != n {
			continue
		}

		g.nodes[slot] = nil
		g.inputs[slot] = nil
		g.outputs[slot] = nil
		g.free = append(g.free, slot)
		g.count--

		n.slot = -1
	}
}

// Input returns the node feeding the given input slot of n, or nil.
func (g *Graph) Input(n *Node, input string) *Node {
	if n.slot < 0 {
		return nil
	}

	for _, link := range g.inputs[n.slot] {
		if link.input == input {
			return g.nodes[link.from]
		}
	}
	return nil
}

// HasOutputs reports whether n feeds any other node.
func (g *Graph) HasOutputs(n *Node) bool {
	return n.slot >= 0 && len(g.outputs[n.slot]) > 0
}

// HasReferences reports whether any slot still holds a node or an edge.
func (g *Graph) HasReferences() bool {
	if g.count > 0 {
		return true
	}

	for i := range g.nodes {
		if g.nodes[i] != nil || len(g.inputs[i]) > 0 || len(g.outputs[i]) > 0 {
			return true
		}
	}
	return false
}
