package internal

import "iter"

// PriorityHeap buckets nodes by height so that draining it visits every node
// after all of its inputs.
type PriorityHeap struct {
	min int
	max int

	nodes []*heapNode // [height]head

	lookup map[*Node]*heapNode // for O(1) removal
}

type heapNode struct {
	node *Node

	next *heapNode
	prev *heapNode
}

func NewHeap() *PriorityHeap {
	return &PriorityHeap{
		min:    0,
		max:    0,
		nodes:  make([]*heapNode, 16),
		lookup: make(map[*Node]*heapNode),
	}
}

func (h *PriorityHeap) Len() int { return len(h.lookup) }

func (h *PriorityHeap) Insert(node *Node) {
	if node.HasFlag(FlagInHeap) {
		return
	}
	node.AddFlag(FlagInHeap)

	entry := &heapNode{node: node}
	h.lookup[node] = entry

	height := node.height
	for height >= len(h.nodes) {
		h.nodes = append(h.nodes, make([]*heapNode, len(h.nodes))...)
	}

	if h.nodes[height] == nil {
		h.nodes[height] = entry
		entry.prev = entry // loop to self
		entry.next = nil
	} else {
		head := h.nodes[height]
		tail := head.prev

		tail.next = entry
		entry.prev = tail
		entry.next = nil
		head.prev = entry
	}

	if height > h.max {
		h.max = height
	}
}

func (h *PriorityHeap) InsertAll(nodes iter.Seq[*Node]) {
	for node := range nodes {
		h.Insert(node)
	}
}

func (h *PriorityHeap) Remove(node *Node) {
	if !node.HasFlag(FlagInHeap) {
		return
	}
	node.RemoveFlag(FlagInHeap)

	entry, ok := h.lookup[node]
	if !ok {
		return
	}
	delete(h.lookup, node)

	height := entry.node.height

	// single node
	if entry.prev == entry {
		h.nodes[height] = nil
		entry.next = nil
		return
	}

	// multiple nodes
	head := h.nodes[height]
	if entry == head {
		h.nodes[height] = entry.next
	} else {
		entry.prev.next = entry.next
	}

	next := entry.next
	if next == nil {
		next = h.nodes[height]
	}
	next.prev = entry.prev

	entry.prev = entry
	entry.next = nil
}

// Drain processes each entry in topological order with the `process` function leaving the heap empty.
func (h *PriorityHeap) Drain(process func(*Node)) {
	for h.min = 0; h.min <= h.max; h.min++ {
		entry := h.nodes[h.min]

		for entry != nil {
			h.Remove(entry.node)
			process(entry.node)
			entry = h.nodes[h.min]
		}
	}

	h.min = 0
	h.max = 0
}
