package internal

// NodeFlags represents the per-frame state of a node
type NodeFlags uint8

const (
	FlagNone   NodeFlags = 0
	FlagInHeap NodeFlags = 1 << iota // Node is queued in the propagation heap
)

func (n *Node) HasFlag(flag NodeFlags) bool {
	return n.flags&flag != 0
}

func (n *Node) AddFlag(flag NodeFlags) {
	n.flags |= flag
}

func (n *Node) RemoveFlag(flag NodeFlags) {
	n.flags &^= flag
}

func (n *Node) SetFlags(flags NodeFlags) {
	n.flags = flags
}
