package internal

// Updater is a component that can be refreshed inside a frame.
type Updater interface {
	// Depth is the distance to the root of the tree, the root being 0.
	Depth() int

	// Refresh re-renders the component.
	Refresh()
}

// DepthQueue holds updaters bucketed by depth so shallower ones are processed first.
type DepthQueue struct {
	min int
	max int

	nodes []*depthEntry // [depth]head

	lookup map[Updater]*depthEntry // for O(1) removal and dedup
}

type depthEntry struct {
	node  Updater
	depth int

	next *depthEntry
	prev *depthEntry
}

func NewDepthQueue() *DepthQueue {
	return &DepthQueue{
		min:    0,
		max:    0,
		nodes:  make([]*depthEntry, 16),
		lookup: make(map[Updater]*depthEntry),
	}
}

func (h *DepthQueue) Len() int {
	return len(h.lookup)
}

func (h *DepthQueue) Contains(node Updater) bool {
	_, ok := h.lookup[node]
	return ok
}

func (h *DepthQueue) Insert(node Updater) {
	if h.Contains(node) {
		return
	}

	depth := max(node.Depth(), 0)
	for depth >= len(h.nodes) {
		h.nodes = append(h.nodes, make([]*depthEntry, len(h.nodes))...)
	}

	entry := &depthEntry{node: node, depth: depth}
	h.lookup[node] = entry

	if h.nodes[depth] == nil {
		h.nodes[depth] = entry
		entry.prev = entry // loop to self
		entry.next = nil
	} else {
		head := h.nodes[depth]
		tail := head.prev

		tail.next = entry
		entry.prev = tail
		entry.next = nil
		head.prev = entry
	}

	if depth > h.max {
		h.max = depth
	}
}

func (h *DepthQueue) Remove(node Updater) {
	entry, ok := h.lookup[node]
	if !ok {
		return
	}
	delete(h.lookup, node)

	depth := entry.depth

	// single node
	if entry.prev == entry {
		h.nodes[depth] = nil
		entry.next = nil
		return
	}

	// multiple nodes
	head := h.nodes[depth]
	if entry == head {
		h.nodes[depth] = entry.next
	} else {
		entry.prev.next = entry.next
	}

	next := entry.next
	if next == nil {
		next = h.nodes[depth]
	}
	next.prev = entry.prev

	entry.prev = entry
	entry.next = nil
}

// Drain processes each entry by ascending depth, leaving the queue empty.
// Entries inserted while draining are processed too, even at a shallower depth.
func (h *DepthQueue) Drain(process func(Updater)) {
	for len(h.lookup) > 0 {
		for h.min = 0; h.min <= h.max; h.min++ {
			entry := h.nodes[h.min]

			for entry != nil {
				h.Remove(entry.node)
				process(entry.node)
				entry = h.nodes[h.min]
			}
		}
	}

	h.min = 0
	h.max = 0
}

func (h *DepthQueue) Clear() {
	clear(h.nodes)
	clear(h.lookup)
	h.min = 0
	h.max = 0
}
