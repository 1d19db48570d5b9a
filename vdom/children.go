package vdom

import "slices"

// checkChildren validates the children of el. In debug mode nil children and
// duplicate keys panic, otherwise nil children are dropped.
func checkChildren(el *Element, ctx *Context) []Node {
	children := el.children
	debug := ctx.Debug()

	holes := false
	var seen map[any]struct{}

	for i, c := range children {
		if isNil(c) {
			if debug {
				panic(&DescriptorError{Parent: el.tag, Index: i, Reason: "nil child"})
			}
			holes = true
			continue
		}

		if !debug {
			continue
		}

		if k := c.Key(); k != nil {
			if seen == nil {
				seen = make(map[any]struct{}, len(children))
			}
			if _, ok := seen[k]; ok {
				panic(&KeyError{Parent: el.tag, Key: k})
			}
			seen[k] = struct{}{}
		}
	}

	if holes {
		ctx.Logger.Warning().Str("parent", el.tag).Log("ignoring nil children")
		return slices.DeleteFunc(slices.Clone(children), isNil)
	}

	return children
}

func isNil(n Node) bool {
	switch n := n.(type) {
	case *Element:
		return n == nil
	case *Text:
		return n == nil
	}
	return n == nil
}

type reconciler struct {
	parent *Instance
	ctx    *Context
	host   Host

	inserted int
	moved    int
	removed  int
}

// reconcile updates the children of parent to b and returns the new child
// instances, in order.
func reconcile(parent *Instance, b []Node, ctx *Context) []*Instance {
	a := parent.children
	r := &reconciler{parent: parent, ctx: ctx, host: ctx.Host}

	var result []*Instance
	switch {
	case len(a) == 0 && len(b) == 0:
		return nil
	case len(a) == 0:
		result = make([]*Instance, len(b))
		for j, n := range b {
			result[j] = r.insert(n, nil)
		}
	case len(b) == 0:
		for _, c := range a {
			r.remove(c)
		}
	case !hasKeys(a, b):
		result = r.positional(a, b)
	default:
		result = r.keyed(a, b)
	}

	ctx.Logger.Trace().
		Str("parent", describe(parent.node)).
		Int("depth", parent.depth).
		Int("inserted", r.inserted).
		Int("moved", r.moved).
		Int("removed", r.removed).
		Log("children reconciled")

	return result
}

func hasKeys(a []*Instance, b []Node) bool {
	for _, c := range a {
		if c.node.Key() != nil {
			return true
		}
	}
	for _, n := range b {
		if n.Key() != nil {
			return true
		}
	}
	return false
}

// positional matches children by index. Used when no child has a key.
func (r *reconciler) positional(a []*Instance, b []Node) []*Instance {
	result := make([]*Instance, len(b))
	common := min(len(a), len(b))

	for i := 0; i < common; i++ {
		result[i] = Update(a[i], b[i], r.ctx)
	}
	for i := common; i < len(a); i++ {
		r.remove(a[i])
	}
	for i := common; i < len(b); i++ {
		result[i] = r.insert(b[i], nil)
	}

	return result
}

// keyed matches children by key, a child without key being keyed by its index.
// Unchanged prefix and suffix are skipped, the remaining children are matched
// through a key index and only the ones outside the longest increasing
// subsequence of old positions are moved.
func (r *reconciler) keyed(a []*Instance, b []Node) []*Instance {
	result := make([]*Instance, len(b))

	aStart, bStart := 0, 0
	aEnd, bEnd := len(a)-1, len(b)-1

	for aStart <= aEnd && bStart <= bEnd && sameKey(a[aStart], aStart, b[bStart], bStart) {
		result[bStart] = Update(a[aStart], b[bStart], r.ctx)
		aStart++
		bStart++
	}

	for aStart <= aEnd && bStart <= bEnd && sameKey(a[aEnd], aEnd, b[bEnd], bEnd) {
		result[bEnd] = Update(a[aEnd], b[bEnd], r.ctx)
		aEnd--
		bEnd--
	}

	var anchor Ref
	if bEnd+1 < len(b) {
		anchor = result[bEnd+1].ref
	}

	if aStart > aEnd {
		for j := bStart; j <= bEnd; j++ {
			result[j] = r.insert(b[j], anchor)
		}
		return result
	}

	if bStart > bEnd {
		for i := aStart; i <= aEnd; i++ {
			r.remove(a[i])
		}
		return result
	}

	index := make(map[any]int, aEnd-aStart+1)
	for i := aStart; i <= aEnd; i++ {
		if k := a[i].node.Key(); k != nil {
			index[k] = i
		}
	}

	// sources[j] is the old position reused by b[bStart+j], -1 for a new node
	sources := make([]int, bEnd-bStart+1)
	matched := make([]bool, aEnd-aStart+1)

	moved := false
	last := 0

	for j := bStart; j <= bEnd; j++ {
		n := b[j]

		i := -1
		if k := n.Key(); k != nil {
			if pos, ok := index[k]; ok {
				i = pos
			}
		} else if j >= aStart && j <= aEnd && a[j].node.Key() == nil {
			i = j
		}

		if i < 0 || matched[i-aStart] || !compatible(a[i].node, n) {
			sources[j-bStart] = -1
			continue
		}

		matched[i-aStart] = true
		sources[j-bStart] = i
		if i < last {
			moved = true
		} else {
			last = i
		}

		result[j] = Update(a[i], n, r.ctx)
	}

	for i := aStart; i <= aEnd; i++ {
		if !matched[i-aStart] {
			r.remove(a[i])
		}
	}

	var stable []int
	if moved {
		stable = lis(sources)
	}
	s := len(stable) - 1

	for k := len(sources) - 1; k >= 0; k-- {
		j := bStart + k

		switch {
		case sources[k] < 0:
			result[j] = r.insert(b[j], anchor)
		case !moved:
		case s >= 0 && stable[s] == k:
			s--
		default:
			r.host.MoveBefore(r.parent.ref, result[j].ref, anchor)
			r.moved++
		}

		anchor = result[j].ref
	}

	return result
}

// sameKey reports whether a child at position i of the old list and a node
// at position j of the new list share a key.
func sameKey(c *Instance, i int, n Node, j int) bool {
	ka, kb := c.node.Key(), n.Key()
	if ka == nil && kb == nil {
		return i == j
	}
	return ka != nil && ka == kb
}

func (r *reconciler) insert(n Node, before Ref) *Instance {
	c := create(n, r.parent, r.ctx)
	render(c, r.ctx)
	r.host.InsertBefore(r.parent.ref, c.ref, before)

	if r.parent.flags&flagAttached != 0 {
		c.Attach()
	}

	r.inserted++
	return c
}

func (r *reconciler) remove(c *Instance) {
	r.host.RemoveChild(r.parent.ref, c.ref)
	c.Dispose()
	r.removed++
}
