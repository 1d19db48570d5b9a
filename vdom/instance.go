package vdom

import "slices"

// Hooks observe the lifecycle of the instance built from an element.
type Hooks struct {
	Init     func(*Instance)
	Update   func(*Instance)
	Attached func(*Instance)
	Detached func(*Instance)
	Disposed func(*Instance)
}

type instanceFlags int

const (
	flagRendered instanceFlags = 1 << iota
	flagAttached
	flagDisposed
)

// Instance is the live counterpart of a Node: it owns one host node and the
// instances of its children.
type Instance struct {
	node Node
	ref  Ref

	// distance to the root instance, the root being 0
	depth int

	// scheduler clock of the last update
	mtime int

	parent   *Instance
	children []*Instance

	flags instanceFlags

	// cleanup functions to be called when the instance is disposed
	cleanups []func()

	ctx    *Context
	render func() Node
}

func (i *Instance) Depth() int            { return i.depth }
func (i *Instance) MTime() int            { return i.mtime }
func (i *Instance) Ref() Ref              { return i.ref }
func (i *Instance) Descriptor() Node      { return i.node }
func (i *Instance) Parent() *Instance     { return i.parent }
func (i *Instance) Children() []*Instance { return i.children }
func (i *Instance) IsAttached() bool      { return i.flags&flagAttached != 0 }
func (i *Instance) IsDisposed() bool      { return i.flags&flagDisposed != 0 }

// OnDispose registers a cleanup run when the instance is disposed.
func (i *Instance) OnDispose(fn func()) {
	i.cleanups = append(i.cleanups, fn)
}

func (i *Instance) hooks() *Hooks {
	if e, ok := i.node.(*Element); ok {
		return e.hooks
	}
	return nil
}

// Create builds the host node for n. Children are built by Render.
func Create(n Node, ctx *Context) *Instance {
	return create(n, nil, ctx)
}

func create(n Node, parent *Instance, ctx *Context) *Instance {
	inst := &Instance{node: n, parent: parent, ctx: ctx}
	if parent != nil {
		inst.depth = parent.depth + 1
	}

	switch n := n.(type) {
	case *Element:
		inst.ref = ctx.Host.CreateElement(n.tag, n.ns)
	case *Text:
		inst.ref = ctx.Host.CreateText(n.value)
	default:
		panic(&DescriptorError{Parent: describe(nodeOf(parent)), Reason: "nil node"})
	}

	if h := inst.hooks(); h != nil && h.Init != nil {
		h.Init(inst)
	}

	return inst
}

// Render applies the attributes, classes, style and children of the instance
// to its host node. Rendering an already rendered instance does nothing.
// The instance is attached when ctx is.
func Render(inst *Instance, ctx *Context) {
	render(inst, ctx)

	if ctx.Attached() {
		inst.Attach()
	}
}

func render(inst *Instance, ctx *Context) {
	if inst.flags&(flagRendered|flagDisposed) != 0 {
		return
	}
	inst.flags |= flagRendered
	inst.ctx = ctx

	el, ok := inst.node.(*Element)
	if !ok {
		return
	}

	h := ctx.Host
	updateAttrs(h, inst.ref, nil, el.attrs)
	updateClasses(h, inst.ref, nil, el.classes)
	updateStyle(h, inst.ref, nil, el.style)

	children := checkChildren(el, ctx)
	if len(children) == 0 {
		return
	}

	inst.children = make([]*Instance, 0, len(children))
	for _, n := range children {
		child := create(n, inst, ctx)
		render(child, ctx)
		h.InsertBefore(inst.ref, child.ref, nil)
		inst.children = append(inst.children, child)
	}
}

// Update reconciles the instance with n. When n cannot reuse the host node
// (different kind, tag or namespace) a new instance takes its place in the
// host tree and is returned.
func Update(inst *Instance, n Node, ctx *Context) *Instance {
	if inst.flags&flagDisposed != 0 || inst.node == n {
		return inst
	}

	if n == nil {
		if ctx.Debug() {
			panic(&DescriptorError{Parent: describe(nodeOf(inst.parent)), Reason: "nil node"})
		}
		ctx.Logger.Warning().Str("tag", describe(inst.node)).Log("ignoring update to nil node")
		return inst
	}

	if !compatible(inst.node, n) {
		return replace(inst, n, ctx)
	}

	if inst.flags&flagRendered == 0 {
		inst.node = n
		inst.ctx = ctx
		return inst
	}

	patch(inst, n, ctx)
	return inst
}

func patch(inst *Instance, n Node, ctx *Context) {
	h := ctx.Host

	switch b := n.(type) {
	case *Text:
		if a := inst.node.(*Text); a.value != b.value {
			h.SetText(inst.ref, b.value)
		}
	case *Element:
		a := inst.node.(*Element)
		updateAttrs(h, inst.ref, a.attrs, b.attrs)
		updateClasses(h, inst.ref, a.classes, b.classes)
		updateStyle(h, inst.ref, a.style, b.style)
		inst.children = reconcile(inst, checkChildren(b, ctx), ctx)
	}

	inst.node = n
	inst.ctx = ctx
	inst.mtime = ctx.clock()

	if inst.flags&flagAttached != 0 {
		if hk := inst.hooks(); hk != nil && hk.Update != nil {
			hk.Update(inst)
		}
	}
}

// replace builds n and swaps it with old in the host tree.
func replace(old *Instance, n Node, ctx *Context) *Instance {
	ctx.Logger.Debug().
		Str("from", describe(old.node)).
		Str("to", describe(n)).
		Int("depth", old.depth).
		Log("replacing instance")

	next := create(n, old.parent, ctx)
	next.render = old.render
	render(next, ctx)

	h := ctx.Host
	var parentRef Ref
	if old.parent != nil {
		parentRef = old.parent.ref
	} else {
		parentRef = h.Parent(old.ref)
	}
	if parentRef != nil {
		h.InsertBefore(parentRef, next.ref, old.ref)
		h.RemoveChild(parentRef, old.ref)
	}

	if old.parent != nil {
		if idx := slices.Index(old.parent.children, old); idx >= 0 {
			old.parent.children[idx] = next
		}
	}

	attached := old.flags&flagAttached != 0
	old.Dispose()
	if attached {
		next.Attach()
	}

	return next
}

// Attach marks the instance and its subtree as connected to a live host tree,
// parents before children.
func (i *Instance) Attach() {
	if i.flags&(flagAttached|flagDisposed) != 0 {
		return
	}
	i.flags |= flagAttached

	if h := i.hooks(); h != nil && h.Attached != nil {
		h.Attached(i)
	}

	for _, child := range i.children {
		child.Attach()
	}
}

// Detach is the reverse of Attach, children before parents.
func (i *Instance) Detach() {
	if i.flags&flagAttached == 0 {
		return
	}

	for _, child := range i.children {
		child.Detach()
	}

	i.flags &^= flagAttached

	if h := i.hooks(); h != nil && h.Detached != nil {
		h.Detached(i)
	}
}

// Dispose detaches the instance if needed, then releases its subtree and runs
// the cleanups registered with OnDispose. The host node is left in place.
func (i *Instance) Dispose() {
	if i.flags&flagDisposed != 0 {
		return
	}

	i.Detach()
	i.flags |= flagDisposed

	for _, child := range i.children {
		child.Dispose()
	}
	i.children = nil

	for j := 0; j < len(i.cleanups); j++ {
		i.cleanups[j]()
	}
	i.cleanups = nil

	if h := i.hooks(); h != nil && h.Disposed != nil {
		h.Disposed(i)
	}
}

// Invalidate schedules a re-render of the instance from fn in the write phase
// of a frame. Shallower instances are refreshed first.
func Invalidate(inst *Instance, ctx *Context, fn func() Node) {
	if inst.flags&flagDisposed != 0 {
		return
	}

	if fn != nil {
		inst.render = fn
	}
	inst.ctx = ctx

	if ctx.Scheduler == nil {
		inst.Refresh()
		return
	}
	ctx.Scheduler.ScheduleUpdate(inst)
}

// Refresh re-renders the instance from the function given to Invalidate.
// An instance replaced by the new node is disposed, the replacement inherits
// the render function.
func (i *Instance) Refresh() {
	if i.flags&flagDisposed != 0 || i.render == nil || i.ctx == nil {
		return
	}

	Update(i, i.render(), i.ctx)
}

func nodeOf(i *Instance) Node {
	if i == nil {
		return nil
	}
	return i.node
}
