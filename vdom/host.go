package vdom

// Ref is a reference to a node of the host tree.
type Ref any

// Host holds the primitives the reconciler applies to the real tree.
type Host interface {
	CreateElement(tag string, ns Namespace) Ref
	CreateText(value string) Ref

	SetText(ref Ref, value string)

	SetAttribute(ref Ref, name, value string)
	RemoveAttribute(ref Ref, name string)

	AddClass(ref Ref, name string)
	RemoveClass(ref Ref, name string)

	// SetStyle sets a style property, an empty value clears it.
	SetStyle(ref Ref, property, value string)

	// InsertBefore inserts a detached child before another child of parent,
	// or at the end when before is nil.
	InsertBefore(parent, child, before Ref)

	// MoveBefore relocates a child of parent before another child,
	// or at the end when before is nil.
	MoveBefore(parent, child, before Ref)

	RemoveChild(parent, child Ref)

	// Parent returns the parent of ref, or nil when detached.
	Parent(ref Ref) Ref
}
