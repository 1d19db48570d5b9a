// Package vdom reconciles immutable node descriptors into a host tree through
// a small set of host primitives, reusing host nodes by key and position.
package vdom

// Namespace of an element.
type Namespace uint8

const (
	NamespaceNone Namespace = iota
	NamespaceSVG
)

func (ns Namespace) String() string {
	if ns == NamespaceSVG {
		return "svg"
	}
	return "none"
}

// Node is the declarative description of a single tree node, either an *Element or a *Text.
// Nodes are built once and treated as immutable once handed to the reconciler.
type Node interface {
	// Key returns the explicit key of the node, or nil when the node is
	// matched by its position among its siblings.
	Key() any

	node()
}

// Element describes an element node.
type Element struct {
	tag      string
	ns       Namespace
	key      any
	attrs    map[string]string
	classes  []string
	style    map[string]string
	children []Node
	hooks    *Hooks
}

// Text describes a text node.
type Text struct {
	value string
	key   any
}

// E creates an element descriptor. An empty tag defaults to "div".
func E(tag string) *Element {
	if tag == "" {
		tag = "div"
	}

	return &Element{tag: tag}
}

// SVG creates an element descriptor in the svg namespace.
func SVG(tag string) *Element {
	e := E(tag)
	e.ns = NamespaceSVG
	return e
}

// T creates a text descriptor.
func T(value string) *Text {
	return &Text{value: value}
}

func (*Element) node() {}
func (*Text) node()    {}

func (e *Element) Key() any                 { return e.key }
func (e *Element) Tag() string              { return e.tag }
func (e *Element) Namespace() Namespace     { return e.ns }
func (e *Element) Attrs() map[string]string { return e.attrs }
func (e *Element) Classes() []string        { return e.classes }
func (e *Element) Style() map[string]string { return e.style }
func (e *Element) ChildNodes() []Node       { return e.children }
func (e *Element) Hooks() *Hooks            { return e.hooks }

func (t *Text) Key() any      { return t.key }
func (t *Text) Value() string { return t.value }

// WithKey sets the key used to match the element among its siblings.
// Keys must be comparable and unique among siblings.
func (e *Element) WithKey(key any) *Element {
	e.key = key
	return e
}

func (e *Element) WithAttrs(attrs map[string]string) *Element {
	e.attrs = attrs
	return e
}

func (e *Element) WithClasses(classes ...string) *Element {
	e.classes = classes
	return e
}

func (e *Element) WithStyle(style map[string]string) *Element {
	e.style = style
	return e
}

func (e *Element) WithChildren(children ...Node) *Element {
	e.children = children
	return e
}

// WithText replaces the children with a single text node.
func (e *Element) WithText(value string) *Element {
	e.children = []Node{T(value)}
	return e
}

func (e *Element) WithHooks(hooks *Hooks) *Element {
	e.hooks = hooks
	return e
}

func (t *Text) WithKey(key any) *Text {
	t.key = key
	return t
}

// compatible reports whether an instance built from a can be updated to b.
func compatible(a, b Node) bool {
	switch a := a.(type) {
	case *Element:
		b, ok := b.(*Element)
		return ok && a.tag == b.tag && a.ns == b.ns
	case *Text:
		_, ok := b.(*Text)
		return ok
	}
	return false
}

func describe(n Node) string {
	switch n := n.(type) {
	case *Element:
		return n.tag
	case *Text:
		return "#text"
	}
	return "<nil>"
}
