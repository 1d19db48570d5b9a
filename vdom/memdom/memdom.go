// Package memdom is an in-memory vdom.Host. It records the operations applied
// to it and serialises trees to HTML, which makes it suitable for tests and
// headless rendering.
package memdom

import (
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/AnatoleLucet/vtree/vdom"
)

// Node is a node of the in-memory tree.
type Node struct {
	Tag       string
	Namespace vdom.Namespace
	Text      string
	IsText    bool

	Attrs   map[string]string
	Classes []string
	Style   map[string]string

	Parent   *Node
	Children []*Node
}

// Counters tallies the host operations applied to a document.
type Counters struct {
	CreateElement   int
	CreateText      int
	SetText         int
	SetAttribute    int
	RemoveAttribute int
	AddClass        int
	RemoveClass     int
	SetStyle        int
	InsertBefore    int
	MoveBefore      int
	RemoveChild     int
}

// Structural counts the operations that create or relocate nodes.
func (c Counters) Structural() int {
	return c.CreateElement + c.CreateText + c.InsertBefore + c.MoveBefore + c.RemoveChild
}

// Total counts every operation.
func (c Counters) Total() int {
	return c.Structural() + c.SetText + c.SetAttribute + c.RemoveAttribute +
		c.AddClass + c.RemoveClass + c.SetStyle
}

// Document implements vdom.Host.
type Document struct {
	Body *Node

	counters Counters
	ops      []string
	record   bool
}

var _ vdom.Host = (*Document)(nil)

type Option func(*Document)

// WithRecording keeps a textual log of every operation, see Ops.
func WithRecording() Option {
	return func(d *Document) {
		d.record = true
	}
}

func New(opts ...Option) *Document {
	d := &Document{Body: newElement("body", vdom.NamespaceNone)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Counters returns the operations applied since the last ResetCounters.
func (d *Document) Counters() Counters {
	return d.counters
}

// Ops returns the recorded operation log.
func (d *Document) Ops() []string {
	return d.ops
}

func (d *Document) ResetCounters() {
	d.counters = Counters{}
	d.ops = nil
}

// Mount appends the host node of inst to the body.
func (d *Document) Mount(inst *vdom.Instance) {
	d.append(d.Body, inst.Ref().(*Node))
}

func (d *Document) log(format string, args ...any) {
	if d.record {
		d.ops = append(d.ops, fmt.Sprintf(format, args...))
	}
}

func newElement(tag string, ns vdom.Namespace) *Node {
	return &Node{Tag: tag, Namespace: ns}
}

func (d *Document) CreateElement(tag string, ns vdom.Namespace) vdom.Ref {
	d.counters.CreateElement++
	d.log("create <%s>", tag)
	return newElement(tag, ns)
}

func (d *Document) CreateText(value string) vdom.Ref {
	d.counters.CreateText++
	d.log("create %q", value)
	return &Node{IsText: true, Text: value}
}

func (d *Document) SetText(ref vdom.Ref, value string) {
	d.counters.SetText++
	d.log("text %q", value)
	ref.(*Node).Text = value
}

func (d *Document) SetAttribute(ref vdom.Ref, name, value string) {
	n := ref.(*Node)
	d.counters.SetAttribute++
	d.log("attr %s=%q", name, value)
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

func (d *Document) RemoveAttribute(ref vdom.Ref, name string) {
	d.counters.RemoveAttribute++
	d.log("attr -%s", name)
	delete(ref.(*Node).Attrs, name)
}

func (d *Document) AddClass(ref vdom.Ref, name string) {
	n := ref.(*Node)
	d.counters.AddClass++
	d.log("class +%s", name)
	if !slices.Contains(n.Classes, name) {
		n.Classes = append(n.Classes, name)
	}
}

func (d *Document) RemoveClass(ref vdom.Ref, name string) {
	n := ref.(*Node)
	d.counters.RemoveClass++
	d.log("class -%s", name)
	n.Classes = slices.DeleteFunc(n.Classes, func(c string) bool { return c == name })
}

func (d *Document) SetStyle(ref vdom.Ref, property, value string) {
	n := ref.(*Node)
	d.counters.SetStyle++
	d.log("style %s=%q", property, value)
	if value == "" {
		delete(n.Style, property)
		return
	}
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[property] = value
}

func (d *Document) InsertBefore(parent, child, before vdom.Ref) {
	d.counters.InsertBefore++
	c := child.(*Node)
	d.log("insert %s", c.label())
	d.insert(parent.(*Node), c, before)
}

func (d *Document) MoveBefore(parent, child, before vdom.Ref) {
	d.counters.MoveBefore++
	c := child.(*Node)
	d.log("move %s", c.label())
	if c.Parent != parent.(*Node) {
		panic(fmt.Sprintf("memdom: moving %s which is not a child of %s", c.label(), parent.(*Node).label()))
	}
	d.insert(parent.(*Node), c, before)
}

func (d *Document) RemoveChild(parent, child vdom.Ref) {
	d.counters.RemoveChild++
	c := child.(*Node)
	d.log("remove %s", c.label())
	if c.Parent != parent.(*Node) {
		panic(fmt.Sprintf("memdom: removing %s which is not a child of %s", c.label(), parent.(*Node).label()))
	}
	detach(c)
}

func (d *Document) Parent(ref vdom.Ref) vdom.Ref {
	if p := ref.(*Node).Parent; p != nil {
		return p
	}
	return nil
}

func (d *Document) append(parent, child *Node) {
	detach(child)
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

func (d *Document) insert(parent, child *Node, before vdom.Ref) {
	detach(child)

	if before == nil {
		child.Parent = parent
		parent.Children = append(parent.Children, child)
		return
	}

	b := before.(*Node)
	idx := slices.Index(parent.Children, b)
	if idx < 0 {
		panic(fmt.Sprintf("memdom: anchor %s is not a child of %s", b.label(), parent.label()))
	}

	child.Parent = parent
	parent.Children = slices.Insert(parent.Children, idx, child)
}

func detach(n *Node) {
	if n.Parent == nil {
		return
	}

	p := n.Parent
	p.Children = slices.DeleteFunc(p.Children, func(c *Node) bool { return c == n })
	n.Parent = nil
}

func (n *Node) label() string {
	if n.IsText {
		return fmt.Sprintf("%q", n.Text)
	}
	return "<" + n.Tag + ">"
}

// HTML serialises the node. Attributes, classes and style properties are
// sorted so equal trees serialise identically.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

// InnerHTML serialises the children of the node.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for _, c := range n.Children {
		c.writeHTML(&sb)
	}
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n.IsText {
		sb.WriteString(html.EscapeString(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
		fmt.Fprintf(sb, ` %s="%s"`, k, html.EscapeString(n.Attrs[k]))
	}

	if len(n.Classes) > 0 {
		fmt.Fprintf(sb, ` class="%s"`, html.EscapeString(strings.Join(slices.Sorted(slices.Values(n.Classes)), " ")))
	}

	if len(n.Style) > 0 {
		var style strings.Builder
		for _, k := range slices.Sorted(maps.Keys(n.Style)) {
			fmt.Fprintf(&style, "%s:%s;", k, n.Style[k])
		}
		fmt.Fprintf(sb, ` style="%s"`, html.EscapeString(style.String()))
	}

	sb.WriteByte('>')
	for _, c := range n.Children {
		c.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}
