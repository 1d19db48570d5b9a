//go:build js && wasm

// Package jsdom applies vdom changes to the browser DOM and drives the
// scheduler from the browser event loop.
package jsdom

import (
	"syscall/js"

	"github.com/AnatoleLucet/vtree/vdom"
)

const svgNS = "http://www.w3.org/2000/svg"

// Document implements vdom.Host with syscall/js.
type Document struct {
	doc js.Value
}

var _ vdom.Host = (*Document)(nil)

func New() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) Body() vdom.Ref {
	return d.doc.Get("body")
}

func (d *Document) GetElementByID(id string) vdom.Ref {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() {
		return nil
	}
	return el
}

func (d *Document) CreateElement(tag string, ns vdom.Namespace) vdom.Ref {
	if ns == vdom.NamespaceSVG {
		return d.doc.Call("createElementNS", svgNS, tag)
	}
	return d.doc.Call("createElement", tag)
}

func (d *Document) CreateText(value string) vdom.Ref {
	return d.doc.Call("createTextNode", value)
}

func (d *Document) SetText(ref vdom.Ref, value string) {
	ref.(js.Value).Set("nodeValue", value)
}

func (d *Document) SetAttribute(ref vdom.Ref, name, value string) {
	ref.(js.Value).Call("setAttribute", name, value)
}

func (d *Document) RemoveAttribute(ref vdom.Ref, name string) {
	ref.(js.Value).Call("removeAttribute", name)
}

func (d *Document) AddClass(ref vdom.Ref, name string) {
	ref.(js.Value).Get("classList").Call("add", name)
}

func (d *Document) RemoveClass(ref vdom.Ref, name string) {
	ref.(js.Value).Get("classList").Call("remove", name)
}

func (d *Document) SetStyle(ref vdom.Ref, property, value string) {
	style := ref.(js.Value).Get("style")
	if value == "" {
		style.Call("removeProperty", property)
		return
	}
	style.Call("setProperty", property, value)
}

func (d *Document) InsertBefore(parent, child, before vdom.Ref) {
	parent.(js.Value).Call("insertBefore", child.(js.Value), value(before))
}

func (d *Document) MoveBefore(parent, child, before vdom.Ref) {
	parent.(js.Value).Call("insertBefore", child.(js.Value), value(before))
}

func (d *Document) RemoveChild(parent, child vdom.Ref) {
	parent.(js.Value).Call("removeChild", child.(js.Value))
}

func (d *Document) Parent(ref vdom.Ref) vdom.Ref {
	p := ref.(js.Value).Get("parentNode")
	if p.IsNull() || p.IsUndefined() {
		return nil
	}
	return p
}

func value(ref vdom.Ref) js.Value {
	if ref == nil {
		return js.Null()
	}
	return ref.(js.Value)
}
