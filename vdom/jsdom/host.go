//go:build js && wasm

package jsdom

import (
	"syscall/js"
)

// Host schedules callbacks on the browser event loop: queueMicrotask for
// microtasks, a MessageChannel for macrotasks and requestAnimationFrame for
// frames.
type Host struct {
	global js.Value
	port   js.Value

	// macrotasks waiting for their message
	pending []func()
}

func NewHost() *Host {
	h := &Host{global: js.Global()}

	channel := h.global.Get("MessageChannel").New()
	channel.Get("port1").Set("onmessage", js.FuncOf(func(js.Value, []js.Value) any {
		if len(h.pending) == 0 {
			return nil
		}

		fn := h.pending[0]
		h.pending[0] = nil
		h.pending = h.pending[1:]
		fn()
		return nil
	}))
	h.port = channel.Get("port2")

	return h
}

func (h *Host) RequestMicrotask(fn func()) {
	h.global.Call("queueMicrotask", once(fn))
}

func (h *Host) RequestMacrotask(fn func()) {
	h.pending = append(h.pending, fn)
	h.port.Call("postMessage", nil)
}

func (h *Host) RequestFrame(fn func()) {
	h.global.Call("requestAnimationFrame", once(fn))
}

// ReportError forwards task errors to the console.
func (h *Host) ReportError(err error) {
	h.global.Get("console").Call("error", err.Error())
}

// once wraps fn in a js function released after its single call.
func once(fn func()) js.Func {
	var f js.Func
	f = js.FuncOf(func(js.Value, []js.Value) any {
		defer f.Release()
		fn()
		return nil
	})
	return f
}
