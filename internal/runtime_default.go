//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// runtimes maps a goroutine id to its *Runtime.
var runtimes sync.Map

// GetRuntime returns the calling goroutine's runtime, creating a default one
// with a ManualHost on first use.
func GetRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r, _ := runtimes.LoadOrStore(gid, NewRuntime())
	return r.(*Runtime)
}

// SetRuntime replaces the calling goroutine's runtime.
func SetRuntime(r *Runtime) {
	runtimes.Store(goid.Get(), r)
}

// ReleaseRuntime forgets the calling goroutine's runtime.
func ReleaseRuntime() {
	runtimes.Delete(goid.Get())
}
