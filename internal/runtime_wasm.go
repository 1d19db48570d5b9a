//go:build wasm

package internal

import "sync"

var mu sync.Mutex
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	mu.Lock()
	defer mu.Unlock()

	if globalRuntime == nil {
		globalRuntime = NewRuntime()
	}

	return globalRuntime
}

// SetRuntime replaces the process runtime.
func SetRuntime(r *Runtime) {
	mu.Lock()
	globalRuntime = r
	mu.Unlock()
}

// ReleaseRuntime forgets the process runtime.
func ReleaseRuntime() {
	SetRuntime(nil)
}
