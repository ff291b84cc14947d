package host

import (
	"sync"
)

// Go values cannot be stored in host memory, so callback objects handed to
// the host (control surfaces, audio hooks) are registered here and the host
// only ever sees the integer handle.
var (
	handles      = make(map[uintptr]any)
	handlesMu    sync.RWMutex
	nextHandleID uintptr = 1
)

// RegisterHandle stores v and returns the handle the host should be given.
func RegisterHandle(v any) uintptr {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	id := nextHandleID
	nextHandleID++
	handles[id] = v
	return id
}

// LookupHandle returns the value registered under id, or nil.
func LookupHandle(id uintptr) any {
	handlesMu.RLock()
	defer handlesMu.RUnlock()

	if id == 0 {
		return nil
	}
	return handles[id]
}

// UnregisterHandle forgets id.
func UnregisterHandle(id uintptr) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, id)
}
