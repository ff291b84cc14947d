package reaper

// State is the resolution state of a GUID-identified handle.
type State int

const (
	// Unloaded handles have never been resolved.
	Unloaded State = iota
	// Loaded handles hold a cached pointer that was valid when last checked.
	Loaded
	// Unavailable handles found no matching object on their last attempt.
	// They resolve again if the object reappears under the same GUID.
	Unavailable
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// resolver caches the host-side handle of an object identified by GUID.
// H is a raw pointer for tracks and a position for FX. Main thread only.
type resolver[H comparable] struct {
	state  State
	cached H
}

// resolve returns the cached handle if check still accepts it and otherwise
// runs scan. A failed scan clears the cache and marks the handle unavailable.
func (r *resolver[H]) resolve(check func(H) bool, scan func() (H, bool)) (H, bool) {
	if r.state == Loaded && check(r.cached) {
		return r.cached, true
	}
	if h, ok := scan(); ok {
		r.load(h)
		return h, true
	}
	var zero H
	r.cached = zero
	r.state = Unavailable
	return zero, false
}

func (r *resolver[H]) load(h H) {
	r.cached = h
	r.state = Loaded
}
