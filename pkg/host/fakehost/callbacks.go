package fakehost

import (
	"github.com/justyntemme/reapergo/pkg/host"
)

// SurfaceCount returns how many control surfaces are registered.
func (h *Host) SurfaceCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.surfaces)
}

// AudioHookCount returns how many audio hooks are registered.
func (h *Host) AudioHookCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.audioHooks)
}

// eachSurface calls fn for every registered surface without holding the
// lock, so surfaces may call back into the host.
func (h *Host) eachSurface(fn func(any)) {
	h.mu.Lock()
	surfaces := make([]any, 0, len(h.surfaces))
	for _, s := range h.surfaces {
		surfaces = append(surfaces, s)
	}
	h.mu.Unlock()

	for _, s := range surfaces {
		fn(s)
	}
}

// Tick runs one main loop iteration: every registered surface's Run.
func (h *Host) Tick() {
	h.eachSurface(func(s any) {
		if r, ok := s.(interface{ Run() }); ok {
			r.Run()
		}
	})
}

// NotifyTrackListChange fires the track list hook.
func (h *Host) NotifyTrackListChange() {
	h.eachSurface(func(s any) {
		if l, ok := s.(interface{ SetTrackListChange() }); ok {
			l.SetTrackListChange()
		}
	})
}

// NotifySurfaceVolume fires the volume hook for track t.
func (h *Host) NotifySurfaceVolume(t host.Pointer, volume float64) {
	h.eachSurface(func(s any) {
		if l, ok := s.(interface {
			SetSurfaceVolume(host.Pointer, float64)
		}); ok {
			l.SetSurfaceVolume(t, volume)
		}
	})
}

// NotifySurfaceMute fires the mute hook for track t.
func (h *Host) NotifySurfaceMute(t host.Pointer, muted bool) {
	h.eachSurface(func(s any) {
		if l, ok := s.(interface {
			SetSurfaceMute(host.Pointer, bool)
		}); ok {
			l.SetSurfaceMute(t, muted)
		}
	})
}

// NotifyTrackTitle fires the track title hook for track t.
func (h *Host) NotifyTrackTitle(t host.Pointer, title string) {
	h.eachSurface(func(s any) {
		if l, ok := s.(interface {
			SetTrackTitle(host.Pointer, string)
		}); ok {
			l.SetTrackTitle(t, title)
		}
	})
}

// NotifyPlayState fires the transport hook.
func (h *Host) NotifyPlayState(play, pause, rec bool) {
	h.eachSurface(func(s any) {
		if l, ok := s.(interface{ SetPlayState(bool, bool, bool) }); ok {
			l.SetPlayState(play, pause, rec)
		}
	})
}

// RunAudioBlock invokes every registered audio hook once, as the audio
// thread would for one block.
func (h *Host) RunAudioBlock(isPost bool, length int, sampleRate float64) {
	h.mu.Lock()
	hooks := make([]any, 0, len(h.audioHooks))
	for _, hk := range h.audioHooks {
		hooks = append(hooks, hk)
	}
	h.mu.Unlock()

	for _, hk := range hooks {
		if a, ok := hk.(interface {
			OnAudioBuffer(isPost bool, length int, sampleRate float64)
		}); ok {
			a.OnAudioBuffer(isPost, length, sampleRate)
		}
	}
}
