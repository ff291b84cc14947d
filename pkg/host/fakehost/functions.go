package fakehost

import (
	"slices"

	"github.com/justyntemme/reapergo/pkg/host"
)

func (h *Host) getAppVersion() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

func (h *Host) genGuid() host.Guid {
	return newGuid()
}

func (h *Host) showConsoleMsg(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.console.WriteString(msg)
}

func (h *Host) enumProjects(idx int) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if idx == -1 {
		if h.current == nil {
			return 0
		}
		return h.current.ptr
	}
	if idx < 0 || idx >= len(h.projects) {
		return 0
	}
	return h.projects[idx].ptr
}

func (h *Host) validatePtr2(proj, ptr host.Pointer, kind string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ptr == 0 {
		return false
	}
	switch host.Kind(kind) {
	case host.KindProject:
		return h.projectLocked(ptr) != nil
	case host.KindTrack:
		t, ok := h.tracks[ptr]
		if !ok {
			return false
		}
		return proj == 0 || t.project.ptr == proj
	case host.KindSource:
		s, ok := h.sources[ptr]
		if !ok {
			return false
		}
		return proj == 0 || s.project.ptr == proj
	}
	return false
}

func (h *Host) countTracks(proj host.Pointer) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p := h.projectLocked(proj); p != nil {
		return len(p.tracks)
	}
	return 0
}

func (h *Host) getTrack(proj host.Pointer, idx int) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := h.projectLocked(proj)
	if p == nil || idx < 0 || idx >= len(p.tracks) {
		return 0
	}
	return p.tracks[idx].ptr
}

func (h *Host) getMasterTrack(proj host.Pointer) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p := h.projectLocked(proj); p != nil {
		return p.master.ptr
	}
	return 0
}

func (h *Host) getTrackGUID(t host.Pointer) host.Guid {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tr, ok := h.tracks[t]; ok {
		return tr.guid
	}
	return host.Guid{}
}

func (h *Host) getSetMediaTrackInfo(t host.Pointer, param string, _ host.Pointer) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok {
		return 0
	}
	if param == "P_PROJECT" {
		return tr.project.ptr
	}
	return 0
}

func (h *Host) getSetMediaTrackInfoString(t host.Pointer, param string, value *string, set bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok || param != "P_NAME" || value == nil {
		return false
	}
	if set {
		tr.name = *value
	} else {
		*value = tr.name
	}
	return true
}

func (h *Host) getMediaTrackInfoValue(t host.Pointer, param string) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok {
		return 0
	}
	switch param {
	case "IP_TRACKNUMBER":
		if tr == tr.project.master {
			return -1
		}
		return float64(slices.Index(tr.project.tracks, tr) + 1)
	case "D_VOL":
		return tr.volume
	case "D_PAN":
		return tr.pan
	case "B_MUTE":
		return boolValue(tr.muted)
	case "I_SELECTED":
		return boolValue(tr.selected)
	}
	return 0
}

func (h *Host) setMediaTrackInfoValue(t host.Pointer, param string, value float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok {
		return false
	}
	switch param {
	case "D_VOL":
		tr.volume = value
	case "D_PAN":
		tr.pan = value
	case "B_MUTE":
		tr.muted = value != 0
	case "I_SELECTED":
		tr.selected = value != 0
	default:
		return false
	}
	return true
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (h *Host) fxLocked(t host.Pointer, idx int) *fx {
	tr, ok := h.tracks[t]
	if !ok || idx < 0 || idx >= len(tr.fx) {
		return nil
	}
	return tr.fx[idx]
}

func (h *Host) trackFXGetCount(t host.Pointer) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tr, ok := h.tracks[t]; ok {
		return len(tr.fx)
	}
	return 0
}

func (h *Host) trackFXGetFXGUID(t host.Pointer, idx int) host.Guid {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f := h.fxLocked(t, idx); f != nil {
		return f.guid
	}
	return host.Guid{}
}

func (h *Host) trackFXGetFXName(t host.Pointer, idx int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f := h.fxLocked(t, idx); f != nil {
		return f.name, true
	}
	return "", false
}

func (h *Host) trackFXGetEnabled(t host.Pointer, idx int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f := h.fxLocked(t, idx); f != nil {
		return f.enabled
	}
	return false
}

func (h *Host) trackFXSetEnabled(t host.Pointer, idx int, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f := h.fxLocked(t, idx); f != nil {
		f.enabled = enabled
	}
}

func (h *Host) sourceCreateFromFile(path string) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if path == "" {
		return 0
	}
	s := &source{
		ptr:        h.alloc(),
		typ:        "WAVE",
		file:       path,
		state:      []byte("FILE \"" + path + "\"\x00"),
		duplicable: true,
	}
	h.owned[s.ptr] = s
	return s.ptr
}

func (h *Host) sourceDuplicate(s host.Pointer) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	src := h.sourceLocked(s)
	if src == nil || !src.duplicable {
		return 0
	}
	dup := &source{
		ptr:        h.alloc(),
		typ:        src.typ,
		file:       src.file,
		length:     src.length,
		state:      slices.Clone(src.state),
		parent:     src.parent,
		duplicable: src.duplicable,
	}
	h.owned[dup.ptr] = dup
	return dup.ptr
}

func (h *Host) sourceDestroy(s host.Pointer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, s)
	delete(h.owned, s)
}

func (h *Host) sourceGetType(s host.Pointer) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if src := h.sourceLocked(s); src != nil {
		return src.typ
	}
	return ""
}

func (h *Host) sourceGetFileName(s host.Pointer) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if src := h.sourceLocked(s); src != nil {
		return src.file
	}
	return ""
}

func (h *Host) sourceGetLength(s host.Pointer) (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if src := h.sourceLocked(s); src != nil {
		return src.length, true
	}
	return 0, false
}

func (h *Host) sourceGetParent(s host.Pointer) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if src := h.sourceLocked(s); src != nil {
		return src.parent
	}
	return 0
}

func (h *Host) sourceSaveState(s host.Pointer) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if src := h.sourceLocked(s); src != nil {
		return slices.Clone(src.state)
	}
	return nil
}

func (h *Host) sourceLoadState(s host.Pointer, state []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	src := h.sourceLocked(s)
	if src == nil {
		return false
	}
	src.state = slices.Clone(state)
	return true
}

func (h *Host) stuffMIDIMessage(mode int, msg1, msg2, msg3 byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.midi = append(h.midi, [3]byte{msg1, msg2, msg3})
}

func (h *Host) pluginRegister(name string, handle uintptr) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch name {
	case "csurf_inst":
		v := host.LookupHandle(handle)
		if v == nil {
			return 0
		}
		h.surfaces[handle] = v
		return 1
	case "-csurf_inst":
		if _, ok := h.surfaces[handle]; !ok {
			return 0
		}
		delete(h.surfaces, handle)
		return 1
	}
	return 0
}

func (h *Host) audioRegHardwareHook(add bool, handle uintptr) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !add {
		if _, ok := h.audioHooks[handle]; !ok {
			return 0
		}
		delete(h.audioHooks, handle)
		return 1
	}
	v := host.LookupHandle(handle)
	if v == nil {
		return 0
	}
	h.audioHooks[handle] = v
	return 1
}
