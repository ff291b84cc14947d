// Package fakehost is an in-memory stand-in for the DAW host.
//
// It serves a host.GetFunc backed by simulated projects, tracks, FX and
// sources, and lets tests mutate host state behind the plug-in's back:
// reorder, delete and restore tracks, close projects, recycle addresses.
// Callback objects registered through plugin_register and
// Audio_RegHardwareHook are driven by Tick and RunAudioBlock.
package fakehost

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/justyntemme/reapergo/pkg/host"
)

type project struct {
	ptr    host.Pointer
	name   string
	master *track
	tracks []*track
}

type track struct {
	ptr      host.Pointer
	guid     host.Guid
	project  *project
	name     string
	volume   float64
	pan      float64
	muted    bool
	selected bool
	fx       []*fx
}

type fx struct {
	guid    host.Guid
	name    string
	enabled bool
}

type source struct {
	ptr        host.Pointer
	project    *project
	typ        string
	file       string
	length     float64
	state      []byte
	parent     host.Pointer
	duplicable bool
}

// Host is a simulated host. All methods are safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	next     host.Pointer
	version  string
	projects []*project
	current  *project
	tracks   map[host.Pointer]*track
	sources  map[host.Pointer]*source
	owned    map[host.Pointer]*source
	without  map[string]bool

	surfaces   map[uintptr]any
	audioHooks map[uintptr]any

	console   strings.Builder
	midi      [][3]byte
	destroyed []host.Pointer
}

// Option configures a Host.
type Option func(*Host)

// WithVersion sets the string returned by GetAppVersion.
func WithVersion(v string) Option {
	return func(h *Host) {
		h.version = v
	}
}

// Without removes the named entry points from the function table.
func Without(names ...string) Option {
	return func(h *Host) {
		for _, n := range names {
			h.without[n] = true
		}
	}
}

// New creates a host with one empty, current project.
func New(opts ...Option) *Host {
	h := &Host{
		next:       0x1000,
		version:    "7.22/linux-x86_64",
		tracks:     make(map[host.Pointer]*track),
		sources:    make(map[host.Pointer]*source),
		owned:      make(map[host.Pointer]*source),
		without:    make(map[string]bool),
		surfaces:   make(map[uintptr]any),
		audioHooks: make(map[uintptr]any),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.current = h.newProjectLocked("Untitled")
	return h
}

func (h *Host) alloc() host.Pointer {
	h.next += 0x10
	return h.next
}

func newGuid() host.Guid {
	return host.Guid(uuid.New())
}

func (h *Host) newProjectLocked(name string) *project {
	p := &project{ptr: h.alloc(), name: name}
	p.master = &track{ptr: h.alloc(), guid: newGuid(), project: p, name: "MASTER", volume: 1}
	h.tracks[p.master.ptr] = p.master
	h.projects = append(h.projects, p)
	return p
}

func (h *Host) projectLocked(ptr host.Pointer) *project {
	for _, p := range h.projects {
		if p.ptr == ptr {
			return p
		}
	}
	return nil
}

// GetFunc returns the host's entry point lookup.
func (h *Host) GetFunc() host.GetFunc {
	table := map[string]any{
		"GetAppVersion":               h.getAppVersion,
		"genGuid":                     h.genGuid,
		"ShowConsoleMsg":              h.showConsoleMsg,
		"EnumProjects":                h.enumProjects,
		"ValidatePtr2":                h.validatePtr2,
		"CountTracks":                 h.countTracks,
		"GetTrack":                    h.getTrack,
		"GetMasterTrack":              h.getMasterTrack,
		"GetTrackGUID":                h.getTrackGUID,
		"GetSetMediaTrackInfo":        h.getSetMediaTrackInfo,
		"GetSetMediaTrackInfo_String": h.getSetMediaTrackInfoString,
		"GetMediaTrackInfo_Value":     h.getMediaTrackInfoValue,
		"SetMediaTrackInfo_Value":     h.setMediaTrackInfoValue,
		"TrackFX_GetCount":            h.trackFXGetCount,
		"TrackFX_GetFXGUID":           h.trackFXGetFXGUID,
		"TrackFX_GetFXName":           h.trackFXGetFXName,
		"TrackFX_GetEnabled":          h.trackFXGetEnabled,
		"TrackFX_SetEnabled":          h.trackFXSetEnabled,
		"PCM_Source_CreateFromFile":   h.sourceCreateFromFile,
		"PCM_Source_Duplicate":        h.sourceDuplicate,
		"PCM_Source_Destroy":          h.sourceDestroy,
		"PCM_Source_GetType":          h.sourceGetType,
		"PCM_Source_GetFileName":      h.sourceGetFileName,
		"PCM_Source_GetLength":        h.sourceGetLength,
		"PCM_Source_GetParent":        h.sourceGetParent,
		"PCM_Source_SaveState":        h.sourceSaveState,
		"PCM_Source_LoadState":        h.sourceLoadState,
		"StuffMIDIMessage":            h.stuffMIDIMessage,
		"plugin_register":             h.pluginRegister,
		"Audio_RegHardwareHook":       h.audioRegHardwareHook,
	}
	for name := range h.without {
		delete(table, name)
	}
	return func(name string) any {
		fn, ok := table[name]
		if !ok {
			return nil
		}
		return fn
	}
}

// Projects

// CurrentProject returns the project of the active tab.
func (h *Host) CurrentProject() host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return 0
	}
	return h.current.ptr
}

// AddProject opens a new project tab without switching to it.
func (h *Host) AddProject(name string) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.newProjectLocked(name).ptr
}

// SwitchProject makes p the current project.
func (h *Host) SwitchProject(p host.Pointer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if proj := h.projectLocked(p); proj != nil {
		h.current = proj
	}
}

// CloseProject closes the tab and frees every track in it.
func (h *Host) CloseProject(p host.Pointer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	proj := h.projectLocked(p)
	if proj == nil {
		return
	}
	for _, t := range proj.tracks {
		delete(h.tracks, t.ptr)
	}
	delete(h.tracks, proj.master.ptr)
	for ptr, s := range h.sources {
		if s.project == proj {
			delete(h.sources, ptr)
		}
	}
	h.projects = slices.DeleteFunc(h.projects, func(x *project) bool { return x == proj })
	if h.current == proj {
		h.current = nil
		if len(h.projects) > 0 {
			h.current = h.projects[0]
		}
	}
}

// Tracks

// AddTrack appends a track to project p.
func (h *Host) AddTrack(p host.Pointer, name string) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	proj := h.projectLocked(p)
	if proj == nil {
		return 0
	}
	return h.insertTrackLocked(proj, len(proj.tracks), h.alloc(), newGuid(), name)
}

// InsertTrack inserts a track at index idx of project p.
func (h *Host) InsertTrack(p host.Pointer, idx int, name string) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	proj := h.projectLocked(p)
	if proj == nil {
		return 0
	}
	return h.insertTrackLocked(proj, idx, h.alloc(), newGuid(), name)
}

// RestoreTrack re-inserts a track with a previously known GUID at a new
// address, the way the host does on undo.
func (h *Host) RestoreTrack(p host.Pointer, idx int, guid host.Guid, name string) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	proj := h.projectLocked(p)
	if proj == nil {
		return 0
	}
	return h.insertTrackLocked(proj, idx, h.alloc(), guid, name)
}

// RecycleTrack deletes track t and puts a different track (new GUID) at the
// very same address and index.
func (h *Host) RecycleTrack(t host.Pointer, name string) host.Guid {
	h.mu.Lock()
	defer h.mu.Unlock()
	old, ok := h.tracks[t]
	if !ok {
		return host.Guid{}
	}
	proj := old.project
	idx := slices.Index(proj.tracks, old)
	h.removeTrackLocked(old)
	g := newGuid()
	h.insertTrackLocked(proj, idx, t, g, name)
	return g
}

func (h *Host) insertTrackLocked(proj *project, idx int, ptr host.Pointer, guid host.Guid, name string) host.Pointer {
	t := &track{ptr: ptr, guid: guid, project: proj, name: name, volume: 1}
	idx = min(max(idx, 0), len(proj.tracks))
	proj.tracks = slices.Insert(proj.tracks, idx, t)
	h.tracks[ptr] = t
	return ptr
}

// DeleteTrack removes track t and frees its address.
func (h *Host) DeleteTrack(t host.Pointer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tr, ok := h.tracks[t]; ok {
		h.removeTrackLocked(tr)
	}
}

func (h *Host) removeTrackLocked(tr *track) {
	proj := tr.project
	proj.tracks = slices.DeleteFunc(proj.tracks, func(x *track) bool { return x == tr })
	delete(h.tracks, tr.ptr)
}

// MoveTrack moves track t to index idx within its project.
func (h *Host) MoveTrack(t host.Pointer, idx int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok || tr == tr.project.master {
		return
	}
	proj := tr.project
	proj.tracks = slices.DeleteFunc(proj.tracks, func(x *track) bool { return x == tr })
	idx = min(max(idx, 0), len(proj.tracks))
	proj.tracks = slices.Insert(proj.tracks, idx, tr)
}

// TrackGuid returns the GUID of a live track.
func (h *Host) TrackGuid(t host.Pointer) host.Guid {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tr, ok := h.tracks[t]; ok {
		return tr.guid
	}
	return host.Guid{}
}

// TrackName returns the name of a live track.
func (h *Host) TrackName(t host.Pointer) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tr, ok := h.tracks[t]; ok {
		return tr.name
	}
	return ""
}

// FX

// AddFx appends an enabled FX to track t and returns its GUID.
func (h *Host) AddFx(t host.Pointer, name string) host.Guid {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok {
		return host.Guid{}
	}
	f := &fx{guid: newGuid(), name: name, enabled: true}
	tr.fx = append(tr.fx, f)
	return f.guid
}

// MoveFx moves the FX at index from to index to.
func (h *Host) MoveFx(t host.Pointer, from, to int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok || from < 0 || from >= len(tr.fx) {
		return
	}
	f := tr.fx[from]
	tr.fx = slices.Delete(tr.fx, from, from+1)
	to = min(max(to, 0), len(tr.fx))
	tr.fx = slices.Insert(tr.fx, to, f)
}

// RemoveFx deletes the FX at index idx.
func (h *Host) RemoveFx(t host.Pointer, idx int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, ok := h.tracks[t]
	if !ok || idx < 0 || idx >= len(tr.fx) {
		return
	}
	tr.fx = slices.Delete(tr.fx, idx, idx+1)
}

// Sources

// SourceSpec describes a project-owned source.
type SourceSpec struct {
	Type       string
	File       string
	Length     float64
	State      []byte
	Parent     host.Pointer
	Duplicable bool
}

// AddSource creates a source owned by project p. Such sources pass
// ValidatePtr2 until they are removed or the project is closed.
func (h *Host) AddSource(p host.Pointer, spec SourceSpec) host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	proj := h.projectLocked(p)
	if proj == nil {
		return 0
	}
	s := &source{
		ptr:        h.alloc(),
		project:    proj,
		typ:        spec.Type,
		file:       spec.File,
		length:     spec.Length,
		state:      slices.Clone(spec.State),
		parent:     spec.Parent,
		duplicable: spec.Duplicable,
	}
	h.sources[s.ptr] = s
	return s.ptr
}

// RemoveSource frees a project-owned source.
func (h *Host) RemoveSource(s host.Pointer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sources, s)
}

// SourceState returns a copy of the raw state blob of any live source.
func (h *Host) SourceState(s host.Pointer) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if src := h.sourceLocked(s); src != nil {
		return slices.Clone(src.state)
	}
	return nil
}

// OwnedSourceCount returns how many plug-in owned sources are still alive.
func (h *Host) OwnedSourceCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.owned)
}

// Destroyed returns every pointer passed to PCM_Source_Destroy, in order.
func (h *Host) Destroyed() []host.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.destroyed)
}

func (h *Host) sourceLocked(s host.Pointer) *source {
	if src, ok := h.sources[s]; ok {
		return src
	}
	return h.owned[s]
}

// Console and MIDI

// Console returns everything written through ShowConsoleMsg.
func (h *Host) Console() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.console.String()
}

// MIDI returns every message injected through StuffMIDIMessage.
func (h *Host) MIDI() [][3]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.midi)
}
