package host

import (
	"reflect"
)

// GetFunc looks up a host entry point by name. It returns nil for names the
// host does not know.
type GetFunc func(name string) any

// Functions is the resolved host function table. A nil field means the host
// did not provide that entry point.
type Functions struct {
	GetAppVersion  func() string
	GenGuid        func() Guid
	ShowConsoleMsg func(msg string)

	// EnumProjects returns the project in tab idx, or the current project for
	// idx -1. It returns null past the last tab.
	EnumProjects func(idx int) Pointer
	// ValidatePtr2 reports whether ptr is a live object of the given kind.
	// A null project checks every open project.
	ValidatePtr2 func(project, ptr Pointer, kind string) bool

	CountTracks                 func(project Pointer) int
	GetTrack                    func(project Pointer, idx int) Pointer
	GetMasterTrack              func(project Pointer) Pointer
	GetTrackGUID                func(track Pointer) Guid
	GetSetMediaTrackInfo        func(track Pointer, param string, value Pointer) Pointer
	GetSetMediaTrackInfo_String func(track Pointer, param string, value *string, set bool) bool
	GetMediaTrackInfo_Value     func(track Pointer, param string) float64
	SetMediaTrackInfo_Value     func(track Pointer, param string, value float64) bool

	TrackFX_GetCount   func(track Pointer) int
	TrackFX_GetFXGUID  func(track Pointer, fx int) Guid
	TrackFX_GetFXName  func(track Pointer, fx int) (string, bool)
	TrackFX_GetEnabled func(track Pointer, fx int) bool
	TrackFX_SetEnabled func(track Pointer, fx int, enabled bool)

	PCM_Source_CreateFromFile func(path string) Pointer
	// PCM_Source_Duplicate returns null when the source type cannot be
	// duplicated.
	PCM_Source_Duplicate      func(source Pointer) Pointer
	PCM_Source_Destroy        func(source Pointer)
	PCM_Source_GetType        func(source Pointer) string
	PCM_Source_GetFileName    func(source Pointer) string
	PCM_Source_GetLength      func(source Pointer) (float64, bool)
	PCM_Source_GetParent      func(source Pointer) Pointer
	PCM_Source_SaveState      func(source Pointer) []byte
	PCM_Source_LoadState      func(source Pointer, state []byte) bool

	// StuffMIDIMessage is safe to call from the audio thread.
	StuffMIDIMessage func(mode int, msg1, msg2, msg3 byte)

	Plugin_Register       func(name string, handle uintptr) int
	Audio_RegHardwareHook func(add bool, handle uintptr) int

	missing []string
}

// Load resolves the whole function table once. Entries that are absent, nil
// or of an unexpected type are left nil and reported by Missing.
func Load(get GetFunc) *Functions {
	f := &Functions{}
	if get == nil {
		get = func(string) any { return nil }
	}
	bind(get, "GetAppVersion", &f.GetAppVersion, &f.missing)
	bind(get, "genGuid", &f.GenGuid, &f.missing)
	bind(get, "ShowConsoleMsg", &f.ShowConsoleMsg, &f.missing)
	bind(get, "EnumProjects", &f.EnumProjects, &f.missing)
	bind(get, "ValidatePtr2", &f.ValidatePtr2, &f.missing)
	bind(get, "CountTracks", &f.CountTracks, &f.missing)
	bind(get, "GetTrack", &f.GetTrack, &f.missing)
	bind(get, "GetMasterTrack", &f.GetMasterTrack, &f.missing)
	bind(get, "GetTrackGUID", &f.GetTrackGUID, &f.missing)
	bind(get, "GetSetMediaTrackInfo", &f.GetSetMediaTrackInfo, &f.missing)
	bind(get, "GetSetMediaTrackInfo_String", &f.GetSetMediaTrackInfo_String, &f.missing)
	bind(get, "GetMediaTrackInfo_Value", &f.GetMediaTrackInfo_Value, &f.missing)
	bind(get, "SetMediaTrackInfo_Value", &f.SetMediaTrackInfo_Value, &f.missing)
	bind(get, "TrackFX_GetCount", &f.TrackFX_GetCount, &f.missing)
	bind(get, "TrackFX_GetFXGUID", &f.TrackFX_GetFXGUID, &f.missing)
	bind(get, "TrackFX_GetFXName", &f.TrackFX_GetFXName, &f.missing)
	bind(get, "TrackFX_GetEnabled", &f.TrackFX_GetEnabled, &f.missing)
	bind(get, "TrackFX_SetEnabled", &f.TrackFX_SetEnabled, &f.missing)
	bind(get, "PCM_Source_CreateFromFile", &f.PCM_Source_CreateFromFile, &f.missing)
	bind(get, "PCM_Source_Duplicate", &f.PCM_Source_Duplicate, &f.missing)
	bind(get, "PCM_Source_Destroy", &f.PCM_Source_Destroy, &f.missing)
	bind(get, "PCM_Source_GetType", &f.PCM_Source_GetType, &f.missing)
	bind(get, "PCM_Source_GetFileName", &f.PCM_Source_GetFileName, &f.missing)
	bind(get, "PCM_Source_GetLength", &f.PCM_Source_GetLength, &f.missing)
	bind(get, "PCM_Source_GetParent", &f.PCM_Source_GetParent, &f.missing)
	bind(get, "PCM_Source_SaveState", &f.PCM_Source_SaveState, &f.missing)
	bind(get, "PCM_Source_LoadState", &f.PCM_Source_LoadState, &f.missing)
	bind(get, "StuffMIDIMessage", &f.StuffMIDIMessage, &f.missing)
	bind(get, "plugin_register", &f.Plugin_Register, &f.missing)
	bind(get, "Audio_RegHardwareHook", &f.Audio_RegHardwareHook, &f.missing)
	return f
}

// Missing lists the entry points that could not be resolved, in load order.
func (f *Functions) Missing() []string {
	out := make([]string, len(f.missing))
	copy(out, f.missing)
	return out
}

func bind[T any](get GetFunc, name string, dst *T, missing *[]string) {
	fn, ok := get(name).(T)
	if !ok || reflect.ValueOf(fn).IsNil() {
		*missing = append(*missing, name)
		return
	}
	*dst = fn
}
