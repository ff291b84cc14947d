package host

// API calls into the host through a resolved Functions table. Every method
// fails with a *MissingFunctionError when its entry point was not resolved.
//
// API does not validate pointers. Callers are expected to have validated
// every pointer immediately before passing it in.
type API struct {
	fn *Functions
}

// NewAPI wraps a resolved function table.
func NewAPI(fn *Functions) *API {
	if fn == nil {
		fn = &Functions{}
	}
	return &API{fn: fn}
}

// Functions returns the underlying table.
func (a *API) Functions() *Functions {
	return a.fn
}

func (a *API) AppVersion() (Version, error) {
	if a.fn.GetAppVersion == nil {
		return Version{}, missing("GetAppVersion")
	}
	return ParseVersion(a.fn.GetAppVersion()), nil
}

func (a *API) GenGuid() (Guid, error) {
	if a.fn.GenGuid == nil {
		return Guid{}, missing("genGuid")
	}
	return a.fn.GenGuid(), nil
}

func (a *API) ShowConsoleMsg(msg string) error {
	if a.fn.ShowConsoleMsg == nil {
		return missing("ShowConsoleMsg")
	}
	a.fn.ShowConsoleMsg(msg)
	return nil
}

// EnumProjects returns the project in tab idx, or the current project for
// idx -1. The pointer is null when no such tab exists.
func (a *API) EnumProjects(idx int) (Pointer, error) {
	if a.fn.EnumProjects == nil {
		return 0, missing("EnumProjects")
	}
	return a.fn.EnumProjects(idx), nil
}

func (a *API) ValidatePtr2(project, ptr Pointer, kind Kind) (bool, error) {
	if a.fn.ValidatePtr2 == nil {
		return false, missing("ValidatePtr2")
	}
	return a.fn.ValidatePtr2(project, ptr, string(kind)), nil
}

func (a *API) CountTracks(project Pointer) (int, error) {
	if a.fn.CountTracks == nil {
		return 0, missing("CountTracks")
	}
	return a.fn.CountTracks(project), nil
}

func (a *API) GetTrack(project Pointer, idx int) (Pointer, error) {
	if a.fn.GetTrack == nil {
		return 0, missing("GetTrack")
	}
	return a.fn.GetTrack(project, idx), nil
}

func (a *API) GetMasterTrack(project Pointer) (Pointer, error) {
	if a.fn.GetMasterTrack == nil {
		return 0, missing("GetMasterTrack")
	}
	return a.fn.GetMasterTrack(project), nil
}

func (a *API) TrackGUID(track Pointer) (Guid, error) {
	if a.fn.GetTrackGUID == nil {
		return Guid{}, missing("GetTrackGUID")
	}
	return a.fn.GetTrackGUID(track), nil
}

// MediaTrackInfoPointer reads a pointer-valued track attribute such as
// "P_PROJECT".
func (a *API) MediaTrackInfoPointer(track Pointer, param string) (Pointer, error) {
	if a.fn.GetSetMediaTrackInfo == nil {
		return 0, missing("GetSetMediaTrackInfo")
	}
	return a.fn.GetSetMediaTrackInfo(track, param, 0), nil
}

// MediaTrackInfoString reads a string-valued track attribute such as "P_NAME".
// The boolean is false when the host does not know the attribute.
func (a *API) MediaTrackInfoString(track Pointer, param string) (string, bool, error) {
	if a.fn.GetSetMediaTrackInfo_String == nil {
		return "", false, missing("GetSetMediaTrackInfo_String")
	}
	var value string
	ok := a.fn.GetSetMediaTrackInfo_String(track, param, &value, false)
	return value, ok, nil
}

func (a *API) SetMediaTrackInfoString(track Pointer, param, value string) (bool, error) {
	if a.fn.GetSetMediaTrackInfo_String == nil {
		return false, missing("GetSetMediaTrackInfo_String")
	}
	return a.fn.GetSetMediaTrackInfo_String(track, param, &value, true), nil
}

func (a *API) MediaTrackInfoValue(track Pointer, param string) (float64, error) {
	if a.fn.GetMediaTrackInfo_Value == nil {
		return 0, missing("GetMediaTrackInfo_Value")
	}
	return a.fn.GetMediaTrackInfo_Value(track, param), nil
}

func (a *API) SetMediaTrackInfoValue(track Pointer, param string, value float64) (bool, error) {
	if a.fn.SetMediaTrackInfo_Value == nil {
		return false, missing("SetMediaTrackInfo_Value")
	}
	return a.fn.SetMediaTrackInfo_Value(track, param, value), nil
}

func (a *API) TrackFXCount(track Pointer) (int, error) {
	if a.fn.TrackFX_GetCount == nil {
		return 0, missing("TrackFX_GetCount")
	}
	return a.fn.TrackFX_GetCount(track), nil
}

// TrackFXGUID returns the zero GUID when there is no FX at index fx.
func (a *API) TrackFXGUID(track Pointer, fx int) (Guid, error) {
	if a.fn.TrackFX_GetFXGUID == nil {
		return Guid{}, missing("TrackFX_GetFXGUID")
	}
	return a.fn.TrackFX_GetFXGUID(track, fx), nil
}

func (a *API) TrackFXName(track Pointer, fx int) (string, bool, error) {
	if a.fn.TrackFX_GetFXName == nil {
		return "", false, missing("TrackFX_GetFXName")
	}
	name, ok := a.fn.TrackFX_GetFXName(track, fx)
	return name, ok, nil
}

func (a *API) TrackFXEnabled(track Pointer, fx int) (bool, error) {
	if a.fn.TrackFX_GetEnabled == nil {
		return false, missing("TrackFX_GetEnabled")
	}
	return a.fn.TrackFX_GetEnabled(track, fx), nil
}

func (a *API) SetTrackFXEnabled(track Pointer, fx int, enabled bool) error {
	if a.fn.TrackFX_SetEnabled == nil {
		return missing("TrackFX_SetEnabled")
	}
	a.fn.TrackFX_SetEnabled(track, fx, enabled)
	return nil
}

func (a *API) SourceCreateFromFile(path string) (Pointer, error) {
	if a.fn.PCM_Source_CreateFromFile == nil {
		return 0, missing("PCM_Source_CreateFromFile")
	}
	return a.fn.PCM_Source_CreateFromFile(path), nil
}

// SourceDuplicate returns null when the host refuses to duplicate the source.
func (a *API) SourceDuplicate(source Pointer) (Pointer, error) {
	if a.fn.PCM_Source_Duplicate == nil {
		return 0, missing("PCM_Source_Duplicate")
	}
	return a.fn.PCM_Source_Duplicate(source), nil
}

func (a *API) SourceDestroy(source Pointer) error {
	if a.fn.PCM_Source_Destroy == nil {
		return missing("PCM_Source_Destroy")
	}
	a.fn.PCM_Source_Destroy(source)
	return nil
}

func (a *API) SourceType(source Pointer) (string, error) {
	if a.fn.PCM_Source_GetType == nil {
		return "", missing("PCM_Source_GetType")
	}
	return a.fn.PCM_Source_GetType(source), nil
}

func (a *API) SourceFileName(source Pointer) (string, error) {
	if a.fn.PCM_Source_GetFileName == nil {
		return "", missing("PCM_Source_GetFileName")
	}
	return a.fn.PCM_Source_GetFileName(source), nil
}

func (a *API) SourceLength(source Pointer) (float64, bool, error) {
	if a.fn.PCM_Source_GetLength == nil {
		return 0, false, missing("PCM_Source_GetLength")
	}
	length, ok := a.fn.PCM_Source_GetLength(source)
	return length, ok, nil
}

func (a *API) SourceParent(source Pointer) (Pointer, error) {
	if a.fn.PCM_Source_GetParent == nil {
		return 0, missing("PCM_Source_GetParent")
	}
	return a.fn.PCM_Source_GetParent(source), nil
}

// SourceSaveState returns the host's NUL-separated state blob.
func (a *API) SourceSaveState(source Pointer) ([]byte, error) {
	if a.fn.PCM_Source_SaveState == nil {
		return nil, missing("PCM_Source_SaveState")
	}
	return a.fn.PCM_Source_SaveState(source), nil
}

func (a *API) SourceLoadState(source Pointer, state []byte) (bool, error) {
	if a.fn.PCM_Source_LoadState == nil {
		return false, missing("PCM_Source_LoadState")
	}
	return a.fn.PCM_Source_LoadState(source, state), nil
}

// StuffMIDIMessage injects a short MIDI message into one of the host's input
// queues. It does not allocate and may be called from the audio thread.
func (a *API) StuffMIDIMessage(mode int, msg1, msg2, msg3 byte) error {
	if a.fn.StuffMIDIMessage == nil {
		return errStuffMIDIMessage
	}
	a.fn.StuffMIDIMessage(mode, msg1, msg2, msg3)
	return nil
}

// errStuffMIDIMessage is preallocated so that the audio thread never
// allocates, not even on failure.
var errStuffMIDIMessage = missing("StuffMIDIMessage")

// PluginRegister registers (or, with a leading "-" in name, unregisters)
// the object behind handle with the host.
func (a *API) PluginRegister(name string, handle uintptr) (int, error) {
	if a.fn.Plugin_Register == nil {
		return 0, missing("plugin_register")
	}
	return a.fn.Plugin_Register(name, handle), nil
}

func (a *API) AudioRegHardwareHook(add bool, handle uintptr) (int, error) {
	if a.fn.Audio_RegHardwareHook == nil {
		return 0, missing("Audio_RegHardwareHook")
	}
	return a.fn.Audio_RegHardwareHook(add, handle), nil
}
