package reaper

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/host"
)

// Track is a handle to a track identified by its GUID.
//
// The raw pointer is cached after the first resolution and checked again on
// every call: it must still be a live track in the project and still carry
// the same GUID, because the host reuses addresses. When the check fails the
// project is scanned for the GUID, so a track that was moved keeps working
// and a track that was deleted and brought back by undo resolves again.
type Track struct {
	r       *Reaper
	project host.Pointer // zero until discovered
	guid    host.Guid
	res     resolver[host.Pointer]
}

// TrackFromPointer wraps a raw track pointer received from the host, for
// example in a control surface callback. project may be zero, in which case
// the containing project is discovered from the pointer.
func (r *Reaper) TrackFromPointer(ptr host.Pointer, project host.Pointer) (*Track, error) {
	if err := r.validator.Require(host.KindTrack, ptr); err != nil {
		return nil, err
	}
	guid, err := r.api.TrackGUID(ptr)
	if err != nil {
		return nil, err
	}
	t := &Track{r: r, project: project, guid: guid}
	t.res.load(ptr)
	return t, nil
}

// Guid returns the track's identity.
func (t *Track) Guid() host.Guid {
	return t.guid
}

// State returns the resolution state after the last call.
func (t *Track) State() State {
	return t.res.state
}

// IsAvailable resolves the track and reports whether that succeeded.
func (t *Track) IsAvailable() bool {
	_, err := t.Resolve()
	return err == nil
}

// Project returns the containing project, discovering it if needed.
func (t *Track) Project() (Project, error) {
	if _, err := t.Resolve(); err != nil {
		return Project{}, err
	}
	return Project{r: t.r, ptr: t.project}, nil
}

// Resolve returns a pointer that is valid right now. It fails with
// ErrUnavailable when no track with this GUID exists.
func (t *Track) Resolve() (host.Pointer, error) {
	ptr, ok := t.res.resolve(t.stillValid, t.scan)
	if !ok {
		return 0, fmt.Errorf("track %s: %w", t.guid, ErrUnavailable)
	}
	return ptr, nil
}

func (t *Track) stillValid(ptr host.Pointer) bool {
	project, ok := t.container(ptr)
	if !ok || !t.r.validator.IsValidIn(project, host.KindTrack, ptr) {
		return false
	}
	guid, err := t.r.api.TrackGUID(ptr)
	return err == nil && guid == t.guid
}

// container returns the cached project or discovers it from ptr. The host
// can tell the project directly; probing every project is the fallback.
func (t *Track) container(ptr host.Pointer) (host.Pointer, bool) {
	if t.project != 0 {
		return t.project, true
	}
	if p, err := t.r.api.MediaTrackInfoPointer(ptr, "P_PROJECT"); err == nil && p != 0 &&
		t.r.validator.IsValidIn(p, host.KindTrack, ptr) {
		t.project = p
		return p, true
	}
	p, ok := t.r.findContainer(host.KindTrack, ptr)
	if ok {
		t.project = p
	}
	return p, ok
}

func (t *Track) scan() (host.Pointer, bool) {
	if t.project != 0 {
		ptr, ok := t.scanIn(t.project)
		t.r.logger.Debug("track rescanned",
			zap.Stringer("guid", t.guid),
			zap.Bool("found", ok))
		return ptr, ok
	}
	// Unknown project: the current one first, then every other tab.
	current, err := t.r.api.EnumProjects(-1)
	if err != nil {
		return 0, false
	}
	if current != 0 {
		if ptr, ok := t.scanIn(current); ok {
			t.project = current
			return ptr, true
		}
	}
	projects, err := t.r.Projects()
	if err != nil {
		return 0, false
	}
	for _, p := range projects {
		if p.ptr == current {
			continue
		}
		if ptr, ok := t.scanIn(p.ptr); ok {
			t.project = p.ptr
			return ptr, true
		}
	}
	return 0, false
}

// scanIn looks for the GUID among the project's tracks and its master track.
func (t *Track) scanIn(project host.Pointer) (host.Pointer, bool) {
	api := t.r.api
	if !t.r.validator.IsValid(host.KindProject, project) {
		return 0, false
	}
	if m, err := api.GetMasterTrack(project); err == nil && m != 0 {
		if g, err := api.TrackGUID(m); err == nil && g == t.guid {
			return m, true
		}
	}
	n, err := api.CountTracks(project)
	if err != nil {
		return 0, false
	}
	for i := 0; i < n; i++ {
		ptr, err := api.GetTrack(project, i)
		if err != nil || ptr == 0 {
			continue
		}
		if g, err := api.TrackGUID(ptr); err == nil && g == t.guid {
			return ptr, true
		}
	}
	return 0, false
}

// IsMaster reports whether this is the project's master track.
func (t *Track) IsMaster() (bool, error) {
	ptr, err := t.Resolve()
	if err != nil {
		return false, err
	}
	m, err := t.r.api.GetMasterTrack(t.project)
	if err != nil {
		return false, err
	}
	return ptr == m, nil
}

// Index returns the track's position, or -1 for the master track.
func (t *Track) Index() (int, error) {
	v, err := t.value("IP_TRACKNUMBER")
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return -1, nil
	}
	return int(v) - 1, nil
}

func (t *Track) Name() (string, error) {
	ptr, err := t.Resolve()
	if err != nil {
		return "", err
	}
	name, _, err := t.r.api.MediaTrackInfoString(ptr, "P_NAME")
	return name, err
}

func (t *Track) SetName(name string) error {
	ptr, err := t.Resolve()
	if err != nil {
		return err
	}
	ok, err := t.r.api.SetMediaTrackInfoString(ptr, "P_NAME", name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host rejected P_NAME for track %s", t.guid)
	}
	return nil
}

// Volume returns the linear volume factor (1 is 0 dB).
func (t *Track) Volume() (float64, error) {
	return t.value("D_VOL")
}

func (t *Track) SetVolume(v float64) error {
	return t.setValue("D_VOL", v)
}

// Pan returns the pan position from -1 (left) to 1 (right).
func (t *Track) Pan() (float64, error) {
	return t.value("D_PAN")
}

func (t *Track) SetPan(v float64) error {
	return t.setValue("D_PAN", v)
}

func (t *Track) IsMuted() (bool, error) {
	v, err := t.value("B_MUTE")
	return v != 0, err
}

func (t *Track) SetMuted(muted bool) error {
	return t.setValue("B_MUTE", flag(muted))
}

func (t *Track) IsSelected() (bool, error) {
	v, err := t.value("I_SELECTED")
	return v != 0, err
}

func (t *Track) SetSelected(selected bool) error {
	return t.setValue("I_SELECTED", flag(selected))
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (t *Track) value(param string) (float64, error) {
	ptr, err := t.Resolve()
	if err != nil {
		return 0, err
	}
	return t.r.api.MediaTrackInfoValue(ptr, param)
}

func (t *Track) setValue(param string, v float64) error {
	ptr, err := t.Resolve()
	if err != nil {
		return err
	}
	ok, err := t.r.api.SetMediaTrackInfoValue(ptr, param, v)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host rejected %s for track %s", param, t.guid)
	}
	return nil
}

// FxCount returns the number of FX in the track's chain.
func (t *Track) FxCount() (int, error) {
	ptr, err := t.Resolve()
	if err != nil {
		return 0, err
	}
	return t.r.api.TrackFXCount(ptr)
}

// FxByIndex returns the FX currently at idx. Like tracks, FX are followed by
// GUID afterwards.
func (t *Track) FxByIndex(idx int) (*Fx, error) {
	ptr, err := t.Resolve()
	if err != nil {
		return nil, err
	}
	guid, err := t.r.api.TrackFXGUID(ptr, idx)
	if err != nil {
		return nil, err
	}
	if guid.IsZero() {
		return nil, fmt.Errorf("fx %d on track %s: %w", idx, t.guid, ErrUnavailable)
	}
	f := &Fx{track: t, guid: guid}
	f.res.load(idx)
	return f, nil
}

// FxByGuid returns an unresolved FX handle on this track.
func (t *Track) FxByGuid(guid host.Guid) *Fx {
	return &Fx{track: t, guid: guid}
}

// Fxs returns handles for the whole FX chain in order.
func (t *Track) Fxs() ([]*Fx, error) {
	n, err := t.FxCount()
	if err != nil {
		return nil, err
	}
	fxs := make([]*Fx, 0, n)
	for i := 0; i < n; i++ {
		f, err := t.FxByIndex(i)
		if err != nil {
			return nil, err
		}
		fxs = append(fxs, f)
	}
	return fxs, nil
}
