package reaper

import (
	"fmt"

	"github.com/justyntemme/reapergo/pkg/host"
)

// Project is an open project tab. It is the container that tracks are
// resolved against. The pointer itself is never re-resolved: once the tab
// is closed every method except IsAvailable fails with
// validate.ErrUseAfterInvalidation.
type Project struct {
	r   *Reaper
	ptr host.Pointer
}

// Pointer returns the raw project pointer.
func (p Project) Pointer() host.Pointer {
	return p.ptr
}

// IsAvailable reports whether the project tab is still open.
func (p Project) IsAvailable() bool {
	return p.r != nil && p.r.validator.IsValid(host.KindProject, p.ptr)
}

func (p Project) require() error {
	if p.r == nil {
		return fmt.Errorf("zero project: %w", ErrUnavailable)
	}
	return p.r.validator.Require(host.KindProject, p.ptr)
}

// Index returns the tab index of the project.
func (p Project) Index() (int, error) {
	if err := p.require(); err != nil {
		return 0, err
	}
	for i := 0; ; i++ {
		ptr, err := p.r.api.EnumProjects(i)
		if err != nil {
			return 0, err
		}
		if ptr == 0 {
			return 0, fmt.Errorf("project %s: %w", p.ptr, ErrUnavailable)
		}
		if ptr == p.ptr {
			return i, nil
		}
	}
}

// TrackCount returns the number of tracks, not counting the master track.
func (p Project) TrackCount() (int, error) {
	if err := p.require(); err != nil {
		return 0, err
	}
	return p.r.api.CountTracks(p.ptr)
}

// TrackByIndex returns the track currently at idx. The index is only used
// to find the track's GUID; the returned handle follows the track when it
// moves.
func (p Project) TrackByIndex(idx int) (*Track, error) {
	if err := p.require(); err != nil {
		return nil, err
	}
	ptr, err := p.r.api.GetTrack(p.ptr, idx)
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, fmt.Errorf("track %d: %w", idx, ErrUnavailable)
	}
	return p.loadedTrack(ptr)
}

// TrackByGuid returns an unresolved handle. Nothing is looked up until the
// first method call.
func (p Project) TrackByGuid(guid host.Guid) (*Track, error) {
	if err := p.require(); err != nil {
		return nil, err
	}
	return &Track{r: p.r, project: p.ptr, guid: guid}, nil
}

// MasterTrack returns the project's master track.
func (p Project) MasterTrack() (*Track, error) {
	if err := p.require(); err != nil {
		return nil, err
	}
	ptr, err := p.r.api.GetMasterTrack(p.ptr)
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, fmt.Errorf("master track: %w", ErrUnavailable)
	}
	return p.loadedTrack(ptr)
}

// Tracks returns handles for every track in order, without the master track.
func (p Project) Tracks() ([]*Track, error) {
	n, err := p.TrackCount()
	if err != nil {
		return nil, err
	}
	tracks := make([]*Track, 0, n)
	for i := 0; i < n; i++ {
		t, err := p.TrackByIndex(i)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func (p Project) loadedTrack(ptr host.Pointer) (*Track, error) {
	guid, err := p.r.api.TrackGUID(ptr)
	if err != nil {
		return nil, err
	}
	t := &Track{r: p.r, project: p.ptr, guid: guid}
	t.res.load(ptr)
	return t, nil
}
