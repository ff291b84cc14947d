package reaper

import (
	"fmt"

	"github.com/justyntemme/reapergo/pkg/host"
)

// Fx is an effect in a track's FX chain, identified by GUID. The host has
// no pointer for FX, so the cached handle is the chain position, checked by
// reading the GUID at that position again.
type Fx struct {
	track *Track
	guid  host.Guid
	res   resolver[int]
}

func (f *Fx) Guid() host.Guid {
	return f.guid
}

// Track returns the track the FX chain belongs to.
func (f *Fx) Track() *Track {
	return f.track
}

func (f *Fx) State() State {
	return f.res.state
}

func (f *Fx) IsAvailable() bool {
	_, _, err := f.resolve()
	return err == nil
}

// resolve resolves the track and then the FX position within it.
func (f *Fx) resolve() (host.Pointer, int, error) {
	track, err := f.track.Resolve()
	if err != nil {
		return 0, 0, err
	}
	api := f.track.r.api
	idx, ok := f.res.resolve(
		func(idx int) bool {
			g, err := api.TrackFXGUID(track, idx)
			return err == nil && g == f.guid
		},
		func() (int, bool) {
			n, err := api.TrackFXCount(track)
			if err != nil {
				return 0, false
			}
			for i := 0; i < n; i++ {
				if g, err := api.TrackFXGUID(track, i); err == nil && g == f.guid {
					return i, true
				}
			}
			return 0, false
		},
	)
	if !ok {
		return 0, 0, fmt.Errorf("fx %s: %w", f.guid, ErrUnavailable)
	}
	return track, idx, nil
}

// Index returns the current position in the chain.
func (f *Fx) Index() (int, error) {
	_, idx, err := f.resolve()
	return idx, err
}

func (f *Fx) Name() (string, error) {
	track, idx, err := f.resolve()
	if err != nil {
		return "", err
	}
	name, _, err := f.track.r.api.TrackFXName(track, idx)
	return name, err
}

func (f *Fx) IsEnabled() (bool, error) {
	track, idx, err := f.resolve()
	if err != nil {
		return false, err
	}
	return f.track.r.api.TrackFXEnabled(track, idx)
}

func (f *Fx) SetEnabled(enabled bool) error {
	track, idx, err := f.resolve()
	if err != nil {
		return err
	}
	return f.track.r.api.SetTrackFXEnabled(track, idx, enabled)
}
