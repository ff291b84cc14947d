package reaper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/reapergo/pkg/host"
	"github.com/justyntemme/reapergo/pkg/host/fakehost"
)

func currentProject(t *testing.T, r *Reaper) Project {
	t.Helper()
	p, err := r.CurrentProject()
	require.NoError(t, err)
	return p
}

func TestTrackFollowsReorder(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	proj := fake.CurrentProject()
	drums := fake.AddTrack(proj, "Drums")
	fake.AddTrack(proj, "Bass")

	track, err := currentProject(t, r).TrackByIndex(0)
	require.NoError(t, err)

	fake.InsertTrack(proj, 0, "Click")
	fake.MoveTrack(drums, 2)

	ptr, err := track.Resolve()
	require.NoError(t, err)
	assert.Equal(t, drums, ptr)

	name, err := track.Name()
	require.NoError(t, err)
	assert.Equal(t, "Drums", name)

	idx, err := track.Index()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestTrackDeletedStaysUnavailableUntilRestored(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	proj := fake.CurrentProject()
	ptr := fake.AddTrack(proj, "Vox")
	guid := fake.TrackGuid(ptr)

	track, err := currentProject(t, r).TrackByGuid(guid)
	require.NoError(t, err)
	assert.Equal(t, Unloaded, track.State())
	require.True(t, track.IsAvailable())
	assert.Equal(t, Loaded, track.State())

	fake.DeleteTrack(ptr)

	for i := 0; i < 3; i++ {
		_, err := track.Resolve()
		require.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, Unavailable, track.State())
	}
	_, err = track.Name()
	assert.ErrorIs(t, err, ErrUnavailable)

	restored := fake.RestoreTrack(proj, 0, guid, "Vox")
	require.NotEqual(t, ptr, restored)

	got, err := track.Resolve()
	require.NoError(t, err)
	assert.Equal(t, restored, got)
	assert.Equal(t, Loaded, track.State())
}

func TestTrackDetectsRecycledAddress(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	ptr := fake.AddTrack(fake.CurrentProject(), "Old")

	track, err := r.TrackFromPointer(ptr, 0)
	require.NoError(t, err)

	newGuid := fake.RecycleTrack(ptr, "New")
	require.NotEqual(t, track.Guid(), newGuid)

	_, err = track.Name()
	assert.ErrorIs(t, err, ErrUnavailable, "a different track at the same address is not this track")
}

func TestTrackFromPointerDiscoversProject(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	second := fake.AddProject("Second")
	ptr := fake.AddTrack(second, "Pad")

	track, err := r.TrackFromPointer(ptr, 0)
	require.NoError(t, err)

	p, err := track.Project()
	require.NoError(t, err)
	assert.Equal(t, second, p.Pointer())

	_, err = r.TrackFromPointer(0x1, 0)
	assert.Error(t, err)
}

func TestTrackFromPointerSearchesWithoutProjectInfo(t *testing.T) {
	fake := fakehost.New(fakehost.Without("GetSetMediaTrackInfo"))
	r := newTestReaper(t, fake)
	second := fake.AddProject("Second")
	ptr := fake.AddTrack(second, "Pad")

	track, err := r.TrackFromPointer(ptr, 0)
	require.NoError(t, err)

	p, err := track.Project()
	require.NoError(t, err)
	assert.Equal(t, second, p.Pointer())
}

func TestTrackWithUnknownProjectScansAllProjects(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	second := fake.AddProject("Second")
	ptr := fake.AddTrack(second, "Lead")
	guid := fake.TrackGuid(ptr)

	track, err := r.TrackFromPointer(ptr, 0)
	require.NoError(t, err)
	fake.DeleteTrack(ptr)
	restored := fake.RestoreTrack(second, 0, guid, "Lead")

	got, err := track.Resolve()
	require.NoError(t, err)
	assert.Equal(t, restored, got)
}

func TestTrackNameWithoutHostFunction(t *testing.T) {
	fake := fakehost.New(fakehost.Without("GetSetMediaTrackInfo_String"))
	r := newTestReaper(t, fake)
	fake.AddTrack(fake.CurrentProject(), "Guitar")

	track, err := currentProject(t, r).TrackByIndex(0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = track.Name()
		require.ErrorIs(t, err, host.ErrMissingHostFunction)
		var missing *host.MissingFunctionError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "GetSetMediaTrackInfo_String", missing.Name)
	}
	assert.ErrorIs(t, track.SetName("x"), host.ErrMissingHostFunction)
}

func TestTrackAttributes(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	ptr := fake.AddTrack(fake.CurrentProject(), "Keys")
	track, err := currentProject(t, r).TrackByIndex(0)
	require.NoError(t, err)

	require.NoError(t, track.SetName("Piano"))
	assert.Equal(t, "Piano", fake.TrackName(ptr))

	require.NoError(t, track.SetVolume(0.5))
	vol, err := track.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, vol, 1e-9)

	require.NoError(t, track.SetPan(-0.25))
	pan, err := track.Pan()
	require.NoError(t, err)
	assert.InDelta(t, -0.25, pan, 1e-9)

	require.NoError(t, track.SetMuted(true))
	muted, err := track.IsMuted()
	require.NoError(t, err)
	assert.True(t, muted)

	require.NoError(t, track.SetSelected(true))
	selected, err := track.IsSelected()
	require.NoError(t, err)
	assert.True(t, selected)

	master, err := track.IsMaster()
	require.NoError(t, err)
	assert.False(t, master)
}

func TestMasterTrack(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	fake.AddTrack(fake.CurrentProject(), "One")

	master, err := currentProject(t, r).MasterTrack()
	require.NoError(t, err)

	isMaster, err := master.IsMaster()
	require.NoError(t, err)
	assert.True(t, isMaster)

	idx, err := master.Index()
	require.NoError(t, err)
	assert.Equal(t, -1, idx)

	// The master track is found by GUID scans too.
	byGuid, err := currentProject(t, r).TrackByGuid(master.Guid())
	require.NoError(t, err)
	assert.True(t, byGuid.IsAvailable())
}

func TestProjectTracks(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	proj := fake.CurrentProject()
	names := []string{"Kick", "Snare", "Hat"}
	for _, n := range names {
		fake.AddTrack(proj, n)
	}

	tracks, err := currentProject(t, r).Tracks()
	require.NoError(t, err)
	require.Len(t, tracks, len(names))
	for i, track := range tracks {
		name, err := track.Name()
		require.NoError(t, err)
		assert.Equal(t, names[i], name)
	}

	_, err = currentProject(t, r).TrackByIndex(len(names))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFxFollowsChainReorder(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	ptr := fake.AddTrack(fake.CurrentProject(), "Bus")
	fake.AddFx(ptr, "ReaEQ")
	compGuid := fake.AddFx(ptr, "ReaComp")

	track, err := currentProject(t, r).TrackByIndex(0)
	require.NoError(t, err)
	fx, err := track.FxByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, compGuid, fx.Guid())

	fake.MoveFx(ptr, 1, 0)

	idx, err := fx.Index()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	name, err := fx.Name()
	require.NoError(t, err)
	assert.Equal(t, "ReaComp", name)

	require.NoError(t, fx.SetEnabled(false))
	enabled, err := fx.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	fake.RemoveFx(ptr, 0)
	assert.False(t, fx.IsAvailable())
	assert.Equal(t, Unavailable, fx.State())
}

func TestFxLookups(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	ptr := fake.AddTrack(fake.CurrentProject(), "Bus")
	fake.AddFx(ptr, "ReaEQ")
	delayGuid := fake.AddFx(ptr, "ReaDelay")

	track, err := currentProject(t, r).TrackByIndex(0)
	require.NoError(t, err)

	fxs, err := track.Fxs()
	require.NoError(t, err)
	assert.Len(t, fxs, 2)

	lazy := track.FxByGuid(delayGuid)
	assert.Equal(t, Unloaded, lazy.State())
	name, err := lazy.Name()
	require.NoError(t, err)
	assert.Equal(t, "ReaDelay", name)
	assert.Same(t, track, lazy.Track())

	_, err = track.FxByIndex(7)
	assert.ErrorIs(t, err, ErrUnavailable)

	// FX go away with their track.
	fake.DeleteTrack(ptr)
	_, err = lazy.Name()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTrackWithUnknownProjectPrefersCurrentProject(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	first := fake.CurrentProject()
	second := fake.AddProject("Second")
	ptr := fake.AddTrack(first, "Dup")
	guid := fake.TrackGuid(ptr)

	track, err := r.TrackFromPointer(ptr, 0)
	require.NoError(t, err)
	fake.DeleteTrack(ptr)
	fake.RestoreTrack(first, 0, guid, "Dup")
	inCurrent := fake.RestoreTrack(second, 0, guid, "Dup")
	fake.SwitchProject(second)

	got, err := track.Resolve()
	require.NoError(t, err)
	assert.Equal(t, inCurrent, got)

	p, err := track.Project()
	require.NoError(t, err)
	assert.Equal(t, second, p.Pointer())
}
