package fakehost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/reapergo/pkg/host"
)

func TestFunctionTableIsComplete(t *testing.T) {
	fn := host.Load(New().GetFunc())
	assert.Empty(t, fn.Missing())

	fn = host.Load(New(Without("ValidatePtr2", "plugin_register")).GetFunc())
	assert.Equal(t, []string{"ValidatePtr2", "plugin_register"}, fn.Missing())
}

func TestRecycleTrackKeepsAddress(t *testing.T) {
	h := New()
	proj := h.CurrentProject()
	ptr := h.AddTrack(proj, "A")
	old := h.TrackGuid(ptr)

	g := h.RecycleTrack(ptr, "B")

	assert.NotEqual(t, old, g)
	assert.Equal(t, g, h.TrackGuid(ptr))
	assert.Equal(t, "B", h.TrackName(ptr))
}

func TestCloseProjectFreesTracks(t *testing.T) {
	h := New()
	api := host.NewAPI(host.Load(h.GetFunc()))
	second := h.AddProject("Second")
	track := h.AddTrack(second, "Pad")
	src := h.AddSource(second, SourceSpec{Type: "WAVE"})

	h.CloseProject(second)

	ok, err := api.ValidatePtr2(0, track, host.KindTrack)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = api.ValidatePtr2(0, src, host.KindSource)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = api.ValidatePtr2(0, second, host.KindProject)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSwitchProject(t *testing.T) {
	h := New()
	first := h.CurrentProject()
	second := h.AddProject("Second")
	require.Equal(t, first, h.CurrentProject())

	h.SwitchProject(second)
	assert.Equal(t, second, h.CurrentProject())

	h.CloseProject(second)
	assert.Equal(t, first, h.CurrentProject())
}
