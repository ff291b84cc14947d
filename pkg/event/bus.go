package event

import (
	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/host"
)

// Tick is published once per host main loop iteration.
type Tick struct {
	Count uint64
}

type ProjectSwitched struct {
	Project host.Pointer
}

type TrackListChanged struct{}

type TrackVolumeChanged struct {
	Track  host.Pointer
	Volume float64
}

type TrackPanChanged struct {
	Track host.Pointer
	Pan   float64
}

type TrackMuteChanged struct {
	Track host.Pointer
	Muted bool
}

type TrackSoloChanged struct {
	Track  host.Pointer
	Soloed bool
}

type TrackSelectedChanged struct {
	Track    host.Pointer
	Selected bool
}

type TrackArmChanged struct {
	Track host.Pointer
	Armed bool
}

type TrackNameChanged struct {
	Track host.Pointer
	Name  string
}

type PlayStateChanged struct {
	Playing   bool
	Paused    bool
	Recording bool
}

type RepeatStateChanged struct {
	Repeat bool
}

// Bus holds one subject per event kind. Track pointers in payloads come
// straight from the host and must be validated before use.
type Bus struct {
	MainThreadIdle       *Subject[Tick]
	ProjectSwitched      *Subject[ProjectSwitched]
	TrackListChanged     *Subject[TrackListChanged]
	TrackVolumeChanged   *Subject[TrackVolumeChanged]
	TrackPanChanged      *Subject[TrackPanChanged]
	TrackMuteChanged     *Subject[TrackMuteChanged]
	TrackSoloChanged     *Subject[TrackSoloChanged]
	TrackSelectedChanged *Subject[TrackSelectedChanged]
	TrackArmChanged      *Subject[TrackArmChanged]
	TrackNameChanged     *Subject[TrackNameChanged]
	PlayStateChanged     *Subject[PlayStateChanged]
	RepeatStateChanged   *Subject[RepeatStateChanged]
}

// NewBus creates a bus with empty subjects.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		MainThreadIdle:       NewSubject[Tick]("main_thread_idle", logger),
		ProjectSwitched:      NewSubject[ProjectSwitched]("project_switched", logger),
		TrackListChanged:     NewSubject[TrackListChanged]("track_list_changed", logger),
		TrackVolumeChanged:   NewSubject[TrackVolumeChanged]("track_volume_changed", logger),
		TrackPanChanged:      NewSubject[TrackPanChanged]("track_pan_changed", logger),
		TrackMuteChanged:     NewSubject[TrackMuteChanged]("track_mute_changed", logger),
		TrackSoloChanged:     NewSubject[TrackSoloChanged]("track_solo_changed", logger),
		TrackSelectedChanged: NewSubject[TrackSelectedChanged]("track_selected_changed", logger),
		TrackArmChanged:      NewSubject[TrackArmChanged]("track_arm_changed", logger),
		TrackNameChanged:     NewSubject[TrackNameChanged]("track_name_changed", logger),
		PlayStateChanged:     NewSubject[PlayStateChanged]("play_state_changed", logger),
		RepeatStateChanged:   NewSubject[RepeatStateChanged]("repeat_state_changed", logger),
	}
}
