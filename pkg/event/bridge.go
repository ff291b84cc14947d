package event

import (
	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/host"
	"github.com/justyntemme/reapergo/pkg/taskqueue"
)

// ControlSurface is the callback surface the host drives. Run is called on
// every main loop iteration; the other hooks fire when the host state they
// describe changes. All calls happen on the main thread.
type ControlSurface interface {
	Run()
	SetTrackListChange()
	SetSurfaceVolume(track host.Pointer, volume float64)
	SetSurfacePan(track host.Pointer, pan float64)
	SetSurfaceMute(track host.Pointer, mute bool)
	SetSurfaceSolo(track host.Pointer, solo bool)
	SetSurfaceSelected(track host.Pointer, selected bool)
	SetSurfaceRecArm(track host.Pointer, armed bool)
	SetTrackTitle(track host.Pointer, title string)
	SetPlayState(play, pause, rec bool)
	SetRepeatState(repeat bool)
	OnProjectSwitched(project host.Pointer)
}

// CurrentProjectFunc returns the host's current project.
type CurrentProjectFunc func() (host.Pointer, error)

// Bridge translates host callbacks into publishes on a Bus and drains the
// main-thread task queue once per tick.
type Bridge struct {
	bus            *Bus
	queue          *taskqueue.Queue
	currentProject CurrentProjectFunc
	logger         *zap.Logger

	ticks       uint64
	lastProject host.Pointer
	// seeded is set once the first current-project result is recorded. A zero
	// lastProject alone means "no project open", not "not checked yet".
	seeded bool
}

var _ ControlSurface = (*Bridge)(nil)

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithCurrentProject makes Run detect project tab switches by comparing the
// current project between ticks, for hosts that do not call
// OnProjectSwitched themselves.
func WithCurrentProject(p CurrentProjectFunc) BridgeOption {
	return func(b *Bridge) {
		b.currentProject = p
	}
}

// WithBridgeLogger sets the logger.
func WithBridgeLogger(l *zap.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBridge creates a bridge publishing on bus. queue may be nil.
func NewBridge(bus *Bus, queue *taskqueue.Queue, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		bus:    bus,
		queue:  queue,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bus returns the bus the bridge publishes on.
func (b *Bridge) Bus() *Bus {
	return b.bus
}

// recoverPanic keeps a panic from unwinding into host code.
func (b *Bridge) recoverPanic(hook string) {
	if r := recover(); r != nil {
		b.logger.Error("panic in host callback",
			zap.String("hook", hook),
			zap.Any("panic", r))
	}
}

// Run drains the task queue, detects project switches and publishes
// MainThreadIdle.
func (b *Bridge) Run() {
	defer b.recoverPanic("Run")

	if b.queue != nil {
		b.queue.Drain()
	}
	b.detectProjectSwitch()
	b.ticks++
	b.bus.MainThreadIdle.Publish(Tick{Count: b.ticks})
}

func (b *Bridge) detectProjectSwitch() {
	if b.currentProject == nil {
		return
	}
	current, err := b.currentProject()
	if err != nil {
		b.logger.Debug("current project lookup failed", zap.Error(err))
		return
	}
	if !b.seeded {
		b.seeded = true
		b.lastProject = current
		return
	}
	if current != b.lastProject {
		b.OnProjectSwitched(current)
	}
}

func (b *Bridge) OnProjectSwitched(project host.Pointer) {
	defer b.recoverPanic("OnProjectSwitched")
	b.seeded = true
	b.lastProject = project
	b.bus.ProjectSwitched.Publish(ProjectSwitched{Project: project})
}

func (b *Bridge) SetTrackListChange() {
	defer b.recoverPanic("SetTrackListChange")
	b.bus.TrackListChanged.Publish(TrackListChanged{})
}

func (b *Bridge) SetSurfaceVolume(track host.Pointer, volume float64) {
	defer b.recoverPanic("SetSurfaceVolume")
	b.bus.TrackVolumeChanged.Publish(TrackVolumeChanged{Track: track, Volume: volume})
}

func (b *Bridge) SetSurfacePan(track host.Pointer, pan float64) {
	defer b.recoverPanic("SetSurfacePan")
	b.bus.TrackPanChanged.Publish(TrackPanChanged{Track: track, Pan: pan})
}

func (b *Bridge) SetSurfaceMute(track host.Pointer, mute bool) {
	defer b.recoverPanic("SetSurfaceMute")
	b.bus.TrackMuteChanged.Publish(TrackMuteChanged{Track: track, Muted: mute})
}

func (b *Bridge) SetSurfaceSolo(track host.Pointer, solo bool) {
	defer b.recoverPanic("SetSurfaceSolo")
	b.bus.TrackSoloChanged.Publish(TrackSoloChanged{Track: track, Soloed: solo})
}

func (b *Bridge) SetSurfaceSelected(track host.Pointer, selected bool) {
	defer b.recoverPanic("SetSurfaceSelected")
	b.bus.TrackSelectedChanged.Publish(TrackSelectedChanged{Track: track, Selected: selected})
}

func (b *Bridge) SetSurfaceRecArm(track host.Pointer, armed bool) {
	defer b.recoverPanic("SetSurfaceRecArm")
	b.bus.TrackArmChanged.Publish(TrackArmChanged{Track: track, Armed: armed})
}

func (b *Bridge) SetTrackTitle(track host.Pointer, title string) {
	defer b.recoverPanic("SetTrackTitle")
	b.bus.TrackNameChanged.Publish(TrackNameChanged{Track: track, Name: title})
}

func (b *Bridge) SetPlayState(play, pause, rec bool) {
	defer b.recoverPanic("SetPlayState")
	b.bus.PlayStateChanged.Publish(PlayStateChanged{Playing: play, Paused: pause, Recording: rec})
}

func (b *Bridge) SetRepeatState(repeat bool) {
	defer b.recoverPanic("SetRepeatState")
	b.bus.RepeatStateChanged.Publish(RepeatStateChanged{Repeat: repeat})
}
