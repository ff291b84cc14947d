package plugin

import (
	"time"

	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/host"
	"github.com/justyntemme/reapergo/pkg/midi"
	"github.com/justyntemme/reapergo/pkg/reaper"
	"github.com/justyntemme/reapergo/pkg/taskqueue"
)

// AudioBufferArgs describes one audio block.
type AudioBufferArgs struct {
	// IsPost is false before the host processes the block and true after.
	IsPost     bool
	Length     int
	SampleRate float64
}

// AudioHook runs on the host's real-time audio thread once per block,
// before and after processing. Implementations must not allocate, lock or
// block. Anything else is handed to the main thread through the context.
type AudioHook interface {
	OnAudioBuffer(ctx RealtimeContext, args AudioBufferArgs)
}

// AudioHookFunc adapts a function to AudioHook.
type AudioHookFunc func(ctx RealtimeContext, args AudioBufferArgs)

func (f AudioHookFunc) OnAudioBuffer(ctx RealtimeContext, args AudioBufferArgs) {
	f(ctx, args)
}

// RealtimeContext is the part of the runtime that is safe on the audio
// thread. Track and source handles are deliberately out of reach.
type RealtimeContext struct {
	queue *taskqueue.Queue
	api   *host.API
}

// Enqueue hands task to the main thread. It never blocks.
func (c RealtimeContext) Enqueue(task taskqueue.Task) error {
	return c.queue.EnqueueASAP(task)
}

// EnqueueAfter hands task to the main thread to run after delay.
func (c RealtimeContext) EnqueueAfter(task taskqueue.Task, delay time.Duration) error {
	return c.queue.EnqueueAfter(task, delay)
}

// StuffMIDIMessage injects a short MIDI message. mode selects the target
// queue: 0 for the virtual keyboard, 1 for the control path.
func (c RealtimeContext) StuffMIDIMessage(mode int, status, data1, data2 byte) error {
	return c.api.StuffMIDIMessage(mode, status, data1, data2)
}

// SendMIDI injects msg into the virtual keyboard queue.
func (c RealtimeContext) SendMIDI(msg midi.Message) error {
	return c.api.StuffMIDIMessage(0, msg.Status, msg.Data1, msg.Data2)
}

// audioHookAdapter is the object registered with the host.
type audioHookAdapter struct {
	hook   AudioHook
	ctx    RealtimeContext
	logger *zap.Logger
}

func newAudioHookAdapter(h AudioHook, r *reaper.Reaper, logger *zap.Logger) *audioHookAdapter {
	return &audioHookAdapter{
		hook:   h,
		ctx:    RealtimeContext{queue: r.Queue(), api: r.API()},
		logger: logger,
	}
}

// OnAudioBuffer is called by the host on the audio thread.
func (a *audioHookAdapter) OnAudioBuffer(isPost bool, length int, sampleRate float64) {
	defer a.recoverPanic()
	a.hook.OnAudioBuffer(a.ctx, AudioBufferArgs{
		IsPost:     isPost,
		Length:     length,
		SampleRate: sampleRate,
	})
}

// recoverPanic keeps a panic from unwinding into the host's audio thread.
func (a *audioHookAdapter) recoverPanic() {
	if r := recover(); r != nil {
		a.logger.Error("panic in audio hook", zap.Any("panic", r))
	}
}
