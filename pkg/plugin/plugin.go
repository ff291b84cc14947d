// Package plugin is the host-facing entry point of an extension.
//
// The host calls the extension's entry function once after loading it,
// handing over its caller version and function lookup. Entry installs the
// process-wide runtime, registers the control surface that drives the
// main-thread task queue and event bus, and registers audio hooks.
package plugin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/config"
	"github.com/justyntemme/reapergo/pkg/framework/debug"
	"github.com/justyntemme/reapergo/pkg/host"
	"github.com/justyntemme/reapergo/pkg/reaper"
)

// CallerVersion is the plug-in ABI version this package was built against.
// The host passes its own in PluginInfo and the two must match.
const CallerVersion = 0x20E

var (
	// ErrNoHost is returned when the host passed no info or no lookup.
	ErrNoHost = errors.New("plugin info missing")
	// ErrVersionMismatch is returned when the host speaks a different ABI.
	ErrVersionMismatch = errors.New("caller version mismatch")
)

// VersionMismatchError carries both versions.
type VersionMismatchError struct {
	Got  int
	Want int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("host caller version 0x%X, want 0x%X", e.Got, e.Want)
}

func (e *VersionMismatchError) Unwrap() error {
	return ErrVersionMismatch
}

// PluginInfo is what the host hands to the entry function.
type PluginInfo struct {
	CallerVersion int
	GetFunc       host.GetFunc
}

type options struct {
	cfg        *config.Config
	cfgFile    string
	logger     *zap.Logger
	registerer prometheus.Registerer
	hooks      []AudioHook
}

// Option configures Entry.
type Option func(*options)

// WithConfig uses cfg instead of reading a file.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithConfigFile reads configuration from path. A missing file means
// defaults.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.cfgFile = path
	}
}

// WithLogger overrides the logger built from the configuration.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegisterer registers metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithAudioHook registers h to run on every audio block.
func WithAudioHook(h AudioHook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, h)
	}
}

// Session is a loaded extension. Close it when the host unloads the
// extension.
type Session struct {
	r             *reaper.Reaper
	logger        *zap.Logger
	closeLog      func()
	surfaceHandle uintptr
	hookHandles   []uintptr
	closed        bool
}

var (
	active   *Session
	activeMu sync.Mutex
)

// Entry loads the extension. While a session is active, further calls
// return it unchanged.
func Entry(info *PluginInfo, opts ...Option) (*Session, error) {
	if info == nil || info.GetFunc == nil {
		return nil, ErrNoHost
	}
	if info.CallerVersion != CallerVersion {
		return nil, &VersionMismatchError{Got: info.CallerVersion, Want: CallerVersion}
	}

	activeMu.Lock()
	defer activeMu.Unlock()
	if active != nil {
		active.logger.Debug("entry called with an active session")
		return active, nil
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}
	logger, closeLog := o.logger, func() {}
	if logger == nil {
		var closeFile func()
		if logger, closeFile, err = debug.FromConfig(cfg.Logging, cfg.Plugin.Name); err != nil {
			return nil, err
		}
		// The default logger must not outlive its file.
		closeLog = func() {
			debug.SetDefault(nil)
			closeFile()
		}
	}
	debug.SetDefault(logger)

	r, err := reaper.Setup(info.GetFunc,
		reaper.WithLogger(logger),
		reaper.WithConfig(cfg),
		reaper.WithMetrics(o.registerer),
	)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("install runtime: %w", err)
	}

	s := &Session{r: r, logger: r.Logger(), closeLog: closeLog}
	if err := s.registerSurface(); err != nil {
		s.close()
		return nil, err
	}
	for _, h := range o.hooks {
		if err := s.registerAudioHook(h); err != nil {
			s.close()
			return nil, err
		}
	}

	active = s
	s.logger.Info("extension loaded",
		zap.String("plugin", cfg.Plugin.Name),
		zap.String("plugin_version", cfg.Plugin.Version),
		zap.Int("audio_hooks", len(s.hookHandles)))
	return s, nil
}

func loadConfig(o options) (config.Config, error) {
	if o.cfg != nil {
		if err := o.cfg.Validate(); err != nil {
			return config.Config{}, err
		}
		return *o.cfg, nil
	}
	if o.cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(o.cfgFile)
}

func (s *Session) registerSurface() error {
	handle := host.RegisterHandle(s.r.Surface())
	ok, err := s.r.API().PluginRegister("csurf_inst", handle)
	if err == nil && ok == 0 {
		err = errors.New("host rejected control surface")
	}
	if err != nil {
		host.UnregisterHandle(handle)
		return fmt.Errorf("register control surface: %w", err)
	}
	s.surfaceHandle = handle
	return nil
}

func (s *Session) registerAudioHook(h AudioHook) error {
	adapter := newAudioHookAdapter(h, s.r, s.logger.Named("audio"))
	handle := host.RegisterHandle(adapter)
	ok, err := s.r.API().AudioRegHardwareHook(true, handle)
	if err == nil && ok == 0 {
		err = errors.New("host rejected audio hook")
	}
	if err != nil {
		host.UnregisterHandle(handle)
		return fmt.Errorf("register audio hook: %w", err)
	}
	s.hookHandles = append(s.hookHandles, handle)
	return nil
}

// Reaper returns the runtime.
func (s *Session) Reaper() *reaper.Reaper {
	return s.r
}

// Close unregisters the control surface and audio hooks. The runtime stays
// installed. Closing twice is a no-op.
func (s *Session) Close() error {
	activeMu.Lock()
	defer activeMu.Unlock()
	if s.closed {
		return nil
	}
	err := s.close()
	if active == s {
		active = nil
	}
	return err
}

func (s *Session) close() error {
	s.closed = true
	api := s.r.API()
	var errs []error
	for _, h := range s.hookHandles {
		if _, err := api.AudioRegHardwareHook(false, h); err != nil {
			errs = append(errs, err)
		}
		host.UnregisterHandle(h)
	}
	s.hookHandles = nil
	if s.surfaceHandle != 0 {
		if _, err := api.PluginRegister("-csurf_inst", s.surfaceHandle); err != nil {
			errs = append(errs, err)
		}
		host.UnregisterHandle(s.surfaceHandle)
		s.surfaceHandle = 0
	}
	_ = s.logger.Sync()
	s.closeLog()
	return errors.Join(errs...)
}
