// Package reaper is the safe entry point to the host.
//
// A Reaper wraps the resolved host function table together with the pointer
// validator, the main-thread task queue and the event bus. Higher level
// handles (Project, Track, Fx, sources) are created from it and validate
// every raw pointer immediately before handing it back to the host.
//
// The host loads one plug-in instance per process and exposes a single
// function table, so a Reaper is usually installed once with Setup and
// fetched with Get. New builds an independent instance for tests and for
// code that prefers passing the runtime explicitly.
//
// Except for the ExecuteLaterInMainThread methods, everything in this
// package must be called on the host's main thread.
package reaper

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/config"
	"github.com/justyntemme/reapergo/pkg/event"
	"github.com/justyntemme/reapergo/pkg/framework/debug"
	"github.com/justyntemme/reapergo/pkg/host"
	"github.com/justyntemme/reapergo/pkg/taskqueue"
	"github.com/justyntemme/reapergo/pkg/validate"
)

// Reaper is the runtime handle.
type Reaper struct {
	api       *host.API
	version   host.Version
	validator *validate.Validator
	queue     *taskqueue.Queue
	bus       *event.Bus
	bridge    *event.Bridge
	logger    *zap.Logger
	cfg       config.Config
}

var (
	instance atomic.Pointer[Reaper]
	setupMu  sync.Mutex
)

// Setup installs the process-wide runtime. Only the first successful call
// builds one; later calls return the installed runtime unchanged and ignore
// their arguments.
func Setup(getFunc host.GetFunc, opts ...Option) (*Reaper, error) {
	setupMu.Lock()
	defer setupMu.Unlock()

	if r := instance.Load(); r != nil {
		r.logger.Debug("runtime already installed, keeping it")
		return r, nil
	}
	r, err := New(getFunc, opts...)
	if err != nil {
		return nil, err
	}
	instance.Store(r)
	return r, nil
}

// Get returns the runtime installed by Setup.
func Get() (*Reaper, error) {
	r := instance.Load()
	if r == nil {
		return nil, ErrNotInitialized
	}
	return r, nil
}

// New builds a runtime from the host's function lookup. Every entry point is
// resolved once, here. Missing entry points are not an error at this stage:
// calls through them fail later with host.ErrMissingHostFunction.
func New(getFunc host.GetFunc, opts ...Option) (*Reaper, error) {
	if getFunc == nil {
		return nil, ErrHostFunctionsUnavailable
	}

	o := options{cfg: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = debug.Default()
	}

	fn := host.Load(getFunc)
	if missing := fn.Missing(); len(missing) > 0 {
		logger.Debug("host entry points not resolved", zap.Strings("names", missing))
	}
	api := host.NewAPI(fn)

	version, err := api.AppVersion()
	if err != nil {
		logger.Warn("host version unknown", zap.Error(err))
	}

	r := &Reaper{
		api:       api,
		version:   version,
		validator: validate.New(api),
		logger:    logger,
		cfg:       o.cfg,
	}

	r.queue = o.queue
	if r.queue == nil {
		r.queue = taskqueue.New(r.queueOptions(o)...)
	}
	r.bus = event.NewBus(logger.Named("event"))
	r.bridge = event.NewBridge(r.bus, r.queue,
		event.WithCurrentProject(func() (host.Pointer, error) {
			return api.EnumProjects(-1)
		}),
		event.WithBridgeLogger(logger.Named("surface")),
	)

	logger.Info("runtime created",
		zap.String("plugin", o.cfg.Plugin.Name),
		zap.Stringer("host_version", version))
	return r, nil
}

func (r *Reaper) queueOptions(o options) []taskqueue.Option {
	opts := []taskqueue.Option{
		taskqueue.WithCapacity(o.cfg.TaskQueue.Capacity),
		taskqueue.WithLogger(r.logger.Named("taskqueue")),
	}
	reg := o.registerer
	if reg == nil && o.cfg.Metrics.Enabled {
		reg = prometheus.DefaultRegisterer
	}
	if reg != nil {
		opts = append(opts, taskqueue.WithRegisterer(reg, o.cfg.Metrics.Namespace))
	}
	return opts
}

// API returns the checked host function table.
func (r *Reaper) API() *host.API {
	return r.api
}

// Version returns the host version read at creation.
func (r *Reaper) Version() host.Version {
	return r.version
}

func (r *Reaper) Validator() *validate.Validator {
	return r.validator
}

func (r *Reaper) Queue() *taskqueue.Queue {
	return r.queue
}

// Events returns the bus that host callbacks are published on.
func (r *Reaper) Events() *event.Bus {
	return r.bus
}

// Surface returns the control surface to register with the host. Its Run
// drains the task queue.
func (r *Reaper) Surface() *event.Bridge {
	return r.bridge
}

func (r *Reaper) Logger() *zap.Logger {
	return r.logger
}

func (r *Reaper) Config() config.Config {
	return r.cfg
}

// ExecuteLaterInMainThreadASAP runs task on the next main loop tick. Safe
// from any goroutine, including the audio thread.
func (r *Reaper) ExecuteLaterInMainThreadASAP(task taskqueue.Task) error {
	return r.queue.EnqueueASAP(task)
}

// ExecuteLaterInMainThreadAfter runs task on the first tick at least delay
// from now. Safe from any goroutine.
func (r *Reaper) ExecuteLaterInMainThreadAfter(delay time.Duration, task taskqueue.Task) error {
	return r.queue.EnqueueAfter(task, delay)
}

// ShowConsoleMsg prints msg to the host's console window.
func (r *Reaper) ShowConsoleMsg(msg string) error {
	return r.api.ShowConsoleMsg(msg)
}

// GenerateGuid asks the host for a fresh GUID.
func (r *Reaper) GenerateGuid() (host.Guid, error) {
	return r.api.GenGuid()
}

// CurrentProject returns the project in the active tab.
func (r *Reaper) CurrentProject() (Project, error) {
	ptr, err := r.api.EnumProjects(-1)
	if err != nil {
		return Project{}, err
	}
	if ptr == 0 {
		return Project{}, fmt.Errorf("current project: %w", ErrUnavailable)
	}
	return Project{r: r, ptr: ptr}, nil
}

// ProjectByIndex returns the project in tab idx.
func (r *Reaper) ProjectByIndex(idx int) (Project, error) {
	if idx < 0 {
		return Project{}, fmt.Errorf("project %d: %w", idx, ErrUnavailable)
	}
	ptr, err := r.api.EnumProjects(idx)
	if err != nil {
		return Project{}, err
	}
	if ptr == 0 {
		return Project{}, fmt.Errorf("project %d: %w", idx, ErrUnavailable)
	}
	return Project{r: r, ptr: ptr}, nil
}

// Projects returns every open project in tab order.
func (r *Reaper) Projects() ([]Project, error) {
	var projects []Project
	for i := 0; ; i++ {
		ptr, err := r.api.EnumProjects(i)
		if err != nil {
			return nil, err
		}
		if ptr == 0 {
			return projects, nil
		}
		projects = append(projects, Project{r: r, ptr: ptr})
	}
}

// ProjectCount returns the number of open project tabs.
func (r *Reaper) ProjectCount() (int, error) {
	projects, err := r.Projects()
	return len(projects), err
}

// findContainer returns the project in which ptr is a live object of the
// given kind. The current project is searched first because that is where
// most objects live; every other open project is searched after it.
func (r *Reaper) findContainer(kind host.Kind, ptr host.Pointer) (host.Pointer, bool) {
	current, err := r.api.EnumProjects(-1)
	if err != nil {
		return 0, false
	}
	if current != 0 && r.validator.IsValidIn(current, kind, ptr) {
		return current, true
	}
	for i := 0; ; i++ {
		p, err := r.api.EnumProjects(i)
		if err != nil || p == 0 {
			return 0, false
		}
		if p != current && r.validator.IsValidIn(p, kind, ptr) {
			return p, true
		}
	}
}
