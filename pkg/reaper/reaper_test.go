package reaper

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/justyntemme/reapergo/pkg/config"
	"github.com/justyntemme/reapergo/pkg/host"
	"github.com/justyntemme/reapergo/pkg/host/fakehost"
	"github.com/justyntemme/reapergo/pkg/taskqueue"
	"github.com/justyntemme/reapergo/pkg/validate"
)

func newTestReaper(t *testing.T, fake *fakehost.Host, opts ...Option) *Reaper {
	t.Helper()
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	r, err := New(fake.GetFunc(), opts...)
	require.NoError(t, err)
	return r
}

func TestSetupInstallsOnce(t *testing.T) {
	instance.Store(nil)
	t.Cleanup(func() { instance.Store(nil) })

	_, err := Get()
	require.ErrorIs(t, err, ErrNotInitialized)

	first, err := Setup(fakehost.New().GetFunc(), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	second, err := Setup(fakehost.New(fakehost.WithVersion("6.0")).GetFunc())
	require.NoError(t, err)
	assert.Same(t, first, second, "second Setup must not re-initialize")
	assert.Equal(t, 7, second.Version().Major)

	got, err := Get()
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestSetupFailureLeavesRuntimeUninstalled(t *testing.T) {
	instance.Store(nil)
	t.Cleanup(func() { instance.Store(nil) })

	_, err := Setup(nil)
	require.ErrorIs(t, err, ErrHostFunctionsUnavailable)

	_, err = Get()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestNewReadsVersion(t *testing.T) {
	r := newTestReaper(t, fakehost.New(fakehost.WithVersion("6.83+dev0815/x64")))

	assert.Equal(t, 6, r.Version().Major)
	assert.Equal(t, 83, r.Version().Minor)
	assert.True(t, r.Version().AtLeast(6, 50))
}

func TestNewLogsMissingEntryPoints(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fake := fakehost.New(fakehost.Without("ValidatePtr2", "GetAppVersion"))

	r, err := New(fake.GetFunc(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("host entry points not resolved").All()
	require.Len(t, entries, 1)
	assert.ElementsMatch(t, []any{"GetAppVersion", "ValidatePtr2"}, entries[0].ContextMap()["names"])
	assert.Equal(t, 1, logs.FilterMessage("host version unknown").Len())

	// Without ValidatePtr2 nothing can be proven live.
	p, err := r.CurrentProject()
	require.NoError(t, err)
	assert.False(t, p.IsAvailable())
}

func TestProjects(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	second := fake.AddProject("Second")

	n, err := r.ProjectCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cur, err := r.CurrentProject()
	require.NoError(t, err)
	assert.Equal(t, fake.CurrentProject(), cur.Pointer())

	p, err := r.ProjectByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, second, p.Pointer())
	idx, err := p.Index()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = r.ProjectByIndex(5)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = r.ProjectByIndex(-3)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHostHelpers(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)

	require.NoError(t, r.ShowConsoleMsg("hello\n"))
	assert.Equal(t, "hello\n", fake.Console())

	g, err := r.GenerateGuid()
	require.NoError(t, err)
	assert.False(t, g.IsZero())
}

func TestExecuteLaterInMainThread(t *testing.T) {
	now := time.Unix(1000, 0)
	q := taskqueue.New(taskqueue.WithClock(func() time.Time { return now }))
	r := newTestReaper(t, fakehost.New(), WithQueue(q))
	require.Same(t, q, r.Queue())

	var ran []string
	require.NoError(t, r.ExecuteLaterInMainThreadAfter(time.Second, func() error {
		ran = append(ran, "later")
		return nil
	}))
	require.NoError(t, r.ExecuteLaterInMainThreadASAP(func() error {
		ran = append(ran, "asap")
		return nil
	}))

	r.Surface().Run()
	assert.Equal(t, []string{"asap"}, ran)

	now = now.Add(time.Second)
	r.Surface().Run()
	assert.Equal(t, []string{"asap", "later"}, ran)
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := config.Default()
	cfg.Metrics.Namespace = "test"
	r := newTestReaper(t, fakehost.New(), WithConfig(cfg), WithMetrics(reg))

	require.NoError(t, r.ExecuteLaterInMainThreadASAP(func() error { return nil }))
	r.Surface().Run()

	n, err := testutil.GatherAndCount(reg, "test_main_thread_queue_executed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClosedProjectFailsValidation(t *testing.T) {
	fake := fakehost.New()
	r := newTestReaper(t, fake)
	ptr := fake.AddProject("Scratch")
	p, err := r.ProjectByIndex(1)
	require.NoError(t, err)
	require.True(t, p.IsAvailable())

	fake.CloseProject(ptr)

	assert.False(t, p.IsAvailable())
	_, err = p.TrackCount()
	var invalid *validate.InvalidPointerError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, host.KindProject, invalid.Kind)
	assert.Equal(t, ptr, invalid.Pointer)

	_, err = p.TrackByIndex(0)
	assert.ErrorIs(t, err, validate.ErrUseAfterInvalidation)
	_, err = p.TrackByGuid(host.Guid{1})
	assert.ErrorIs(t, err, validate.ErrUseAfterInvalidation)
	_, err = p.MasterTrack()
	assert.ErrorIs(t, err, validate.ErrUseAfterInvalidation)
	_, err = p.Tracks()
	assert.ErrorIs(t, err, validate.ErrUseAfterInvalidation)
}
