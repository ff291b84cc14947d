package reaper

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/config"
	"github.com/justyntemme/reapergo/pkg/taskqueue"
)

type options struct {
	logger     *zap.Logger
	queue      *taskqueue.Queue
	cfg        config.Config
	registerer prometheus.Registerer
}

// Option configures a Reaper.
type Option func(*options)

// WithLogger sets the logger. The package default from debug.Default is used
// otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithQueue supplies the main-thread task queue instead of building one from
// the configuration.
func WithQueue(q *taskqueue.Queue) Option {
	return func(o *options) {
		o.queue = q
	}
}

// WithConfig replaces config.Default.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithMetrics registers the runtime's collectors with reg. Without it
// metrics are registered with the default registerer only when enabled in
// the configuration.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}
