package fieldtape

import (
	"log/slog"

	"github.com/hupe1980/fieldtape/internal/resource"
)

type options struct {
	initialCapacity  int
	expectedFields   int
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Registry construction.
type Option func(*options)

// WithInitialCapacity sizes the tape's first capacity reservation in
// bytes. Use it when the record's rough footprint is known up front to
// avoid growth reallocation during the first sets.
func WithInitialCapacity(bytes int) Option {
	return func(o *options) {
		o.initialCapacity = bytes
	}
}

// WithExpectedFields preallocates the field index columns for n rows.
func WithExpectedFields(n int) Option {
	return func(o *options) {
		o.expectedFields = n
	}
}

// WithController attaches a resource controller. Tape growth reserves
// capacity against its memory budget and fails Set with
// ErrAllocationFailed when denied; blit encoding respects its byte-rate
// limit. Several registries may share one controller.
func WithController(c *Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fieldtape.BasicMetricsCollector{}
//	reg := fieldtape.New(fieldtape.WithMetricsCollector(metrics))
//	// ... use reg ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
