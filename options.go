package vmarena

import (
	"github.com/hupe1980/vmarena/internal/mem"
	"github.com/hupe1980/vmarena/internal/vm"
)

// DefaultPagesPerCommit is the number of OS pages committed per batch.
// Sixteen 4KiB pages commit 64KiB at a time.
const DefaultPagesPerCommit = 16

type options struct {
	pagesPerCommit   int
	logger           *Logger
	metricsCollector MetricsCollector
	budget           MemoryAcquirer
	platform         vm.Platform
}

func defaultOptions() options {
	return options{
		pagesPerCommit:   DefaultPagesPerCommit,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures an Arena (and the arena owned by a Vec).
type Option func(*options)

// WithLogger sets the logger for reservation, commit, reset and release events.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, metrics are disabled.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithPagesPerCommit sets how many OS pages are committed at a time.
//
// Larger batches mean fewer OS calls; smaller batches mean less committed but
// unused memory. n is rounded up to a power of two; n <= 0 keeps the default.
func WithPagesPerCommit(n int) Option {
	return func(o *options) {
		if n <= 0 {
			return
		}
		o.pagesPerCommit = mem.NextPowerOfTwo(n)
	}
}

// WithMemoryBudget charges every committed byte to acquirer and credits it
// back on Reset and Close. Share one budget between arenas to bound their
// combined physical memory.
func WithMemoryBudget(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.budget = acquirer
	}
}

// withPlatform replaces the OS platform.
func withPlatform(p vm.Platform) Option {
	return func(o *options) {
		o.platform = p
	}
}
