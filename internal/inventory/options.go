package inventory

import (
	"log/slog"

	"github.com/roach88/stockroom/internal/notify"
)

// Option configures a Catalog or a Recorder.
type Option func(*options)

type options struct {
	clock    Clock
	ids      IDGenerator
	logger   *slog.Logger
	notifier notify.Notifier
}

func newOptions(opts []Option) options {
	o := options{
		clock:    SystemClock{},
		ids:      UUIDv7Generator{},
		logger:   slog.Default(),
		notifier: notify.Discard{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the timestamp source (for testing).
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithIDGenerator overrides the identifier source (for testing).
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNotifier sets where low-stock alerts go. The default discards them.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}
