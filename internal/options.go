package internal

import (
	"github.com/joeycumines/logiface"
)

type schedulerOptions struct {
	host     Host
	logger   *logiface.Logger[logiface.Event]
	handlers []func(error)
	debug    bool
}

// Option configures a Scheduler.
type Option func(*schedulerOptions)

// WithHost sets the host that drives the scheduler. Defaults to a ManualHost.
func WithHost(host Host) Option {
	return func(o *schedulerOptions) {
		o.host = host
	}
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(o *schedulerOptions) {
		o.logger = logger
	}
}

// WithErrorHandler registers a handler for task panics.
func WithErrorHandler(fn func(error)) Option {
	return func(o *schedulerOptions) {
		if fn != nil {
			o.handlers = append(o.handlers, fn)
		}
	}
}

// WithDebug enables usage checks that panic instead of being ignored.
func WithDebug(enabled bool) Option {
	return func(o *schedulerOptions) {
		o.debug = enabled
	}
}

func resolveOptions(opts []Option) *schedulerOptions {
	o := &schedulerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.host == nil {
		o.host = NewManualHost()
	}

	return o
}
