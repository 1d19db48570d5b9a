// Package loophost drives a scheduler from a go-eventloop Loop: microtasks map
// to the loop's microtask queue, macrotasks to immediates and frames to timers
// firing on a fixed interval.
package loophost

import (
	"time"

	eventloop "github.com/joeycumines/go-eventloop"
	"github.com/joeycumines/logiface"
)

const DefaultFrameInterval = 16 * time.Millisecond

type options struct {
	interval time.Duration
	logger   *logiface.Logger[logiface.Event]
	onError  func(error)
}

type Option func(*options)

// WithFrameInterval sets the delay between a frame request and the frame.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithErrorHandler receives the task errors reported by the scheduler.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// Host implements the scheduler host on top of an event loop.
// Callbacks run on the loop goroutine.
type Host struct {
	loop *eventloop.Loop
	js   *eventloop.JS

	interval time.Duration
	logger   *logiface.Logger[logiface.Event]
	onError  func(error)
}

func New(loop *eventloop.Loop, opts ...Option) (*Host, error) {
	o := &options{interval: DefaultFrameInterval}
	for _, opt := range opts {
		opt(o)
	}

	js, err := eventloop.NewJS(loop)
	if err != nil {
		return nil, err
	}

	return &Host{
		loop:     loop,
		js:       js,
		interval: o.interval,
		logger:   o.logger,
		onError:  o.onError,
	}, nil
}

func (h *Host) Loop() *eventloop.Loop {
	return h.loop
}

// Do runs fn on the loop goroutine. It is safe to call from any goroutine.
func (h *Host) Do(fn func()) error {
	_, err := h.js.SetImmediate(fn)
	return err
}

func (h *Host) RequestMicrotask(fn func()) {
	if err := h.js.QueueMicrotask(fn); err != nil {
		h.dropped("microtask", err)
	}
}

func (h *Host) RequestMacrotask(fn func()) {
	if _, err := h.js.SetImmediate(fn); err != nil {
		h.dropped("macrotask", err)
	}
}

func (h *Host) RequestFrame(fn func()) {
	if _, err := h.js.SetTimeout(fn, int(h.interval/time.Millisecond)); err != nil {
		h.dropped("frame", err)
	}
}

// ReportError logs a task error the scheduler had no handler for.
func (h *Host) ReportError(err error) {
	h.logger.Err().
		Err(err).
		Log("unhandled task error")

	if h.onError != nil {
		h.onError(err)
	}
}

func (h *Host) dropped(kind string, err error) {
	h.logger.Warning().
		Err(err).
		Str("kind", kind).
		Log("event loop rejected callback")
}
