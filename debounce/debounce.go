// Package debounce coalesces bursts of calls into one trailing call.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer a Debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*config)

type config struct {
	afterFunc AfterFunc
}

// WithAfterFunc replaces the timer source, mostly for tests.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *config) {
		c.afterFunc = f
	}
}

// Debouncer delays fn until no Call has happened for the configured delay,
// then invokes it once with the most recent argument.
type Debouncer[T any] struct {
	mu        sync.Mutex
	delay     time.Duration
	fn        func(T)
	afterFunc AfterFunc

	token   uint64
	pending Timer
}

func New[T any](delay time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	cfg := config{afterFunc: realAfterFunc}
	for _, o := range opts {
		o(&cfg)
	}
	return &Debouncer[T]{
		delay:     delay,
		fn:        fn,
		afterFunc: cfg.afterFunc,
	}
}

// Call cancels the pending invocation, if any, and schedules a new one
// carrying v.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.token++
	token := d.token
	d.pending = d.afterFunc(d.delay, func() {
		d.fire(token, v)
	})
}

// fire runs fn only if no newer Call superseded this timer. Stop cannot
// recall a timer whose function already started, so the token decides.
func (d *Debouncer[T]) fire(token uint64, v T) {
	d.mu.Lock()
	if token != d.token {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	d.fn(v)
}

// Stop drops the pending invocation without running it.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.token++
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
