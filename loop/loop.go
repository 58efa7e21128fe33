// Package loop drives a per-frame callback from an injectable tick source.
package loop

import (
	"context"
	"fmt"
	"sync/atomic"
)

// State of a Loop.
type State int32

const (
	Idle State = iota
	Scheduled
	Rendering
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Rendering:
		return "rendering"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// TickSource blocks until the next frame may be rendered. It returns false
// once the host is going away and no further frames will come.
type TickSource interface {
	Next() bool
}

// Clock reports seconds elapsed since rendering started.
type Clock interface {
	Elapsed() float64
}

// FrameFunc renders one frame for the given elapsed time.
type FrameFunc func(elapsed float64) error

// Loop renders exactly one frame per tick and reschedules itself after
// every completed frame. There is no frame skipping.
type Loop struct {
	ticks TickSource
	clock Clock
	frame FrameFunc

	state  atomic.Int32
	frames atomic.Int64
}

func New(ticks TickSource, clock Clock, frame FrameFunc) *Loop {
	return &Loop{ticks: ticks, clock: clock, frame: frame}
}

// Run blocks until the tick source is exhausted (nil), ctx is cancelled
// (ctx.Err()) or a frame fails.
func (l *Loop) Run(ctx context.Context) error {
	defer l.state.Store(int32(Stopped))
	for {
		l.state.Store(int32(Scheduled))
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.ticks.Next() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		l.state.Store(int32(Rendering))
		elapsed := l.clock.Elapsed()
		if err := l.frame(elapsed); err != nil {
			return fmt.Errorf("frame %d: %w", l.frames.Load(), err)
		}
		l.frames.Add(1)
	}
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

// Frames is the number of completed frames.
func (l *Loop) Frames() int64 {
	return l.frames.Load()
}
