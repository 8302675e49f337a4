// Package loop drives the per-frame callback. It is single threaded: Run must
// be called from the thread that owns the graphics context.
package loop

import (
	"context"
	"math"
)

// Clock reports seconds from an arbitrary origin.
type Clock interface {
	Now() float64
}

// Loop calls Frame once per display callback. A positive Interval caps the
// frame rate by skipping Frame until Interval seconds have passed since the
// last rendered frame; the callback itself still runs every time.
type Loop struct {
	Clock    Clock
	Interval float64
	// Frame renders one frame.
	Frame func()
	// Idle runs after every callback; wait is the time until the next frame is due.
	Idle func(wait float64)
	// Done reports whether the loop should stop.
	Done func() bool

	last    float64
	started bool
}

// Tick runs one callback and reports whether a frame was rendered.
func (l *Loop) Tick() bool {
	now := l.Clock.Now()
	if l.Interval <= 0 {
		l.Frame()
		return true
	}

	if !l.started {
		l.started = true
		l.last = now
		l.Frame()
		return true
	}

	elapsed := now - l.last
	if elapsed < l.Interval {
		return false
	}
	// Keep the cadence aligned to the interval grid.
	// TODO: clamp the remainder when elapsed spans many intervals under sustained overload.
	l.last = now - math.Mod(elapsed, l.Interval)
	l.Frame()
	return true
}

// Wait returns the time until the next frame is due at now.
func (l *Loop) Wait(now float64) float64 {
	if l.Interval <= 0 || !l.started {
		return 0
	}
	if w := l.Interval - (now - l.last); w > 0 {
		return w
	}
	return 0
}

// Run ticks until Done reports true or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for ctx.Err() == nil && (l.Done == nil || !l.Done()) {
		rendered := l.Tick()
		if l.Idle == nil {
			continue
		}
		if rendered {
			l.Idle(0)
		} else {
			l.Idle(l.Wait(l.Clock.Now()))
		}
	}
}
