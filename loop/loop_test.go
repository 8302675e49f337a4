package loop

import (
	"context"
	"testing"
)

type manualClock struct{ t float64 }

func (c *manualClock) Now() float64 { return c.t }

func TestFreeRunningRendersEveryTick(t *testing.T) {
	clock := &manualClock{}
	frames := 0
	l := &Loop{Clock: clock, Frame: func() { frames++ }}
	for i := 0; i < 10; i++ {
		clock.t += 0.001
		if !l.Tick() {
			t.Fatalf("tick %d skipped", i)
		}
	}
	if frames != 10 {
		t.Errorf("frames = %d, want 10", frames)
	}
}

func TestThrottledSkipsEarlyTicks(t *testing.T) {
	clock := &manualClock{}
	frames := 0
	l := &Loop{Clock: clock, Interval: 0.25, Frame: func() { frames++ }}

	// Callbacks every 0.0625s against a 0.25s interval.
	for i := 0; i < 17; i++ {
		l.Tick()
		clock.t += 0.0625
	}
	// Frames at t=0, 0.25, 0.5, 0.75, 1.0.
	if frames != 5 {
		t.Errorf("frames = %d, want 5", frames)
	}
}

func TestThrottleKeepsRemainder(t *testing.T) {
	clock := &manualClock{}
	l := &Loop{Clock: clock, Interval: 0.25, Frame: func() {}}
	l.Tick()

	clock.t = 0.375
	if !l.Tick() {
		t.Fatal("expected a frame at 0.375")
	}
	// last = 0.375 - (0.375 mod 0.25) = 0.25, so the next frame is due at 0.5.
	clock.t = 0.5
	if !l.Tick() {
		t.Error("expected a frame at 0.5")
	}
}

func TestWait(t *testing.T) {
	clock := &manualClock{}
	l := &Loop{Clock: clock, Interval: 0.5, Frame: func() {}}
	if w := l.Wait(0); w != 0 {
		t.Errorf("Wait before start = %v", w)
	}
	l.Tick()
	if w := l.Wait(0.125); w != 0.375 {
		t.Errorf("Wait(0.125) = %v, want 0.375", w)
	}
	if w := l.Wait(2); w != 0 {
		t.Errorf("Wait(2) = %v, want 0", w)
	}

	free := &Loop{Clock: clock, Frame: func() {}}
	free.Tick()
	if w := free.Wait(1); w != 0 {
		t.Errorf("free-running Wait = %v", w)
	}
}

func TestRunStopsWhenDone(t *testing.T) {
	clock := &manualClock{}
	frames, idles := 0, 0
	l := &Loop{
		Clock: clock,
		Frame: func() { frames++ },
		Idle: func(wait float64) {
			idles++
			clock.t += 0.01
		},
		Done: func() bool { return frames >= 3 },
	}
	l.Run(context.Background())
	if frames != 3 || idles != 3 {
		t.Errorf("frames=%d idles=%d, want 3 and 3", frames, idles)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := &manualClock{}
	frames := 0
	l := &Loop{
		Clock: clock,
		Frame: func() {
			frames++
			if frames == 2 {
				cancel()
			}
		},
	}
	l.Run(ctx)
	if frames != 2 {
		t.Errorf("frames = %d, want 2", frames)
	}
}

func TestRunPassesWaitWhenThrottled(t *testing.T) {
	clock := &manualClock{}
	var waits []float64
	l := &Loop{
		Clock:    clock,
		Interval: 0.5,
		Frame:    func() {},
		Idle: func(wait float64) {
			waits = append(waits, wait)
			clock.t += 0.25
		},
		Done: func() bool { return len(waits) >= 3 },
	}
	l.Run(context.Background())
	want := []float64{0, 0.25, 0}
	for i := range want {
		if waits[i] != want[i] {
			t.Errorf("waits = %v, want %v", waits, want)
			break
		}
	}
}
