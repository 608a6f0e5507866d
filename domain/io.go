package domain

import (
	"sync/atomic"
	"time"
)

// Input is a logical digital input: true means pressed, or beam broken for the strum sensor.
type Input interface {
	Value() bool
}

// Output is a logical digital output: true means light on.
type Output interface {
	Set(bool)
}

// ClipPlayer triggers a feedback clip. Play must not wait for playback to finish.
type ClipPlayer interface {
	Play(path string)
}

// Watchdog is kicked while the controller is alive.
type Watchdog interface {
	Kick() error
}

// Clock is the time source of the engine and the session.
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// MemIO is an in-memory line which is both an Input and an Output.
type MemIO struct {
	v *uint32
}

func NewMemIO() *MemIO {
	var v = uint32(0)
	return &MemIO{
		v: &v,
	}
}

func (m *MemIO) Value() bool {
	return atomic.LoadUint32(m.v) == 1
}

func (m *MemIO) Set(v bool) {
	if v {
		atomic.StoreUint32(m.v, 1)
		return
	}
	atomic.StoreUint32(m.v, 0)
}

type nopClipPlayer struct{}

func (nopClipPlayer) Play(string) {}

type nopWatchdog struct{}

func (nopWatchdog) Kick() error { return nil }
