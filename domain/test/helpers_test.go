package domain_test

import (
	"io"
	"sync"
	"time"

	. "github.com/areknoster/guitarzero/domain"
	"golang.org/x/exp/slog"
)

var start = time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
	// onSleep runs after every Sleep.
	onSleep func()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	if c.onSleep != nil {
		c.onSleep()
	}
}

func (c *fakeClock) elapsed() time.Duration { return c.now.Sub(start) }

// phase tells which interval the current sample belongs to and how far into it the clock is,
// assuming the round started at the beginning of the clock and intervals are one second long.
// A sample taken exactly on a deadline still belongs to the interval that ends there.
func (c *fakeClock) phase() (interval int, offset time.Duration) {
	e := c.elapsed()
	if e <= 0 {
		return 0, 0
	}
	interval = int((e - 1) / time.Second)
	return interval, e - time.Duration(interval)*time.Second
}

type inputFunc func() bool

func (f inputFunc) Value() bool { return f() }

type recordingPlayer struct {
	clock *fakeClock

	mx    sync.Mutex
	plays []string
	at    []time.Duration
}

func (p *recordingPlayer) Play(path string) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.plays = append(p.plays, path)
	p.at = append(p.at, p.clock.elapsed())
}

// playedAt returns when each play of path happened.
func (p *recordingPlayer) playedAt(path string) []time.Duration {
	p.mx.Lock()
	defer p.mx.Unlock()
	var at []time.Duration
	for i, played := range p.plays {
		if played == path {
			at = append(at, p.at[i])
		}
	}
	return at
}

func (p *recordingPlayer) count(path string) int {
	p.mx.Lock()
	defer p.mx.Unlock()
	n := 0
	for _, played := range p.plays {
		if played == path {
			n++
		}
	}
	return n
}

type countingWatchdog struct {
	clock *fakeClock
	kicks int
	at    []time.Duration
}

func (w *countingWatchdog) Kick() error {
	w.kicks++
	w.at = append(w.at, w.clock.elapsed())
	return nil
}

// maxGap is the longest stretch between two kicks, counting from the clock start.
func (w *countingWatchdog) maxGap() time.Duration {
	var gap, last time.Duration
	for _, at := range w.at {
		if at-last > gap {
			gap = at - last
		}
		last = at
	}
	return gap
}

type mockRig struct {
	strum *MemIO
	front [Lanes]*MemIO
	back  [Lanes]*MemIO
}

func newMockRig() *mockRig {
	mr := &mockRig{strum: NewMemIO()}
	for i := 0; i < Lanes; i++ {
		mr.front[i] = NewMemIO()
		mr.back[i] = NewMemIO()
	}
	return mr
}

// Rig wires the given buttons; nil buttons are never pressed.
func (mr *mockRig) Rig(buttons [Lanes]Input) Rig {
	r := Rig{Strum: mr.strum}
	for i := 0; i < Lanes; i++ {
		b := buttons[i]
		if b == nil {
			b = NewMemIO()
		}
		r.Lanes[i] = Lane{Button: b, Front: mr.front[i], Back: mr.back[i]}
	}
	return r
}

// mirrorFront returns buttons held exactly as the front row is lit, i.e. a player who always plays
// the note in front. Lanes listed in invert are played wrong.
func (mr *mockRig) mirrorFront(invert ...int) [Lanes]Input {
	return mirror(mr.front, invert...)
}

func (mr *mockRig) mirrorBack() [Lanes]Input {
	return mirror(mr.back)
}

func mirror(lights [Lanes]*MemIO, invert ...int) [Lanes]Input {
	var buttons [Lanes]Input
	for i := 0; i < Lanes; i++ {
		light, flip := lights[i], false
		for _, inv := range invert {
			flip = flip || inv == i
		}
		buttons[i] = inputFunc(func() bool { return light.Value() != flip })
	}
	return buttons
}

func alternating(length int) NoteSequence {
	seq := make(NoteSequence, length)
	for i := range seq {
		if i%2 == 0 {
			seq[i] = NoteRow{true, true, true}
		}
	}
	return seq
}

func repeated(row NoteRow, length int) NoteSequence {
	seq := make(NoteSequence, length)
	for i := range seq {
		seq[i] = row
	}
	return seq
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	correctClip   = "nice.mp3"
	incorrectClip = "bad.mp3"
)

func roundConfig(length int) RoundConfig {
	return RoundConfig{
		Length:            length,
		Interval:          time.Second,
		PollInterval:      10 * time.Millisecond,
		StartPollInterval: 500 * time.Millisecond,
		CorrectClip:       correctClip,
		IncorrectClip:     incorrectClip,
	}
}
