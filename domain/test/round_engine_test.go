package domain_test

import (
	"testing"
	"time"

	. "github.com/areknoster/guitarzero/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	clock    *fakeClock
	rig      *mockRig
	player   *recordingPlayer
	watchdog *countingWatchdog
}

func newEngineFixture() *engineFixture {
	clock := newFakeClock()
	return &engineFixture{
		clock:    clock,
		rig:      newMockRig(),
		player:   &recordingPlayer{clock: clock},
		watchdog: &countingWatchdog{clock: clock},
	}
}

func (f *engineFixture) engine(buttons [Lanes]Input) *RoundEngine {
	return NewRoundEngine(f.rig.Rig(buttons), f.player,
		WithClock(f.clock),
		WithWatchdog(f.watchdog),
		WithLogger(discardLogger()),
	)
}

func TestRoundEngine(t *testing.T) {
	t.Run("When the player strums the front row on every interval, every interval but the first scores", func(t *testing.T) {
		f := newEngineFixture()
		f.rig.strum.Set(true)
		re := f.engine(f.rig.mirrorFront())

		result, err := re.RunRound(alternating(9), roundConfig(9))
		require.NoError(t, err)
		assert.Equal(t, 8, result.Score)
		assert.Equal(t, 9, result.Length)
		assert.Equal(t, Finished, re.State())
		assert.Equal(t, 8, f.player.count(correctClip))
		assert.Equal(t, 0, f.player.count(incorrectClip), "the first interval is a grace period")
		assert.Equal(t, 9*time.Second, f.clock.elapsed())
	})

	t.Run("Strums are judged against the row in front, not the row arriving at the back", func(t *testing.T) {
		f := newEngineFixture()
		f.rig.strum.Set(true)
		re := f.engine(f.rig.mirrorBack())

		result, err := re.RunRound(alternating(9), roundConfig(9))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("A single mismatched lane prevents the point", func(t *testing.T) {
		for lane := 0; lane < Lanes; lane++ {
			f := newEngineFixture()
			f.rig.strum.Set(true)
			re := f.engine(f.rig.mirrorFront(lane))

			result, err := re.RunRound(repeated(NoteRow{true, false, true}, 6), roundConfig(6))
			require.NoError(t, err)
			assert.Equal(t, 0, result.Score, "lane %d", lane)
			assert.Equal(t, 5, f.player.count(incorrectClip), "lane %d", lane)
		}
	})

	t.Run("Without strums nothing scores and every interval but the first plays the incorrect clip", func(t *testing.T) {
		f := newEngineFixture()
		re := f.engine(f.rig.mirrorFront())

		result, err := re.RunRound(alternating(9), roundConfig(9))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 0, f.player.count(correctClip))
		// interval k closes at (k+1)s: interval 0 at 1s stays silent, intervals 1..8 play the clip
		assert.Equal(t, []time.Duration{
			2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
			6 * time.Second, 7 * time.Second, 8 * time.Second, 9 * time.Second,
		}, f.player.playedAt(incorrectClip))
	})

	t.Run("Buttons matching without a strum do not score", func(t *testing.T) {
		f := newEngineFixture()
		// strum in the first 50ms of every interval while holding nothing, hold the right buttons afterwards
		f.rig.strum.Set(false)
		strum := inputFunc(func() bool {
			_, offset := f.clock.phase()
			return offset > 0 && offset <= 50*time.Millisecond
		})
		front := f.rig.mirrorFront()
		var buttons [Lanes]Input
		for i := range buttons {
			light := front[i]
			buttons[i] = inputFunc(func() bool {
				_, offset := f.clock.phase()
				return offset > 50*time.Millisecond && light.Value()
			})
		}
		rig := f.rig.Rig(buttons)
		rig.Strum = strum
		re := NewRoundEngine(rig, f.player, WithClock(f.clock), WithLogger(discardLogger()))

		result, err := re.RunRound(repeated(NoteRow{true, true, false}, 5), roundConfig(5))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("A hit stays recorded for the rest of the interval", func(t *testing.T) {
		f := newEngineFixture()
		f.rig.strum.Set(true)
		// correct buttons only during the first 50ms of every interval, wrong ones afterwards
		front := f.rig.mirrorFront()
		var buttons [Lanes]Input
		for i := range buttons {
			light := front[i]
			buttons[i] = inputFunc(func() bool {
				_, offset := f.clock.phase()
				if offset > 0 && offset <= 50*time.Millisecond {
					return light.Value()
				}
				return !light.Value() && f.clock.elapsed() > 0
			})
		}
		re := f.engine(buttons)

		result, err := re.RunRound(repeated(NoteRow{true, false, true}, 5), roundConfig(5))
		require.NoError(t, err)
		assert.Equal(t, 4, result.Score)
	})

	t.Run("The round waits until every button is released", func(t *testing.T) {
		f := newEngineFixture()
		held := inputFunc(func() bool { return f.clock.elapsed() < 2*time.Second })
		re := f.engine([Lanes]Input{nil, held, nil})

		result, err := re.RunRound(alternating(3), roundConfig(3))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 2*time.Second+3*time.Second, f.clock.elapsed())
		// four kicks while held, one on release, one per interval
		assert.Equal(t, 4+1+3, f.watchdog.kicks)
	})

	t.Run("Long intervals keep the watchdog kicked", func(t *testing.T) {
		f := newEngineFixture()
		re := f.engine(f.rig.mirrorFront())
		rc := roundConfig(3)
		rc.Interval = 20 * time.Second

		_, err := re.RunRound(alternating(3), rc)
		require.NoError(t, err)
		assert.Equal(t, 60*time.Second, f.clock.elapsed())
		assert.LessOrEqual(t, f.watchdog.maxGap(), KickInterval)
		assert.Equal(t, 60*time.Second, f.watchdog.at[len(f.watchdog.at)-1])
	})

	t.Run("The display shows the arriving row at the back and the judged row in front", func(t *testing.T) {
		f := newEngineFixture()
		seq := NoteSequence{
			{true, false, false},
			{false, true, false},
			{false, false, true},
		}
		var seen [][2]NoteRow
		lights := func() (front, back NoteRow) {
			for i := 0; i < Lanes; i++ {
				front[i] = f.rig.front[i].Value()
				back[i] = f.rig.back[i].Value()
			}
			return front, back
		}
		// sample the lights in the middle of every interval through the strum sensor
		strum := inputFunc(func() bool {
			_, offset := f.clock.phase()
			if offset == 500*time.Millisecond {
				front, back := lights()
				seen = append(seen, [2]NoteRow{front, back})
			}
			return false
		})
		rig := f.rig.Rig([Lanes]Input{})
		rig.Strum = strum
		re := NewRoundEngine(rig, nil, WithClock(f.clock), WithLogger(discardLogger()))

		_, err := re.RunRound(seq, roundConfig(3))
		require.NoError(t, err)
		assert.Equal(t, [][2]NoteRow{
			{{}, seq[0]},
			{seq[0], seq[1]},
			{seq[1], seq[2]},
		}, seen)
	})

	t.Run("Rows past the round length are not played", func(t *testing.T) {
		f := newEngineFixture()
		f.rig.strum.Set(true)
		re := f.engine(f.rig.mirrorFront())

		result, err := re.RunRound(alternating(20), roundConfig(4))
		require.NoError(t, err)
		assert.Equal(t, 3, result.Score)
		assert.Equal(t, 4*time.Second, f.clock.elapsed())
	})

	t.Run("When the sequence is shorter than the round, return an error", func(t *testing.T) {
		f := newEngineFixture()
		re := f.engine(f.rig.mirrorFront())

		_, err := re.RunRound(alternating(8), roundConfig(9))
		require.ErrorIs(t, err, ErrShortSequence)
		assert.Equal(t, time.Duration(0), f.clock.elapsed())
	})

	t.Run("When the round config is invalid, return an error", func(t *testing.T) {
		f := newEngineFixture()
		re := f.engine(f.rig.mirrorFront())

		_, err := re.RunRound(alternating(3), RoundConfig{Length: 3})
		require.Error(t, err)
		_, err = re.RunRound(alternating(3), RoundConfig{Interval: time.Second})
		require.Error(t, err)
	})
}
