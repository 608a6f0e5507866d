package domain

import (
	"fmt"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slog"
)

type RoundConfig struct {
	// Length is the number of intervals in the round; the song must hold at least that many rows.
	Length int
	// Interval is how long each note row stays in front of the player.
	Interval time.Duration
	// PollInterval is the pause between two sensor samples, clamped to [MinPollInterval, MaxPollInterval].
	PollInterval time.Duration
	// StartPollInterval is the pause between checks while waiting for the buttons to be released.
	StartPollInterval time.Duration

	CorrectClip   string
	IncorrectClip string
}

const (
	MinPollInterval          = time.Millisecond
	MaxPollInterval          = 50 * time.Millisecond
	DefaultPollInterval      = 3 * time.Millisecond
	DefaultStartPollInterval = 500 * time.Millisecond

	// KickInterval is the longest the engine and the session go without kicking the watchdog.
	KickInterval = time.Second
)

func clampFunc[T constraints.Ordered](min, max T) func(T) T {
	return func(x T) T {
		if x < min {
			return min
		}
		if x > max {
			return max
		}
		return x
	}
}

var clampPollInterval = clampFunc(MinPollInterval, MaxPollInterval)

func (rc RoundConfig) withDefaults() RoundConfig {
	if rc.PollInterval == 0 {
		rc.PollInterval = DefaultPollInterval
	}
	rc.PollInterval = clampPollInterval(rc.PollInterval)
	if rc.StartPollInterval <= 0 {
		rc.StartPollInterval = DefaultStartPollInterval
	}
	return rc
}

func (rc RoundConfig) validate() error {
	if rc.Length <= 0 {
		return fmt.Errorf("round length must be positive, got %d", rc.Length)
	}
	if rc.Interval <= 0 {
		return fmt.Errorf("interval duration must be positive, got %s", rc.Interval)
	}
	return nil
}

type RoundResult struct {
	Score  int
	Length int
}

type RoundState int

const (
	AwaitingStart RoundState = iota
	Playing
	Finished
)

// roundState is owned by a single RunRound call.
type roundState struct {
	index    int
	deadline time.Time
	hit      bool
	score    int
}

type RoundEngine struct {
	rig      Rig
	display  Display
	clips    ClipPlayer
	watchdog Watchdog
	clock    Clock
	log      *slog.Logger

	state    RoundState
	lastKick time.Time
}

type EngineOption func(*RoundEngine)

func WithClock(c Clock) EngineOption {
	return func(re *RoundEngine) { re.clock = c }
}

func WithWatchdog(w Watchdog) EngineOption {
	return func(re *RoundEngine) { re.watchdog = w }
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(re *RoundEngine) { re.log = l }
}

// NewRoundEngine builds an engine driving the given rig. A nil clips player disables feedback.
func NewRoundEngine(rig Rig, clips ClipPlayer, opts ...EngineOption) *RoundEngine {
	if clips == nil {
		clips = nopClipPlayer{}
	}
	re := &RoundEngine{
		rig:      rig,
		display:  rig.Display(),
		clips:    clips,
		watchdog: nopWatchdog{},
		clock:    SystemClock{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(re)
	}
	return re
}

func (re *RoundEngine) State() RoundState {
	return re.state
}

func (re *RoundEngine) Display() Display {
	return re.display
}

// RunRound plays one round of seq and returns the number of correctly matched intervals.
// It blocks until every button is released, then judges rc.Length intervals.
func (re *RoundEngine) RunRound(seq NoteSequence, rc RoundConfig) (RoundResult, error) {
	if err := rc.validate(); err != nil {
		return RoundResult{}, fmt.Errorf("invalid round config: %w", err)
	}
	if err := seq.validate(rc.Length); err != nil {
		return RoundResult{}, err
	}
	rc = rc.withDefaults()

	re.state = AwaitingStart
	re.display.Clear()
	re.awaitStart(rc)

	re.state = Playing
	re.log.Info("game commencing", "length", rc.Length, "interval", rc.Interval)
	re.display.ShowBack(seq[0])
	st := roundState{deadline: re.clock.Now().Add(rc.Interval)}

	for st.index < rc.Length {
		re.clock.Sleep(rc.PollInterval)
		re.sample(&st, seq)
		if !re.clock.Now().Before(st.deadline) {
			re.closeInterval(&st, seq, rc)
			continue
		}
		re.kickIfDue()
	}

	re.state = Finished
	re.log.Info("round finished", "score", st.score, "length", rc.Length)
	return RoundResult{Score: st.score, Length: rc.Length}, nil
}

func (re *RoundEngine) awaitStart(rc RoundConfig) {
	re.log.Info("waiting for input")
	for !re.rig.Released() {
		re.kick()
		re.clock.Sleep(rc.StartPollInterval)
	}
	re.kick()
}

// sample judges a strum against the row that has just reached the front,
// one row behind the one arriving at the back. The first interval has no
// front row and never scores.
func (re *RoundEngine) sample(st *roundState, seq NoteSequence) {
	if !re.rig.Strummed() {
		return
	}
	re.log.Debug("laser strummed", "interval", st.index)
	if st.index > 0 && re.rig.Matches(seq[st.index-1]) {
		st.hit = true
	}
}

func (re *RoundEngine) closeInterval(st *roundState, seq NoteSequence, rc RoundConfig) {
	re.kick()
	if st.hit {
		st.score++
		re.log.Info("correct response", "interval", st.index, "score", st.score)
		re.clips.Play(rc.CorrectClip)
	} else {
		re.log.Info("incorrect response", "interval", st.index)
		if st.index > 0 {
			re.clips.Play(rc.IncorrectClip)
		}
	}
	st.hit = false
	st.index++
	if st.index == rc.Length {
		return
	}
	re.display.Show(seq[st.index-1], seq[st.index])
	st.deadline = re.clock.Now().Add(rc.Interval)
}

// kickIfDue kicks the watchdog when KickInterval has passed since the last kick.
func (re *RoundEngine) kickIfDue() {
	if re.clock.Now().Sub(re.lastKick) >= KickInterval {
		re.kick()
	}
}

func (re *RoundEngine) kick() {
	re.lastKick = re.clock.Now()
	if err := re.watchdog.Kick(); err != nil {
		re.log.Error("kick watchdog", "err", err)
	}
}
