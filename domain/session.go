package domain

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// ScoreStore keeps the score history between rounds.
type ScoreStore interface {
	// ReadLast returns the most recently appended score, or 0 when there is none.
	ReadLast() (int, error)
	Append(score int, tag string) error
}

// SequenceProvider loads the song played at a given difficulty.
type SequenceProvider interface {
	Load(tier Tier, length int) (NoteSequence, error)
}

type SessionConfig struct {
	Round RoundConfig
	// Tag is stored alongside every score written by the session.
	Tag string
	// FlashCycles and FlashPeriod shape the end-of-round flash.
	FlashCycles  int
	FlashPeriod  time.Duration
	RestartPause time.Duration
}

const (
	DefaultFlashCycles  = 4
	DefaultFlashPeriod  = time.Second
	DefaultRestartPause = 5 * time.Second
)

type RoundOutcome struct {
	PreviousScore int
	Tier          Tier
	Result        RoundResult
}

type Session struct {
	engine *RoundEngine
	scores ScoreStore
	songs  SequenceProvider
	clock  Clock
	log    *slog.Logger
	cfg    SessionConfig
}

func NewSession(engine *RoundEngine, scores ScoreStore, songs SequenceProvider, cfg SessionConfig) *Session {
	return &Session{
		engine: engine,
		scores: scores,
		songs:  songs,
		clock:  engine.clock,
		log:    engine.log,
		cfg:    cfg,
	}
}

// Run resets the score history so the first round is easy, then plays rounds until ctx is done.
// A round in progress is always played to the end; the pause between rounds is cut short.
func (s *Session) Run(ctx context.Context) error {
	if err := s.scores.Append(0, s.cfg.Tag); err != nil {
		s.log.Error("reset score", "err", err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, err := s.PlayRound()
		if err != nil {
			return err
		}
		s.log.Info("round completed", "tier", outcome.Tier, "score", outcome.Result.Score)
		if err := s.pause(ctx, s.restartPause()); err != nil {
			return err
		}
	}
}

// pause sleeps for d in steps of at most KickInterval, kicking the watchdog after each step.
// It returns early with ctx's error once ctx is done.
func (s *Session) pause(ctx context.Context, d time.Duration) error {
	for d > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := d
		if step > KickInterval {
			step = KickInterval
		}
		s.clock.Sleep(step)
		s.engine.kick()
		d -= step
	}
	return ctx.Err()
}

// PlayRound selects the song from the score history, plays it, records the score and flashes the lights.
func (s *Session) PlayRound() (RoundOutcome, error) {
	length := s.cfg.Round.Length

	previous, err := s.scores.ReadLast()
	if err != nil {
		s.log.Error("read previous score, starting easy", "err", err)
		previous = 0
	}
	tier := SelectTier(previous, length)
	s.log.Info("song selected", "previous_score", previous, "tier", tier)

	seq, err := s.songs.Load(tier, length)
	if err != nil {
		return RoundOutcome{}, fmt.Errorf("load %s song: %w", tier, err)
	}

	result, err := s.engine.RunRound(seq, s.cfg.Round)
	if err != nil {
		return RoundOutcome{}, fmt.Errorf("run round: %w", err)
	}

	if err := s.scores.Append(result.Score, s.cfg.Tag); err != nil {
		s.log.Error("record score", "score", result.Score, "err", err)
	} else {
		s.log.Info("song completed and score updated", "score", result.Score)
	}

	s.engine.kick()
	s.engine.Display().Flash(func(d time.Duration) {
		_ = s.pause(context.Background(), d)
	}, s.flashCycles(), s.flashPeriod())

	return RoundOutcome{
		PreviousScore: previous,
		Tier:          tier,
		Result:        result,
	}, nil
}

func (s *Session) flashCycles() int {
	if s.cfg.FlashCycles <= 0 {
		return DefaultFlashCycles
	}
	return s.cfg.FlashCycles
}

func (s *Session) flashPeriod() time.Duration {
	if s.cfg.FlashPeriod <= 0 {
		return DefaultFlashPeriod
	}
	return s.cfg.FlashPeriod
}

func (s *Session) restartPause() time.Duration {
	if s.cfg.RestartPause <= 0 {
		return DefaultRestartPause
	}
	return s.cfg.RestartPause
}
