package domain

import (
	"errors"
	"fmt"
)

// Lanes is the number of playable lanes, each with its own button and pair of lights.
const Lanes = 3

// NoteRow tells which lanes should be active at one position of a song.
type NoteRow [Lanes]bool

func (r NoteRow) String() string {
	b := make([]byte, 0, 2*Lanes)
	for i, on := range r {
		if i > 0 {
			b = append(b, ' ')
		}
		if on {
			b = append(b, '1')
		} else {
			b = append(b, '0')
		}
	}
	return string(b)
}

// NoteSequence is a song: one NoteRow per interval.
type NoteSequence []NoteRow

var ErrShortSequence = errors.New("note sequence shorter than round length")

func (s NoteSequence) validate(length int) error {
	if len(s) < length {
		return fmt.Errorf("%w: got %d rows, need %d", ErrShortSequence, len(s), length)
	}
	return nil
}

type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
)

func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// SelectTier picks the difficulty of the next round from the previous round's score.
// Thresholds sit at one and two thirds of the round length (integer division).
func SelectTier(previous, length int) Tier {
	threshold1 := length / 3
	threshold2 := 2 * threshold1
	switch {
	case previous < threshold1:
		return Easy
	case previous < threshold2:
		return Medium
	default:
		return Hard
	}
}
