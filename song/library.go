// Package song loads note sequences from text files, one row per line with a 0 or 1 per lane:
//
//	1 0 1
//	0 1 0
package song

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/areknoster/guitarzero/domain"
)

var ErrMalformedRow = errors.New("malformed note row")

// Library maps every difficulty to the file of its song.
type Library struct {
	paths map[domain.Tier]string
}

func NewLibrary(easy, medium, hard string) *Library {
	return &Library{paths: map[domain.Tier]string{
		domain.Easy:   easy,
		domain.Medium: medium,
		domain.Hard:   hard,
	}}
}

// Load reads the first length rows of the song for tier.
func (l *Library) Load(tier domain.Tier, length int) (domain.NoteSequence, error) {
	path, ok := l.paths[tier]
	if !ok || path == "" {
		return nil, fmt.Errorf("no song configured for %s", tier)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open song: %w", err)
	}
	defer f.Close()

	seq, err := Parse(f, length)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// Parse reads up to length rows. Blank lines and lines starting with '#' are skipped.
// It fails when fewer than length rows are available.
func Parse(r io.Reader, length int) (domain.NoteSequence, error) {
	seq := make(domain.NoteSequence, 0, length)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for len(seq) < length && sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		seq = append(seq, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read song: %w", err)
	}
	if len(seq) < length {
		return nil, fmt.Errorf("%w: got %d rows, need %d", domain.ErrShortSequence, len(seq), length)
	}
	return seq, nil
}

func parseRow(line string) (domain.NoteRow, error) {
	var row domain.NoteRow
	fields := strings.Fields(line)
	if len(fields) != domain.Lanes {
		return row, fmt.Errorf("%w %q: want %d lanes, got %d", ErrMalformedRow, line, domain.Lanes, len(fields))
	}
	for i, f := range fields {
		switch f {
		case "0":
			row[i] = false
		case "1":
			row[i] = true
		default:
			return row, fmt.Errorf("%w %q: lane %d is %q, want 0 or 1", ErrMalformedRow, line, i+1, f)
		}
	}
	return row, nil
}
