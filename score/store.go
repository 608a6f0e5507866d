// Package score keeps the history of round scores in an append-only text file,
// one record per line: "<timestamp> : <tag> : <score>".
package score

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	timeLayout = "01-02-2006  15:04:05."
	separator  = " : "
)

var ErrScoreOutOfRange = errors.New("score out of range")

type FileStore struct {
	path string
	max  int
	now  func() time.Time
}

// NewFileStore returns a store accepting scores in [0, max].
func NewFileStore(path string, max int) *FileStore {
	return &FileStore{
		path: path,
		max:  max,
		now:  time.Now,
	}
}

// ReadLast returns the score of the last record, or 0 when the file doesn't exist or holds no record.
func (s *FileStore) ReadLast() (int, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open score history: %w", err)
	}
	defer f.Close()

	var last string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			last = line
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read score history: %w", err)
	}
	if last == "" {
		return 0, nil
	}
	return parseRecord(last)
}

func parseRecord(line string) (int, error) {
	i := strings.LastIndex(line, separator)
	if i < 0 {
		return 0, fmt.Errorf("malformed score record %q", line)
	}
	score, err := strconv.Atoi(strings.TrimSpace(line[i+len(separator):]))
	if err != nil {
		return 0, fmt.Errorf("malformed score record %q: %w", line, err)
	}
	return score, nil
}

// endsWithNewline reports whether f is empty or its last byte ends a line.
// A record cut short by a power loss must not swallow the next one.
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}

// Append adds a record with a single write to a file opened in append mode.
func (s *FileStore) Append(score int, tag string) error {
	if score < 0 || score > s.max {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrScoreOutOfRange, score, s.max)
	}
	tag = strings.NewReplacer("\n", " ", separator, " ").Replace(tag)
	record := s.now().Format(timeLayout) + separator + tag + separator + fmt.Sprintf("%02d", score) + "\n"

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open score history: %w", err)
	}
	terminated, err := endsWithNewline(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("read score history: %w", err)
	}
	if !terminated {
		record = "\n" + record
	}
	if _, err := f.WriteString(record); err != nil {
		f.Close()
		return fmt.Errorf("append score: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync score history: %w", err)
	}
	return f.Close()
}
