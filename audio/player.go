// Package audio plays the short feedback clips of the game through the default sound device.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"golang.org/x/exp/slog"
)

// SampleRate is the rate the speaker is opened at; clips are resampled to it.
const SampleRate = beep.SampleRate(44100)

const resampleQuality = 4

// Player keeps clips decoded in memory so that triggering one never touches the disk.
type Player struct {
	log *slog.Logger

	mx    sync.Mutex
	clips map[string]*beep.Buffer
}

// NewPlayer opens the speaker and decodes the given clips.
func NewPlayer(log *slog.Logger, paths ...string) (*Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	p := &Player{
		log:   log,
		clips: make(map[string]*beep.Buffer, len(paths)),
	}
	for _, path := range paths {
		if err := p.Load(path); err != nil {
			speaker.Close()
			return nil, err
		}
	}
	return p, nil
}

// Load decodes the clip at path and keeps it for Play.
func (p *Player) Load(path string) error {
	buf, err := decodeBuffer(path)
	if err != nil {
		return fmt.Errorf("load clip %s: %w", path, err)
	}
	p.mx.Lock()
	p.clips[path] = buf
	p.mx.Unlock()
	return nil
}

// Play starts the clip and returns at once; the speaker mixes it in the background.
func (p *Player) Play(path string) {
	p.mx.Lock()
	buf, ok := p.clips[path]
	p.mx.Unlock()
	if !ok {
		p.log.Warn("clip not loaded", "path", path)
		return
	}
	speaker.Play(buf.Streamer(0, buf.Len()))
}

func (p *Player) Close() {
	speaker.Clear()
	speaker.Close()
}

func decodeBuffer(path string) (*beep.Buffer, error) {
	stream, format, err := decode(path)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, SampleRate, stream)
		format.SampleRate = SampleRate
	}
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return buf, nil
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	var decoder func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		decoder = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".wav":
		decoder = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	stream, format, err := decoder(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return stream, format, nil
}

// Silent drops every clip; used when no sound device is available.
type Silent struct{}

func (Silent) Play(string) {}
