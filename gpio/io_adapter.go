package gpio

import (
	"fmt"

	"github.com/warthog618/gpiod"
	"golang.org/x/exp/slog"
)

// DefaultChip is the GPIO character device of the Raspberry Pi header.
const DefaultChip = "gpiochip0"

type GPIOIn struct {
	line *gpiod.Line
	log  *slog.Logger
}

func (g *GPIOIn) Close() {
	err := g.line.Close()
	if err != nil {
		g.log.Error("close GPIO", "offset", g.line.Offset(), "err", err)
	}
}

// Value reports the logical level of the line; a read failure reads as inactive.
func (g *GPIOIn) Value() bool {
	v, err := g.line.Value()
	if err != nil {
		g.log.Error("couldn't read input", "offset", g.line.Offset(), "err", err)
	}
	return v > 0
}

// NewGPIOIn requests an input line. Buttons and the beam sensor pull the line low when active,
// so activeLow lines are requested with the pull-up bias.
func NewGPIOIn(chip string, gpioNo int, activeLow bool, log *slog.Logger) (*GPIOIn, error) {
	opts := []gpiod.LineReqOption{gpiod.AsInput}
	if activeLow {
		opts = append(opts, gpiod.AsActiveLow, gpiod.WithPullUp)
	}
	in, err := gpiod.RequestLine(chip, gpioNo, opts...)
	if err != nil {
		return nil, fmt.Errorf("request input %s:%d: %w", chip, gpioNo, err)
	}
	return &GPIOIn{
		line: in,
		log:  log,
	}, nil
}

type GPIOOut struct {
	line *gpiod.Line
	log  *slog.Logger
}

func (g *GPIOOut) Close() {
	err := g.line.Close()
	if err != nil {
		g.log.Error("close GPIO", "offset", g.line.Offset(), "err", err)
	}
}

func (g *GPIOOut) Set(v bool) {
	var setVal int
	if v {
		setVal = 1
	}
	err := g.line.SetValue(setVal)
	if err != nil {
		g.log.Error("couldn't set output", "offset", g.line.Offset(), "err", err)
	}
}

// NewGPIOOut requests an output line, initially low.
func NewGPIOOut(chip string, gpioNo int, log *slog.Logger) (*GPIOOut, error) {
	out, err := gpiod.RequestLine(chip, gpioNo, gpiod.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request output %s:%d: %w", chip, gpioNo, err)
	}
	return &GPIOOut{
		line: out,
		log:  log,
	}, nil
}
