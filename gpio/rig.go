package gpio

import (
	"github.com/areknoster/guitarzero/domain"

	"github.com/warthog618/gpiod/device/rpi"
	"golang.org/x/exp/slog"
)

// Pins holds the BCM GPIO numbers of the controller.
type Pins struct {
	Strum   int
	Buttons [domain.Lanes]int
	Front   [domain.Lanes]int
	Back    [domain.Lanes]int
}

// DefaultPins is the stock wiring of the controller.
var DefaultPins = Pins{
	Strum:   rpi.GPIO22,
	Buttons: [domain.Lanes]int{rpi.GPIO17, rpi.GPIO10, rpi.GPIO11},
	Front:   [domain.Lanes]int{rpi.GPIO4, rpi.GPIO5, rpi.GPIO6},
	Back:    [domain.Lanes]int{rpi.GPIO7, rpi.GPIO8, rpi.GPIO9},
}

type GPIOTrack struct {
	Button *GPIOIn
	Front  *GPIOOut
	Back   *GPIOOut
}

func (g GPIOTrack) ToDomain() domain.Lane {
	return domain.Lane{
		Button: g.Button,
		Front:  g.Front,
		Back:   g.Back,
	}
}

// Rig owns every requested line of the controller.
type Rig struct {
	Strum  *GPIOIn
	Tracks [domain.Lanes]GPIOTrack

	closers []func()
}

// OpenRig requests every line of the controller. On failure the lines requested so far are released.
func OpenRig(chip string, pins Pins, log *slog.Logger) (*Rig, error) {
	r := &Rig{}
	var err error
	if r.Strum, err = NewGPIOIn(chip, pins.Strum, true, log); err != nil {
		return nil, err
	}
	r.closers = append(r.closers, r.Strum.Close)

	for i := 0; i < domain.Lanes; i++ {
		t := &r.Tracks[i]
		if t.Button, err = NewGPIOIn(chip, pins.Buttons[i], true, log); err != nil {
			r.Close()
			return nil, err
		}
		r.closers = append(r.closers, t.Button.Close)
		if t.Front, err = NewGPIOOut(chip, pins.Front[i], log); err != nil {
			r.Close()
			return nil, err
		}
		r.closers = append(r.closers, t.Front.Close)
		if t.Back, err = NewGPIOOut(chip, pins.Back[i], log); err != nil {
			r.Close()
			return nil, err
		}
		r.closers = append(r.closers, t.Back.Close)
	}
	log.Info("GPIO pins initialized", "chip", chip)
	return r, nil
}

func (r *Rig) ToDomain() domain.Rig {
	dr := domain.Rig{Strum: r.Strum}
	for i, t := range r.Tracks {
		dr.Lanes[i] = t.ToDomain()
	}
	return dr
}

// Close releases the lines in reverse order of request.
func (r *Rig) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}
