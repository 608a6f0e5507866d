package domain

import "time"

// Lane groups the button of a lane with its light in the front and in the back row.
type Lane struct {
	Button Input
	Front  Output
	Back   Output
}

// Rig is the controller hardware seen by the engine: a strum sensor and the lanes.
type Rig struct {
	Strum Input
	Lanes [Lanes]Lane
}

// Strummed reports whether the light beam is currently broken.
func (r Rig) Strummed() bool {
	return r.Strum.Value()
}

// Matches reports whether every button is held exactly when its lane flag is set.
func (r Rig) Matches(row NoteRow) bool {
	for i, lane := range r.Lanes {
		if lane.Button.Value() != row[i] {
			return false
		}
	}
	return true
}

// Released reports whether no button is held.
func (r Rig) Released() bool {
	for _, lane := range r.Lanes {
		if lane.Button.Value() {
			return false
		}
	}
	return true
}

// Display returns the driver of the rig's two light rows.
func (r Rig) Display() Display {
	var d Display
	for i, lane := range r.Lanes {
		d.front[i] = lane.Front
		d.back[i] = lane.Back
	}
	return d
}

// Display maps note rows onto the front and back light rows.
// The front row holds the note being judged, the back row the one arriving.
type Display struct {
	front [Lanes]Output
	back  [Lanes]Output
}

func (d Display) Clear() {
	d.SetAll(false)
}

func (d Display) SetAll(on bool) {
	for i := 0; i < Lanes; i++ {
		d.front[i].Set(on)
		d.back[i].Set(on)
	}
}

// ShowBack lights the back row only; used when a round starts and nothing is in front yet.
func (d Display) ShowBack(back NoteRow) {
	for i, on := range back {
		d.back[i].Set(on)
	}
}

func (d Display) Show(front, back NoteRow) {
	for i := 0; i < Lanes; i++ {
		d.front[i].Set(front[i])
		d.back[i].Set(back[i])
	}
}

// Flash blinks every light cycles times: on for period, then off, with period between cycles.
// The lights are left off.
func (d Display) Flash(sleep func(time.Duration), cycles int, period time.Duration) {
	for i := 0; i < cycles; i++ {
		if i > 0 {
			sleep(period)
		}
		d.SetAll(true)
		sleep(period)
		d.SetAll(false)
	}
}
