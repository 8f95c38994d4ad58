// Package device reads joystick events.
package device

import (
	"errors"
	"io"
)

// AxisMax is the magnitude of a fully deflected axis.
const AxisMax = 32767

// ErrNotSupported is returned on platforms without joystick support.
var ErrNotSupported = errors.New("joystick not supported")

// Event defines the base event interface.
type Event interface {
	// IsInit indicates this is the init state.
	IsInit() bool
	// Index returns either Axis or Button index.
	Index() int
}

// AxisEvent represents the change on an axis.
type AxisEvent interface {
	Event
	Value() int
}

// ButtonEvent represents the change on a button.
type ButtonEvent interface {
	Event
	Pressed() bool
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// AxisCount returns the number of Axis on the device.
	AxisCount() int
	// ButtonCount returns the number of buttons on the device.
	ButtonCount() int
	// ReadEvent reads one event from the device.
	ReadEvent() (Event, error)
}

// State accumulates events into the current axis and button values.
// Indices outside the tracked range read as zero.
type State struct {
	axes    [16]int
	buttons [32]bool
}

// Apply updates the state with an event.
func (s *State) Apply(ev Event) {
	i := ev.Index()
	switch e := ev.(type) {
	case AxisEvent:
		if i >= 0 && i < len(s.axes) {
			s.axes[i] = e.Value()
		}
	case ButtonEvent:
		if i >= 0 && i < len(s.buttons) {
			s.buttons[i] = e.Pressed()
		}
	}
}

// Axis returns the axis value scaled to [-1, 1].
func (s *State) Axis(i int) float64 {
	if i < 0 || i >= len(s.axes) {
		return 0
	}
	v := float64(s.axes[i]) / AxisMax
	if v < -1 {
		v = -1
	}
	return v
}

// Button returns whether the button is pressed.
func (s *State) Button(i int) bool {
	if i < 0 || i >= len(s.buttons) {
		return false
	}
	return s.buttons[i]
}

// Reset centers all axes and releases all buttons.
func (s *State) Reset() {
	*s = State{}
}
