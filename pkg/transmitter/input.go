package transmitter

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rcbot/pkg/control"
	"github.com/robotalks/rcbot/pkg/joystick/device"
)

// InputSource provides the current remote inputs.
type InputSource interface {
	Input() control.Input
}

// Joystick layout.
const (
	AxisTurn          = 0
	AxisDrive         = 1
	AxisLift          = 2
	AxisArmHorizontal = 3

	ButtonArmDown = 4
	ButtonGrab    = 5
	ButtonArmUp   = 6
	ButtonRelease = 7
)

// JoystickInput maps a joystick to inputs. The joystick is opened
// in Run and reopened when lost.
type JoystickInput struct {
	// DeviceIndex selects the joystick, -1 for auto detection.
	DeviceIndex int
	Verbose     bool

	lock  sync.Mutex
	state device.State
	name  string
}

// NewJoystickInput creates a JoystickInput.
func NewJoystickInput(deviceIndex int) *JoystickInput {
	return &JoystickInput{DeviceIndex: deviceIndex}
}

// Input implements InputSource.
func (j *JoystickInput) Input() control.Input {
	j.lock.Lock()
	defer j.lock.Unlock()
	return MapJoystick(&j.state)
}

// Apply updates the tracked joystick state with an event.
func (j *JoystickInput) Apply(ev device.Event) {
	j.lock.Lock()
	j.state.Apply(ev)
	j.lock.Unlock()
}

// Name returns the name of the opened joystick, empty if none.
func (j *JoystickInput) Name() string {
	j.lock.Lock()
	defer j.lock.Unlock()
	return j.name
}

// MapJoystick converts joystick values into inputs.
// The drive stick is inverted so pushing forward drives forward.
func MapJoystick(s *device.State) control.Input {
	lift := control.Round2(s.Axis(AxisLift))
	return control.Input{
		X:             -control.Round2(s.Axis(AxisTurn)),
		Y:             -control.Round2(s.Axis(AxisDrive)),
		ArmHorizontal: control.Round2(s.Axis(AxisArmHorizontal)),
		ArmVertical:   buttonValue(s.Button(ButtonArmUp)) - buttonValue(s.Button(ButtonArmDown)),
		ArmLift:       -(lift * lift * lift) / 2,
		Grab:          s.Button(ButtonGrab),
		Release:       s.Button(ButtonRelease),
	}
}

func buttonValue(pressed bool) float64 {
	if pressed {
		return 1
	}
	return 0
}

// Run implements Runnable.
func (j *JoystickInput) Run(ctx context.Context) error {
	retry := time.After(0)
	var eventCh chan device.Event
	var dev device.Device
	defer func() {
		if dev != nil {
			dev.Close()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-retry:
			retry = nil
			js, err := j.open()
			if err != nil {
				glog.Warningf("Open joystick error: %v", err)
				retry = time.After(time.Second)
				continue
			}
			glog.Infof("Joystick %d %q opened!", js.Index(), js.Name())
			dev, eventCh = js, make(chan device.Event, 1)
			j.lock.Lock()
			j.name = js.Name()
			j.lock.Unlock()
			go j.poll(ctx, js, eventCh)
		case ev, ok := <-eventCh:
			if ok {
				j.Apply(ev)
				continue
			}
			dev.Close()
			dev, eventCh = nil, nil
			j.lock.Lock()
			j.state.Reset()
			j.name = ""
			j.lock.Unlock()
			retry = time.After(time.Second)
		}
	}
}

func (j *JoystickInput) open() (device.Device, error) {
	if j.DeviceIndex >= 0 {
		return device.Open(j.DeviceIndex)
	}
	return device.DetectAndOpen(0)
}

func (j *JoystickInput) poll(ctx context.Context, dev device.Device, ch chan<- device.Event) {
	defer close(ch)
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			glog.Warningf("Joystick read error: %v", err)
			return
		}
		if j.Verbose {
			var prefix string
			if ev.IsInit() {
				prefix = "[INIT] "
			}
			switch evt := ev.(type) {
			case device.AxisEvent:
				glog.Infof(prefix+"Axis %d: %d", evt.Index(), evt.Value())
			case device.ButtonEvent:
				glog.Infof(prefix+"Button %d: %v", evt.Index(), evt.Pressed())
			}
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// ManualInput is set programmatically, e.g. from the shell.
// It's safe for concurrent use.
type ManualInput struct {
	lock  sync.Mutex
	input control.Input
}

// Input implements InputSource. Grab and Release are one-shot.
func (m *ManualInput) Input() control.Input {
	m.lock.Lock()
	defer m.lock.Unlock()
	in := m.input
	m.input.Grab, m.input.Release = false, false
	return in
}

// Peek returns the inputs without consuming one-shot buttons.
func (m *ManualInput) Peek() control.Input {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.input
}

// Drive sets the drive stick.
func (m *ManualInput) Drive(x, y float64) {
	m.lock.Lock()
	m.input.X, m.input.Y = x, y
	m.lock.Unlock()
}

// Arm sets the arm axes and lift.
func (m *ManualInput) Arm(horizontal, vertical, lift float64) {
	m.lock.Lock()
	m.input.ArmHorizontal, m.input.ArmVertical, m.input.ArmLift = horizontal, vertical, lift
	m.lock.Unlock()
}

// Grab presses the grab button once.
func (m *ManualInput) Grab() {
	m.lock.Lock()
	m.input.Grab = true
	m.lock.Unlock()
}

// Release presses the release button once.
func (m *ManualInput) Release() {
	m.lock.Lock()
	m.input.Release = true
	m.lock.Unlock()
}

// Stop centers all axes.
func (m *ManualInput) Stop() {
	m.lock.Lock()
	m.input = control.Input{}
	m.lock.Unlock()
}
