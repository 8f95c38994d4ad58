package actuator

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rcbot/pkg/framework"
)

// Output accepts a normalized value, [-1, 1] for motors and [0, 1]
// for servo positions.
type Output interface {
	Set(float64) error
}

// SetFunc is func type of Output.
type SetFunc func(float64) error

// Set implements Output.
func (f SetFunc) Set(v float64) error {
	return f(v)
}

// LogOutput creates an Output which only logs values, used when no
// hardware is attached.
func LogOutput(name string) Output {
	return SetFunc(func(v float64) error {
		glog.V(3).Infof("%s = %.3f", name, v)
		return nil
	})
}

// Servo pulse width range.
const (
	ServoPulseMin = 560 * time.Microsecond
	ServoPulseMax = 2480 * time.Microsecond
	ServoPeriod   = 20 * time.Millisecond
)

// PulseWidthSetter drives a PWM pin by pulse width.
type PulseWidthSetter interface {
	SetPulseWidth(time.Duration) error
}

// Servo maps a position in [0, 1] to the pulse width.
type Servo struct {
	Pin PulseWidthSetter
}

// ServoPulse calculates the pulse width of position.
func ServoPulse(position float64) time.Duration {
	return ServoPulseMin + time.Duration(float64(ServoPulseMax-ServoPulseMin)*position)
}

// Set implements Output.
func (s *Servo) Set(position float64) error {
	return s.Pin.SetPulseWidth(ServoPulse(position))
}

// Direction of a motor bridge channel.
type Direction int

// Directions.
const (
	Stop Direction = iota
	CW
	CCW
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Stop:
		return "stop"
	case CW:
		return "cw"
	case CCW:
		return "ccw"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// BridgeDriver controls one channel of a dual H-bridge (e.g. TB6612FNG).
type BridgeDriver interface {
	Drive(dir Direction, duty float64) error
}

// BridgeChannel maps a signed power to direction and duty.
type BridgeChannel struct {
	Driver BridgeDriver
}

// BridgeDrive calculates direction and duty of power.
func BridgeDrive(power float64) (Direction, float64) {
	switch {
	case power > 0:
		return CW, power
	case power < 0:
		return CCW, -power
	}
	return Stop, 0
}

// Set implements Output.
func (c *BridgeChannel) Set(power float64) error {
	return c.Driver.Drive(BridgeDrive(power))
}

// DutySetter sets the duty cycle of a PWM pin.
type DutySetter interface {
	SetDuty(float64) error
}

// SingleBridge drives a motor with a pair of PWM inputs.
type SingleBridge struct {
	A, B DutySetter
}

// SingleBridgeDuty calculates the duty of both inputs.
func SingleBridgeDuty(power float64) (a, b float64) {
	switch {
	case power > 0:
		return 1 - power, 1
	case power < 0:
		return 1, 1 + power
	}
	return 0, 0
}

// Set implements Output.
func (m *SingleBridge) Set(power float64) error {
	a, b := SingleBridgeDuty(power)
	var errs fx.AggregatedError
	return errs.Add(m.A.SetDuty(a), m.B.SetDuty(b)).Aggregate()
}

// Bindings routes a Snapshot to outputs. Unset outputs are skipped.
// It's safe for concurrent use.
type Bindings struct {
	BodyLeft      Output
	BodyRight     Output
	ArmHorizontal Output
	ArmVertical   Output
	Gripper       Output

	lock sync.Mutex
}

// LogBindings creates Bindings with all outputs logged.
func LogBindings() *Bindings {
	return &Bindings{
		BodyLeft:      LogOutput("body.left"),
		BodyRight:     LogOutput("body.right"),
		ArmHorizontal: LogOutput("arm.horizontal"),
		ArmVertical:   LogOutput("arm.vertical"),
		Gripper:       LogOutput("arm.gripper"),
	}
}

// ApplyDrive pushes drivetrain and arm power.
func (b *Bindings) ApplyDrive(s Snapshot) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	var errs fx.AggregatedError
	errs.Add(
		set(b.BodyLeft, s.Body.Left),
		set(b.BodyRight, s.Body.Right),
		set(b.ArmHorizontal, s.ArmHorizontal),
		set(b.ArmVertical, s.ArmVertical),
	)
	return errs.Aggregate()
}

// ApplyGripper pushes the smoothed gripper position.
func (b *Bindings) ApplyGripper(s Snapshot) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	return set(b.Gripper, s.Gripper)
}

func set(out Output, v float64) error {
	if out == nil {
		return nil
	}
	return out.Set(v)
}
