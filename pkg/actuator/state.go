// Package actuator models the actuator targets of the vehicle.
package actuator

import (
	"sync"

	"github.com/robotalks/rcbot/pkg/control"
)

// Gripper servo positions.
const (
	GripperOpened = 0.75
	GripperClosed = 0.45
)

// EasingDivisor is the fraction of the remaining distance
// the gripper travels per tick.
const EasingDivisor = 4.0

// Snapshot is a consistent copy of the State.
type Snapshot struct {
	Body          control.Body
	ArmHorizontal float64
	ArmVertical   float64
	// Gripper is the smoothed servo position.
	Gripper float64
	// GripperTarget is where the gripper eases to.
	GripperTarget float64
}

// Closing indicates the gripper target is the closed position.
func (s Snapshot) Closing() bool {
	return s.GripperTarget == GripperClosed
}

// State is the shared actuator state. Commands set the targets and
// Tick advances the smoothed values. It's safe for concurrent use.
type State struct {
	lock sync.Mutex
	s    Snapshot
}

// NewState creates a State with the gripper opened.
func NewState() *State {
	return &State{s: Snapshot{Gripper: GripperOpened, GripperTarget: GripperOpened}}
}

// ApplyCommand sets drivetrain and arm power directly, and only
// retargets the gripper.
func (s *State) ApplyCommand(cmd control.Command) Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.s.Body = cmd.Body
	s.s.ArmHorizontal, s.s.ArmVertical = cmd.Arm.Horizontal, cmd.Arm.Vertical
	if cmd.Arm.Grab {
		s.s.GripperTarget = GripperClosed
	} else {
		s.s.GripperTarget = GripperOpened
	}
	return s.s
}

// Tick advances the gripper one step towards its target.
func (s *State) Tick() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.s.Gripper = Ease(s.s.Gripper, s.s.GripperTarget)
	return s.s
}

// Snapshot returns the current values.
func (s *State) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.s
}

// Ease moves current one step towards target.
func Ease(current, target float64) float64 {
	return current + (target-current)/EasingDivisor
}
