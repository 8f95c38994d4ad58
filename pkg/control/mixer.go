package control

import (
	"math"
)

// Deadzone is the magnitude under which an input is considered idle.
const Deadzone = 0.1

// Input is the raw state of the remote inputs, already scaled to [-1, 1].
type Input struct {
	// X and Y are the drive stick, positive X turns left, positive Y forward.
	X, Y float64
	// ArmHorizontal and ArmVertical drive the arm axes.
	ArmHorizontal, ArmVertical float64
	// ArmLift moves both tracks together when the arm is being operated.
	ArmLift float64
	// Grab latches the gripper closed.
	Grab bool
	// Release opens the gripper, only honored when the drive stick is idle.
	Release bool
}

// Mixer converts inputs into commands on the transmitter side.
type Mixer struct {
	// Cube applies a cubic response curve to the tracks for finer
	// control near the center (used with analog sticks).
	Cube bool

	grabbed bool
}

// Grabbed reports the latched gripper state.
func (m *Mixer) Grabbed() bool {
	return m.grabbed
}

// Mix produces the command for the current inputs.
func (m *Mixer) Mix(in Input) Command {
	if in.Grab {
		m.grabbed = true
	} else if in.Release && idle(in.X) && idle(in.Y) {
		m.grabbed = false
	}

	cmd := Command{
		Arm: Arm{
			Horizontal: in.ArmHorizontal,
			Vertical:   in.ArmVertical,
			Grab:       m.grabbed,
		},
	}
	if idle(in.ArmHorizontal) && idle(in.ArmVertical) && idle(in.ArmLift) {
		cmd.Body.Right = clamp(in.Y + in.X)
		cmd.Body.Left = clamp(in.Y - in.X)
		if m.Cube {
			cmd.Body.Right = cmd.Body.Right * cmd.Body.Right * cmd.Body.Right
			cmd.Body.Left = cmd.Body.Left * cmd.Body.Left * cmd.Body.Left
		}
	} else {
		cmd.Body.Left, cmd.Body.Right = in.ArmLift, in.ArmLift
	}
	return cmd
}

// Round2 rounds to 2 decimals, used to suppress stick jitter.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func idle(v float64) bool {
	return math.Abs(v) < Deadzone
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
