// Package control converts between wire records and logical commands.
package control

import (
	"fmt"
	"math"

	"github.com/robotalks/rcbot/pkg/l0/wire"
)

// FixedScale maps a signed byte to the unit range.
const FixedScale = 127.0

// Body is the drivetrain power pair.
type Body struct {
	Left  float64
	Right float64
}

// Arm is the arm axes and the gripper flag.
type Arm struct {
	Horizontal float64
	Vertical   float64
	Grab       bool
}

// Command is the logical control command.
// Axis values are nominally in [-1, 1].
type Command struct {
	Body Body
	Arm  Arm
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return fmt.Sprintf("body=(%.3f,%.3f) arm=(%.3f,%.3f) grab=%v",
		c.Body.Left, c.Body.Right, c.Arm.Horizontal, c.Arm.Vertical, c.Arm.Grab)
}

// FixedToFloat converts a signed byte to a float.
// -128 is not clamped and yields slightly less than -1.
func FixedToFloat(v int8) float64 {
	return float64(v) / FixedScale
}

// FloatToFixed converts a float to a signed byte, rounding to the
// nearest step and saturating out of range values. NaN maps to 0.
func FloatToFixed(v float64) int8 {
	if math.IsNaN(v) {
		return 0
	}
	x := math.Round(v * FixedScale)
	if x > math.MaxInt8 {
		return math.MaxInt8
	}
	if x < math.MinInt8 {
		return math.MinInt8
	}
	return int8(x)
}

// FromRecord translates a wire record into a Command.
func FromRecord(r wire.Record) Command {
	return Command{
		Body: Body{
			Left:  FixedToFloat(r.BodyLeft),
			Right: FixedToFloat(r.BodyRight),
		},
		Arm: Arm{
			Horizontal: FixedToFloat(r.ArmHorizontal),
			Vertical:   FixedToFloat(r.ArmVertical),
			Grab:       r.ArmGrab != 0,
		},
	}
}

// Record translates the Command into a wire record.
func (c Command) Record() wire.Record {
	r := wire.Record{
		BodyLeft:      FloatToFixed(c.Body.Left),
		BodyRight:     FloatToFixed(c.Body.Right),
		ArmHorizontal: FloatToFixed(c.Arm.Horizontal),
		ArmVertical:   FloatToFixed(c.Arm.Vertical),
	}
	if c.Arm.Grab {
		r.ArmGrab = 1
	}
	return r
}
