package actuator

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rcbot/pkg/control"
	"github.com/robotalks/rcbot/pkg/l0/wire"
)

func TestNewState(t *testing.T) {
	s := NewState().Snapshot()
	require.Equal(t, GripperOpened, s.Gripper)
	require.Equal(t, GripperOpened, s.GripperTarget)
	require.False(t, s.Closing())
}

func TestApplyCommand(t *testing.T) {
	state := NewState()
	cmd := control.FromRecord(wire.Record{BodyLeft: 127, BodyRight: -127, ArmGrab: 1})
	s := state.ApplyCommand(cmd)
	require.Equal(t, control.Body{Left: 1, Right: -1}, s.Body)
	require.Zero(t, s.ArmHorizontal)
	require.Zero(t, s.ArmVertical)
	require.Equal(t, GripperClosed, s.GripperTarget)
	require.True(t, s.Closing())
	require.Equal(t, GripperOpened, s.Gripper, "gripper eases on tick only")
	require.Equal(t, s, state.Snapshot())

	s = state.ApplyCommand(control.Command{Arm: control.Arm{Horizontal: 0.5, Vertical: -0.25}})
	require.Equal(t, control.Body{}, s.Body)
	require.Equal(t, 0.5, s.ArmHorizontal)
	require.Equal(t, -0.25, s.ArmVertical)
	require.Equal(t, GripperOpened, s.GripperTarget)
}

func TestTickConvergence(t *testing.T) {
	state := NewState()
	state.ApplyCommand(control.Command{Arm: control.Arm{Grab: true}})
	p0, target := GripperOpened, GripperClosed
	lastDist := math.Abs(target - p0)
	for n := 1; n <= 60; n++ {
		s := state.Tick()
		expect := target - (target-p0)*math.Pow(0.75, float64(n))
		require.InDeltaf(t, expect, s.Gripper, 1e-12, "tick %d", n)
		dist := math.Abs(target - s.Gripper)
		if lastDist > 0 {
			require.Lessf(t, dist, lastDist, "tick %d", n)
		}
		lastDist = dist
	}
	require.InDelta(t, target, state.Snapshot().Gripper, 1e-6)

	// reopen
	state.ApplyCommand(control.Command{})
	before := state.Snapshot().Gripper
	after := state.Tick().Gripper
	require.InDelta(t, before+(GripperOpened-before)/4, after, 1e-12)
}

func TestEase(t *testing.T) {
	require.Equal(t, 0.75, Ease(1, 0))
	require.Equal(t, 0.25, Ease(0, 1))
	require.Equal(t, 0.5, Ease(0.5, 0.5))
}

func TestStateConcurrentAccess(t *testing.T) {
	state := NewState()
	var wg sync.WaitGroup
	var torn, outOfRange int
	stopCh := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			v := float64(i%255-127) / 127
			state.ApplyCommand(control.Command{
				Body: control.Body{Left: v, Right: v},
				Arm:  control.Arm{Horizontal: v, Vertical: v, Grab: i%2 == 0},
			})
		}
		close(stopCh)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stopCh:
				return
			default:
			}
			s := state.Tick()
			if s.Body.Left != s.Body.Right || s.Body.Left != s.ArmHorizontal || s.Body.Left != s.ArmVertical {
				torn++
			}
			if s.Gripper < GripperClosed || s.Gripper > GripperOpened {
				outOfRange++
			}
		}
	}()
	wg.Wait()
	require.Zero(t, torn)
	require.Zero(t, outOfRange)
}
