package actuator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rcbot/pkg/control"
)

type pulseRecorder struct {
	widths []time.Duration
}

func (p *pulseRecorder) SetPulseWidth(w time.Duration) error {
	p.widths = append(p.widths, w)
	return nil
}

type bridgeRecorder struct {
	dir  Direction
	duty float64
}

func (b *bridgeRecorder) Drive(dir Direction, duty float64) error {
	b.dir, b.duty = dir, duty
	return nil
}

type dutyRecorder struct {
	duty float64
	err  error
}

func (d *dutyRecorder) SetDuty(v float64) error {
	d.duty = v
	return d.err
}

func TestServo(t *testing.T) {
	var pin pulseRecorder
	servo := &Servo{Pin: &pin}
	require.NoError(t, servo.Set(0))
	require.NoError(t, servo.Set(1))
	require.NoError(t, servo.Set(0.5))
	require.Equal(t, []time.Duration{
		560 * time.Microsecond,
		2480 * time.Microsecond,
		1520 * time.Microsecond,
	}, pin.widths)
}

func TestBridgeChannel(t *testing.T) {
	testCases := []struct {
		power float64
		dir   Direction
		duty  float64
	}{
		{0, Stop, 0},
		{0.5, CW, 0.5},
		{-0.25, CCW, 0.25},
		{1, CW, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.dir.String(), func(t *testing.T) {
			var drv bridgeRecorder
			require.NoError(t, (&BridgeChannel{Driver: &drv}).Set(tc.power))
			require.Equal(t, tc.dir, drv.dir)
			require.Equal(t, tc.duty, drv.duty)
		})
	}
	require.Equal(t, "direction(9)", Direction(9).String())
}

func TestSingleBridge(t *testing.T) {
	testCases := []struct {
		power float64
		a, b  float64
	}{
		{0, 0, 0},
		{0.25, 0.75, 1},
		{-0.25, 1, 0.75},
	}
	for _, tc := range testCases {
		var a, b dutyRecorder
		require.NoError(t, (&SingleBridge{A: &a, B: &b}).Set(tc.power))
		require.Equal(t, tc.a, a.duty)
		require.Equal(t, tc.b, b.duty)
	}

	a, b := &dutyRecorder{err: errors.New("a failed")}, &dutyRecorder{err: errors.New("b failed")}
	err := (&SingleBridge{A: a, B: b}).Set(1)
	require.EqualError(t, err, "multiple errors:\n  a failed\n  b failed")
}

func TestBindings(t *testing.T) {
	values := make(map[string]float64)
	record := func(name string) Output {
		return SetFunc(func(v float64) error {
			values[name] = v
			return nil
		})
	}
	b := &Bindings{
		BodyLeft:  record("left"),
		BodyRight: record("right"),
		Gripper:   record("gripper"),
	}
	s := Snapshot{
		Body:          control.Body{Left: 1, Right: -1},
		ArmHorizontal: 0.5,
		Gripper:       0.6,
	}
	require.NoError(t, b.ApplyDrive(s))
	require.Equal(t, map[string]float64{"left": 1, "right": -1}, values)
	require.NoError(t, b.ApplyGripper(s))
	require.Equal(t, 0.6, values["gripper"])

	require.NoError(t, LogBindings().ApplyDrive(s))
}
