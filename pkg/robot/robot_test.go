package robot

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rcbot/pkg/actuator"
	"github.com/robotalks/rcbot/pkg/control"
	"github.com/robotalks/rcbot/pkg/l0/comm"
	"github.com/robotalks/rcbot/pkg/l0/wire"
	"github.com/robotalks/rcbot/pkg/telemetry"
)

type recordedOutputs struct {
	lock   sync.Mutex
	values map[string][]float64
}

func (o *recordedOutputs) output(name string) actuator.Output {
	return actuator.SetFunc(func(v float64) error {
		o.lock.Lock()
		defer o.lock.Unlock()
		o.values[name] = append(o.values[name], v)
		return nil
	})
}

func (o *recordedOutputs) last(name string) float64 {
	o.lock.Lock()
	defer o.lock.Unlock()
	vals := o.values[name]
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}

func newRecordedRobot(r io.Reader) (*Robot, *recordedOutputs) {
	rec := &recordedOutputs{values: make(map[string][]float64)}
	rb := New(r, time.Hour)
	rb.Outputs = &actuator.Bindings{
		BodyLeft:      rec.output("left"),
		BodyRight:     rec.output("right"),
		ArmHorizontal: rec.output("h"),
		ArmVertical:   rec.output("v"),
		Gripper:       rec.output("gripper"),
	}
	return rb, rec
}

type reportRecorder struct {
	reports []telemetry.Report
}

func (r *reportRecorder) Publish(report telemetry.Report) error {
	r.reports = append(r.reports, report)
	return nil
}

func TestEndToEnd(t *testing.T) {
	stream, err := hex.DecodeString("1002" + "7F81000001" + "1003")
	require.NoError(t, err)
	rb, outs := newRecordedRobot(bytes.NewReader(stream))
	require.Equal(t, io.EOF, rb.Run(context.Background()))
	require.False(t, rb.Ticking())

	s := rb.State.Snapshot()
	require.Equal(t, 1.0, s.Body.Left)
	require.Equal(t, -1.0, s.Body.Right)
	require.Zero(t, s.ArmHorizontal)
	require.Zero(t, s.ArmVertical)
	require.True(t, s.Closing())
	require.Equal(t, actuator.GripperOpened, s.Gripper)

	require.Equal(t, 1.0, outs.last("left"))
	require.Equal(t, -1.0, outs.last("right"))
	require.True(t, math.IsNaN(outs.last("gripper")))

	pub := &reportRecorder{}
	rb.Publisher = pub
	prev := math.Abs(s.Gripper - actuator.GripperClosed)
	for n := 1; n <= 20; n++ {
		s = rb.Tick(time.Now())
		dist := math.Abs(s.Gripper - actuator.GripperClosed)
		require.Less(t, dist, prev)
		prev = dist
		expected := actuator.GripperClosed - (actuator.GripperClosed-actuator.GripperOpened)*math.Pow(0.75, float64(n))
		require.InDelta(t, expected, s.Gripper, 1e-12)
		require.Equal(t, s.Gripper, outs.last("gripper"))
	}
	require.Len(t, pub.reports, 20)
	require.Equal(t, uint64(1), pub.reports[0].Link.Frames)
	require.Equal(t, s, pub.reports[19].Actuator)
}

func TestEscapedRecord(t *testing.T) {
	rec := wire.Record{BodyLeft: 16, ArmGrab: 0}
	frame := comm.Encode(rec.Bytes())
	require.Equal(t, []byte{0x10, 0x02, 0x10, 0x10, 0, 0, 0, 0, 0x10, 0x03}, frame)

	noisy := append([]byte{0x55, 0x10, 0x03, 0xaa}, frame...)
	rb, _ := newRecordedRobot(bytes.NewReader(noisy))
	require.Equal(t, io.EOF, rb.Run(context.Background()))
	s := rb.State.Snapshot()
	require.InDelta(t, 16.0/127, s.Body.Left, 1e-12)
	require.False(t, s.Closing())
	require.Equal(t, uint64(1), rb.Stats().Frames)
}

func TestStartStop(t *testing.T) {
	rb := New(bytes.NewReader(nil), time.Millisecond)
	rb.Outputs = &actuator.Bindings{}
	rb.Apply(control.Command{Arm: control.Arm{Grab: true}})
	require.False(t, rb.Ticking())
	rb.Start()
	require.True(t, rb.Ticking())
	require.Eventually(t, func() bool {
		return rb.State.Snapshot().Gripper < actuator.GripperOpened
	}, time.Second, time.Millisecond)
	rb.Stop()
	require.False(t, rb.Ticking())

	stopped := rb.State.Snapshot()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, stopped, rb.State.Snapshot())
}

func TestConfigPublisher(t *testing.T) {
	conf := NewConfig()
	conf.MQTTBrokerURL = ""
	pub, err := conf.NewPublisher()
	require.NoError(t, err)
	require.Nil(t, pub)

	conf.MQTTBrokerURL = "mqtt://localhost:1883/robo/"
	conf.Ref.ID = "test"
	rb, err := conf.NewRobot(bytes.NewReader(nil))
	require.NoError(t, err)
	require.NotNil(t, rb.Publisher)
	require.Equal(t, "rcbot/test", rb.Publisher.(*telemetry.Publisher).Ref.Name())
}
