package telemetry

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/robotalks/rcbot/pkg/actuator"
	"github.com/robotalks/rcbot/pkg/l0/comm"
)

// Report is the state published on every tick.
type Report struct {
	Time     time.Time
	Actuator actuator.Snapshot
	Link     comm.Stats
}

// String implements fmt.Stringer.
func (r Report) String() string {
	s := r.Actuator
	return fmt.Sprintf("body=(%.3f,%.3f) arm=(%.3f,%.3f) gripper=%.3f->%.3f frames=%d resyncs=%d skipped=%d",
		s.Body.Left, s.Body.Right, s.ArmHorizontal, s.ArmVertical, s.Gripper, s.GripperTarget,
		r.Link.Frames, r.Link.Resyncs, r.Link.Skipped)
}

// Field names of the encoded report.
const (
	fieldTime          = "time_ms"
	fieldBodyLeft      = "body.left"
	fieldBodyRight     = "body.right"
	fieldArmHorizontal = "arm.horizontal"
	fieldArmVertical   = "arm.vertical"
	fieldGripper       = "arm.gripper"
	fieldGripperTarget = "arm.gripper_target"
	fieldFrames        = "link.frames"
	fieldResyncs       = "link.resyncs"
	fieldSkipped       = "link.skipped"
)

// Encode encodes the report as a protobuf Struct.
func (r Report) Encode() ([]byte, error) {
	s := r.Actuator
	msg := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldTime:          number(float64(r.Time.UnixNano() / int64(time.Millisecond))),
		fieldBodyLeft:      number(s.Body.Left),
		fieldBodyRight:     number(s.Body.Right),
		fieldArmHorizontal: number(s.ArmHorizontal),
		fieldArmVertical:   number(s.ArmVertical),
		fieldGripper:       number(s.Gripper),
		fieldGripperTarget: number(s.GripperTarget),
		fieldFrames:        number(float64(r.Link.Frames)),
		fieldResyncs:       number(float64(r.Link.Resyncs)),
		fieldSkipped:       number(float64(r.Link.Skipped)),
	}}
	return proto.Marshal(msg)
}

// DecodeReport decodes an encoded report. Missing fields are zero.
func DecodeReport(data []byte) (r Report, err error) {
	var msg structpb.Struct
	if err = proto.Unmarshal(data, &msg); err != nil {
		return
	}
	get := func(name string) float64 {
		return msg.Fields[name].GetNumberValue()
	}
	ms := int64(get(fieldTime))
	r.Time = time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond))
	r.Actuator.Body.Left = get(fieldBodyLeft)
	r.Actuator.Body.Right = get(fieldBodyRight)
	r.Actuator.ArmHorizontal = get(fieldArmHorizontal)
	r.Actuator.ArmVertical = get(fieldArmVertical)
	r.Actuator.Gripper = get(fieldGripper)
	r.Actuator.GripperTarget = get(fieldGripperTarget)
	r.Link.Frames = uint64(get(fieldFrames))
	r.Link.Resyncs = uint64(get(fieldResyncs))
	r.Link.Skipped = uint64(get(fieldSkipped))
	return
}

func number(v float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: v}}
}
