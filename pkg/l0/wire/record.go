// Package wire defines the control record exchanged over L0 frames.
package wire

import (
	"errors"
	"fmt"
)

// RecordSize is the encoded size of Record.
const RecordSize = 5

// ErrRecordSize indicates the data length doesn't match RecordSize.
var ErrRecordSize = errors.New("invalid record size")

// Record is the fixed layout control packet, fields are encoded
// in declaration order, one byte each.
type Record struct {
	BodyLeft      int8
	BodyRight     int8
	ArmHorizontal int8
	ArmVertical   int8
	ArmGrab       uint8
}

// Bytes returns encoded bytes.
func (r Record) Bytes() []byte {
	return r.AppendTo(make([]byte, 0, RecordSize))
}

// AppendTo appends encoded bytes to dst.
func (r Record) AppendTo(dst []byte) []byte {
	return append(dst,
		byte(r.BodyLeft),
		byte(r.BodyRight),
		byte(r.ArmHorizontal),
		byte(r.ArmVertical),
		r.ArmGrab,
	)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	return r.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: %d", ErrRecordSize, len(data))
	}
	r.BodyLeft = int8(data[0])
	r.BodyRight = int8(data[1])
	r.ArmHorizontal = int8(data[2])
	r.ArmVertical = int8(data[3])
	r.ArmGrab = data[4]
	return nil
}

// Decode decodes a Record from data.
func Decode(data []byte) (r Record, err error) {
	err = r.UnmarshalBinary(data)
	return
}
