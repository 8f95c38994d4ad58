package comm

import (
	"io"
)

// Marker bytes.
const (
	DLE byte = 0x10
	STX byte = 0x02
	ETX byte = 0x03
)

// frameOverhead is the size of both markers.
const frameOverhead = 4

// Encode returns the framed and escaped bytes of payload.
func Encode(payload []byte) []byte {
	return AppendFrame(make([]byte, 0, EncodedLen(payload)), payload)
}

// EncodedLen calculates the length of the frame for payload.
func EncodedLen(payload []byte) int {
	n := len(payload) + frameOverhead
	for _, b := range payload {
		if b == DLE {
			n++
		}
	}
	return n
}

// AppendFrame appends the frame of payload to dst.
func AppendFrame(dst, payload []byte) []byte {
	dst = append(dst, DLE, STX)
	for _, b := range payload {
		dst = append(dst, b)
		if b == DLE {
			dst = append(dst, DLE)
		}
	}
	return append(dst, DLE, ETX)
}

// WriteFrame writes the frame of payload in a single Write.
func WriteFrame(w io.Writer, payload []byte) (int, error) {
	return w.Write(Encode(payload))
}
