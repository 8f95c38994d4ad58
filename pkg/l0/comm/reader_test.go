package comm

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomPayload(rnd *rand.Rand, size int) []byte {
	payload := make([]byte, size)
	for i := range payload {
		// bias towards marker bytes.
		switch rnd.Intn(4) {
		case 0:
			payload[i] = DLE
		case 1:
			payload[i] = []byte{STX, ETX}[rnd.Intn(2)]
		default:
			payload[i] = byte(rnd.Intn(256))
		}
	}
	return payload
}

// randomNoise never contains DLE, a trailing lone DLE followed by
// a start marker is indistinguishable from an escaped payload byte.
func randomNoise(rnd *rand.Rand) []byte {
	noise := make([]byte, rnd.Intn(32))
	for i := range noise {
		for noise[i] = byte(rnd.Intn(256)); noise[i] == DLE; noise[i] = byte(rnd.Intn(256)) {
		}
	}
	return noise
}

func TestReaderScenario(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x10, 0x02, 0x7f, 0x81, 0x00, 0x00, 0x01, 0x10, 0x03}), 5)
	payload, err := r.ReadPayload()
	require.NoError(t, err)
	require.Equal(t, []byte{0x7f, 0x81, 0, 0, 1}, payload)
	_, err = r.ReadPayload()
	require.Equal(t, io.EOF, err)
}

func TestReaderRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for size := 1; size <= 8; size++ {
		for i := 0; i < 200; i++ {
			payload := randomPayload(rnd, size)
			r := NewReader(bytes.NewReader(Encode(payload)), size)
			decoded, err := r.ReadPayload()
			require.NoError(t, err)
			require.Equal(t, payload, decoded)
		}
	}
}

func TestReaderAllEscapes(t *testing.T) {
	for size := 1; size <= 16; size++ {
		payload := bytes.Repeat([]byte{DLE}, size)
		r := NewReader(bytes.NewReader(Encode(payload)), size)
		decoded, err := r.ReadPayload()
		require.NoError(t, err)
		require.Equal(t, payload, decoded)
	}
}

func TestReaderResyncAfterNoise(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		payload := randomPayload(rnd, 5)
		stream := append(randomNoise(rnd), Encode(payload)...)
		r := NewReader(bytes.NewReader(stream), 5)
		decoded, err := r.ReadPayload()
		require.NoErrorf(t, err, "stream % x", stream)
		require.Equalf(t, payload, decoded, "stream % x", stream)
	}
}

func TestReaderResyncAfterBrokenFrames(t *testing.T) {
	payload := []byte{0x10, 1, 0x02, 0x03, 0x10}
	testCases := []struct {
		name  string
		noise []byte
	}{
		{"lone DLE", []byte{0x10}},
		{"start marker only", []byte{0x10, 0x02}},
		{"truncated frame", []byte{0x10, 0x02, 5, 6}},
		{"truncated escaped frame", []byte{0x10, 0x02, 0x10, 0x10, 6}},
		{"end marker in frame", []byte{0x10, 0x02, 5, 0x10, 0x03}},
		{"unterminated frame", []byte{0x10, 0x02, 1, 2, 3, 4, 5}},
		{"half end marker", []byte{0x10, 0x02, 1, 2, 3, 4, 5, 0x10}},
		{"long frame", []byte{0x10, 0x02, 1, 2, 3, 4, 5, 6, 0x10, 0x03}},
		{"stray end marker", []byte{0x10, 0x03}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stream := append(append([]byte{}, tc.noise...), Encode(payload)...)
			r := NewReader(bytes.NewReader(stream), len(payload))
			decoded, err := r.ReadPayload()
			require.NoError(t, err)
			require.Equal(t, payload, decoded)
		})
	}
}

func TestReaderMultipleFrames(t *testing.T) {
	var stream []byte
	payloads := [][]byte{{1, 2}, {0x10, 0x10}, {0x02, 0x10}, {0x10, 0x03}}
	for _, p := range payloads {
		stream = AppendFrame(append(stream, 0xee), p)
	}
	r := NewReader(bytes.NewReader(stream), 2)
	for _, p := range payloads {
		decoded, err := r.ReadPayload()
		require.NoError(t, err)
		require.Equal(t, p, decoded)
	}
	require.Equal(t, uint64(len(payloads)), r.Parser().Stats().Frames)
}
