//go:build linux
// +build linux

package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	ev := decodeEvent([]byte{1, 0, 0, 0, 0x01, 0x80, jsEventAxis, 3})
	axis, ok := ev.(AxisEvent)
	require.True(t, ok)
	require.Equal(t, 3, axis.Index())
	require.Equal(t, -32767, axis.Value())
	require.False(t, axis.IsInit())

	ev = decodeEvent([]byte{0, 0, 0, 0, 1, 0, jsEventButton | jsEventInit, 5})
	btn, ok := ev.(ButtonEvent)
	require.True(t, ok)
	require.Equal(t, 5, btn.Index())
	require.True(t, btn.Pressed())
	require.True(t, btn.IsInit())

	ev = decodeEvent([]byte{0, 0, 0, 0, 0, 0, 0x10, 1})
	_, ok = ev.(AxisEvent)
	require.False(t, ok)
	_, ok = ev.(ButtonEvent)
	require.False(t, ok)

	require.Equal(t, "/dev/input/js2", Path(2))
}
