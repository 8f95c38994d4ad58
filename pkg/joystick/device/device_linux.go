//go:build linux
// +build linux

package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

// Linux joystick API, see linux/joystick.h.
const (
	jsIOCGAXES    uintptr = 0x80016a11
	jsIOCGBUTTONS uintptr = 0x80016a12
	jsIOCGNAME    uintptr = 0x80ff6a13 // 255 bytes

	jsEventSize = 8

	jsEventButton uint8 = 0x01
	jsEventAxis   uint8 = 0x02
	jsEventInit   uint8 = 0x80
)

// MaxIndex bounds auto detection.
const MaxIndex = 32

// Path returns the device node of the joystick index.
func Path(index int) string {
	return fmt.Sprintf("/dev/input/js%d", index)
}

type joystick struct {
	file    *os.File
	index   int
	name    string
	axes    uint8
	buttons uint8
	buf     [jsEventSize]byte
}

// Open opens the device with specified index.
func Open(index int) (Device, error) {
	f, err := os.Open(Path(index))
	if err != nil {
		return nil, err
	}
	js := &joystick{file: f, index: index}
	if err := js.queryInfo(); err != nil {
		f.Close()
		return nil, fmt.Errorf("query %s: %w", Path(index), err)
	}
	return js, nil
}

// DetectAndOpen opens the first available device from startIndex.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < MaxIndex; index++ {
		js, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return js, err
	}
	return nil, os.ErrNotExist
}

func (j *joystick) queryInfo() error {
	if err := j.ioctl(jsIOCGAXES, unsafe.Pointer(&j.axes)); err != nil {
		return err
	}
	if err := j.ioctl(jsIOCGBUTTONS, unsafe.Pointer(&j.buttons)); err != nil {
		return err
	}
	var name [255]byte
	if err := j.ioctl(jsIOCGNAME, unsafe.Pointer(&name)); err != nil {
		return err
	}
	if pos := bytes.IndexByte(name[:], 0); pos >= 0 {
		j.name = string(name[:pos])
	} else {
		j.name = string(name[:])
	}
	return nil
}

func (j *joystick) ioctl(req uintptr, ptr unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, j.file.Fd(), req, uintptr(ptr))
	if errno != 0 {
		return errno
	}
	return nil
}

func (j *joystick) Close() error     { return j.file.Close() }
func (j *joystick) Index() int       { return j.index }
func (j *joystick) Name() string     { return j.name }
func (j *joystick) AxisCount() int   { return int(j.axes) }
func (j *joystick) ButtonCount() int { return int(j.buttons) }

// ReadEvent implements Device. It blocks until an event arrives.
func (j *joystick) ReadEvent() (Event, error) {
	if _, err := io.ReadFull(j.file, j.buf[:]); err != nil {
		return nil, err
	}
	return decodeEvent(j.buf[:]), nil
}

// decodeEvent decodes struct js_event: u32 time, s16 value, u8 type, u8 number.
func decodeEvent(b []byte) Event {
	ev := rawEvent{
		value:  int16(binary.LittleEndian.Uint16(b[4:])),
		typ:    b[6],
		number: b[7],
	}
	switch ev.typ &^ jsEventInit {
	case jsEventButton:
		return buttonEvent{ev}
	case jsEventAxis:
		return axisEvent{ev}
	}
	return ev
}

type rawEvent struct {
	value  int16
	typ    uint8
	number uint8
}

func (e rawEvent) IsInit() bool { return e.typ&jsEventInit != 0 }
func (e rawEvent) Index() int   { return int(e.number) }

type axisEvent struct{ rawEvent }

func (e axisEvent) Value() int { return int(e.value) }

type buttonEvent struct{ rawEvent }

func (e buttonEvent) Pressed() bool { return e.value != 0 }
