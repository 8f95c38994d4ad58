// Package transport opens the byte stream carrying L0 frames.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/golang/glog"
	"go.bug.st/serial"
	"golang.org/x/net/websocket"
)

// DefaultBaud is the serial baud rate of the link.
const DefaultBaud = 115200

// ErrUnsupportedScheme indicates the port URL scheme is unknown.
var ErrUnsupportedScheme = errors.New("unsupported scheme")

// Config specifies the port to open.
type Config struct {
	// Port is either a serial device path (e.g. /dev/ttyUSB0),
	// serial:///dev/ttyUSB0, tcp://host:port or ws://host:port/path.
	Port string
	// Baud is the serial baud rate, ignored by network ports.
	Baud int
}

// Open opens the port.
func Open(conf Config) (io.ReadWriteCloser, error) {
	if !strings.Contains(conf.Port, "://") {
		return openSerial(conf.Port, conf.Baud)
	}
	u, err := url.Parse(conf.Port)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "serial":
		return openSerial(u.Path, conf.Baud)
	case "tcp":
		glog.Infof("dial %s", u.Host)
		return net.Dial("tcp", u.Host)
	case "ws", "wss":
		return openWebSocket(u)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
}

func openSerial(device string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	glog.Infof("open serial %s at %d", device, baud)
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	return port, nil
}

func openWebSocket(u *url.URL) (io.ReadWriteCloser, error) {
	origin := "http://" + u.Host + "/"
	if u.Scheme == "wss" {
		origin = "https://" + u.Host + "/"
	}
	glog.Infof("dial %s", u.String())
	conn, err := websocket.Dial(u.String(), "", origin)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}
