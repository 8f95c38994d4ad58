package transmitter

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/rcbot/pkg/transport"
)

// Config defines the configurations of the transmitter.
type Config struct {
	Transport transport.Config
	Interval  time.Duration
	// DeviceIndex selects the joystick, -1 for auto detection.
	DeviceIndex int
	Verbose     bool
}

var defaultConfig = Config{
	Transport: transport.Config{
		Port: "/dev/ttyUSB0",
		Baud: transport.DefaultBaud,
	},
	Interval:    DefaultInterval,
	DeviceIndex: -1,
}

func init() {
	if val := os.Getenv("RCBOT_PORT"); val != "" {
		defaultConfig.Transport.Port = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Transport.Port, "port", defaultConfig.Transport.Port, "Serial device or tcp://, ws:// URL")
	flag.IntVar(&defaultConfig.Transport.Baud, "baud", defaultConfig.Transport.Baud, "Serial baud rate")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Send interval")
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Joystick index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print Joystick events.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewJoystickInput creates the joystick source using the config.
func (c *Config) NewJoystickInput() *JoystickInput {
	in := NewJoystickInput(c.DeviceIndex)
	in.Verbose = c.Verbose
	return in
}
