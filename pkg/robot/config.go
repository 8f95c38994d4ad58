package robot

import (
	"flag"
	"os"
	"time"

	fx "github.com/robotalks/rcbot/pkg/framework"
	"github.com/robotalks/rcbot/pkg/telemetry"
	"github.com/robotalks/rcbot/pkg/transport"
)

// DefaultType is the vehicle type used in telemetry topics.
const DefaultType = "rcbot"

// Config defines the configurations of the Robot.
type Config struct {
	Transport transport.Config

	// TickInterval is the period of the easing tick.
	TickInterval time.Duration
	// StatsEvery logs link counters every N ticks, 0 disables.
	StatsEvery uint64

	// MQTTBrokerURL specifies the MQTT broker for telemetry, empty disables it.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	Ref           telemetry.Ref
	Description   string

	// MetricsAddr is the listen address of the Prometheus endpoint, empty disables it.
	MetricsAddr string
}

var defaultConfig = Config{
	Transport: transport.Config{
		Port: "/dev/ttyUSB0",
		Baud: transport.DefaultBaud,
	},
	TickInterval: fx.DefaultInterval,
	StatsEvery:   50,
	Ref:          telemetry.Ref{Type: DefaultType},
	Description:  "RC tracked vehicle",
}

func init() {
	if val := os.Getenv("RCBOT_PORT"); val != "" {
		defaultConfig.Transport.Port = val
	}
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Transport.Port, "port", defaultConfig.Transport.Port, "Serial device or tcp://, ws:// URL")
	flag.IntVar(&defaultConfig.Transport.Baud, "baud", defaultConfig.Transport.Baud, "Serial baud rate")
	flag.DurationVar(&defaultConfig.TickInterval, "tick", defaultConfig.TickInterval, "Easing tick interval")
	flag.Uint64Var(&defaultConfig.StatsEvery, "stats-every", defaultConfig.StatsEvery, "Log link stats every N ticks (with -v=1)")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for telemetry")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Prometheus listen address, e.g. :9100")
	flag.StringVar(&defaultConfig.Ref.Type, "type", defaultConfig.Ref.Type, "Vehicle type")
	flag.StringVar(&defaultConfig.Ref.ID, "id", defaultConfig.Ref.ID, "Vehicle ID, machine ID if empty")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewPublisher creates the telemetry publisher, nil if disabled.
func (c *Config) NewPublisher() (*telemetry.Publisher, error) {
	if c.MQTTBrokerURL == "" {
		return nil, nil
	}
	ref := c.Ref
	if ref.ID == "" {
		ref.ID = telemetry.MachineID()
	}
	return telemetry.NewPublisher(c.MQTTBrokerURL, ref, telemetry.Meta{Description: c.Description})
}

// NewMetricsServer creates the metrics endpoint for the robot, nil if disabled.
func (c *Config) NewMetricsServer(r *Robot) *telemetry.MetricsServer {
	if c.MetricsAddr == "" {
		return nil
	}
	return &telemetry.MetricsServer{
		Addr:     c.MetricsAddr,
		Registry: telemetry.NewRegistry(telemetry.NewCollector(r.Report)),
	}
}
