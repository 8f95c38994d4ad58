// Package robot runs the receiving side: frames from the transport are
// decoded and applied to the actuator state, while a periodic tick eases
// the gripper and pushes the state to outputs and telemetry.
package robot

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rcbot/pkg/actuator"
	"github.com/robotalks/rcbot/pkg/control"
	fx "github.com/robotalks/rcbot/pkg/framework"
	"github.com/robotalks/rcbot/pkg/l0/comm"
	"github.com/robotalks/rcbot/pkg/l0/wire"
	"github.com/robotalks/rcbot/pkg/telemetry"
)

// ReportPublisher receives a Report on every tick.
type ReportPublisher interface {
	Publish(telemetry.Report) error
}

// Robot owns the actuator state and the two execution contexts
// mutating it: the receive loop and the easing tick.
type Robot struct {
	State     *actuator.State
	Outputs   *actuator.Bindings
	Publisher ReportPublisher
	// StatsEvery logs link counters every N ticks, 0 disables.
	StatsEvery uint64

	receiver *comm.Receiver
	ticker   *fx.Ticker
}

// New creates a Robot receiving from r, with outputs logged.
func New(r io.Reader, tickInterval time.Duration) *Robot {
	rb := &Robot{
		State:    actuator.NewState(),
		Outputs:  actuator.LogBindings(),
		receiver: comm.NewReceiver(r, wire.RecordSize),
		ticker:   fx.NewTicker(tickInterval),
	}
	rb.receiver.Handler = rb
	rb.ticker.AddController(fx.ControlFunc(rb.tick))
	return rb
}

// NewRobot creates a Robot from config.
func (c *Config) NewRobot(r io.Reader) (*Robot, error) {
	rb := New(r, c.TickInterval)
	rb.StatsEvery = c.StatsEvery
	pub, err := c.NewPublisher()
	if err != nil {
		return nil, err
	}
	if pub != nil {
		rb.Publisher = pub
	}
	return rb, nil
}

// Stats returns the link counters.
func (r *Robot) Stats() comm.Stats {
	return r.receiver.Stats()
}

// Report returns the current state and link counters.
func (r *Robot) Report() telemetry.Report {
	return telemetry.Report{Time: time.Now(), Actuator: r.State.Snapshot(), Link: r.Stats()}
}

// Start activates the periodic tick.
func (r *Robot) Start() {
	r.ticker.Start()
}

// Stop deactivates the periodic tick. No tick runs after it returns.
func (r *Robot) Stop() {
	r.ticker.Stop()
}

// Ticking indicates the periodic tick is active.
func (r *Robot) Ticking() bool {
	return r.ticker.Running()
}

// Run implements Runnable. It starts the tick and receives until the
// context is canceled or the transport fails.
func (r *Robot) Run(ctx context.Context) error {
	r.Start()
	defer r.Stop()
	glog.Infof("Receiving %d-byte records", wire.RecordSize)
	return r.receiver.Run(ctx)
}

// HandlePayload implements comm.PayloadHandler.
func (r *Robot) HandlePayload(ctx context.Context, payload []byte) {
	rec, err := wire.Decode(payload)
	if err != nil {
		glog.Warningf("drop payload: %v", err)
		return
	}
	r.Apply(control.FromRecord(rec))
}

// Apply applies a command to the state and pushes the drive outputs.
func (r *Robot) Apply(cmd control.Command) actuator.Snapshot {
	glog.V(2).Infof("CMD %s", cmd)
	s := r.State.ApplyCommand(cmd)
	if err := r.Outputs.ApplyDrive(s); err != nil {
		glog.Warningf("apply drive error: %v", err)
	}
	return s
}

// Tick advances the state once and pushes it out.
func (r *Robot) Tick(now time.Time) actuator.Snapshot {
	s := r.State.Tick()
	if err := r.Outputs.ApplyGripper(s); err != nil {
		glog.Warningf("apply gripper error: %v", err)
	}
	if pub := r.Publisher; pub != nil {
		report := telemetry.Report{Time: now, Actuator: s, Link: r.Stats()}
		if err := pub.Publish(report); err != nil {
			glog.Warningf("publish error: %v", err)
		}
	}
	return s
}

func (r *Robot) tick(cc fx.ControlContext) error {
	r.Tick(cc.Time())
	if n := r.StatsEvery; n > 0 && cc.Iteration()%n == 0 {
		stats := r.Stats()
		glog.V(1).Infof("link frames=%d resyncs=%d skipped=%d", stats.Frames, stats.Resyncs, stats.Skipped)
	}
	return nil
}
