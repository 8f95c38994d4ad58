// Package transmitter implements the remote side: it samples inputs,
// mixes them into commands and sends them as framed records.
package transmitter

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rcbot/pkg/control"
	fx "github.com/robotalks/rcbot/pkg/framework"
	"github.com/robotalks/rcbot/pkg/l0/comm"
	"github.com/robotalks/rcbot/pkg/l0/wire"
)

// DefaultInterval is the send period.
const DefaultInterval = time.Second / 60

// Transmitter periodically sends the mixed inputs.
type Transmitter struct {
	Source InputSource
	Mixer  control.Mixer

	writer *comm.Writer
	ticker *fx.Ticker

	lock sync.Mutex
	last control.Command
	sent uint64
}

// New creates a Transmitter writing frames to w.
func New(w io.Writer, source InputSource, interval time.Duration) *Transmitter {
	t := &Transmitter{
		Source: source,
		writer: comm.NewWriter(w, wire.RecordSize),
		ticker: fx.NewTicker(interval),
	}
	t.ticker.AddController(fx.ControlFunc(func(fx.ControlContext) error {
		return t.Send()
	}))
	return t
}

// Send samples the source and writes one frame.
func (t *Transmitter) Send() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	cmd := t.Mixer.Mix(t.Source.Input())
	rec := cmd.Record()
	if err := t.writer.WritePayload(rec.Bytes()); err != nil {
		return err
	}
	if cmd != t.last {
		glog.V(2).Infof("SEND %s", cmd)
	}
	t.last = cmd
	t.sent++
	return nil
}

// Last returns the last sent command and the number of frames sent.
func (t *Transmitter) Last() (control.Command, uint64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.last, t.sent
}

// Run implements Runnable.
func (t *Transmitter) Run(ctx context.Context) error {
	return t.ticker.Run(ctx)
}
