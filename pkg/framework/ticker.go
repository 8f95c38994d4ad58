package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the default ticking interval.
const DefaultInterval = 100 * time.Millisecond

// Ticker invokes controllers periodically.
// It can be either started/stopped explicitly or used as a Runnable.
type Ticker struct {
	Interval time.Duration

	controllers []Controller
	iteration   uint64

	lock   sync.Mutex
	cancel func()
	doneCh chan struct{}
}

type tickIteration struct {
	ctx       context.Context
	time      time.Time
	iteration uint64
}

// NewTicker creates a Ticker.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{Interval: interval}
}

// AddController registers controllers, must be called before running.
func (t *Ticker) AddController(ctls ...Controller) *Ticker {
	t.controllers = append(t.controllers, ctls...)
	return t
}

// Start runs the ticker in background. It's a no-op if already started.
func (t *Ticker) Start() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel, t.doneCh = cancel, make(chan struct{})
	go func(doneCh chan struct{}) {
		defer close(doneCh)
		t.Run(ctx)
	}(t.doneCh)
}

// Stop stops the background ticking. When it returns, no controller
// is running and none will be invoked until started again.
func (t *Ticker) Stop() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.doneCh
	t.cancel, t.doneCh = nil, nil
}

// Running indicates the ticker is started.
func (t *Ticker) Running() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.cancel != nil
}

// Run implements Runnable.
// Only one Run may be active at a time.
func (t *Ticker) Run(ctx context.Context) error {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			// both may be ready, cancellation wins.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.runIteration(ctx, now)
		}
	}
}

func (t *Ticker) runIteration(ctx context.Context, now time.Time) {
	t.iteration++
	iter := &tickIteration{ctx: ctx, time: now, iteration: t.iteration}
	for _, ctl := range t.controllers {
		if err := ctl.Control(iter); err != nil {
			glog.Errorf("controller error: %v", err)
		}
	}
}

func (i *tickIteration) Context() context.Context {
	return i.ctx
}

func (i *tickIteration) Time() time.Time {
	return i.time
}

func (i *tickIteration) Iteration() uint64 {
	return i.iteration
}
