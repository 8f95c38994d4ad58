package framework

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickerStartStop(t *testing.T) {
	var count atomic.Int64
	var lastIter atomic.Uint64
	ticker := NewTicker(time.Millisecond).AddController(ControlFunc(func(cc ControlContext) error {
		count.Add(1)
		lastIter.Store(cc.Iteration())
		return nil
	}))
	require.False(t, ticker.Running())
	ticker.Start()
	ticker.Start()
	require.True(t, ticker.Running())
	require.Eventually(t, func() bool { return count.Load() >= 5 }, time.Second, time.Millisecond)
	ticker.Stop()
	require.False(t, ticker.Running())

	stopped := count.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, stopped, count.Load(), "ticked after Stop")
	require.Equal(t, uint64(stopped), lastIter.Load())

	ticker.Stop()
	ticker.Start()
	require.Eventually(t, func() bool { return count.Load() > stopped }, time.Second, time.Millisecond)
	ticker.Stop()
	require.Equal(t, uint64(count.Load()), lastIter.Load(), "iterations continue after restart")
}

func TestTickerStopWaitsForController(t *testing.T) {
	enterCh := make(chan struct{}, 1)
	var running atomic.Bool
	ticker := NewTicker(time.Millisecond).AddController(ControlFunc(func(cc ControlContext) error {
		running.Store(true)
		select {
		case enterCh <- struct{}{}:
		default:
		}
		time.Sleep(10 * time.Millisecond)
		running.Store(false)
		return nil
	}))
	ticker.Start()
	<-enterCh
	ticker.Stop()
	require.False(t, running.Load())
}

func TestTickerRun(t *testing.T) {
	var count atomic.Int64
	ticker := &Ticker{Interval: time.Millisecond}
	ticker.AddController(ControlFunc(func(cc ControlContext) error {
		if cc.Context() != nil && !cc.Time().IsZero() {
			count.Add(1)
		}
		return errors.New("logged only")
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := ticker.Run(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
	require.Positive(t, count.Load())
}
