package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mefin-SR/FlowtrixGame/core"
)

// ClockScheduler paces a step function on a fixed real-time interval
// The measured delta is handed to step so game time tracks wall time, clamped against stalls
type ClockScheduler struct {
	step     func(dt float64)
	interval time.Duration
	maxDelta time.Duration
	provider TimeProvider

	mu       sync.Mutex
	lastTick time.Time

	tickCount atomic.Uint64
	running   atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewClockScheduler creates a scheduler calling step every interval
func NewClockScheduler(step func(dt float64), interval, maxDelta time.Duration, provider TimeProvider) *ClockScheduler {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	if maxDelta < interval {
		maxDelta = interval
	}
	return &ClockScheduler{
		step:     step,
		interval: interval,
		maxDelta: maxDelta,
		provider: provider,
	}
}

// Start launches the loop on its own goroutine
func (cs *ClockScheduler) Start(ctx context.Context) {
	if !cs.running.CompareAndSwap(false, true) {
		return
	}
	ctx, cs.cancel = context.WithCancel(ctx)
	cs.wg.Add(1)
	core.Go(func() {
		defer cs.wg.Done()
		cs.Run(ctx)
	})
}

// Stop halts the loop and waits for the in-flight tick
func (cs *ClockScheduler) Stop() {
	if cs.running.CompareAndSwap(true, false) {
		cs.cancel()
		cs.wg.Wait()
	}
}

// Run blocks, ticking until ctx is done
func (cs *ClockScheduler) Run(ctx context.Context) {
	cs.mu.Lock()
	cs.lastTick = cs.provider.Now()
	cs.mu.Unlock()

	ticker := time.NewTicker(cs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cs.processTick()
		}
	}
}

// processTick measures elapsed time since the previous tick and runs one step
func (cs *ClockScheduler) processTick() {
	cs.mu.Lock()
	now := cs.provider.Now()
	delta := now.Sub(cs.lastTick)
	cs.lastTick = now
	cs.mu.Unlock()

	if delta <= 0 {
		return
	}
	if delta > cs.maxDelta {
		delta = cs.maxDelta
	}
	cs.step(delta.Seconds())
	cs.tickCount.Add(1)
}

// TickCount returns the number of steps executed
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}
