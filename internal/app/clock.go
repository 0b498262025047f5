package app

import (
	"sync"
	"time"
)

// Clock is a repeating timer. Start replaces any run in progress, so a clock
// never drives two tick streams at once. Stop is idempotent.
//
// A tick that was already being delivered when Stop was called may still
// arrive; the Engine tags every run with a generation and drops such ticks.
type Clock interface {
	Start(interval time.Duration, onTick func())
	Stop()
}

// TickerClock is a Clock backed by time.Ticker. onTick runs on the clock's own goroutine.
type TickerClock struct {
	mu   sync.Mutex
	stop chan struct{}
}

func NewTickerClock() *TickerClock {
	return &TickerClock{}
}

func (c *TickerClock) Start(interval time.Duration, onTick func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	stop := make(chan struct{})
	c.stop = stop
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Stop may have raced with the ticker firing.
				select {
				case <-stop:
					return
				default:
				}
				onTick()
			}
		}
	}()
}

func (c *TickerClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *TickerClock) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// ManualClock is a Clock driven by explicit Tick calls, for tests and demos.
type ManualClock struct {
	mu       sync.Mutex
	interval time.Duration
	onTick   func()
	running  bool
	starts   int
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) Start(interval time.Duration, onTick func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = interval
	c.onTick = onTick
	c.running = true
	c.starts++
}

func (c *ManualClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Tick fires the current run once. It reports false when the clock is stopped.
func (c *ManualClock) Tick() bool {
	c.mu.Lock()
	fn, running := c.onTick, c.running
	c.mu.Unlock()
	if !running || fn == nil {
		return false
	}
	fn()
	return true
}

// Callback returns the tick function of the latest run, even after Stop.
// Calling it simulates a tick that was in flight when the run was stopped.
func (c *ManualClock) Callback() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onTick
}

func (c *ManualClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Starts counts how many runs have been started.
func (c *ManualClock) Starts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}
