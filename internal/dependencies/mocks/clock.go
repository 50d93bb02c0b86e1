package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/yahtzee-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
//
// By default After fires immediately and moves the clock forward, so timed
// operations complete without waiting. With Manual set, After only fires
// once Advance has moved the clock past its deadline. Tickers only fire
// when Tick is called.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	Manual      bool

	waiters []waiter
	tickers []*mockTicker
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// NewManualClock creates a MockClock whose timers wait for Advance
func NewManualClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t, Manual: true}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// After returns a channel that fires once the mocked time reaches now+d
func (c *MockClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if !c.Manual {
		c.CurrentTime = c.CurrentTime.Add(d)
		ch <- c.CurrentTime
		return ch
	}
	c.waiters = append(c.waiters, waiter{deadline: c.CurrentTime.Add(d), ch: ch})
	return ch
}

// NewTicker returns a ticker driven by Tick
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &mockTicker{clock: c, ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

// Tick delivers one tick to every running ticker. The channels are
// unbuffered, so Tick blocks until each receiver has taken its tick.
func (c *MockClock) Tick() {
	c.mu.Lock()
	now := c.CurrentTime
	tickers := append([]*mockTicker(nil), c.tickers...)
	c.mu.Unlock()

	for _, t := range tickers {
		t.ch <- now
	}
}

// ActiveTickers returns the number of tickers not yet stopped
func (c *MockClock) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *MockClock) removeTicker(t *mockTicker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.tickers {
		if other == t {
			c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by the given duration and fires any
// timers that are now due
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.CurrentTime = c.CurrentTime.Add(d)
	pending := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.deadline.After(c.CurrentTime) {
			w.ch <- c.CurrentTime
			continue
		}
		pending = append(pending, w)
	}
	c.waiters = pending
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// PendingTimers returns the number of timers waiting on Advance
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

type mockTicker struct {
	clock *MockClock
	ch    chan time.Time
}

func (t *mockTicker) C() <-chan time.Time {
	return t.ch
}

func (t *mockTicker) Stop() {
	t.clock.removeTicker(t)
}
