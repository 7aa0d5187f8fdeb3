package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests.
// It is safe for concurrent use.
//
// Tickers follow elapsed time only (Advance), the way real tickers follow
// the monotonic clock; Set moves the wall clock without affecting them.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	elapsed time.Duration
	tickers []*fakeTicker
}

// NewFake creates a fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// NewTicker creates a ticker that fires as the fake clock is advanced.
func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTicker{
		clock:  f,
		period: d,
		next:   f.elapsed + d,
		ch:     make(chan time.Time, 1),
	}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves the clock forward by d and fires every ticker whose next
// tick is due. Like time.Ticker, a tick is dropped if the previous one has
// not been received yet.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
	f.elapsed += d
	for _, t := range f.tickers {
		for t.next <= f.elapsed {
			select {
			case t.ch <- f.now:
			default:
			}
			t.next += t.period
		}
	}
}

// Set jumps the clock to t without firing tickers. It models a wall-clock
// adjustment rather than elapsed time.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Tickers returns the number of active tickers.
func (f *Fake) Tickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *Fake) remove(t *fakeTicker) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, cur := range f.tickers {
		if cur == t {
			f.tickers = append(f.tickers[:i], f.tickers[i+1:]...)
			return
		}
	}
}

type fakeTicker struct {
	clock  *Fake
	period time.Duration
	next   time.Duration
	ch     chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() { t.clock.remove(t) }

// Compile-time interface satisfaction check.
var _ Clock = (*Fake)(nil)
