package tick

import "time"

// StdTicker wraps time.Ticker for callers that select on its channel
// alongside other events.
type StdTicker struct {
	ticker *time.Ticker
}

// NewTicker creates a StdTicker with the specified interval.
func NewTicker(interval time.Duration) *StdTicker {
	return &StdTicker{
		ticker: time.NewTicker(interval),
	}
}

// C returns the channel on which ticks are delivered.
func (t *StdTicker) C() <-chan time.Time {
	return t.ticker.C
}

// Stop stops the ticker and releases resources.
func (t *StdTicker) Stop() {
	t.ticker.Stop()
}
