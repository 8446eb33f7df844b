package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent scan timing.
// Less accurate than AdaptiveLimiter but simpler and good enough when
// the scan rate is well below the scheduler resolution.
type TickerLimiter struct {
	period time.Duration
	ticker *time.Ticker
	ch     <-chan time.Time
}

func NewTickerLimiter(rate int) *TickerLimiter {
	period := ScanDuration(rate)
	ticker := time.NewTicker(period)
	return &TickerLimiter{
		period: period,
		ticker: ticker,
		ch:     ticker.C,
	}
}

func (t *TickerLimiter) WaitForNextScan() {
	<-t.ch
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
