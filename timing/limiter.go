package timing

import "time"

// Limiter holds the scan cadence for a simulated firmware loop.
type Limiter interface {
	// WaitForNextScan blocks until it's time for the next scan cycle.
	// Returns immediately if timing is behind schedule.
	WaitForNextScan()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless
// runs that just burn through a tick budget).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextScan() {}
func (n *noOpLimiter) Reset()           {}

// DefaultScanRate is the scan frequency real firmwares typically run
// at: one full matrix scan per millisecond.
const DefaultScanRate = 1000

// ScanDuration returns the period of one scan at the given rate in Hz.
func ScanDuration(rate int) time.Duration {
	if rate <= 0 {
		rate = DefaultScanRate
	}
	return time.Duration(float64(time.Second) / float64(rate))
}
