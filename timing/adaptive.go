// Package timing paces the simulated scan loop. Real firmware gets its
// cadence from a hardware timer interrupt; on a hosted OS we have to
// work for it.
package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy, which
// matters at millisecond periods where the OS sleep granularity is a
// large fraction of the budget.
type AdaptiveLimiter struct {
	targetScanTime time.Duration
	nextScanTime   time.Time
	scanCounter    int64
}

func NewAdaptiveLimiter(rate int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetScanTime: ScanDuration(rate),
		nextScanTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextScan() {
	now := time.Now()
	sleepTime := a.nextScanTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextScanTime) {
				// busy-wait for times under 2ms, higher accuracy.
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextScanTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextScanTime = now
	}

	a.nextScanTime = a.nextScanTime.Add(a.targetScanTime)
	a.scanCounter++

	if a.scanCounter%1024 == 0 {
		drift := time.Now().Sub(a.nextScanTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextScanTime = a.nextScanTime.Add(drift / 10)
			slog.Debug("Scan timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextScanTime = time.Now()
	a.scanCounter = 0
}
