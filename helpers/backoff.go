package helpers

import (
	"sync/atomic"
	"time"

	"github.com/temoto/expinput/helpers/atomic_clock"
)

// Backoff computes retry delays growing by K after each failure within [Min, Max].
// After success or before first attempt delay is 0.
//
//	for {
//	  time.Sleep(b.DelayBefore())
//	  b.Update(send())
//	}
type Backoff struct {
	failures int32 // atomic
	last     atomic_clock.Clock

	Min time.Duration
	Max time.Duration
	K   float32
	Res time.Duration // rounding, default 1ms
}

// Current delay after last failure, not counting time since.
func (b *Backoff) Current() time.Duration {
	n := atomic.LoadInt32(&b.failures)
	if n == 0 {
		return 0
	}
	d := float64(b.Min)
	for i := int32(1); i < n && time.Duration(d) < b.Max; i++ {
		d *= float64(b.K)
	}
	return b.limit(time.Duration(d))
}

// DelayBefore is remaining delay before next attempt.
func (b *Backoff) DelayBefore() time.Duration {
	delay := b.Current()
	if delay == 0 {
		return 0
	}
	since := atomic_clock.Since(&b.last)
	if since >= delay {
		return 0
	}
	return b.round(delay - since)
}

// DelayAfter records attempt result and returns full delay before next attempt.
func (b *Backoff) DelayAfter(success bool) time.Duration {
	b.Update(success)
	return b.Current()
}

func (b *Backoff) Update(success bool) {
	b.last.SetNow()
	if success {
		atomic.StoreInt32(&b.failures, 0)
	} else {
		atomic.AddInt32(&b.failures, 1)
	}
}

func (b *Backoff) Failures() int { return int(atomic.LoadInt32(&b.failures)) }

func (b *Backoff) limit(d time.Duration) time.Duration {
	if d < b.Min {
		d = b.Min
	}
	if b.Max != 0 && d > b.Max {
		d = b.Max
	}
	return b.round(d)
}

func (b *Backoff) round(d time.Duration) time.Duration {
	res := b.Res
	if res == 0 {
		res = time.Millisecond
	}
	return d / res * res
}
