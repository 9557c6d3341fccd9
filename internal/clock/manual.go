package clock

import (
	"sync/atomic"
	"time"
)

// Manual is deterministic Clock for tests.
// Every Now() call returns current value then advances it by step,
// so busy-poll loops make progress without real time passing.
// With step=0 time only moves by Advance/Set.
type Manual struct {
	now  int64
	step int64
}

// compile-time interface compliance test
var _ Clock = new(Manual)

func NewManual(step time.Duration) *Manual { return &Manual{step: int64(step)} }

func (self *Manual) Now() time.Duration {
	return time.Duration(atomic.AddInt64(&self.now, self.step) - self.step)
}

// Peek returns current value without advancing.
func (self *Manual) Peek() time.Duration { return time.Duration(atomic.LoadInt64(&self.now)) }

func (self *Manual) Advance(d time.Duration) { atomic.AddInt64(&self.now, int64(d)) }
func (self *Manual) Set(t time.Duration)     { atomic.StoreInt64(&self.now, int64(t)) }
