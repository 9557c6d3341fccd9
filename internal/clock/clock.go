// Package clock is the experiment master clock and the registry of device timebases.
//
// Time values are time.Duration offsets from the clock epoch (process start for System).
package clock

import "time"

// Clock is the master experiment clock. Must be monotonic.
type Clock interface {
	Now() time.Duration
}

// Timebase reports "now" in some device-local time reference.
type Timebase func() time.Duration

type System struct{ epoch int64 }

// compile-time interface compliance test
var _ Clock = new(System)

func NewSystem() *System { return &System{epoch: monotonic()} }

func (self *System) Now() time.Duration { return time.Duration(monotonic() - self.epoch) }

// Timebase adapts any Clock to Timebase.
func TimebaseOf(c Clock) Timebase { return c.Now }

func Since(c Clock, begin time.Duration) time.Duration { return c.Now() - begin }
