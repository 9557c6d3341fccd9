package clock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func monotonic() int64 { return clockNano(unix.CLOCK_MONOTONIC) }

// Realtime is CLOCK_REALTIME, the reference of kernel input event timestamps.
func Realtime() time.Duration { return time.Duration(clockNano(unix.CLOCK_REALTIME)) }

func clockNano(id int32) int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(id, &ts); err != nil {
		panic(fmt.Sprintf("code error clock_gettime id=%d err=%v", id, err))
	}
	return ts.Nano()
}
