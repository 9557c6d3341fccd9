package input

import (
	"fmt"
	"time"
)

// Event is constraint of the Poller element type.
// At returns a copy of event with Time replaced.
type Event[E any] interface {
	ID() string
	Stamp() time.Duration
	At(t time.Duration) E
}

// KeyPress Time is device-local in buffer, master clock after correction
// and relative to origin in results (zero if timestamp was not requested).
type KeyPress struct {
	Key  string
	Time time.Duration
}

func (e KeyPress) ID() string                  { return e.Key }
func (e KeyPress) Stamp() time.Duration        { return e.Time }
func (e KeyPress) At(t time.Duration) KeyPress { e.Time = t; return e }
func (e KeyPress) String() string              { return fmt.Sprintf("%s@%.6f", e.Key, e.Time.Seconds()) }

// Click X,Y are raw window coordinates at the moment of press.
type Click struct {
	Button string
	X, Y   int
	Time   time.Duration
}

func (e Click) ID() string               { return e.Button }
func (e Click) Stamp() time.Duration     { return e.Time }
func (e Click) At(t time.Duration) Click { e.Time = t; return e }
func (e Click) String() string {
	return fmt.Sprintf("%s(%d,%d)@%.6f", e.Button, e.X, e.Y, e.Time.Seconds())
}

type Modifiers uint32

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Button values match common windowing toolkits bitmask.
type Button uint8

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 4
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	}
	return fmt.Sprintf("button%d", uint8(b))
}

// Keys returns identifiers only, never nil.
func Keys(ps []KeyPress) []string {
	ss := make([]string, len(ps))
	for i, p := range ps {
		ss[i] = p.Key
	}
	return ss
}

// Buttons returns identifiers only, never nil.
func Buttons(cs []Click) []string {
	ss := make([]string, len(cs))
	for i, c := range cs {
		ss[i] = c.Button
	}
	return ss
}

func ids[E Event[E]](es []E) []string {
	ss := make([]string, len(es))
	for i, e := range es {
		ss[i] = e.ID()
	}
	return ss
}
