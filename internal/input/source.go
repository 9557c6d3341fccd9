package input

import (
	"time"

	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/log2"
)

// KeyHandler is invoked synchronously inside KeySource.Pump.
type KeyHandler func(code uint32, mods Modifiers, emulated bool)

// ButtonHandler is invoked synchronously inside ButtonSource.Pump.
type ButtonHandler func(x, y int, button Button, mods Modifiers)

// KeySource contract:
// - Pump drains pending device events, calling handler for each key press on caller goroutine
// - SymbolString names raw code, e.g. "ESCAPE", "_1", "NUM_5"
type KeySource interface {
	Pump() error
	OnKeyPress(KeyHandler)
	SymbolString(code uint32) string
}

// ButtonSource is pointer side of windowing collaborator.
type ButtonSource interface {
	Pump() error
	OnButtonPress(ButtonHandler)
	SetCursorVisible(bool)
	Cursor() (x, y int)
	Extent() (width, height int)
}

// Timebaser may be implemented by sources with own time reference.
// Otherwise device-local time is master clock.
type Timebaser interface {
	Timebase() time.Duration
}

// Recorder receives corrected events once per successful retrieval.
// Must not block for long: called inside wait loops.
type Recorder interface {
	LogPresses([]KeyPress)
	LogClicks([]Click)
}

type NopRecorder struct{}

func (NopRecorder) LogPresses([]KeyPress) {}
func (NopRecorder) LogClicks([]Click)     {}

// Env is explicit run context shared by monitors.
type Env struct {
	Clock    clock.Clock
	Registry *clock.Registry
	Recorder Recorder
	Log      *log2.Log
}

func (self *Env) validate() {
	if self.Clock == nil || self.Registry == nil {
		panic("code error input.Env requires Clock and Registry")
	}
	if self.Recorder == nil {
		self.Recorder = NopRecorder{}
	}
}

func timebaseOf(src interface{}, master clock.Clock) clock.Timebase {
	if tb, ok := src.(Timebaser); ok {
		return tb.Timebase
	}
	return master.Now
}
