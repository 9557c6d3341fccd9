// Package input bridges blocking device readers to poll-style monitors.
// Reader goroutines only queue raw events; handlers run inside Pump
// on caller goroutine, so monitors need no locking.
package input

import (
	"io"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/expinput/helpers"
	"github.com/temoto/expinput/internal/clock"
	monitor "github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/log2"
)

type EventKind uint8

const (
	EventKey EventKind = iota
	EventButton
	EventMotion
)

// Event is raw device event before dispatch.
type Event struct {
	Source   string
	Kind     EventKind
	Code     uint32 // EventKey
	Emulated bool
	Mods     monitor.Modifiers
	Button   monitor.Button // EventButton
	DX, DY   int            // EventMotion
	// At is device timestamp on Dispatch timebase, 0 means unknown (injected events).
	At time.Duration
}

type Source interface {
	io.Closer
	Read() (Event, error)
	String() string
}

type Dispatch struct {
	Log    *log2.Log
	Keymap *Keymap
	alive  *alive.Alive

	mu      sync.Mutex
	pending []Event
	readErr helpers.AtomicError
	sources []Source

	timebase clock.Timebase
	// stamp of event being dispatched, only accessed inside Pump
	dispatching time.Duration

	onKey         monitor.KeyHandler
	onButton      monitor.ButtonHandler
	width, height int
	x, y          int
	cursorVisible bool
}

// compile-time interface compliance test
var _ monitor.KeySource = new(Dispatch)
var _ monitor.ButtonSource = new(Dispatch)
var _ monitor.Timebaser = new(Dispatch)

// NewDispatch width,height is pointer extent, motion events are clamped to it.
// Timebase is CLOCK_REALTIME, the reference of kernel input event timestamps.
func NewDispatch(log *log2.Log, keymap *Keymap, width, height int) *Dispatch {
	if keymap == nil {
		keymap = NewKeymap()
	}
	return &Dispatch{
		Log:      log,
		Keymap:   keymap,
		alive:    alive.NewAlive(),
		pending:  make([]Event, 0, 32),
		timebase: clock.Realtime,
		width:    width,
		height:   height,
		x:        width / 2,
		y:        height / 2,
	}
}

// SetTimebase replaces device time reference, call before monitors are created.
// Event.At of all sources must use the same reference.
func (self *Dispatch) SetTimebase(tb clock.Timebase) { self.timebase = tb }

// Timebase inside Pump handlers is device timestamp of current event,
// otherwise current time of device reference.
func (self *Dispatch) Timebase() time.Duration {
	if self.dispatching != 0 {
		return self.dispatching
	}
	return self.timebase()
}

// Run starts one reader per source and returns immediately.
func (self *Dispatch) Run(sources []Source) {
	self.mu.Lock()
	self.sources = append(self.sources, sources...)
	self.mu.Unlock()
	for _, source := range sources {
		if !self.alive.Add(1) {
			return
		}
		go self.readSource(source)
	}
}

func (self *Dispatch) Stop() error {
	self.alive.Stop()
	self.mu.Lock()
	sources := self.sources
	self.sources = nil
	self.mu.Unlock()
	errs := make([]error, len(sources))
	for i, s := range sources {
		errs[i] = s.Close()
	}
	self.alive.Wait()
	return helpers.FoldErrors(errs)
}

// Emit queues event for next Pump. Safe for concurrent use.
func (self *Dispatch) Emit(e Event) {
	self.mu.Lock()
	self.pending = append(self.pending, e)
	self.mu.Unlock()
}

// Pump dispatches queued events to handlers. First reader failure is returned by every Pump after it.
func (self *Dispatch) Pump() error {
	self.mu.Lock()
	events := self.pending
	self.pending = make([]Event, 0, cap(events))
	self.mu.Unlock()

	for _, e := range events {
		self.dispatching = e.At
		self.dispatch(e)
	}
	self.dispatching = 0
	if err, ok := self.readErr.Load(); ok {
		return err
	}
	return nil
}

func (self *Dispatch) OnKeyPress(h monitor.KeyHandler)       { self.onKey = h }
func (self *Dispatch) OnButtonPress(h monitor.ButtonHandler) { self.onButton = h }
func (self *Dispatch) SymbolString(code uint32) string       { return self.Keymap.Symbol(code) }
func (self *Dispatch) Cursor() (int, int)                    { return self.x, self.y }
func (self *Dispatch) Extent() (int, int)                    { return self.width, self.height }
func (self *Dispatch) SetCursorVisible(v bool) {
	if v != self.cursorVisible {
		self.Log.Debugf("input cursor visible=%t", v)
	}
	self.cursorVisible = v
}

func (self *Dispatch) dispatch(e Event) {
	switch e.Kind {
	case EventKey:
		if self.onKey == nil {
			self.Log.Debugf("input key not handled event=%#v", e)
			return
		}
		self.onKey(e.Code, e.Mods, e.Emulated)

	case EventButton:
		if self.onButton == nil {
			self.Log.Debugf("input button not handled event=%#v", e)
			return
		}
		self.onButton(self.x, self.y, e.Button, e.Mods)

	case EventMotion:
		self.x = clamp(self.x+e.DX, self.width)
		self.y = clamp(self.y+e.DY, self.height)

	default:
		panic("code error input.Event unknown kind")
	}
}

func clamp(v, extent int) int {
	if v < 0 {
		return 0
	}
	if extent > 0 && v >= extent {
		return extent - 1
	}
	return v
}

func (self *Dispatch) readSource(source Source) {
	defer self.alive.Done()
	tag := source.String()
	for self.alive.IsRunning() {
		event, err := source.Read()
		if err != nil {
			if !self.alive.IsRunning() {
				return
			}
			err = errors.Annotatef(err, "input source=%s", tag)
			self.Log.Error(err)
			self.readErr.StoreOnce(err)
			return
		}
		event.Source = tag
		self.Emit(event)
	}
}
