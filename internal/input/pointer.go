package input

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/log2"
)

// QuitChecker is satisfied by *Keyboard.
type QuitChecker interface {
	CheckForceQuit(keys interface{}) error
}

// Pointer records mouse button presses.
// There are no force quit buttons, pointer waits check keyboard force quit keys instead.
type Pointer struct {
	src      ButtonSource
	log      *log2.Log
	quit     QuitChecker
	timebase clock.Timebase
	visible  bool
	buffer   []Click
	poller   *Poller[Click]
}

// compile-time interface compliance test
var _ Kind[Click] = new(Pointer)

func NewPointer(env Env, src ButtonSource, quit QuitChecker, visible bool) (*Pointer, error) {
	env.validate()
	if quit == nil {
		panic("code error input.NewPointer quit=nil")
	}
	self := &Pointer{
		src:      src,
		log:      env.Log,
		quit:     quit,
		timebase: timebaseOf(src, env.Clock),
		buffer:   make([]Click, 0, 16),
	}
	self.SetVisible(visible)
	checkQuit := func() error { return self.quit.CheckForceQuit(nil) }
	self.poller = NewPoller[Click](env, self,
		func([]Click) error { return checkQuit() },
		checkQuit,
		env.Recorder.LogClicks,
	)
	src.OnButtonPress(self.onButtonPress)
	if err := self.poller.Calibrate(); err != nil {
		return nil, err
	}
	return self, nil
}

func (self *Pointer) Name() string            { return clock.KindMouseclick }
func (self *Pointer) Timebase() time.Duration { return self.timebase() }
func (self *Pointer) Poller() *Poller[Click]  { return self.poller }

func (self *Pointer) SetVisible(visible bool) {
	self.src.SetCursorVisible(visible)
	self.visible = visible
}
func (self *Pointer) Visible() bool { return self.visible }

// Position is cursor position normalized to window extent, roughly [-1,1] per axis.
func (self *Pointer) Position() (x, y float64) {
	rx, ry := self.src.Cursor()
	w, h := self.src.Extent()
	return normalize(rx, w), normalize(ry, h)
}

func normalize(raw, extent int) float64 {
	half := float64(extent) / 2
	if half == 0 {
		return 0
	}
	return (float64(raw) - half) / half
}

func (self *Pointer) Clear() error {
	err := self.src.Pump()
	self.buffer = self.buffer[:0]
	return errors.Annotate(err, "pointer pump")
}

func (self *Pointer) Retrieve(live Filter) ([]Click, error) {
	if err := self.src.Pump(); err != nil {
		return nil, errors.Annotate(err, "pointer pump")
	}
	out := make([]Click, 0, len(self.buffer))
	for _, c := range self.buffer {
		if live.Allows(c.Button) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (self *Pointer) ListenClicks() error { return self.poller.Listen() }

func (self *Pointer) GetClicks(q Query) ([]Click, error) { return self.poller.Snapshot(q) }

func (self *Pointer) WaitOneClick(w Wait) (Click, bool, error) { return self.poller.WaitOne(w) }

func (self *Pointer) WaitForClicks(w Wait) ([]Click, error) { return self.poller.WaitMany(w) }

func (self *Pointer) onButtonPress(x, y int, button Button, mods Modifiers) {
	at := self.timebase()
	self.log.Debugf("click button=%s x=%d y=%d mods=%x", button, x, y, mods)
	self.buffer = append(self.buffer, Click{Button: button.String(), X: x, Y: y, Time: at})
}
