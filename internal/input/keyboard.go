package input

import (
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/log2"
)

// Keyboard records key presses. Force quit keys are always retrieved,
// whatever live filter caller asks for, and abort any operation that sees them.
type Keyboard struct {
	src       KeySource
	log       *log2.Log
	forceQuit Filter
	timebase  clock.Timebase
	buffer    []KeyPress
	poller    *Poller[KeyPress]
}

// compile-time interface compliance test
var _ Kind[KeyPress] = new(Keyboard)

func NewKeyboard(env Env, src KeySource, forceQuitKeys []string) (*Keyboard, error) {
	env.validate()
	self := &Keyboard{
		src:       src,
		log:       env.Log,
		forceQuit: Only(forceQuitKeys...),
		timebase:  timebaseOf(src, env.Clock),
		buffer:    make([]KeyPress, 0, 64),
	}
	self.poller = NewPoller[KeyPress](env, self,
		func(ps []KeyPress) error { return self.CheckForceQuit(Keys(ps)) },
		func() error { return self.CheckForceQuit(nil) },
		env.Recorder.LogPresses,
	)
	src.OnKeyPress(self.onKeyPress)
	if err := self.poller.Calibrate(); err != nil {
		return nil, err
	}
	return self, nil
}

func (self *Keyboard) Name() string            { return clock.KindKeypress }
func (self *Keyboard) Timebase() time.Duration { return self.timebase() }
func (self *Keyboard) ForceQuitKeys() []string { return self.forceQuit.Sorted() }
func (self *Keyboard) Poller() *Poller[KeyPress] {
	return self.poller
}

func (self *Keyboard) Clear() error {
	err := self.src.Pump()
	self.buffer = self.buffer[:0]
	return errors.Annotate(err, "keyboard pump")
}

func (self *Keyboard) Retrieve(live Filter) ([]KeyPress, error) {
	live = live.With(self.forceQuit.Sorted()...)
	if err := self.src.Pump(); err != nil {
		return nil, errors.Annotate(err, "keyboard pump")
	}
	out := make([]KeyPress, 0, len(self.buffer))
	for _, p := range self.buffer {
		if live.Allows(p.Key) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (self *Keyboard) ListenPresses() error { return self.poller.Listen() }

func (self *Keyboard) GetPresses(q Query) ([]KeyPress, error) { return self.poller.Snapshot(q) }

func (self *Keyboard) WaitOnePress(w Wait) (KeyPress, bool, error) { return self.poller.WaitOne(w) }

func (self *Keyboard) WaitForPresses(w Wait) ([]KeyPress, error) { return self.poller.WaitMany(w) }

// CheckForceQuit keys may be:
// - nil: pump and look at buffered force quit keys only
// - string, []string or []KeyPress: intersect with force quit set
// Other types are NotSupported.
func (self *Keyboard) CheckForceQuit(keys interface{}) error {
	var pressed []string
	switch x := keys.(type) {
	case nil:
		ps, err := self.Retrieve(Only())
		if err != nil {
			return errors.Annotate(err, "force quit check")
		}
		pressed = Keys(ps)
	case string:
		pressed = []string{x}
	case []string:
		pressed = x
	case []KeyPress:
		pressed = Keys(x)
	default:
		return errors.NotSupportedf("force quit check keys type=%T", keys)
	}
	if hit := self.forceQuit.Match(pressed); len(hit) != 0 {
		self.log.Errorf("force quit keys=%v", hit)
		return &ForceQuit{Keys: hit}
	}
	return nil
}

func (self *Keyboard) onKeyPress(code uint32, mods Modifiers, emulated bool) {
	at := self.timebase()
	var key string
	if emulated {
		key = strconv.FormatUint(uint64(code), 10)
	} else {
		key = DecodeSymbol(self.src.SymbolString(code))
	}
	self.log.Debugf("keypress key=%s code=%d mods=%x emulated=%t", key, code, mods, emulated)
	self.buffer = append(self.buffer, KeyPress{Key: key, Time: at})
}

// DecodeSymbol makes key identifier from toolkit symbol name:
// lower case, leading underscores and numeric pad prefix removed.
// "ESCAPE" -> "escape", "_1" -> "1", "NUM_5" -> "5".
func DecodeSymbol(symbol string) string {
	s := strings.ToLower(symbol)
	s = strings.TrimLeft(s, "_")
	return strings.TrimPrefix(s, "num_")
}
