// Package input captures key and button presses with timestamps on experiment master clock.
//
// Waits are busy-poll loops on caller goroutine: no sleep between polls, event source is
// pumped on every iteration. CPU is spent for the whole wait in exchange for timing precision.
// Monitors and Poller are not safe for concurrent use.
package input

import (
	"math"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/log2"
)

// Forever is MaxWait without limit.
const Forever time.Duration = math.MaxInt64

// Kind is capability set of one event kind, implemented by monitors.
type Kind[E Event[E]] interface {
	// Name is time correction registry key.
	Name() string
	Clear() error
	// Retrieve pumps event source and returns buffered events allowed by live.
	Retrieve(live Filter) ([]E, error)
	Timebase() time.Duration
}

type Query struct {
	Live      Filter
	Timestamp bool
	// RelativeTo is timestamp origin on master clock.
	// nil: listen start for snapshots, wait start for waits.
	RelativeTo *time.Duration
}

type Wait struct {
	Query
	MaxWait time.Duration
	MinWait time.Duration
}

// Origin helps to fill Query.RelativeTo.
func Origin(t time.Duration) *time.Duration { return &t }

// Poller implements listen/snapshot/wait protocol shared by all event kinds.
type Poller[E Event[E]] struct {
	kind     Kind[E]
	clock    clock.Clock
	registry *clock.Registry
	log      *log2.Log

	// screen checks retrieved events for force quit, on every poll cycle
	screen func([]E) error
	// settle is force quit check after settle window, before clear
	settle func() error
	record func([]E)

	correction  time.Duration
	listenStart time.Duration
	listening   bool
}

func NewPoller[E Event[E]](env Env, kind Kind[E], screen func([]E) error, settle func() error, record func([]E)) *Poller[E] {
	env.validate()
	env.Registry.Register(kind.Name(), kind.Timebase)
	return &Poller[E]{
		kind:     kind,
		clock:    env.Clock,
		registry: env.Registry,
		log:      env.Log,
		screen:   screen,
		settle:   settle,
		record:   record,
	}
}

func (self *Poller[E]) Correction() time.Duration { return self.correction }

// ListenStart is valid only if Listening.
func (self *Poller[E]) ListenStart() time.Duration { return self.listenStart }
func (self *Poller[E]) Listening() bool            { return self.listening }

func (self *Poller[E]) Calibrate() error {
	c, err := self.registry.Correction(self.kind.Name())
	if err != nil {
		return errors.Annotatef(err, "%s time correction", self.kind.Name())
	}
	self.correction = c
	return nil
}

// Listen starts fresh session: new time correction, listen start, empty buffer.
func (self *Poller[E]) Listen() error {
	if err := self.Calibrate(); err != nil {
		return err
	}
	self.listenStart = self.clock.Now()
	self.listening = true
	self.log.Debugf("%s listen start=%v correction=%v", self.kind.Name(), self.listenStart, self.correction)
	return errors.Annotatef(self.kind.Clear(), "%s listen", self.kind.Name())
}

// Snapshot returns current buffer contents allowed by q.Live.
func (self *Poller[E]) Snapshot(q Query) ([]E, error) {
	var origin time.Duration
	if q.Timestamp {
		if q.RelativeTo != nil {
			origin = *q.RelativeTo
		} else if self.listening {
			origin = self.listenStart
		} else {
			return nil, NotListeningf("%s timestamp relative to listen start", self.kind.Name())
		}
	}
	raw, err := self.kind.Retrieve(q.Live)
	if err != nil {
		return nil, errors.Annotatef(err, "%s snapshot", self.kind.Name())
	}
	return self.correct(raw, q.Timestamp, origin)
}

// WaitOne returns first event after settle window, ok=false on timeout.
func (self *Poller[E]) WaitOne(w Wait) (E, bool, error) {
	var zero E
	origin, start, err := self.initWait(w)
	if err != nil {
		return zero, false, err
	}
	var raw []E
	for len(raw) == 0 && self.clock.Now()-start < w.MaxWait {
		if raw, err = self.poll(w.Live); err != nil {
			return zero, false, err
		}
	}
	if len(raw) == 0 {
		self.log.Debugf("%s wait one timeout", self.kind.Name())
		return zero, false, nil
	}
	out, err := self.correct(raw, w.Timestamp, origin)
	if err != nil {
		return zero, false, err
	}
	return out[0], true, nil
}

// WaitMany polls until MaxWait and returns everything accumulated after settle window.
func (self *Poller[E]) WaitMany(w Wait) ([]E, error) {
	origin, start, err := self.initWait(w)
	if err != nil {
		return nil, err
	}
	raw := []E{}
	for self.clock.Now()-start < w.MaxWait {
		if raw, err = self.poll(w.Live); err != nil {
			return nil, err
		}
	}
	self.log.Debugf("%s wait many n=%d", self.kind.Name(), len(raw))
	return self.correct(raw, w.Timestamp, origin)
}

func (self *Poller[E]) initWait(w Wait) (origin, start time.Duration, err error) {
	if w.MaxWait == Forever && w.Live.IsEmpty() {
		return 0, 0, errors.NotValidf("%s wait max=forever with empty live filter, no events can ever satisfy this wait", self.kind.Name())
	}
	if w.MinWait > w.MaxWait {
		return 0, 0, errors.NotValidf("%s wait min=%v > max=%v", self.kind.Name(), w.MinWait, w.MaxWait)
	}
	start = self.clock.Now()
	origin = start
	if w.RelativeTo != nil {
		origin = *w.RelativeTo
	}
	// settle window: anything arriving now is dropped by Clear below
	for self.clock.Now()-start < w.MinWait {
	}
	if err = self.settle(); err != nil {
		return 0, 0, err
	}
	if err = self.kind.Clear(); err != nil {
		return 0, 0, errors.Annotatef(err, "%s wait clear", self.kind.Name())
	}
	return origin, start, nil
}

func (self *Poller[E]) poll(live Filter) ([]E, error) {
	raw, err := self.kind.Retrieve(live)
	if err != nil {
		return nil, errors.Annotatef(err, "%s poll", self.kind.Name())
	}
	if err = self.screen(raw); err != nil {
		if len(raw) != 0 {
			self.record(self.shift(raw))
		}
		return nil, err
	}
	return raw, nil
}

// shift applies time correction to a copy of raw.
func (self *Poller[E]) shift(raw []E) []E {
	out := make([]E, len(raw))
	for i, e := range raw {
		out[i] = e.At(e.Stamp() + self.correction)
	}
	return out
}

func (self *Poller[E]) correct(raw []E, timestamp bool, origin time.Duration) ([]E, error) {
	if len(raw) == 0 {
		return []E{}, nil
	}
	out := self.shift(raw)
	self.record(out)
	if err := self.screen(out); err != nil {
		return nil, err
	}
	for i, e := range out {
		if timestamp {
			out[i] = e.At(e.Stamp() - origin)
		} else {
			out[i] = e.At(0)
		}
	}
	return out, nil
}
