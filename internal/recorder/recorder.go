// Package recorder persists and delivers corrected input events.
// Monitors call LogPresses/LogClicks inside busy wait loops,
// so every implementation here returns quickly and never fails the caller.
package recorder

//go:generate protoc --go_out=paths=source_relative:./ record.proto

import (
	"sync"

	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/log2"
)

// compile-time interface compliance test
var _ input.Recorder = new(Memory)
var _ input.Recorder = new(Log)
var _ input.Recorder = Multi{}

// Memory keeps everything logged, safe for concurrent readers.
type Memory struct {
	mu      sync.Mutex
	presses []input.KeyPress
	clicks  []input.Click
}

func (self *Memory) LogPresses(ps []input.KeyPress) {
	self.mu.Lock()
	self.presses = append(self.presses, ps...)
	self.mu.Unlock()
}

func (self *Memory) LogClicks(cs []input.Click) {
	self.mu.Lock()
	self.clicks = append(self.clicks, cs...)
	self.mu.Unlock()
}

func (self *Memory) Presses() []input.KeyPress {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]input.KeyPress(nil), self.presses...)
}

func (self *Memory) Clicks() []input.Click {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]input.Click(nil), self.clicks...)
}

func (self *Memory) Reset() {
	self.mu.Lock()
	self.presses, self.clicks = nil, nil
	self.mu.Unlock()
}

// Log writes events as info lines.
type Log struct{ L *log2.Log }

func (self *Log) LogPresses(ps []input.KeyPress) {
	for _, p := range ps {
		self.L.Infof("press key=%s t=%.6f", p.Key, p.Time.Seconds())
	}
}

func (self *Log) LogClicks(cs []input.Click) {
	for _, c := range cs {
		self.L.Infof("click button=%s x=%d y=%d t=%.6f", c.Button, c.X, c.Y, c.Time.Seconds())
	}
}

// Multi fans out to every recorder in order.
type Multi []input.Recorder

func (self Multi) LogPresses(ps []input.KeyPress) {
	for _, r := range self {
		r.LogPresses(ps)
	}
}

func (self Multi) LogClicks(cs []input.Click) {
	for _, r := range self {
		r.LogClicks(cs)
	}
}
