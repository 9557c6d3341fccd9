package clock

import (
	"sort"
	"sync"
	"time"

	"github.com/juju/errors"
)

// Device kinds known to input monitors.
const (
	KindKeypress   = "keypress"
	KindMouseclick = "mouseclick"
)

// Registry maps device kind to its timebase and computes time correction,
// the offset which converts device-local time to master clock time.
// Registry is explicit dependency of every monitor, there is no global instance.
type Registry struct {
	master Clock
	mu     sync.Mutex
	bases  map[string]Timebase
}

func NewRegistry(master Clock) *Registry {
	return &Registry{
		master: master,
		bases:  make(map[string]Timebase, 4),
	}
}

func (self *Registry) Master() Clock { return self.master }

// Register replaces previous timebase of the same kind.
func (self *Registry) Register(kind string, tb Timebase) {
	if tb == nil {
		panic("code error clock.Registry.Register timebase=nil kind=" + kind)
	}
	self.mu.Lock()
	self.bases[kind] = tb
	self.mu.Unlock()
}

func (self *Registry) Kinds() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	kinds := make([]string, 0, len(self.bases))
	for k := range self.bases {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Correction samples master clock around the device timebase read
// and returns midpoint(master) - device.
func (self *Registry) Correction(kind string) (time.Duration, error) {
	self.mu.Lock()
	tb, ok := self.bases[kind]
	self.mu.Unlock()
	if !ok {
		return 0, errors.NotFoundf("timebase kind=%s", kind)
	}
	m0 := self.master.Now()
	local := tb()
	m1 := self.master.Now()
	return m0 + (m1-m0)/2 - local, nil
}
