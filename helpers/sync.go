package helpers

import "sync"

// AtomicError keeps first stored error, later stores are ignored.
// Zero value is ready to use.
type AtomicError struct {
	mu  sync.Mutex
	err error
	set bool
}

func (self *AtomicError) Load() (error, bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.err, self.set
}

// StoreOnce returns previous state and true if error was already set.
func (self *AtomicError) StoreOnce(e error) (error, bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.set {
		return self.err, true
	}
	self.err, self.set = e, true
	return nil, false
}
