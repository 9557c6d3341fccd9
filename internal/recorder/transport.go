package recorder

import "github.com/temoto/expinput/log2"

// Transporter contract:
// - Init fails only with invalid config, ignores network errors
// - Send returns true when receiver accepted payload, false means retry later
// - application may start without network available
type Transporter interface {
	Init(log *log2.Log, config Config) error
	Send(payload []byte) bool
	Close()
}
