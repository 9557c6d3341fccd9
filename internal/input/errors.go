package input

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// Error taxonomy:
// - invalid wait arguments: errors.NotValid, returned before any waiting
// - timestamp requested before listen: NotListening
// - force-quit key seen: *ForceQuit, fatal for the whole experiment run
// - malformed CheckForceQuit argument: errors.NotSupported

type notListening struct{ errors.Err }

func NotListeningf(format string, args ...interface{}) error {
	err := &notListening{errors.NewErr(format+" before listen", args...)}
	err.SetLocation(1)
	return err
}

func IsNotListening(err error) bool {
	_, ok := errors.Cause(err).(*notListening)
	return ok
}

// ForceQuit must propagate to the top of experiment run and terminate it.
// Never retry after it.
type ForceQuit struct {
	Keys []string
}

func (self *ForceQuit) Error() string {
	return fmt.Sprintf("force quit key pressed: %s", strings.Join(self.Keys, ","))
}

func IsForceQuit(err error) bool {
	_, ok := errors.Cause(err).(*ForceQuit)
	return ok
}
