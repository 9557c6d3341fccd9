package input

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/expinput/helpers"
	gpio "github.com/temoto/gpio-cdev-go"
)

const gpioConsumer = "expinput"

// Edge wait timeout, bounds Close latency.
const gpioPollTimeout = 200 * time.Millisecond

// GpioButtonSource is one response box button on GPIO line.
// Press is rising edge of logical value, so active low wiring needs ActiveLow.
type GpioButtonSource struct {
	tag    string
	ev     gpio.Eventer
	code   uint32
	closed uint32
}

// compile-time interface compliance test
var _ Source = new(GpioButtonSource)

func NewGpioButtonSource(chip gpio.Chiper, line uint32, activeLow bool, code uint32) (*GpioButtonSource, error) {
	var flag gpio.RequestFlag
	if activeLow {
		flag = gpio.GPIOHANDLE_REQUEST_ACTIVE_LOW
	}
	ev, err := chip.GetLineEvent(line, flag, gpio.GPIOEVENT_REQUEST_RISING_EDGE, gpioConsumer)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio line=%d GetLineEvent", line)
	}
	return &GpioButtonSource{
		tag:  fmt.Sprintf("gpio:%d", line),
		ev:   ev,
		code: code,
	}, nil
}

func (self *GpioButtonSource) String() string { return self.tag }

func (self *GpioButtonSource) Close() error {
	if atomic.AddUint32(&self.closed, 1) == 1 {
		return self.ev.Close()
	}
	return nil
}

func (self *GpioButtonSource) Read() (Event, error) {
	for atomic.LoadUint32(&self.closed) == 0 {
		e, err := self.ev.Wait(gpioPollTimeout)
		if gpio.IsTimeout(err) || errors.IsTimeout(err) {
			continue
		}
		if err != nil {
			return Event{}, err
		}
		if e.ID != gpio.GPIOEVENT_EVENT_RISING_EDGE {
			continue
		}
		return Event{Kind: EventKey, Code: self.code}, nil
	}
	return Event{}, gpio.ErrClosed
}

// ResponseBox owns GPIO chip and its button sources.
type ResponseBox struct {
	chip    gpio.Chiper
	Sources []Source
}

// OpenResponseBox buttons maps symbol name to line offset, symbols are added to keymap.
func OpenResponseBox(chip gpio.Chiper, keymap *Keymap, activeLow bool, buttons map[string]uint32) (*ResponseBox, error) {
	names := make([]string, 0, len(buttons))
	for name := range buttons {
		names = append(names, name)
	}
	sort.Strings(names)

	self := &ResponseBox{chip: chip, Sources: make([]Source, 0, len(buttons))}
	for _, name := range names {
		line := buttons[name]
		src, err := NewGpioButtonSource(chip, line, activeLow, keymap.Add(name))
		if err != nil {
			_ = self.Close()
			return nil, errors.Annotatef(err, "response box button=%s", name)
		}
		self.Sources = append(self.Sources, src)
	}
	return self, nil
}

func (self *ResponseBox) Close() error {
	errs := make([]error, 0, len(self.Sources)+1)
	for _, s := range self.Sources {
		errs = append(errs, s.Close())
	}
	errs = append(errs, self.chip.Close())
	return helpers.FoldErrors(errs)
}
