package input

import (
	"io"
	"os"
	"time"

	monitor "github.com/temoto/expinput/internal/input"
	"github.com/temoto/inputevent-go"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const (
	evKey uint16 = 0x01
	evRel uint16 = 0x02

	relX uint16 = 0x00
	relY uint16 = 0x01

	btnLeft   uint16 = 0x110
	btnRight  uint16 = 0x111
	btnMiddle uint16 = 0x112

	keyLeftCtrl   uint16 = 29
	keyLeftShift  uint16 = 42
	keyRightShift uint16 = 54
	keyLeftAlt    uint16 = 56
	keyRightCtrl  uint16 = 97
	keyRightAlt   uint16 = 100
)

// DevInputEventSource reads keyboard or mouse evdev device.
// Only key down counts as press, autorepeat is ignored.
type DevInputEventSource struct {
	f    io.ReadCloser
	mods monitor.Modifiers
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func NewDevInputEventSource(device string) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return NewDevInputEventReader(f), nil
}

func NewDevInputEventReader(r io.ReadCloser) *DevInputEventSource {
	return &DevInputEventSource{f: r}
}

func (self *DevInputEventSource) Close() error { return self.f.Close() }

func (self *DevInputEventSource) Read() (Event, error) {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return Event{}, err
		}
		if e, ok := self.translate(ie); ok {
			e.At = time.Duration(ie.Time.Nano())
			return e, nil
		}
	}
}

func (self *DevInputEventSource) translate(ie inputevent.InputEvent) (Event, bool) {
	switch ie.Type {
	case evKey:
		down := ie.Value == int32(inputevent.KeyStateDown)
		up := ie.Value == int32(inputevent.KeyStateUp)
		if m := modifierOf(ie.Code); m != 0 {
			if down {
				self.mods |= m
			} else if up {
				self.mods &^= m
			}
		}
		if !down {
			return Event{}, false
		}
		if b := buttonOf(ie.Code); b != 0 {
			return Event{Kind: EventButton, Button: b, Mods: self.mods}, true
		}
		return Event{Kind: EventKey, Code: uint32(ie.Code), Mods: self.mods}, true

	case evRel:
		switch ie.Code {
		case relX:
			return Event{Kind: EventMotion, DX: int(ie.Value)}, true
		case relY:
			return Event{Kind: EventMotion, DY: int(ie.Value)}, true
		}
	}
	return Event{}, false
}

func modifierOf(code uint16) monitor.Modifiers {
	switch code {
	case keyLeftShift, keyRightShift:
		return monitor.ModShift
	case keyLeftCtrl, keyRightCtrl:
		return monitor.ModCtrl
	case keyLeftAlt, keyRightAlt:
		return monitor.ModAlt
	}
	return 0
}

func buttonOf(code uint16) monitor.Button {
	switch code {
	case btnLeft:
		return monitor.ButtonLeft
	case btnRight:
		return monitor.ButtonRight
	case btnMiddle:
		return monitor.ButtonMiddle
	}
	return 0
}
