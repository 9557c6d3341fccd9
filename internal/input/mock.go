package input

import (
	"math"
	"sort"
	"time"

	"github.com/temoto/expinput/internal/clock"
)

// Due is scheduled time which any Pump considers past.
const Due time.Duration = math.MinInt64

type mockPending struct {
	at       time.Duration
	code     uint32
	emulated bool
	x, y     int
	button   Button
}

type mockQueue struct {
	clock   clock.Clock
	pending []mockPending
	Pumps   int
	// Err is returned by next Pump, then reset.
	Err error
}

func (self *mockQueue) schedule(p mockPending) {
	self.pending = append(self.pending, p)
	sort.SliceStable(self.pending, func(i, j int) bool { return self.pending[i].at < self.pending[j].at })
}

func (self *mockQueue) due() ([]mockPending, error) {
	self.Pumps++
	if err := self.Err; err != nil {
		self.Err = nil
		return nil, err
	}
	now := self.clock.Now()
	n := 0
	for n < len(self.pending) && self.pending[n].at <= now {
		n++
	}
	due := self.pending[:n:n]
	self.pending = self.pending[n:]
	return due, nil
}

// MockKeySource delivers scheduled presses when master clock passes their time.
// Offset shifts device timebase back from master clock: local = master - Offset.
type MockKeySource struct {
	mockQueue
	Offset  time.Duration
	handler KeyHandler
	symbols map[uint32]string
	codes   map[string]uint32
}

// compile-time interface compliance test
var _ KeySource = new(MockKeySource)
var _ Timebaser = new(MockKeySource)

func NewMockKeySource(c clock.Clock) *MockKeySource {
	return &MockKeySource{
		mockQueue: mockQueue{clock: c},
		symbols:   make(map[uint32]string),
		codes:     make(map[string]uint32),
	}
}

func (self *MockKeySource) OnKeyPress(h KeyHandler) { self.handler = h }
func (self *MockKeySource) Timebase() time.Duration { return self.clock.Now() - self.Offset }

func (self *MockKeySource) SymbolString(code uint32) string {
	if s, ok := self.symbols[code]; ok {
		return s
	}
	return "USER_KEY"
}

// Press schedules non-emulated press of toolkit symbol, e.g. "A", "ESCAPE", "NUM_1".
func (self *MockKeySource) Press(at time.Duration, symbol string) {
	code, ok := self.codes[symbol]
	if !ok {
		code = uint32(0x1000 + len(self.codes))
		self.codes[symbol] = code
		self.symbols[code] = symbol
	}
	self.schedule(mockPending{at: at, code: code})
}

func (self *MockKeySource) Emulate(at time.Duration, code uint32) {
	self.schedule(mockPending{at: at, code: code, emulated: true})
}

func (self *MockKeySource) Pump() error {
	due, err := self.due()
	if err != nil {
		return err
	}
	for _, p := range due {
		if self.handler != nil {
			self.handler(p.code, 0, p.emulated)
		}
	}
	return nil
}

// MockButtonSource is pointer windowing collaborator stub.
type MockButtonSource struct {
	mockQueue
	Width, Height int
	X, Y          int
	CursorVisible bool
	handler       ButtonHandler
}

// compile-time interface compliance test
var _ ButtonSource = new(MockButtonSource)

func NewMockButtonSource(c clock.Clock, width, height int) *MockButtonSource {
	return &MockButtonSource{
		mockQueue: mockQueue{clock: c},
		Width:     width,
		Height:    height,
	}
}

func (self *MockButtonSource) OnButtonPress(h ButtonHandler) { self.handler = h }
func (self *MockButtonSource) SetCursorVisible(v bool)       { self.CursorVisible = v }
func (self *MockButtonSource) Cursor() (int, int)            { return self.X, self.Y }
func (self *MockButtonSource) Extent() (int, int)            { return self.Width, self.Height }
func (self *MockButtonSource) Click(at time.Duration, x, y int, b Button) {
	self.schedule(mockPending{at: at, x: x, y: y, button: b})
}

func (self *MockButtonSource) Pump() error {
	due, err := self.due()
	if err != nil {
		return err
	}
	for _, p := range due {
		self.X, self.Y = p.x, p.y
		if self.handler != nil {
			self.handler(p.x, p.y, p.button, 0)
		}
	}
	return nil
}
