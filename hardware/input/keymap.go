package input

import (
	"fmt"
	"strings"
	"sync"
)

// Linux input-event-codes.h key codes to toolkit symbol names.
var linuxSymbols = map[uint32]string{
	1: "ESCAPE", 2: "_1", 3: "_2", 4: "_3", 5: "_4", 6: "_5", 7: "_6", 8: "_7", 9: "_8", 10: "_9", 11: "_0",
	12: "MINUS", 13: "EQUAL", 14: "BACKSPACE", 15: "TAB",
	16: "Q", 17: "W", 18: "E", 19: "R", 20: "T", 21: "Y", 22: "U", 23: "I", 24: "O", 25: "P",
	26: "BRACKETLEFT", 27: "BRACKETRIGHT", 28: "RETURN", 29: "LCTRL",
	30: "A", 31: "S", 32: "D", 33: "F", 34: "G", 35: "H", 36: "J", 37: "K", 38: "L",
	39: "SEMICOLON", 40: "APOSTROPHE", 41: "GRAVE", 42: "LSHIFT", 43: "BACKSLASH",
	44: "Z", 45: "X", 46: "C", 47: "V", 48: "B", 49: "N", 50: "M",
	51: "COMMA", 52: "PERIOD", 53: "SLASH", 54: "RSHIFT", 55: "NUM_MULTIPLY", 56: "LALT", 57: "SPACE", 58: "CAPSLOCK",
	59: "F1", 60: "F2", 61: "F3", 62: "F4", 63: "F5", 64: "F6", 65: "F7", 66: "F8", 67: "F9", 68: "F10",
	69: "NUMLOCK", 70: "SCROLLLOCK",
	71: "NUM_7", 72: "NUM_8", 73: "NUM_9", 74: "NUM_SUBTRACT",
	75: "NUM_4", 76: "NUM_5", 77: "NUM_6", 78: "NUM_ADD",
	79: "NUM_1", 80: "NUM_2", 81: "NUM_3", 82: "NUM_0", 83: "NUM_DECIMAL",
	87: "F11", 88: "F12", 96: "NUM_ENTER", 97: "RCTRL", 98: "NUM_DIVIDE", 100: "RALT",
	102: "HOME", 103: "UP", 104: "PAGEUP", 105: "LEFT", 106: "RIGHT", 107: "END", 108: "DOWN", 109: "PAGEDOWN",
	110: "INSERT", 111: "DELETE", 119: "PAUSE",
}

// Codes assigned by Keymap.Add start here, above any Linux key code.
const userCodeBase uint32 = 0x10000

const unknownSymbol = "USER_KEY"

// Keymap is safe for concurrent use.
type Keymap struct {
	mu      sync.RWMutex
	symbols map[uint32]string
	codes   map[string]uint32
	next    uint32
}

func NewKeymap() *Keymap {
	self := &Keymap{
		symbols: make(map[uint32]string, len(linuxSymbols)+8),
		codes:   make(map[string]uint32, len(linuxSymbols)+8),
		next:    userCodeBase,
	}
	for code, sym := range linuxSymbols {
		self.symbols[code] = sym
		self.codes[sym] = code
	}
	return self
}

// Symbol of unknown code is "USER_KEY", like toolkits name keys they can't map.
func (self *Keymap) Symbol(code uint32) string {
	self.mu.RLock()
	s, ok := self.symbols[code]
	self.mu.RUnlock()
	if !ok {
		return unknownSymbol
	}
	return s
}

// Code accepts symbol in any case.
func (self *Keymap) Code(symbol string) (uint32, bool) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	code, ok := self.codes[strings.ToUpper(symbol)]
	return code, ok
}

// Add returns code of existing symbol or assigns new one.
// Response box buttons get symbols this way.
func (self *Keymap) Add(symbol string) uint32 {
	symbol = strings.ToUpper(symbol)
	self.mu.Lock()
	defer self.mu.Unlock()
	if code, ok := self.codes[symbol]; ok {
		return code
	}
	code := self.next
	self.next++
	self.symbols[code] = symbol
	self.codes[symbol] = code
	return code
}

func (self *Keymap) String() string {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return fmt.Sprintf("keymap symbols=%d", len(self.symbols))
}
