package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/internal/recorder"
	"github.com/temoto/expinput/log2"
	"github.com/temoto/spq"
)

// TestClockStep is how much test master clock advances on every read.
const TestClockStep = time.Millisecond

// NewTestContext uses manual master clock as device timebase, in-memory recorder queue and stub transport.
// Device sources must be disabled in confString, feed events with g.Hardware.Input.Emit.
func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log)
	g.Clock = clock.NewManual(TestClockStep)
	// injected events are stamped at dispatch, keep them on master clock
	g.Hardware.Timebase = g.Clock.Now
	g.transport = &TransportStub{}
	cfg := MustReadConfig(log, fs, "test-inline")
	if cfg.Record.Enabled && cfg.Record.PersistPath == "" {
		cfg.Record.PersistPath = spq.OnlyForTesting
	}
	if err := g.Init(ctx, cfg); err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	t.Cleanup(func() {
		if err := g.Close(); err != nil {
			t.Error(err)
		}
	})
	return ctx, g
}

// TransportStub accepts and keeps every payload.
type TransportStub struct {
	mu       sync.Mutex
	payloads [][]byte
}

// compile-time interface compliance test
var _ recorder.Transporter = new(TransportStub)

func (self *TransportStub) Init(*log2.Log, recorder.Config) error { return nil }
func (self *TransportStub) Close()                                {}
func (self *TransportStub) Send(payload []byte) bool {
	self.mu.Lock()
	self.payloads = append(self.payloads, append([]byte(nil), payload...))
	self.mu.Unlock()
	return true
}

func (self *TransportStub) Payloads() [][]byte {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([][]byte(nil), self.payloads...)
}
