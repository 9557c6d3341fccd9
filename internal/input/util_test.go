package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/log2"
)

type captureRecorder struct {
	presses [][]KeyPress
	clicks  [][]Click
}

func (self *captureRecorder) LogPresses(ps []KeyPress) {
	self.presses = append(self.presses, append([]KeyPress(nil), ps...))
}
func (self *captureRecorder) LogClicks(cs []Click) {
	self.clicks = append(self.clicks, append([]Click(nil), cs...))
}

type tenv struct {
	Env
	clock *clock.Manual
	rec   *captureRecorder
	keys  *MockKeySource
	kb    *Keyboard
}

// step is how much master clock advances on every read
func newTestEnv(t testing.TB, step time.Duration) *tenv {
	c := clock.NewManual(step)
	rec := &captureRecorder{}
	env := &tenv{
		Env: Env{
			Clock:    c,
			Registry: clock.NewRegistry(c),
			Recorder: rec,
			Log:      log2.NewTest(t, log2.LDebug),
		},
		clock: c,
		rec:   rec,
		keys:  NewMockKeySource(c),
	}
	kb, err := NewKeyboard(env.Env, env.keys, []string{"escape", "q"})
	require.NoError(t, err)
	env.kb = kb
	return env
}

func seconds(f float64) time.Duration { return time.Duration(f * float64(time.Second)) }
