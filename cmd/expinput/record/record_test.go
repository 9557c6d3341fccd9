package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	hwinput "github.com/temoto/expinput/hardware/input"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/internal/state"
)

func TestLoopTimeout(t *testing.T) {
	t.Parallel()
	_, g := state.NewTestContext(t, `input { default_wait { max_sec = 0.05 } }`)
	require.NoError(t, Loop(g, 3))
	assert.True(t, g.Keyboard.Poller().Listening())
}

func TestLoopForceQuit(t *testing.T) {
	t.Parallel()
	_, g := state.NewTestContext(t, `record { enable = true }`)
	go func() {
		time.Sleep(10 * time.Millisecond)
		g.Hardware.Input.Emit(hwinput.Event{Kind: hwinput.EventKey, Code: 30})
		time.Sleep(10 * time.Millisecond)
		g.Hardware.Input.Emit(hwinput.Event{Kind: hwinput.EventKey, Code: 1})
	}()
	err := Loop(g, 0)
	require.Error(t, err)
	assert.True(t, input.IsForceQuit(err), "err=%v", err)
	assert.Contains(t, err.Error(), "trial=2")
}

func TestLoopClicksPerTrial(t *testing.T) {
	t.Parallel()
	_, g := state.NewTestContext(t, `record { enable = true }`)
	keyA := hwinput.Event{Kind: hwinput.EventKey, Code: 30}
	go func() {
		time.Sleep(10 * time.Millisecond)
		g.Hardware.Input.Emit(hwinput.Event{Kind: hwinput.EventButton, Button: input.ButtonRight})
		g.Hardware.Input.Emit(keyA)
		for i := 0; i < 2; i++ {
			time.Sleep(10 * time.Millisecond)
			g.Hardware.Input.Emit(keyA)
		}
	}()
	require.NoError(t, Loop(g, 3))
	// 3 trials with one press each, the click belongs to first trial only
	assert.Equal(t, uint32(4), g.RecorderStat().Pushed)
	cs, err := g.Pointer.GetClicks(input.Query{})
	require.NoError(t, err)
	assert.Len(t, cs, 0)
}
