package input

import (
	"fmt"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/expinput/internal/clock"
	"github.com/temoto/expinput/log2"
)

func TestDecodeSymbol(t *testing.T) {
	t.Parallel()

	cases := []struct{ input, expect string }{
		{"ESCAPE", "escape"},
		{"A", "a"},
		{"_1", "1"},
		{"NUM_5", "5"},
		{"NUM_ENTER", "enter"},
		{"LCTRL", "lctrl"},
		{"__", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, DecodeSymbol(c.input), "input=%s", c.input)
	}
}

func TestKeyboardWaitOnePress(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 10*time.Microsecond)
	require.NoError(t, env.kb.ListenPresses())
	env.keys.Press(env.clock.Peek()+seconds(0.05), "B")
	env.keys.Press(env.clock.Peek()+seconds(0.1), "A")

	p, ok, err := env.kb.WaitOnePress(Wait{
		Query:   Query{Live: Only("a"), Timestamp: true},
		MaxWait: seconds(1),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", p.Key)
	assert.Greater(t, p.Time.Seconds(), 0.05)
	assert.Less(t, p.Time.Seconds(), 0.3)
	require.Len(t, env.rec.presses, 1)
	assert.Equal(t, "a", env.rec.presses[0][0].Key)
}

func TestKeyboardWaitOneTimeout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 50*time.Microsecond)
	env.keys.Press(seconds(0.5), "A")
	start := env.clock.Peek()
	p, ok, err := env.kb.WaitOnePress(Wait{
		Query:   Query{Live: Only("a"), Timestamp: true},
		MaxWait: seconds(0.2),
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, KeyPress{}, p)
	assert.GreaterOrEqual(t, int64(env.clock.Peek()-start), int64(seconds(0.2)))
	assert.Empty(t, env.rec.presses)
}

func TestKeyboardWaitForPressesEmpty(t *testing.T) {
	t.Parallel()

	cases := []struct{ min, max float64 }{
		{0, 0},
		{0, 0.1},
		{0.2, 0.5},
		{0.3, 0.3},
	}
	for _, c := range cases {
		c := c
		t.Run(fmt.Sprintf("min=%v/max=%v", c.min, c.max), func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, 100*time.Microsecond)
			start := env.clock.Peek()
			ps, err := env.kb.WaitForPresses(Wait{MinWait: seconds(c.min), MaxWait: seconds(c.max)})
			elapsed := env.clock.Peek() - start
			require.NoError(t, err)
			assert.NotNil(t, ps)
			assert.Len(t, ps, 0)
			assert.GreaterOrEqual(t, int64(elapsed), int64(seconds(c.min)))
			assert.LessOrEqual(t, int64(elapsed), int64(seconds(c.max)+time.Millisecond))
		})
	}
}

func TestKeyboardWaitForPressesSystemClock(t *testing.T) {
	t.Parallel()

	c := clock.NewSystem()
	env := Env{Clock: c, Registry: clock.NewRegistry(c), Log: log2.NewTest(t, log2.LError)}
	kb, err := NewKeyboard(env, NewMockKeySource(c), []string{"escape"})
	require.NoError(t, err)

	start := time.Now()
	ps, err := kb.WaitForPresses(Wait{MinWait: 10 * time.Millisecond, MaxWait: 30 * time.Millisecond})
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Len(t, ps, 0)
	assert.GreaterOrEqual(t, int64(elapsed), int64(30*time.Millisecond))
}

func TestKeyboardWaitForPressesSettle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 100*time.Microsecond)
	env.keys.Press(seconds(0.05), "A") // inside settle window, discarded
	env.keys.Press(seconds(0.15), "B")
	env.keys.Press(seconds(0.25), "C") // filtered
	env.keys.Press(seconds(0.35), "B")
	env.keys.Press(seconds(0.6), "B") // after max wait

	ps, err := env.kb.WaitForPresses(Wait{
		Query:   Query{Live: Only("a", "b"), Timestamp: true},
		MinWait: seconds(0.1),
		MaxWait: seconds(0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "b"}, Keys(ps))
	assert.InDelta(t, 0.15, ps[0].Time.Seconds(), 0.01)
	assert.InDelta(t, 0.35, ps[1].Time.Seconds(), 0.01)
	assert.True(t, ps[0].Time < ps[1].Time)
}

func TestKeyboardClearedOnListen(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0)
	env.keys.Press(Due, "A")
	env.keys.Emulate(Due, 30)
	ps, err := env.kb.GetPresses(Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "30"}, Keys(ps))

	env.keys.Press(Due, "B")
	require.NoError(t, env.kb.ListenPresses())
	ps, err = env.kb.GetPresses(Query{Timestamp: true})
	require.NoError(t, err)
	assert.Empty(t, ps)

	env.keys.Press(Due, "C")
	ps, err = env.kb.GetPresses(Query{})
	require.NoError(t, err)
	assert.Equal(t, []KeyPress{{Key: "c"}}, ps)
}

func TestKeyboardTimestampBeforeListen(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0)
	_, err := env.kb.GetPresses(Query{Timestamp: true})
	require.Error(t, err)
	assert.True(t, IsNotListening(err), "err=%v", err)

	// explicit origin does not need session
	_, err = env.kb.GetPresses(Query{Timestamp: true, RelativeTo: Origin(0)})
	assert.NoError(t, err)
	_, err = env.kb.GetPresses(Query{})
	assert.NoError(t, err)
}

func TestKeyboardRoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0)
	env.clock.Set(seconds(10))
	env.keys.Offset = seconds(5) // device clock is 5s behind
	require.NoError(t, env.kb.ListenPresses())
	require.Equal(t, seconds(5), env.kb.Poller().Correction())
	require.Equal(t, seconds(10), env.kb.Poller().ListenStart())

	env.clock.Advance(seconds(1.5))
	env.keys.Press(Due, "A") // local t0 = 11.5-5 = 6.5
	ps, err := env.kb.GetPresses(Query{Timestamp: true, RelativeTo: Origin(seconds(7))})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	// t0 + c - r = 6.5 + 5 - 7
	assert.Equal(t, seconds(4.5), ps[0].Time)
	// recorder gets corrected master clock time
	assert.Equal(t, seconds(11.5), env.rec.presses[0][0].Time)

	ps, err = env.kb.GetPresses(Query{Timestamp: true})
	require.NoError(t, err)
	assert.Equal(t, seconds(1.5), ps[0].Time)
}

func TestKeyboardCheckForceQuit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0)
	cases := []struct {
		name   string
		keys   interface{}
		check  func(error) bool
		expect []string
	}{
		{"string/hit", "escape", IsForceQuit, []string{"escape"}},
		{"string/miss", "x", nil, nil},
		{"list/hit", []string{"a", "q", "escape"}, IsForceQuit, []string{"q", "escape"}},
		{"list/miss", []string{"a", "b"}, nil, nil},
		{"presses", []KeyPress{{Key: "q"}}, IsForceQuit, []string{"q"}},
		{"type", 42, errors.IsNotSupported, nil},
		{"buffer/empty", nil, nil, nil},
	}
	for _, c := range cases {
		err := env.kb.CheckForceQuit(c.keys)
		if c.check == nil {
			assert.NoError(t, err, c.name)
			continue
		}
		require.Error(t, err, c.name)
		assert.True(t, c.check(err), "case=%s err=%v", c.name, err)
		if c.expect != nil {
			assert.Equal(t, c.expect, errors.Cause(err).(*ForceQuit).Keys, c.name)
		}
	}

	env.keys.Press(Due, "A")
	assert.NoError(t, env.kb.CheckForceQuit(nil))
	env.keys.Press(Due, "ESCAPE")
	err := env.kb.CheckForceQuit(nil)
	assert.True(t, IsForceQuit(err), "err=%v", err)
}

func TestKeyboardForceQuitDuringWait(t *testing.T) {
	t.Parallel()

	type waitFunc func(kb *Keyboard, w Wait) error
	one := func(kb *Keyboard, w Wait) error { _, _, err := kb.WaitOnePress(w); return err }
	many := func(kb *Keyboard, w Wait) error { _, err := kb.WaitForPresses(w); return err }
	cases := []struct {
		name string
		at   float64
		wait waitFunc
	}{
		{"one/settle", 0.05, one},
		{"one/poll", 0.4, one},
		{"many/settle", 0.05, many},
		{"many/poll", 0.4, many},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, 100*time.Microsecond)
			env.keys.Press(seconds(c.at), "ESCAPE")
			err := c.wait(env.kb, Wait{
				Query:   Query{Live: Only("a")},
				MinWait: seconds(0.2),
				MaxWait: seconds(1),
			})
			require.Error(t, err)
			assert.True(t, IsForceQuit(err), "err=%v", err)
			assert.Less(t, int64(env.clock.Peek()), int64(seconds(1)))
		})
	}
}

func TestKeyboardWaitConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Millisecond)
	cases := []struct {
		name string
		w    Wait
	}{
		{"forever-empty", Wait{Query: Query{Live: Only()}, MaxWait: Forever}},
		{"min>max", Wait{MinWait: seconds(2), MaxWait: seconds(1)}},
	}
	for _, c := range cases {
		before := env.clock.Peek()
		_, _, err := env.kb.WaitOnePress(c.w)
		require.Error(t, err, c.name)
		assert.True(t, errors.IsNotValid(err), "case=%s err=%v", c.name, err)
		_, err = env.kb.WaitForPresses(c.w)
		assert.True(t, errors.IsNotValid(err), "case=%s err=%v", c.name, err)
		// no waiting happened
		assert.Less(t, int64(env.clock.Peek()-before), int64(10*time.Millisecond), c.name)
	}
}

func TestKeyboardWaitOrigin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 100*time.Microsecond)
	env.clock.Set(seconds(3))
	env.keys.Press(seconds(3.2), "A")
	p, ok, err := env.kb.WaitOnePress(Wait{
		Query:   Query{Timestamp: true, RelativeTo: Origin(seconds(1))},
		MaxWait: seconds(1),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 2.2, p.Time.Seconds(), 0.005)

	p, ok, err = env.kb.WaitOnePress(Wait{MaxWait: seconds(0.1)})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, KeyPress{}, p)
}

func TestKeyboardPumpError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, time.Millisecond)
	env.keys.Err = errors.New("device gone")
	_, err := env.kb.GetPresses(Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device gone")
	assert.Contains(t, err.Error(), "keyboard pump")
}
