package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPointer(t testing.TB, env *tenv) (*Pointer, *MockButtonSource) {
	src := NewMockButtonSource(env.clock, 1920, 1080)
	p, err := NewPointer(env.Env, src, env.kb, false)
	require.NoError(t, err)
	return p, src
}

func TestPointerPosition(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0)
	p, src := newTestPointer(t, env)
	assert.False(t, p.Visible())
	assert.False(t, src.CursorVisible)
	p.SetVisible(true)
	assert.True(t, p.Visible())
	assert.True(t, src.CursorVisible)

	cases := []struct {
		x, y   int
		ex, ey float64
	}{
		{960, 540, 0, 0},
		{0, 0, -1, -1},
		{1920, 1080, 1, 1},
		{1440, 270, 0.5, -0.5},
	}
	for _, c := range cases {
		src.X, src.Y = c.x, c.y
		x, y := p.Position()
		assert.InDelta(t, c.ex, x, 1e-9)
		assert.InDelta(t, c.ey, y, 1e-9)
	}

	src.Width, src.Height = 0, 0
	x, y := p.Position()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestPointerGetClicks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0)
	p, src := newTestPointer(t, env)
	_, err := p.GetClicks(Query{Timestamp: true})
	assert.True(t, IsNotListening(err), "err=%v", err)

	require.NoError(t, p.ListenClicks())
	env.clock.Advance(seconds(0.25))
	src.Click(Due, 10, 20, ButtonLeft)
	src.Click(Due, 30, 40, ButtonRight)
	src.Click(Due, 50, 60, Button(8))

	cs, err := p.GetClicks(Query{Live: Only("left", "button8"), Timestamp: true})
	require.NoError(t, err)
	assert.Equal(t, []Click{
		{Button: "left", X: 10, Y: 20, Time: seconds(0.25)},
		{Button: "button8", X: 50, Y: 60, Time: seconds(0.25)},
	}, cs)
	require.Len(t, env.rec.clicks, 1)

	// no force quit augmentation for pointer filter
	cs, err = p.GetClicks(Query{Live: Only()})
	require.NoError(t, err)
	assert.Empty(t, cs)

	cs, err = p.GetClicks(Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right", "button8"}, Buttons(cs))
	assert.Equal(t, 30, cs[1].X)
	assert.Equal(t, 40, cs[1].Y)
	assert.Equal(t, time.Duration(0), cs[1].Time)
}

func TestPointerWaitOneClick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 10*time.Microsecond)
	p, src := newTestPointer(t, env)
	src.Click(seconds(0.05), 1, 1, ButtonRight) // settle window
	src.Click(seconds(0.2), 2, 2, ButtonRight)
	src.Click(seconds(0.3), 3, 3, ButtonLeft)

	c, ok, err := p.WaitOneClick(Wait{
		Query:   Query{Live: Only("left"), Timestamp: true},
		MinWait: seconds(0.1),
		MaxWait: seconds(1),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "left", c.Button)
	assert.Equal(t, 3, c.X)
	assert.InDelta(t, 0.3, c.Time.Seconds(), 0.005)
	assert.Equal(t, 3, src.X)
}

func TestPointerWaitForClicks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 100*time.Microsecond)
	p, src := newTestPointer(t, env)
	src.Click(seconds(0.1), 1, 1, ButtonLeft)
	src.Click(seconds(0.2), 2, 2, ButtonMiddle)
	cs, err := p.WaitForClicks(Wait{MaxWait: seconds(0.3)})
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "middle"}, Buttons(cs))

	_, err = p.WaitForClicks(Wait{Query: Query{Live: Only()}, MaxWait: Forever})
	assert.Error(t, err)
}

func TestPointerForceQuitFromKeyboard(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		at   float64
	}{
		{"settle", 0.05},
		{"poll", 0.3},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, 100*time.Microsecond)
			p, _ := newTestPointer(t, env)
			env.keys.Press(seconds(c.at), "Q")
			_, _, err := p.WaitOneClick(Wait{MinWait: seconds(0.1), MaxWait: Forever})
			require.Error(t, err)
			assert.True(t, IsForceQuit(err), "err=%v", err)
			assert.Less(t, int64(env.clock.Peek()), int64(seconds(1)))
		})
	}
}
