package subcmd

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/expinput/internal/state"
)

func TestParse(t *testing.T) {
	t.Parallel()
	noop := func(context.Context, *state.Config) error { return nil }
	mods := []Mod{{Name: "record", Main: noop}, {Name: "console", Usage: "interactive", Main: noop}}

	m, err := Parse("console", mods)
	require.NoError(t, err)
	assert.Equal(t, "console", m.Name)

	_, err = Parse("", mods)
	assert.True(t, errors.IsNotValid(err))
	_, err = Parse("nope", mods)
	assert.True(t, errors.IsNotFound(err))

	assert.Contains(t, Usage(mods), "console    interactive")
	assert.Panics(t, func() { _, _ = Parse("x", []Mod{{Main: noop}}) })
}
