package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	var all Filter
	none := Only()
	ab := Only("a", "b")

	assert.True(t, all.Allows("x"))
	assert.False(t, all.IsEmpty())
	assert.False(t, none.Allows("x"))
	assert.True(t, none.IsEmpty())
	assert.True(t, ab.Allows("a"))
	assert.False(t, ab.Allows("c"))

	assert.Nil(t, all.With("escape"))
	withQuit := none.With("escape")
	assert.True(t, withQuit.Allows("escape"))
	assert.True(t, none.IsEmpty(), "With must not modify receiver")

	assert.Equal(t, []string{"b", "a", "b"}, ab.Match([]string{"b", "c", "a", "b"}))
	assert.Equal(t, []string{}, none.Match([]string{"a"}))
	assert.Equal(t, []string{"a", "b"}, ab.Sorted())
}
