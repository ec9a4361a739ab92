package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator(t *testing.T) {
	c := NewCoordinator()
	first := c.Begin(pdfSelection("a.pdf", 1))
	assert.True(t, c.IsCurrent(first))
	assert.Equal(t, "a.pdf", first.FileName)
	assert.NotEmpty(t, first.ID)

	second := c.Begin(pdfSelection("b.pdf", 2))
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, c.IsCurrent(first))
	assert.True(t, c.IsCurrent(second))

	ran := false
	applied, err := c.Commit(first, func() error { ran = true; return nil })
	require.NoError(t, err)
	assert.False(t, applied)
	assert.False(t, ran)

	applied, err = c.Commit(second, func() error { ran = true; return errBoom })
	assert.True(t, applied)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, ran)

	applied, err = c.Commit(second, nil)
	assert.True(t, applied)
	assert.NoError(t, err)
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateRejected, StateMerged, StateTerminalError, StateSuperseded} {
		assert.True(t, s.Terminal(), s)
	}
	for _, s := range []State{StateIdle, StateSubmitting, StateFallbackOffered, StateInvoking} {
		assert.False(t, s.Terminal(), s)
	}
}
