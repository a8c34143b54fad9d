package gridworld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gridroboman/core"
)

type foreignAction struct{}

func (foreignAction) Hash() string { return "foreign" }

func TestEnvironmentAdapter(t *testing.T) {
	t.Parallel()

	constructor, err := NewEnvironmentConstructor(Task{Kind: StackXOnY, X: Green, Y: Blue}, 11)
	require.NoError(t, err)

	a := constructor.NewEnvironment(0)
	b := constructor.NewEnvironment(0)
	c := constructor.NewEnvironment(1)

	sa, err := a.Reset(nil)
	require.NoError(t, err)
	sb, err := b.Reset(nil)
	require.NoError(t, err)
	sc, err := c.Reset(nil)
	require.NoError(t, err)
	assert.Equal(t, sa.Hash(), sb.Hash())
	assert.NotEqual(t, sa.(*State).Grid, sc.(*State).Grid)

	state := sa.(*State)
	legal := state.Mask.Legal()
	require.Len(t, state.Actions(), len(legal))
	for i, action := range state.Actions() {
		assert.Equal(t, legal[i], action)
	}

	next, feedback, err := a.Step(NoOp, &core.StepContext{})
	require.NoError(t, err)
	assert.Equal(t, sa.Hash(), next.Hash())
	assert.False(t, feedback.Done())
	assert.Equal(t, 1, next.(*State).Grid.Timer)

	_, _, err = a.Step(foreignAction{}, &core.StepContext{})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestEnvironmentConstructorRejectsBadTask(t *testing.T) {
	t.Parallel()

	_, err := NewEnvironmentConstructor(Task{Kind: StackXOnY, X: Green, Y: Green}, 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
