package gridworld

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIDs(t *testing.T) {
	t.Parallel()

	ids := Tasks()
	assert.Len(t, ids, 4*NumObjects+4*NumObjects*(NumObjects-1))
	assert.True(t, sort.StringsAreSorted(ids))
	for _, id := range ids {
		task, err := Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, id, ID(task))
	}
}

func TestLookupMapsEachIDToItsOwnPredicate(t *testing.T) {
	t.Parallel()

	tests := map[string]Task{
		"Gridroboman-LiftRed-v0":              {Kind: LiftX, X: Red, Y: NoObject},
		"Gridroboman-TouchBlue-v0":            {Kind: TouchX, X: Blue, Y: NoObject},
		"Gridroboman-MoveGreenToCenter-v0":    {Kind: MoveXToCenter, X: Green, Y: NoObject},
		"Gridroboman-MoveRedToCorner-v0":      {Kind: MoveXToCorner, X: Red, Y: NoObject},
		"Gridroboman-TouchRedWithBlue-v0":     {Kind: TouchXWithY, X: Red, Y: Blue},
		"Gridroboman-MoveBlueCloseToGreen-v0": {Kind: MoveXCloseToY, X: Blue, Y: Green},
		"Gridroboman-MoveGreenFarFromRed-v0":  {Kind: MoveXFarFromY, X: Green, Y: Red},
		"Gridroboman-StackRedOnGreen-v0":      {Kind: StackXOnY, X: Red, Y: Green},
	}
	for id, want := range tests {
		got, err := Lookup(id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}

	_, err := Lookup("Gridroboman-StackRedOnRed-v0")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestLookupWith(t *testing.T) {
	t.Parallel()

	task, err := LookupWith("Gridroboman-StackXOnY-v0", "blue", "0")
	require.NoError(t, err)
	assert.Equal(t, Task{Kind: StackXOnY, X: Blue, Y: Red}, task)

	task, err = LookupWith(BaseID(LiftX), "Green", "")
	require.NoError(t, err)
	assert.Equal(t, Task{Kind: LiftX, X: Green, Y: NoObject}, task)

	_, err = LookupWith("Gridroboman-StackXOnY-v0", "red", "red")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = LookupWith("Gridroboman-StackXOnY-v0", "red", "")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = LookupWith("Gridroboman-StackXOnY-v0", "purple", "red")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = LookupWith("Gridroboman-Juggle-v0", "red", "green")
	assert.ErrorIs(t, err, ErrUnknownTask)

	task, err = Resolve("Gridroboman-TouchXWithY-v0", "red", "green")
	require.NoError(t, err)
	assert.Equal(t, Task{Kind: TouchXWithY, X: Red, Y: Green}, task)
}
