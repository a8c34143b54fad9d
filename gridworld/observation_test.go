package gridworld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObservationLayout(t *testing.T) {
	t.Parallel()

	g := layout(Cell{2, 5}, Cell{0, 1}, Cell{4, 4}, Cell{6, 3})
	obs := g.Observation()
	want := Observation{2, 5, 0, 1, 0, 4, 4, 0, 6, 3, 0}
	assert.Equal(t, want, obs)
}

func TestStatusPrecedence(t *testing.T) {
	t.Parallel()

	g := layout(Cell{1, 1}, Cell{1, 1}, Cell{1, 1}, Cell{1, 1})
	// blue on green on red
	g.Objects[Red].Above = Green
	g.Objects[Green].Below, g.Objects[Green].Above = Red, Blue
	g.Objects[Blue].Below = Green
	assert.NoError(t, g.Validate())

	assert.Equal(t, float32(-1), g.Status(Red))
	assert.Equal(t, float32(1), g.Status(Green), "resting on red wins over being covered")
	assert.Equal(t, float32(1), g.Status(Blue))
}

func TestActionMaskPolarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		grid  Grid
		mask  ActionMask
		legal []Action
	}{
		{
			name:  "top left corner empty handed",
			grid:  layout(Cell{0, 0}, Cell{3, 3}, Cell{4, 4}, Cell{5, 5}),
			mask:  ActionMask{0, 1, 0, 1, 0, 1, 1},
			legal: []Action{NoOp, Down, Right},
		},
		{
			name:  "standing on an object",
			grid:  layout(Cell{3, 3}, Cell{3, 3}, Cell{4, 4}, Cell{5, 5}),
			mask:  ActionMask{0, 0, 0, 0, 0, 0, 1},
			legal: []Action{NoOp, Up, Down, Left, Right, PickUp},
		},
		{
			name: "bottom right corner holding",
			grid: func() Grid {
				g := layout(Cell{6, 6}, Cell{6, 6}, Cell{4, 4}, Cell{5, 5})
				g.Lifted = Red
				return g
			}(),
			mask:  ActionMask{0, 0, 1, 0, 1, 1, 0},
			legal: []Action{NoOp, Up, Left, Drop},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NoError(t, tt.grid.Validate())
			mask := tt.grid.ActionMask()
			assert.Equal(t, tt.mask, mask)
			assert.Equal(t, tt.legal, mask.Legal())
			assert.False(t, mask.Blocked(NoOp))
		})
	}
}

func TestGridString(t *testing.T) {
	t.Parallel()

	g := layout(Cell{0, 0}, Cell{1, 0}, Cell{6, 6}, Cell{0, 0})
	g.Lifted = Blue
	lines := g.String()
	assert.Contains(t, lines, "[*][R][ ][ ][ ][ ][ ]\n")
	assert.Contains(t, lines, "[ ][ ][ ][ ][ ][ ][G]\n")
	assert.Contains(t, lines, "holding blue\n")
}
