package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-bot/serenity/pkg/core"
)

func pos(x, y int) core.Position { return core.NewPosition(x, y) }

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b core.Position
		want int
	}{
		{"same", pos(2, -1), pos(2, -1), 0},
		{"unit", core.Origin, pos(1, 0), 1},
		{"diagonal", core.Origin, pos(2, -1), 2},
		{"z dominant", core.Origin, pos(3, 3), 6},
		{"far", pos(-4, 1), pos(3, -2), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestDistanceMetricLaws(t *testing.T) {
	pts := Disk(core.Origin, 3)
	for _, a := range pts {
		assert.Zero(t, Distance(a, a))
		for _, b := range pts {
			assert.Equal(t, Distance(a, b), Distance(b, a))
			for _, c := range pts {
				assert.LessOrEqual(t, Distance(a, c), Distance(a, b)+Distance(b, c))
			}
		}
	}
}

func TestNeighbors(t *testing.T) {
	assert.Empty(t, Neighbors(core.Origin, 0))
	assert.Empty(t, Neighbors(core.Origin, -2))

	for r := 1; r <= 4; r++ {
		got := Neighbors(pos(1, 1), r)
		assert.Len(t, got, 3*r*(r+1), "radius %d", r)
		for _, p := range got {
			d := Distance(pos(1, 1), p)
			assert.True(t, d >= 1 && d <= r)
		}
	}

	// dx ascending, then dy ascending
	assert.Equal(t, []core.Position{
		pos(-1, 0), pos(-1, 1), pos(0, -1), pos(0, 1), pos(1, -1), pos(1, 0),
	}, Neighbors(core.Origin, 1))
}

func TestClampedNeighbors(t *testing.T) {
	got := ClampedNeighbors(pos(3, 0), 1, 3)
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.True(t, InBounds(p, 3))
	}
	assert.Len(t, got, 3)
}

func TestBoard(t *testing.T) {
	assert.Len(t, Board(14), 3*14*15+1)
	assert.Equal(t, []core.Position{core.Origin}, Board(0))
}

func TestDistanceToEdge(t *testing.T) {
	assert.Equal(t, 5, DistanceToEdge(core.Origin, 5))
	assert.Equal(t, 0, DistanceToEdge(pos(5, -5), 5))
	assert.Equal(t, -1, DistanceToEdge(pos(6, 0), 5))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		p    core.Position
		r    int
		want core.Position
	}{
		{"origin", core.Origin, 4, core.Origin},
		{"inside", pos(2, -1), 4, pos(2, -1)},
		{"on rim", pos(4, -4), 4, pos(4, -4)},
		{"x axis", pos(10, 0), 5, pos(5, 0)},
		{"z dominant", pos(3, 3), 4, pos(2, 2)},
		{"fractional", pos(1, -3), 2, pos(1, -2)},
		{"zero board", pos(3, 1), 0, core.Origin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.p, tt.r))
		})
	}
}

func TestClampProperties(t *testing.T) {
	for _, r := range []int{1, 2, 3, 5, 8} {
		for _, p := range Disk(core.Origin, 3*r) {
			c := Clamp(p, r)
			assert.True(t, InBounds(c, r), "clamp(%s, %d) = %s", p, r, c)
			assert.Equal(t, c, Clamp(c, r), "idempotence for %s", p)
			if InBounds(p, r) {
				assert.Equal(t, p, c)
			} else {
				assert.Equal(t, r, Distance(c, core.Origin), "off-board points land on the rim")
			}
		}
	}
}

func TestStepToward(t *testing.T) {
	assert.Equal(t, pos(2, 2), StepToward(pos(2, 2), pos(2, 2)))
	for _, p := range Neighbors(core.Origin, 4) {
		next := StepToward(p, core.Origin)
		assert.Equal(t, 1, Distance(p, next))
		assert.Equal(t, Distance(p, core.Origin)-1, Distance(next, core.Origin))
	}
}
