package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/pkg/core"
)

func TestAttackSpreadCardinality(t *testing.T) {
	targets := []core.Position{
		core.Origin, core.NewPosition(2, -1), core.NewPosition(7, 0), core.NewPosition(-3, -4),
	}
	for _, target := range targets {
		for n := 0; n <= 6; n++ {
			rng := NewRand(uint64(n + 1))
			got := AttackSpread(target, n, 7, rng)
			assert.Len(t, got, n, "target %s n %d", target, n)
			for _, p := range got {
				assert.True(t, hex.InBounds(p, 7))
			}
		}
	}
}

func TestAttackSpreadTriangleContainsTarget(t *testing.T) {
	target := core.NewPosition(1, 1)
	for seed := uint64(0); seed < 20; seed++ {
		got := AttackSpread(target, 3, 10, NewRand(seed))
		require.Len(t, got, 3)
		assert.Contains(t, got, target)
		for _, p := range got {
			assert.LessOrEqual(t, hex.Distance(p, target), 1)
		}
	}
}

func TestAttackSpreadFourAddsTarget(t *testing.T) {
	target := core.NewPosition(-2, 3)
	got := AttackSpread(target, 4, 10, NewRand(3))
	require.Len(t, got, 4)
	assert.Equal(t, target, got[3])
}

func TestAttackSpreadJitter(t *testing.T) {
	target := core.NewPosition(2, 2)
	for seed := uint64(0); seed < 20; seed++ {
		got := AttackSpread(target, 1, 10, NewRand(seed))
		require.Len(t, got, 1)
		assert.LessOrEqual(t, abs(got[0].X-target.X), 1)
		assert.LessOrEqual(t, abs(got[0].Y-target.Y), 1)
	}
}

func TestAttackSpreadDeterministic(t *testing.T) {
	a := AttackSpread(core.NewPosition(3, -1), 4, 14, NewRand(42))
	b := AttackSpread(core.NewPosition(3, -1), 4, 14, NewRand(42))
	assert.Equal(t, a, b)
}

func TestWedgeOrientation(t *testing.T) {
	tests := []struct {
		name   string
		target core.Position
		want   Orientation
	}{
		{"x and z tie", core.NewPosition(5, 0), Backslash},
		{"y and z tie", core.NewPosition(0, 5), Horizontal},
		{"y dominant", core.NewPosition(2, -4), Horizontal},
		{"z dominant", core.NewPosition(-3, -1), Slash},
		{"x dominant", core.NewPosition(-4, 1), Backslash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WedgeOrientation(tt.target, NewRand(1)))
		})
	}
}

func TestTwinStepsInFromRim(t *testing.T) {
	got := AttackSpread(core.NewPosition(4, 0), 2, 5, NewRand(1))
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Greater(t, hex.DistanceToEdge(p, 5), 0, "twin point %s left on the rim", p)
	}
}

func TestTwin(t *testing.T) {
	assert.Equal(t,
		[]core.Position{core.NewPosition(3, 1), core.NewPosition(-1, 1)},
		Twin(core.NewPosition(1, 1), Horizontal, 2))
	assert.Equal(t,
		[]core.Position{core.NewPosition(2, 0), core.NewPosition(0, 2)},
		Twin(core.NewPosition(1, 1), Slash, 1))
}

func TestScanSpread(t *testing.T) {
	target := core.NewPosition(1, -1)
	assert.Equal(t, []core.Position{target}, ScanSpread(target, 1, 10, NewRand(1)))
	assert.Empty(t, ScanSpread(target, 0, 10, NewRand(1)))

	for n := 2; n <= 7; n++ {
		got := ScanSpread(target, n, 10, NewRand(uint64(n)))
		require.Len(t, got, n)
		for _, p := range got {
			d := hex.Distance(p, target)
			assert.True(t, d == 0 || (d >= 2 && d <= 3), "scan point %s at distance %d", p, d)
		}
	}

	got := ScanSpread(target, 4, 10, NewRand(9))
	assert.Equal(t, target, got[3])
}

func TestScanSpreadClamped(t *testing.T) {
	got := ScanSpread(core.NewPosition(6, -6), 4, 6, NewRand(5))
	for _, p := range got {
		assert.True(t, hex.InBounds(p, 6))
	}
}
