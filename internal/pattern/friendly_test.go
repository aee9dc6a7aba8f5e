package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/pkg/core"
)

func TestAvoidFriendlyFire(t *testing.T) {
	target := core.NewPosition(3, 0)
	bots := []core.Bot{
		{ID: 1, Alive: true, Pos: core.Origin},
		{ID: 2, Alive: true, Pos: core.NewPosition(3, 1)},
		{ID: 3, Alive: false, Pos: core.NewPosition(2, 0)},
	}

	t.Run("moves off a teammate", func(t *testing.T) {
		got := AvoidFriendlyFire(target, target, 1, bots, 1, 10)
		assert.Equal(t, core.NewPosition(2, 0), got)
		assert.Greater(t, hex.Distance(got, bots[1].Pos), 1)
	})

	t.Run("shooter and dead bots ignored", func(t *testing.T) {
		p := core.NewPosition(1, 0)
		assert.Equal(t, p, AvoidFriendlyFire(p, p, 1, bots[:1], 1, 10))
		assert.Equal(t, core.NewPosition(2, -1), AvoidFriendlyFire(core.NewPosition(2, -1), target, 1, []core.Bot{bots[0], bots[2]}, 1, 10))
	})

	t.Run("keeps p when nothing is safe", func(t *testing.T) {
		crowd := []core.Bot{{ID: 1, Alive: true, Pos: core.Origin}}
		for i, n := range hex.Neighbors(core.Origin, 3) {
			crowd = append(crowd, core.Bot{ID: 10 + i, Alive: true, Pos: n})
		}
		p := core.NewPosition(1, 0)
		assert.Equal(t, p, AvoidFriendlyFire(p, core.Origin, 1, crowd, 1, 3))
	})
}

func TestAttackSpreadFriendlySafe(t *testing.T) {
	bots := []core.Bot{
		{ID: 1, Alive: true, Pos: core.NewPosition(-6, 0)},
		{ID: 2, Alive: true, Pos: core.NewPosition(1, 1)},
		{ID: 3, Alive: true, Pos: core.NewPosition(6, -3)},
	}
	target := core.Origin
	for n := 1; n <= 3; n++ {
		spread := AttackSpread(target, n, 10, NewRand(uint64(n)))
		for i, p := range spread {
			shooter := bots[i].ID
			p = AvoidFriendlyFire(p, target, shooter, bots, 1, 10)
			for _, b := range bots {
				if b.ID == shooter {
					continue
				}
				assert.Greater(t, hex.Distance(p, b.Pos), 1, "n=%d shot %s hits bot %d", n, p, b.ID)
			}
		}
	}
}
