package pattern

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/pkg/core"
)

// AvoidFriendlyFire moves the cannon target p away from teammates. If no
// living bot other than shooter is within blast of p, p is returned as is.
// Otherwise the closest safe position to target is chosen from the disk of
// radius blast+2 around it; ties go to the position nearest p. When nothing
// in that disk is safe, p is kept.
func AvoidFriendlyFire(p, target core.Position, shooter int, bots []core.Bot, blast, fieldRadius int) core.Position {
	var friends []core.Position
	for _, b := range bots {
		if b.Alive && b.ID != shooter {
			friends = append(friends, b.Pos)
		}
	}
	safe := func(c core.Position) bool {
		for _, f := range friends {
			if hex.Distance(c, f) <= blast {
				return false
			}
		}
		return true
	}
	if safe(p) {
		return p
	}

	candidates := append([]core.Position{target}, hex.ClampedNeighbors(target, blast+2, fieldRadius)...)
	best, found := p, false
	for _, c := range candidates {
		if c == p || !hex.InBounds(c, fieldRadius) || !safe(c) {
			continue
		}
		if !found || closer(c, best, target, p) {
			best, found = c, true
		}
	}
	return best
}

func closer(c, best, target, p core.Position) bool {
	dc, db := hex.Distance(c, target), hex.Distance(best, target)
	if dc != db {
		return dc < db
	}
	return hex.Distance(c, p) < hex.Distance(best, p)
}
