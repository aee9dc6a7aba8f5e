package ai

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/pkg/core"
)

// evadeWindow is how many rounds, the current one included, a Detected or
// Damaged event keeps a bot moving: the current round and the two before it.
const evadeWindow = 3

// evaders returns the ids of living bots that were detected or damaged
// within the evade window.
func (e *Engine) evaders() map[int]bool {
	out := make(map[int]bool)
	for _, kind := range []core.EventKind{core.KindDetected, core.KindDamaged} {
		for _, re := range e.history.Events(kind, evadeWindow) {
			var id int
			switch ev := re.Event.(type) {
			case core.DetectedEvent:
				id = ev.BotID
			case core.DamagedEvent:
				id = ev.BotID
			default:
				continue
			}
			if b := e.bot(id); b != nil && b.Alive {
				out[id] = true
			}
		}
	}
	return out
}

// evade gives every evader a Move, overriding whatever it was assigned.
func (e *Engine) evade(actions actionSet, evaders map[int]bool) {
	if len(evaders) == 0 {
		return
	}
	alive := e.alive()
	for _, b := range alive {
		if !evaders[b.ID] {
			continue
		}
		moves := hex.ClampedNeighbors(b.Pos, e.cfg.Move, e.cfg.FieldRadius)
		if len(moves) == 0 {
			continue
		}
		var dest core.Position
		if len(alive) >= 2 && hex.DistanceToEdge(b.Pos, e.cfg.FieldRadius) > 2 {
			dest = spreadOut(b, alive, moves)
		} else {
			dest = moves[e.rng.IntN(len(moves))]
		}
		actions.set(b.ID, core.Move, dest)
	}
}

// spreadOut picks the move that keeps b furthest from its closest teammate.
func spreadOut(b *core.Bot, alive []*core.Bot, moves []core.Position) core.Position {
	best, bestScore := moves[0], -1
	for _, m := range moves {
		score := -1
		for _, o := range alive {
			if o.ID == b.ID {
				continue
			}
			if d := hex.Distance(m, o.Pos); score < 0 || d < score {
				score = d
			}
		}
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}
