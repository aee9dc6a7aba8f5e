package ai

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/internal/pattern"
	"github.com/serenity-bot/serenity/pkg/core"
)

// scanIdle puts every bot still without an action on radar. Right after an
// attack ends, the newest sighting we passed over is re-acquired with a scan
// spread and becomes the decision's target; otherwise the sweep continues.
func (e *Engine) scanIdle(round int, d *core.Decision, actions actionSet) {
	idle := actions.idle()
	if len(idle) == 0 {
		return
	}

	if d.Mode == core.Scan && e.prevMode(round) == core.Attack {
		for _, s := range e.history.UnusedEchoes() {
			if e.asteroids.IsConfirmed(s.Pos) {
				continue
			}
			target := hex.Clamp(s.Pos, e.cfg.FieldRadius)
			spread := pattern.ScanSpread(target, len(idle), e.cfg.FieldRadius, e.rng)
			for i, id := range idle {
				actions.set(id, core.Radar, spread[i])
			}
			d.Target = &target
			e.logger.Debug("recovering skipped echo", "round", round, "pos", target.String(), "from", s.Round)
			return
		}
	}

	for _, id := range idle {
		actions.set(id, core.Radar, e.cursor.Next())
	}
}
