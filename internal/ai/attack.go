package ai

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/internal/pattern"
	"github.com/serenity-bot/serenity/pkg/core"
)

// shooters returns the living bots that are free to fire this round.
func (e *Engine) shooters(evaders map[int]bool) []*core.Bot {
	var out []*core.Bot
	for _, b := range e.alive() {
		if !evaders[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

// attack fires the full spread at target, one shot per bot.
func (e *Engine) attack(actions actionSet, target core.Position, bots []*core.Bot) {
	if len(bots) == 0 {
		return
	}
	roster := e.Bots()
	spread := pattern.AttackSpread(target, len(bots), e.cfg.FieldRadius, e.rng)
	for i, b := range bots {
		p := pattern.AvoidFriendlyFire(spread[i], target, b.ID, roster, e.cfg.Cannon, e.cfg.FieldRadius)
		actions.set(b.ID, core.Cannon, p)
	}
}

// attackAndScan keeps one bot on radar over target and fires with the rest.
// An unhealthy bot is preferred for the radar. A lone bot just fires.
func (e *Engine) attackAndScan(actions actionSet, target core.Position, bots []*core.Bot) {
	if len(bots) < 2 {
		e.attack(actions, target, bots)
		return
	}
	scout := 0
	for i, b := range bots {
		if !b.Healthy(e.cfg.HealthyHP) {
			scout = i
			break
		}
	}
	actions.set(bots[scout].ID, core.Radar, hex.Clamp(target, e.cfg.FieldRadius))

	rest := make([]*core.Bot, 0, len(bots)-1)
	rest = append(rest, bots[:scout]...)
	rest = append(rest, bots[scout+1:]...)
	e.attack(actions, target, rest)
}
