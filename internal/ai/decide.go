package ai

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/pkg/core"
)

// decide runs the ladder for round. The first rule that matches assigns
// Attack work into actions and returns the decision; otherwise the round is a
// Scan and idle scanning fills in the actions later.
func (e *Engine) decide(round int, events []core.Event, actions actionSet, evaders map[int]bool) core.Decision {
	prev := e.prevMode(round)
	shooters := e.shooters(evaders)

	if e.enemyDied(events) {
		return core.Decision{Mode: core.Scan}
	}

	if sightings := e.freshSightings(events); len(sightings) > 0 {
		target := hex.Clamp(sightings[0], e.cfg.FieldRadius)
		if prev == core.Attack {
			e.attackAndScan(actions, target, shooters)
		} else {
			e.attack(actions, target, shooters)
		}
		return core.Decision{Mode: core.Attack, Target: &target, UnusedEchoes: sightings[1:]}
	}

	if target, ok := e.freshHit(events); ok {
		e.attack(actions, target, shooters)
		return core.Decision{Mode: core.Attack, Target: &target}
	}

	if prev == core.Attack {
		if target, ok := e.staleTarget(round); ok {
			e.attackAndScan(actions, target, shooters)
			return core.Decision{Mode: core.Attack, Target: &target}
		}
	}

	return core.Decision{Mode: core.Scan}
}

func (e *Engine) enemyDied(events []core.Event) bool {
	for _, ev := range events {
		if d, ok := ev.(core.DieEvent); ok && !e.isOurs(d.BotID) {
			return true
		}
	}
	return false
}

// freshSightings returns the distinct See and Echo positions in events that
// are not confirmed asteroids, in event order.
func (e *Engine) freshSightings(events []core.Event) []core.Position {
	var out []core.Position
	seen := make(map[core.Position]bool)
	for _, ev := range events {
		p, ok := core.Sighting(ev)
		if !ok || seen[p] || e.asteroids.IsConfirmed(p) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// freshHit traces the first hit one of our bots scored on an enemy this round
// back to where that bot last fired.
func (e *Engine) freshHit(events []core.Event) (core.Position, bool) {
	for _, ev := range events {
		hit, ok := ev.(core.HitEvent)
		if !ok || !e.isOurs(hit.Source) || e.isOurs(hit.BotID) {
			continue
		}
		if shot, _, ok := e.history.LatestActionBy(hit.Source, core.Cannon); ok {
			return hex.Clamp(shot.Pos, e.cfg.FieldRadius), true
		}
	}
	return core.Position{}, false
}

// staleTarget looks two rounds back for something to keep attacking: an echo
// first, then a hit traced to the shooter's fire before that round.
func (e *Engine) staleTarget(round int) (core.Position, bool) {
	back := round - 2
	if !e.history.Has(back) {
		return core.Position{}, false
	}
	entry, err := e.history.Entry(back)
	if err != nil {
		return core.Position{}, false
	}
	if sightings := e.freshSightings(entry.Events); len(sightings) > 0 {
		return hex.Clamp(sightings[0], e.cfg.FieldRadius), true
	}
	for _, ev := range entry.Events {
		hit, ok := ev.(core.HitEvent)
		if !ok || !e.isOurs(hit.Source) || e.isOurs(hit.BotID) {
			continue
		}
		if p, ok := e.cannonBefore(hit.Source, back); ok {
			return hex.Clamp(p, e.cfg.FieldRadius), true
		}
	}
	return core.Position{}, false
}

// cannonBefore returns where bot last fired in a round before round.
func (e *Engine) cannonBefore(bot, round int) (core.Position, bool) {
	for r := round - 1; e.history.Has(r); r-- {
		acts, err := e.history.ActionsInRound(r, core.Cannon)
		if err != nil {
			break
		}
		for _, a := range acts {
			if a.BotID == bot {
				return a.Pos, true
			}
		}
	}
	return core.Position{}, false
}
