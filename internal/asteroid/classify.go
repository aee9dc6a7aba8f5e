package asteroid

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/internal/history"
	"github.com/serenity-bot/serenity/pkg/core"
)

// Verdict is the classification of one echo.
type Verdict struct {
	Pos        core.Position
	Confidence Tribool
}

// Classify grades every echo in events, the events of round, and updates the
// registry: Yes confirms, Maybe adds a suspicion. round must already be
// stored in h.
//
// An echo is an asteroid candidate when we fired at it earlier and nothing
// was hit. With two or more bots alive the previous round's fire counts and
// the verdict can be Yes; a lone bot needs a round to fire and a round to
// radar, so the fire from two rounds back counts and the best verdict is
// Maybe.
func Classify(round int, events []core.Event, h *history.Store, reg *Registry, cfg core.Config) []Verdict {
	var out []Verdict
	for _, ev := range events {
		echo, ok := ev.(core.EchoEvent)
		if !ok {
			continue
		}
		v := Verdict{Pos: echo.Pos, Confidence: classifyOne(round, echo.Pos, events, h, reg, cfg)}
		switch v.Confidence {
		case Yes:
			reg.Confirm(v.Pos)
		case Maybe:
			reg.Suspect(v.Pos, round)
		}
		out = append(out, v)
	}
	return out
}

func classifyOne(round int, p core.Position, events []core.Event, h *history.Store, reg *Registry, cfg core.Config) Tribool {
	if reg.IsConfirmed(p) {
		return Yes
	}

	alive, err := h.AliveAt(round - 1)
	if err != nil {
		return No
	}
	evidence, ceiling := round-1, Yes
	if alive < 2 {
		evidence, ceiling = round-2, Maybe
	}
	cannons, err := h.ActionsInRound(evidence, core.Cannon)
	if err != nil {
		return No
	}
	fired := false
	for _, a := range cannons {
		if hex.Distance(a.Pos, p) <= cfg.Cannon {
			fired = true
			break
		}
	}
	if !fired {
		return No
	}

	for _, ev := range events {
		hit, ok := ev.(core.HitEvent)
		if !ok {
			continue
		}
		shot, _, ok := h.LatestActionBy(hit.Source, core.Cannon)
		if ok && hex.Distance(shot.Pos, p) <= cfg.Cannon {
			reg.Clear(p)
			return No
		}
	}
	return ceiling
}

// Strip removes echoes at confirmed asteroid positions.
func Strip(events []core.Event, reg *Registry) []core.Event {
	out := make([]core.Event, 0, len(events))
	for _, ev := range events {
		if echo, ok := ev.(core.EchoEvent); ok && reg.IsConfirmed(echo.Pos) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
