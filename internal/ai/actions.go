package ai

import "github.com/serenity-bot/serenity/pkg/core"

// actionSet holds one action per living bot in roster order.
type actionSet []core.Action

func (e *Engine) defaultActions() actionSet {
	var s actionSet
	for _, b := range e.alive() {
		s = append(s, core.Action{BotID: b.ID, Kind: core.NoAction, Pos: b.Pos})
	}
	return s
}

func (s actionSet) set(bot int, kind core.ActionKind, pos core.Position) {
	for i := range s {
		if s[i].BotID == bot {
			s[i].Kind = kind
			s[i].Pos = pos
			return
		}
	}
}

func (s actionSet) idle() []int {
	var out []int
	for _, a := range s {
		if a.Kind == core.NoAction {
			out = append(out, a.BotID)
		}
	}
	return out
}

// emit drops NoAction entries.
func (s actionSet) emit() []core.Action {
	out := make([]core.Action, 0, len(s))
	for _, a := range s {
		if a.Kind != core.NoAction {
			out = append(out, a)
		}
	}
	return out
}
