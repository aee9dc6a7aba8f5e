package ai

import (
	"fmt"

	"github.com/serenity-bot/serenity/pkg/core"
)

func (e *Engine) bot(id int) *core.Bot {
	for _, b := range e.bots {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (e *Engine) isOurs(id int) bool {
	return e.bot(id) != nil
}

func (e *Engine) alive() []*core.Bot {
	var out []*core.Bot
	for _, b := range e.bots {
		if b.Alive {
			out = append(out, b)
		}
	}
	return out
}

func (e *Engine) aliveCount() int {
	return len(e.alive())
}

// validate rejects events that must refer to one of our bots but do not,
// before any state is touched.
func (e *Engine) validate(events []core.Event) error {
	for _, ev := range events {
		var id int
		switch v := ev.(type) {
		case core.DamagedEvent:
			id = v.BotID
		case core.DetectedEvent:
			id = v.BotID
		case core.MoveEvent:
			id = v.BotID
		default:
			continue
		}
		if !e.isOurs(id) {
			return fmt.Errorf("%s event for bot %d: %w", ev.Kind(), id, ErrUnknownBot)
		}
	}
	return nil
}

// apply updates the roster from validated events.
func (e *Engine) apply(events []core.Event) {
	for _, ev := range events {
		switch v := ev.(type) {
		case core.DieEvent:
			if b := e.bot(v.BotID); b != nil {
				b.Alive = false
			} else {
				e.enemies[v.BotID] = true
			}
		case core.HitEvent:
			for _, id := range []int{v.BotID, v.Source} {
				if !e.isOurs(id) {
					e.enemies[id] = true
				}
			}
		case core.SeeEvent:
			if !e.isOurs(v.BotID) {
				e.enemies[v.BotID] = true
			}
		case core.DamagedEvent:
			e.bot(v.BotID).HP -= v.Damage
		case core.MoveEvent:
			e.bot(v.BotID).Pos = v.Pos
		case core.EchoEvent, core.DetectedEvent, core.NoActionEvent, core.InvalidEvent:
		}
	}
}
