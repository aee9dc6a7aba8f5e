package history

import (
	"slices"

	"github.com/serenity-bot/serenity/pkg/core"
)

// Events returns the events of kind from the last lastN rounds, the newest
// round included, in storage order.
func (s *Store) Events(kind core.EventKind, lastN int) []RoundEvent {
	var out []RoundEvent
	for _, e := range s.tail(lastN) {
		for _, ev := range e.Events {
			if ev.Kind() == kind {
				out = append(out, RoundEvent{Round: e.Round, Event: ev})
			}
		}
	}
	return out
}

// EventsInRound returns the events of kind stored for round.
func (s *Store) EventsInRound(kind core.EventKind, round int) ([]core.Event, error) {
	e, err := s.entry(round)
	if err != nil {
		return nil, err
	}
	var out []core.Event
	for _, ev := range e.Events {
		if ev.Kind() == kind {
			out = append(out, ev)
		}
	}
	return out, nil
}

// ActionsInRound returns the actions of round whose kind is in kinds. No
// kinds means every action.
func (s *Store) ActionsInRound(round int, kinds ...core.ActionKind) ([]core.Action, error) {
	e, err := s.entry(round)
	if err != nil {
		return nil, err
	}
	var out []core.Action
	for _, a := range e.Actions {
		if len(kinds) == 0 || slices.Contains(kinds, a.Kind) {
			out = append(out, a)
		}
	}
	return out, nil
}

// LatestAction returns the most recent action of kind and the round it was
// issued in.
func (s *Store) LatestAction(kind core.ActionKind) (core.Action, int, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		acts := s.entries[i].Actions
		for j := len(acts) - 1; j >= 0; j-- {
			if acts[j].Kind == kind {
				return acts[j], s.entries[i].Round, true
			}
		}
	}
	return core.Action{}, 0, false
}

// LatestActionBy returns the most recent action of kind issued to bot.
func (s *Store) LatestActionBy(bot int, kind core.ActionKind) (core.Action, int, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		for _, a := range s.entries[i].Actions {
			if a.BotID == bot && a.Kind == kind {
				return a, s.entries[i].Round, true
			}
		}
	}
	return core.Action{}, 0, false
}

// Decision returns the decision recorded for round.
func (s *Store) Decision(round int) (core.Decision, error) {
	e, err := s.entry(round)
	if err != nil {
		return core.Decision{}, err
	}
	return e.Decision, nil
}

// Mode returns the mode decided for round.
func (s *Store) Mode(round int) (core.Mode, error) {
	d, err := s.Decision(round)
	if err != nil {
		return core.NoMode, err
	}
	return d.Mode, nil
}

// AliveAt returns how many of our bots were alive in round.
func (s *Store) AliveAt(round int) (int, error) {
	e, err := s.entry(round)
	if err != nil {
		return 0, err
	}
	return e.Alive, nil
}

// EchoPositions returns See and Echo positions from the last lastN rounds,
// oldest first.
func (s *Store) EchoPositions(lastN int) []Sighting {
	var out []Sighting
	for _, e := range s.tail(lastN) {
		for _, ev := range e.Events {
			if p, ok := core.Sighting(ev); ok {
				out = append(out, Sighting{Pos: p, Round: e.Round})
			}
		}
	}
	return out
}

// UnusedEchoes returns the sightings a decision passed over that no later
// decision has targeted since. Newest round first; within a round the
// recorded order is kept.
func (s *Store) UnusedEchoes() []Sighting {
	var out []Sighting
	targeted := make(map[core.Position]bool)
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		for _, p := range e.Decision.UnusedEchoes {
			if !targeted[p] {
				out = append(out, Sighting{Pos: p, Round: e.Round})
			}
		}
		if e.Decision.Target != nil {
			targeted[*e.Decision.Target] = true
		}
	}
	return out
}

func (s *Store) tail(lastN int) []Entry {
	if lastN <= 0 {
		return nil
	}
	start := max(0, len(s.entries)-lastN)
	return s.entries[start:]
}
