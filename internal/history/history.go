// Package history keeps the per-round log the engine decides from: the
// events the server reported, the actions we sent back and the decision that
// produced them. Rounds are stored in an arena indexed by round id.
package history

import (
	"errors"
	"fmt"

	"github.com/serenity-bot/serenity/pkg/core"
)

var (
	// ErrUnknownRound is returned when a round outside the stored range is
	// queried or amended.
	ErrUnknownRound = errors.New("unknown round")
	// ErrRoundOrder is returned when Append is called with a round id that is
	// already stored.
	ErrRoundOrder = errors.New("round already stored")
)

// Entry is everything known about a single round.
type Entry struct {
	Round    int
	Events   []core.Event
	Actions  []core.Action
	Decision core.Decision
	// Alive is the number of our bots alive when the round's events arrived.
	Alive int
}

// RoundEvent is an event paired with the round it was reported in.
type RoundEvent struct {
	Round int
	Event core.Event
}

// Sighting is a See or Echo position paired with its round.
type Sighting struct {
	Pos   core.Position
	Round int
}

// Store is the round log. The zero value is empty and ready to use.
type Store struct {
	base    int
	entries []Entry
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// CanAppend reports whether round may be appended next. It is the check
// Append makes, exposed so callers can reject a round before touching any
// other state.
func (s *Store) CanAppend(round int) error {
	if len(s.entries) == 0 {
		return nil
	}
	if next := s.base + len(s.entries); round < next {
		return fmt.Errorf("append round %d (next is %d): %w", round, next, ErrRoundOrder)
	}
	return nil
}

// Append creates the entry for round. Invalid and NoAction events are
// dropped. Skipped round ids are filled with empty entries that carry the
// alive count of round, since nothing is known to have changed in between.
func (s *Store) Append(round int, events []core.Event, alive int) error {
	if err := s.CanAppend(round); err != nil {
		return err
	}
	if len(s.entries) == 0 {
		s.base = round
	}
	for r := s.base + len(s.entries); r < round; r++ {
		s.entries = append(s.entries, Entry{Round: r, Alive: alive})
	}
	s.entries = append(s.entries, Entry{
		Round:  round,
		Events: filter(events),
		Alive:  alive,
	})
	return nil
}

// ReplaceEvents overwrites the stored events of round.
func (s *Store) ReplaceEvents(round int, events []core.Event) error {
	e, err := s.entry(round)
	if err != nil {
		return err
	}
	e.Events = filter(events)
	return nil
}

// RecordActions stores the actions sent for round.
func (s *Store) RecordActions(round int, actions []core.Action) error {
	e, err := s.entry(round)
	if err != nil {
		return err
	}
	e.Actions = append([]core.Action(nil), actions...)
	return nil
}

// RecordDecision stores the decision made for round.
func (s *Store) RecordDecision(round int, d core.Decision) error {
	e, err := s.entry(round)
	if err != nil {
		return err
	}
	e.Decision = d
	return nil
}

// Has reports whether round is stored.
func (s *Store) Has(round int) bool {
	i := round - s.base
	return i >= 0 && i < len(s.entries)
}

// Latest returns the newest stored round id.
func (s *Store) Latest() (int, bool) {
	if len(s.entries) == 0 {
		return 0, false
	}
	return s.base + len(s.entries) - 1, true
}

// Len returns the number of stored rounds, padding included.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the stored rounds oldest first. The slice is shared with
// the store and must not be modified.
func (s *Store) Entries() []Entry {
	return s.entries
}

// Entry returns a copy of the stored round.
func (s *Store) Entry(round int) (Entry, error) {
	e, err := s.entry(round)
	if err != nil {
		return Entry{}, err
	}
	return *e, nil
}

func (s *Store) entry(round int) (*Entry, error) {
	if !s.Has(round) {
		return nil, fmt.Errorf("round %d: %w", round, ErrUnknownRound)
	}
	return &s.entries[round-s.base], nil
}

func filter(events []core.Event) []core.Event {
	out := make([]core.Event, 0, len(events))
	for _, e := range events {
		if core.Stored(e) {
			out = append(out, e)
		}
	}
	return out
}
