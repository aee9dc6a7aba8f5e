package asteroid

import (
	"cmp"
	"slices"

	"github.com/serenity-bot/serenity/pkg/core"
)

// Registry tracks confirmed asteroid positions and positions under
// suspicion. A confirmation is permanent.
type Registry struct {
	confirmed map[core.Position]bool
	suspected map[core.Position]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		confirmed: make(map[core.Position]bool),
		suspected: make(map[core.Position]int),
	}
}

// Suspect records a Maybe at p seen in round. A second suspicion from a
// different round confirms the position. It reports whether p is confirmed
// afterwards.
func (r *Registry) Suspect(p core.Position, round int) bool {
	if r.confirmed[p] {
		return true
	}
	first, ok := r.suspected[p]
	if !ok {
		r.suspected[p] = round
		return false
	}
	if first == round {
		return false
	}
	r.Confirm(p)
	return true
}

// Confirm marks p as an asteroid.
func (r *Registry) Confirm(p core.Position) {
	delete(r.suspected, p)
	r.confirmed[p] = true
}

// Clear drops a suspicion at p. Confirmed positions are not affected.
func (r *Registry) Clear(p core.Position) {
	delete(r.suspected, p)
}

func (r *Registry) IsConfirmed(p core.Position) bool {
	return r.confirmed[p]
}

func (r *Registry) IsSuspected(p core.Position) bool {
	_, ok := r.suspected[p]
	return ok
}

// Confirmed returns the confirmed positions sorted by X then Y.
func (r *Registry) Confirmed() []core.Position {
	out := make([]core.Position, 0, len(r.confirmed))
	for p := range r.confirmed {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b core.Position) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return out
}
