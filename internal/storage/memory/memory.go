// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"

	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/pkg/core"
)

// Backend keeps the current match in memory and exports it to JSON when the
// match ends.
type Backend struct {
	cfg    config.MemoryConfig
	match  *core.Match
	rounds []core.RoundRecord

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartMatch begins recording a new match and assigns its ID.
func (b *Backend) StartMatch(m *core.Match) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	m.ID = b.idCounter

	cp := *m
	b.match = &cp
	b.rounds = nil
	return nil
}

// RecordRound appends a round to the current match.
func (b *Backend) RecordRound(r *core.RoundRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return fmt.Errorf("no match in progress")
	}
	b.rounds = append(b.rounds, *r)
	return nil
}

// EndMatch exports the match and clears it.
func (b *Backend) EndMatch(result core.MatchResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return fmt.Errorf("no match in progress")
	}
	if result.Rounds == 0 {
		result.Rounds = len(b.rounds)
	}

	err := b.exportJSON(result)
	b.match = nil
	b.rounds = nil
	return err
}

// Rounds returns a copy of the rounds recorded for the current match.
func (b *Backend) Rounds() []core.RoundRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]core.RoundRecord, len(b.rounds))
	copy(out, b.rounds)
	return out
}

// ExportedFilePath returns the path of the last export, empty before the first one.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
