// internal/storage/storage.go
package storage

import "github.com/serenity-bot/serenity/pkg/core"

// Backend is the interface all match recording implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Match management. StartMatch assigns m.ID.
	StartMatch(m *core.Match) error
	EndMatch(result core.MatchResult) error

	// RecordRound stores one finished round of the current match.
	RecordRound(r *core.RoundRecord) error
}

// Exportable is an optional interface for backends that write a replay file
// when a match ends.
type Exportable interface {
	ExportedFilePath() string
}

// Discard records nothing. It backs the "none" storage type.
type Discard struct{}

func (Discard) Init() error                         { return nil }
func (Discard) Close() error                        { return nil }
func (Discard) StartMatch(*core.Match) error        { return nil }
func (Discard) EndMatch(core.MatchResult) error     { return nil }
func (Discard) RecordRound(*core.RoundRecord) error { return nil }
