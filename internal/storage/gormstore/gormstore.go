// Package gormstore implements the storage.Backend interface using GORM
// (SQLite or PostgreSQL) with an internal queue and a background DB writer
// goroutine.
package gormstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/serenity-bot/serenity/internal/model"
	"github.com/serenity-bot/serenity/internal/model/convert"
	"github.com/serenity-bot/serenity/internal/parser"
	"github.com/serenity-bot/serenity/internal/queue"
	"github.com/serenity-bot/serenity/pkg/core"
)

// ErrNoMatch is returned when a round is recorded outside a match.
var ErrNoMatch = errors.New("no match in progress")

// maxQueuedRounds bounds memory while the database is unreachable.
const maxQueuedRounds = 10_000

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
}

// Backend implements storage.Backend with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	rounds   *queue.Queue[model.Round]
	matchID  atomic.Uint64
	match    model.Match
	flushMu  sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = 5 * time.Second
	}
	return &Backend{
		deps:   deps,
		rounds: queue.NewBounded[model.Round](maxQueuedRounds),
	}
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gorm backend requires a database")
	}
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.startDBWriter()
	return nil
}

// Close stops the DB writer goroutine and writes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.wg.Wait()
		b.stopChan = nil
	}
	return b.Flush()
}

// StartMatch inserts the match row synchronously so rounds can reference it.
func (b *Backend) StartMatch(m *core.Match) error {
	row, err := convert.CoreToMatch(*m)
	if err != nil {
		return err
	}
	row.ID = 0
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert new match: %w", err)
	}

	m.ID = row.ID
	b.match = row
	b.matchID.Store(uint64(row.ID))
	return nil
}

// RecordRound converts and queues a round.
func (b *Backend) RecordRound(r *core.RoundRecord) error {
	matchID := uint(b.matchID.Load())
	if matchID == 0 {
		return ErrNoMatch
	}
	row, err := convert.CoreToRound(matchID, *r)
	if err != nil {
		return err
	}
	b.rounds.Push(row)
	return nil
}

// EndMatch flushes the queued rounds and stores the result on the match row.
func (b *Backend) EndMatch(result core.MatchResult) error {
	if b.matchID.Load() == 0 {
		return ErrNoMatch
	}
	if err := b.Flush(); err != nil {
		return err
	}

	if result.Rounds == 0 {
		var count int64
		if err := b.deps.DB.Model(&model.Round{}).Where("match_id = ?", b.match.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count rounds: %w", err)
		}
		result.Rounds = int(count)
	}

	convert.ApplyResult(&b.match, result)
	if err := b.deps.DB.Model(&model.Match{}).Where("id = ?", b.match.ID).Updates(map[string]any{
		"end_time":       b.match.EndTime,
		"winner_team_id": b.match.WinnerTeamID,
		"won":            b.match.Won,
		"round_count":    b.match.RoundCount,
	}).Error; err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	b.matchID.Store(0)
	return nil
}

// Flush writes all queued rounds in one transaction. On failure the rounds
// go back to the front of the queue.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	if b.rounds.Empty() {
		return nil
	}

	items := b.rounds.Drain()
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		b.rounds.Requeue(items...)
		return fmt.Errorf("error creating rounds: %w", err)
	}
	return nil
}

// Pending returns the number of rounds waiting for the writer.
func (b *Backend) Pending() int {
	return b.rounds.Len()
}

// startDBWriter starts the background goroutine that periodically drains the queue into the DB.
func (b *Backend) startDBWriter() {
	stop := b.stopChan
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.deps.FlushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := b.Flush(); err != nil {
					b.deps.Logger.Error("DB writer flush failed",
						"error", err,
						"pending", b.rounds.Len(),
						"dropped", b.rounds.Dropped())
				}
			}
		}
	}()
}

// LatestMatchID returns the ID of the most recently started match.
func LatestMatchID(db *gorm.DB) (uint, error) {
	var row model.Match
	if err := db.Order("id desc").First(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to find latest match: %w", err)
	}
	return row.ID, nil
}

// LoadMatch reads a match and its rounds, ordered by round.
func LoadMatch(db *gorm.DB, p *parser.Parser, matchID uint) (core.Match, []core.RoundRecord, error) {
	var row model.Match
	if err := db.Preload("Rounds", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("round_id asc")
	}).First(&row, matchID).Error; err != nil {
		return core.Match{}, nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	m, err := convert.MatchToCore(row)
	if err != nil {
		return m, nil, err
	}

	rounds := make([]core.RoundRecord, 0, len(row.Rounds))
	for _, r := range row.Rounds {
		rec, err := convert.RoundToCore(p, r)
		if err != nil {
			return m, nil, fmt.Errorf("round %d: %w", r.RoundID, err)
		}
		rounds = append(rounds, rec)
	}
	return m, rounds, nil
}
