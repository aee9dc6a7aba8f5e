// Package ai decides what every bot in the squad does each round. It keeps
// the roster, the round history and the asteroid registry, and runs a fixed
// priority ladder over them: kill check, fresh echo, fresh hit, stale
// continuation, scan. Threatened bots are then moved out of the way and idle
// bots are put on radar duty.
package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/serenity-bot/serenity/internal/asteroid"
	"github.com/serenity-bot/serenity/internal/history"
	"github.com/serenity-bot/serenity/internal/pattern"
	"github.com/serenity-bot/serenity/pkg/core"
)

// ErrUnknownBot is returned when an event that must refer to one of our bots
// names an id that is not on the roster.
var ErrUnknownBot = errors.New("unknown bot")

// Engine is the per-match decision state. It is not safe for concurrent use.
type Engine struct {
	cfg       core.Config
	bots      []*core.Bot
	enemies   map[int]bool
	history   *history.Store
	asteroids *asteroid.Registry
	cursor    *pattern.Cursor
	rng       pattern.Rand
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source used for spreads and evasion.
func WithRand(rng pattern.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the logger decisions are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New builds an engine for a match played with cfg by the given bots.
func New(cfg core.Config, bots []core.Bot, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		enemies:   make(map[int]bool),
		history:   history.New(),
		asteroids: asteroid.NewRegistry(),
		cursor:    pattern.NewCursor(pattern.RadarSweep(cfg.FieldRadius, cfg.Radar)),
		rng:       pattern.NewRand(0),
		logger:    slog.Default(),
	}
	for _, b := range bots {
		e.bots = append(e.bots, &b)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleRound applies the events reported for round and returns the actions
// for every living bot that does something this round.
func (e *Engine) HandleRound(round int, events []core.Event) ([]core.Action, error) {
	if err := e.history.CanAppend(round); err != nil {
		return nil, fmt.Errorf("round %d: %w", round, err)
	}
	if err := e.validate(events); err != nil {
		return nil, fmt.Errorf("round %d: %w", round, err)
	}
	e.apply(events)

	if err := e.history.Append(round, events, e.aliveCount()); err != nil {
		return nil, fmt.Errorf("round %d: %w", round, err)
	}
	stored, err := e.history.Entry(round)
	if err != nil {
		return nil, err
	}

	verdicts := asteroid.Classify(round, stored.Events, e.history, e.asteroids, e.cfg)
	visible := asteroid.Strip(stored.Events, e.asteroids)
	if len(visible) != len(stored.Events) {
		if err := e.history.ReplaceEvents(round, visible); err != nil {
			return nil, err
		}
	}
	for _, v := range verdicts {
		if v.Confidence != asteroid.No {
			e.logger.Debug("asteroid verdict", "round", round, "pos", v.Pos.String(), "confidence", v.Confidence.String())
		}
	}

	actions := e.defaultActions()
	evaders := e.evaders()
	decision := e.decide(round, visible, actions, evaders)
	e.evade(actions, evaders)
	e.scanIdle(round, &decision, actions)

	out := actions.emit()
	if err := e.history.RecordActions(round, out); err != nil {
		return nil, err
	}
	if err := e.history.RecordDecision(round, decision); err != nil {
		return nil, err
	}

	attrs := []any{"round", round, "mode", decision.Mode.String(), "actions", len(out)}
	if decision.Target != nil {
		attrs = append(attrs, "target", decision.Target.String())
	}
	e.logger.Debug("decision", attrs...)
	return out, nil
}

// Config returns the game configuration the engine was built with.
func (e *Engine) Config() core.Config {
	return e.cfg
}

// Bots returns a snapshot of our roster.
func (e *Engine) Bots() []core.Bot {
	out := make([]core.Bot, len(e.bots))
	for i, b := range e.bots {
		out[i] = *b
	}
	return out
}

// History exposes the round log.
func (e *Engine) History() *history.Store {
	return e.history
}

// Asteroids exposes the asteroid registry.
func (e *Engine) Asteroids() *asteroid.Registry {
	return e.asteroids
}

// KnownEnemies returns how many distinct enemy ids have been inferred from
// hits, deaths and sightings.
func (e *Engine) KnownEnemies() int {
	return len(e.enemies)
}

func (e *Engine) prevMode(round int) core.Mode {
	if !e.history.Has(round - 1) {
		return core.NoMode
	}
	m, _ := e.history.Mode(round - 1)
	return m
}
