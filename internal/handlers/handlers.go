// Package handlers turns decoded server messages into engine calls, replies
// and recordings. One Service plays one match at a time.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/serenity-bot/serenity/internal/ai"
	"github.com/serenity-bot/serenity/internal/dispatcher"
	"github.com/serenity-bot/serenity/internal/influx"
	"github.com/serenity-bot/serenity/internal/logging"
	"github.com/serenity-bot/serenity/internal/parser"
	"github.com/serenity-bot/serenity/internal/pattern"
	"github.com/serenity-bot/serenity/internal/storage"
	"github.com/serenity-bot/serenity/pkg/core"
)

// EventRecord is the internal event type that carries recording work to the
// storage worker. Match start, rounds and match end share one queue so the
// backend sees them in order.
const EventRecord = "record"

// ErrNoMatch is returned for events that arrive outside a match.
var ErrNoMatch = errors.New("no match in progress")

// MatchStarted, RoundRecorded and MatchEnded are the payloads of EventRecord.
type MatchStarted struct {
	Match *core.Match
}

type RoundRecorded struct {
	Match  *core.Match
	Record core.RoundRecord
}

type MatchEnded struct {
	Match  *core.Match
	Result core.MatchResult
}

// PointWriter receives per-round telemetry.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Parser       *parser.Parser
	Dispatcher   *dispatcher.Dispatcher
	Logger       *slog.Logger
	MatchContext *logging.MatchContext
	Telemetry    PointWriter
	TeamName     string
	// Seed for the engine's randomness. 0 picks a time based seed per match.
	Seed      uint64
	HealthyHP int
	Now       func() time.Time
}

// Service provides handler methods for processing server messages
type Service struct {
	deps    Dependencies
	backend storage.Backend

	mu      sync.Mutex
	engine  *ai.Engine
	match   *core.Match
	rounds  int
	round   int
	matches int
}

// Progress is a point-in-time view of the match in progress.
type Progress struct {
	InMatch      bool
	Match        int
	Round        int
	Rounds       int
	Alive        int
	KnownEnemies int
	Asteroids    int
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.Logger)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TeamName == "" {
		deps.TeamName = "Serenity"
	}
	return &Service{
		deps:    deps,
		backend: storage.Discard{},
	}
}

// SetBackend sets the storage backend for match recording
func (s *Service) SetBackend(b storage.Backend) {
	if b == nil {
		b = storage.Discard{}
	}
	s.backend = b
}

// RegisterHandlers wires the handlers into d. Server messages are handled
// synchronously, recording work goes through a blocking buffered queue.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	s.deps.Dispatcher = d
	d.Register(parser.TypeConnected, s.HandleConnected, dispatcher.Logged())
	d.Register(parser.TypeStart, s.HandleStart, dispatcher.Logged())
	d.Register(parser.TypeEvents, s.HandleEvents, dispatcher.Logged())
	d.Register(parser.TypeEnd, s.HandleEnd, dispatcher.Logged())
	d.Register(EventRecord, s.HandleRecord, dispatcher.Buffered(256), dispatcher.Blocking(), dispatcher.Logged())
}

// Engine returns the engine of the match in progress, nil between matches.
func (s *Service) Engine() *ai.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

// Progress reports the state of the match in progress. It is safe to call
// from any goroutine.
func (s *Service) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Progress{Match: s.matches, Round: s.round, Rounds: s.rounds}
	if s.engine == nil {
		return p
	}
	p.InMatch = true
	p.Alive = aliveCount(s.engine.Bots())
	p.KnownEnemies = s.engine.KnownEnemies()
	p.Asteroids = len(s.engine.Asteroids().Confirmed())
	return p
}

// HandleConnected answers the server greeting with a join message.
func (s *Service) HandleConnected(e dispatcher.Event) (any, error) {
	if _, ok := e.Payload.(parser.Connected); !ok {
		return nil, fmt.Errorf("connected: unexpected payload %T", e.Payload)
	}
	s.deps.Logger.Info("Connected to server, joining", "team", s.deps.TeamName)
	return s.deps.Parser.EncodeJoin(s.deps.TeamName)
}

// HandleStart builds a fresh engine for the announced match.
func (s *Service) HandleStart(e dispatcher.Event) (any, error) {
	start, ok := e.Payload.(parser.Start)
	if !ok {
		return nil, fmt.Errorf("start: unexpected payload %T", e.Payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match != nil {
		s.deps.Logger.Warn("Start received during a match, abandoning it", "rounds", s.rounds)
		s.endLocked(core.MatchResult{Rounds: s.rounds, EndTime: s.deps.Now()})
	}

	seed := s.deps.Seed
	if seed == 0 {
		seed = uint64(s.deps.Now().UnixNano())
	}

	cfg := start.Config
	cfg.HealthyHP = s.deps.HealthyHP

	s.matches++
	if s.deps.MatchContext != nil {
		s.deps.MatchContext.SetMatch(strconv.Itoa(s.matches))
	}

	s.engine = ai.New(cfg, start.Bots,
		ai.WithRand(pattern.NewRand(seed)),
		ai.WithLogger(s.deps.Logger))
	s.match = &core.Match{
		TeamID:    start.TeamID,
		TeamName:  start.TeamName,
		Opponents: start.OtherTeams,
		Config:    cfg,
		Bots:      start.Bots,
		StartTime: s.deps.Now(),
		Seed:      seed,
	}
	if s.match.TeamName == "" {
		s.match.TeamName = s.deps.TeamName
	}
	s.rounds = 0
	s.round = 0

	s.deps.Logger.Info("Match started",
		"bots", len(start.Bots),
		"fieldRadius", cfg.FieldRadius,
		"opponents", start.OtherTeams,
		"seed", seed)

	return nil, s.record(MatchStarted{Match: s.match})
}

// HandleEvents runs one round through the engine and returns the actions
// message to send back.
func (s *Service) HandleEvents(e dispatcher.Event) (any, error) {
	msg, ok := e.Payload.(parser.Events)
	if !ok {
		return nil, fmt.Errorf("events: unexpected payload %T", e.Payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return nil, fmt.Errorf("round %d: %w", msg.RoundID, ErrNoMatch)
	}
	if s.deps.MatchContext != nil {
		s.deps.MatchContext.SetRound(msg.RoundID)
	}
	if msg.Invalid > 0 {
		s.deps.Logger.Warn("Dropped malformed events", "count", msg.Invalid)
	}

	actions, err := s.engine.HandleRound(msg.RoundID, msg.Events)
	if err != nil {
		return nil, fmt.Errorf("round %d: %w", msg.RoundID, err)
	}
	s.rounds++
	s.round = msg.RoundID

	ts := e.Timestamp
	if ts.IsZero() {
		ts = s.deps.Now()
	}
	decision, _ := s.engine.History().Decision(msg.RoundID)
	rec := core.RoundRecord{
		Round:     msg.RoundID,
		Time:      ts,
		Events:    msg.Events,
		Actions:   actions,
		Decision:  decision,
		Alive:     aliveCount(s.engine.Bots()),
		Invalid:   msg.Invalid,
		Asteroids: len(s.engine.Asteroids().Confirmed()),
	}
	if err := s.record(RoundRecorded{Match: s.match, Record: rec}); err != nil {
		s.deps.Logger.Error("Failed to queue round for recording", "error", err)
	}

	return s.deps.Parser.EncodeActions(msg.RoundID, actions)
}

// HandleEnd closes the match in progress.
func (s *Service) HandleEnd(e dispatcher.Event) (any, error) {
	end, ok := e.Payload.(parser.End)
	if !ok {
		return nil, fmt.Errorf("end: unexpected payload %T", e.Payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return nil, ErrNoMatch
	}

	result := core.MatchResult{
		WinnerTeamID: end.WinnerTeamID,
		Rounds:       s.rounds,
		EndTime:      s.deps.Now(),
	}
	s.deps.Logger.Info("Match ended",
		"rounds", s.rounds,
		"won", result.Won(s.match.TeamID),
		"draw", result.WinnerTeamID == nil)

	return nil, s.endLocked(result)
}

func (s *Service) endLocked(result core.MatchResult) error {
	err := s.record(MatchEnded{Match: s.match, Result: result})
	s.engine = nil
	s.match = nil
	s.rounds = 0
	s.round = 0
	if s.deps.MatchContext != nil {
		s.deps.MatchContext.SetMatch("")
	}
	return err
}

// record hands recording work to the dispatcher queue, or runs it inline
// when no queue is registered.
func (s *Service) record(payload any) error {
	d := s.deps.Dispatcher
	if d != nil && d.HasHandler(EventRecord) {
		_, err := d.Dispatch(dispatcher.Event{Type: EventRecord, Payload: payload})
		return err
	}
	_, err := s.HandleRecord(dispatcher.Event{Type: EventRecord, Payload: payload, Timestamp: s.deps.Now()})
	return err
}

// HandleRecord performs storage and telemetry writes. It runs on the record
// queue worker, so backend calls are never concurrent.
func (s *Service) HandleRecord(e dispatcher.Event) (any, error) {
	switch p := e.Payload.(type) {
	case MatchStarted:
		if err := s.backend.StartMatch(p.Match); err != nil {
			return nil, fmt.Errorf("start match: %w", err)
		}
		return nil, nil

	case RoundRecorded:
		var errs []error
		if err := s.backend.RecordRound(&p.Record); err != nil {
			errs = append(errs, fmt.Errorf("record round %d: %w", p.Record.Round, err))
		}
		if s.deps.Telemetry != nil {
			if err := s.deps.Telemetry.WritePoint(influx.RoundPoint(*p.Match, p.Record)); err != nil {
				errs = append(errs, fmt.Errorf("telemetry round %d: %w", p.Record.Round, err))
			}
		}
		return nil, errors.Join(errs...)

	case MatchEnded:
		if err := s.backend.EndMatch(p.Result); err != nil {
			return nil, fmt.Errorf("end match: %w", err)
		}
		if exp, ok := s.backend.(storage.Exportable); ok && exp.ExportedFilePath() != "" {
			s.deps.Logger.Info("Match exported", "path", exp.ExportedFilePath())
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("record: unexpected payload %T", e.Payload)
	}
}

func aliveCount(bots []core.Bot) int {
	n := 0
	for _, b := range bots {
		if b.Alive {
			n++
		}
	}
	return n
}
