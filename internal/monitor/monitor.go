package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultInterval = time.Second

// Status is the snapshot written to the status file.
type Status struct {
	Time          time.Time `json:"time"`
	InMatch       bool      `json:"inMatch"`
	Match         int       `json:"match"`
	Round         int       `json:"round"`
	Rounds        int       `json:"rounds"`
	Alive         int       `json:"alive"`
	KnownEnemies  int       `json:"knownEnemies"`
	Asteroids     int       `json:"asteroids"`
	MatchesPlayed int       `json:"matchesPlayed"`
	PendingRounds int       `json:"pendingRounds"`
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger     *slog.Logger
	StatusPath string
	Interval   time.Duration
	// Collect fills in a snapshot. It is called from the monitor goroutine.
	Collect func() Status
	Now     func() time.Time
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = defaultInterval
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetProgramStatus returns the current status snapshot.
func (s *Service) GetProgramStatus() Status {
	var st Status
	if s.deps.Collect != nil {
		st = s.deps.Collect()
	}
	st.Time = s.deps.Now()
	return st
}

// WriteStatus replaces the status file with the current snapshot.
func (s *Service) WriteStatus() (Status, error) {
	st := s.GetProgramStatus()
	if s.deps.StatusPath == "" {
		return st, nil
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return st, fmt.Errorf("error marshalling status: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.deps.StatusPath), 0755); err != nil {
		return st, fmt.Errorf("error creating status dir: %w", err)
	}
	tmp := s.deps.StatusPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return st, fmt.Errorf("error writing status file: %w", err)
	}
	if err := os.Rename(tmp, s.deps.StatusPath); err != nil {
		return st, fmt.Errorf("error replacing status file: %w", err)
	}
	return st, nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.Logger
		logger.Debug("Starting status monitor", "path", s.deps.StatusPath, "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		lastRound := -1
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				st, err := s.WriteStatus()
				if err != nil {
					logger.Error("Error writing status", "error", err)
					continue
				}
				if st.InMatch && st.Round != lastRound {
					lastRound = st.Round
					logger.Debug("Status",
						"round", st.Round,
						"alive", st.Alive,
						"knownEnemies", st.KnownEnemies,
						"pendingRounds", st.PendingRounds)
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
