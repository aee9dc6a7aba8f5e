// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/serenity-bot/serenity/internal/parser"
	"github.com/serenity-bot/serenity/pkg/core"
)

// MatchExport is the root JSON structure of a replay file
type MatchExport struct {
	MatchID      uint          `json:"matchId"`
	TeamID       int           `json:"teamId"`
	TeamName     string        `json:"teamName"`
	Opponents    []string      `json:"opponents"`
	Config       core.Config   `json:"config"`
	Bots         []core.Bot    `json:"bots"`
	Seed         uint64        `json:"seed"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      time.Time     `json:"endTime"`
	WinnerTeamID *int          `json:"winnerTeamId"`
	Won          bool          `json:"won"`
	Rounds       []RoundExport `json:"rounds"`
}

// RoundExport is one round in wire form
type RoundExport struct {
	Round        int                 `json:"round"`
	Time         time.Time           `json:"time"`
	Events       []parser.RawEvent   `json:"events"`
	Actions      []parser.WireAction `json:"actions"`
	Mode         string              `json:"mode"`
	Target       *core.Position      `json:"target,omitempty"`
	UnusedEchoes []core.Position     `json:"unusedEchoes,omitempty"`
	Alive        int                 `json:"alive"`
	Invalid      int                 `json:"invalid,omitempty"`
	Asteroids    int                 `json:"asteroids,omitempty"`
}

// exportJSON writes the match data to a (optionally gzipped) JSON file
func (b *Backend) exportJSON(result core.MatchResult) error {
	export := b.buildExport(result)

	// Build filename
	teamName := strings.ReplaceAll(b.match.TeamName, " ", "_")
	teamName = strings.ReplaceAll(teamName, ":", "_")
	if teamName == "" {
		teamName = "match"
	}
	timestamp := b.match.StartTime.UTC().Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s_%d.json.gz", teamName, timestamp, b.match.ID)
	} else {
		filename = fmt.Sprintf("%s_%s_%d.json", teamName, timestamp, b.match.ID)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport(result core.MatchResult) MatchExport {
	export := MatchExport{
		MatchID:      b.match.ID,
		TeamID:       b.match.TeamID,
		TeamName:     b.match.TeamName,
		Opponents:    b.match.Opponents,
		Config:       b.match.Config,
		Bots:         b.match.Bots,
		Seed:         b.match.Seed,
		StartTime:    b.match.StartTime,
		EndTime:      result.EndTime,
		WinnerTeamID: result.WinnerTeamID,
		Won:          result.Won(b.match.TeamID),
		Rounds:       make([]RoundExport, 0, len(b.rounds)),
	}

	for _, r := range b.rounds {
		export.Rounds = append(export.Rounds, RoundExport{
			Round:        r.Round,
			Time:         r.Time,
			Events:       parser.EncodeEvents(r.Events),
			Actions:      parser.WireActions(r.Actions),
			Mode:         r.Decision.Mode.String(),
			Target:       r.Decision.Target,
			UnusedEchoes: r.Decision.UnusedEchoes,
			Alive:        r.Alive,
			Invalid:      r.Invalid,
			Asteroids:    r.Asteroids,
		})
	}

	return export
}

func writeJSON(path string, data MatchExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data MatchExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return gzWriter.Close()
}

// ReadExport loads a replay file written by EndMatch. Files ending in .gz
// are decompressed.
func ReadExport(path string) (MatchExport, error) {
	var export MatchExport

	f, err := os.Open(path)
	if err != nil {
		return export, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return export, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return export, fmt.Errorf("failed to decode export: %w", err)
	}
	return export, nil
}

// Match rebuilds the core match described by the export.
func (e MatchExport) Match() core.Match {
	return core.Match{
		ID:        e.MatchID,
		TeamID:    e.TeamID,
		TeamName:  e.TeamName,
		Opponents: e.Opponents,
		Config:    e.Config,
		Bots:      e.Bots,
		StartTime: e.StartTime,
		Seed:      e.Seed,
	}
}

// RoundRecords decodes the exported rounds back into round records.
func (e MatchExport) RoundRecords(p *parser.Parser) ([]core.RoundRecord, error) {
	out := make([]core.RoundRecord, 0, len(e.Rounds))
	for _, r := range e.Rounds {
		actions, err := parser.ActionsFromWire(r.Actions)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", r.Round, err)
		}
		mode, err := core.ParseMode(r.Mode)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", r.Round, err)
		}
		out = append(out, core.RoundRecord{
			Round:   r.Round,
			Time:    r.Time,
			Events:  p.ConvertEvents(r.Events),
			Actions: actions,
			Decision: core.Decision{
				Mode:         mode,
				Target:       r.Target,
				UnusedEchoes: r.UnusedEchoes,
			},
			Alive:     r.Alive,
			Invalid:   r.Invalid,
			Asteroids: r.Asteroids,
		})
	}
	return out, nil
}
