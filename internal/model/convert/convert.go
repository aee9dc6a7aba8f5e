// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/serenity-bot/serenity/internal/model"
	"github.com/serenity-bot/serenity/internal/parser"
	"github.com/serenity-bot/serenity/pkg/core"
)

// toJSON marshals v for a JSON column. Empty slices become "[]".
func toJSON(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return datatypes.JSON("[]"), nil
	}
	return datatypes.JSON(data), nil
}

// CoreToMatch converts a core match to its GORM row.
func CoreToMatch(m core.Match) (model.Match, error) {
	row := model.Match{
		TeamID:    m.TeamID,
		TeamName:  m.TeamName,
		Seed:      m.Seed,
		StartTime: m.StartTime,
	}
	row.ID = m.ID

	var err error
	if row.Opponents, err = toJSON(m.Opponents); err != nil {
		return row, fmt.Errorf("error marshalling opponents: %w", err)
	}
	if row.Config, err = toJSON(m.Config); err != nil {
		return row, fmt.Errorf("error marshalling config: %w", err)
	}
	if row.Bots, err = toJSON(m.Bots); err != nil {
		return row, fmt.Errorf("error marshalling bots: %w", err)
	}
	return row, nil
}

// MatchToCore converts a GORM match row back to the core match.
func MatchToCore(row model.Match) (core.Match, error) {
	m := core.Match{
		ID:        row.ID,
		TeamID:    row.TeamID,
		TeamName:  row.TeamName,
		Seed:      row.Seed,
		StartTime: row.StartTime,
	}
	if len(row.Opponents) > 0 {
		if err := json.Unmarshal(row.Opponents, &m.Opponents); err != nil {
			return m, fmt.Errorf("error unmarshalling opponents: %w", err)
		}
	}
	if err := json.Unmarshal(row.Config, &m.Config); err != nil {
		return m, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := json.Unmarshal(row.Bots, &m.Bots); err != nil {
		return m, fmt.Errorf("error unmarshalling bots: %w", err)
	}
	return m, nil
}

// ApplyResult stamps the end-of-match fields onto a match row.
func ApplyResult(row *model.Match, r core.MatchResult) {
	end := r.EndTime
	row.EndTime = &end
	row.WinnerTeamID = r.WinnerTeamID
	row.Won = r.Won(row.TeamID)
	row.RoundCount = r.Rounds
}

// CoreToRound converts a round record to its GORM row.
func CoreToRound(matchID uint, r core.RoundRecord) (model.Round, error) {
	row := model.Round{
		MatchID:   matchID,
		RoundID:   r.Round,
		Time:      r.Time,
		Mode:      r.Decision.Mode.String(),
		Alive:     r.Alive,
		Invalid:   r.Invalid,
		Asteroids: r.Asteroids,
	}

	if r.Decision.Target != nil {
		x, y := r.Decision.Target.X, r.Decision.Target.Y
		row.TargetX = &x
		row.TargetY = &y
	}

	var err error
	if row.Events, err = toJSON(parser.EncodeEvents(r.Events)); err != nil {
		return row, fmt.Errorf("error marshalling events: %w", err)
	}
	if row.Actions, err = toJSON(parser.WireActions(r.Actions)); err != nil {
		return row, fmt.Errorf("error marshalling actions: %w", err)
	}
	if row.UnusedEchoes, err = toJSON(r.Decision.UnusedEchoes); err != nil {
		return row, fmt.Errorf("error marshalling unused echoes: %w", err)
	}
	return row, nil
}

// RoundToCore converts a GORM round row back to a round record. Events go
// through the wire decoder, so malformed stored records become InvalidEvent.
func RoundToCore(p *parser.Parser, row model.Round) (core.RoundRecord, error) {
	r := core.RoundRecord{
		Round:     row.RoundID,
		Time:      row.Time,
		Alive:     row.Alive,
		Invalid:   row.Invalid,
		Asteroids: row.Asteroids,
	}

	var raws []parser.RawEvent
	if err := json.Unmarshal(row.Events, &raws); err != nil {
		return r, fmt.Errorf("error unmarshalling events: %w", err)
	}
	r.Events = p.ConvertEvents(raws)

	var wire []parser.WireAction
	if err := json.Unmarshal(row.Actions, &wire); err != nil {
		return r, fmt.Errorf("error unmarshalling actions: %w", err)
	}
	actions, err := parser.ActionsFromWire(wire)
	if err != nil {
		return r, err
	}
	r.Actions = actions

	mode, err := core.ParseMode(row.Mode)
	if err != nil {
		return r, err
	}
	r.Decision.Mode = mode
	if row.TargetX != nil && row.TargetY != nil {
		target := core.NewPosition(*row.TargetX, *row.TargetY)
		r.Decision.Target = &target
	}
	if len(row.UnusedEchoes) > 0 {
		if err := json.Unmarshal(row.UnusedEchoes, &r.Decision.UnusedEchoes); err != nil {
			return r, fmt.Errorf("error unmarshalling unused echoes: %w", err)
		}
	}
	return r, nil
}
