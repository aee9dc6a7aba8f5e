package convert

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-bot/serenity/internal/parser"
	"github.com/serenity-bot/serenity/pkg/core"
)

func TestMatchRoundTrip(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := core.Match{
		ID:        7,
		TeamID:    1,
		TeamName:  "Serenity",
		Opponents: []string{"Reavers"},
		Config:    core.DefaultConfig(),
		Bots: []core.Bot{
			{ID: 0, Name: "Mal", Alive: true, Pos: core.NewPosition(1, 2), HP: 10},
		},
		StartTime: start,
		Seed:      42,
	}

	row, err := CoreToMatch(m)
	require.NoError(t, err)
	assert.Equal(t, uint(7), row.ID)
	assert.JSONEq(t, `["Reavers"]`, string(row.Opponents))

	back, err := MatchToCore(row)
	require.NoError(t, err)
	// HealthyHP is not part of the stored config
	m.Config.HealthyHP = 0
	assert.Equal(t, m, back)
}

func TestCoreToMatchEmptyOpponents(t *testing.T) {
	row, err := CoreToMatch(core.Match{Config: core.DefaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(row.Opponents))
	assert.Equal(t, "[]", string(row.Bots))
}

func TestApplyResult(t *testing.T) {
	row, err := CoreToMatch(core.Match{TeamID: 2, Config: core.DefaultConfig()})
	require.NoError(t, err)

	winner := 2
	end := time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC)
	ApplyResult(&row, core.MatchResult{WinnerTeamID: &winner, Rounds: 40, EndTime: end})

	require.NotNil(t, row.EndTime)
	assert.Equal(t, end, *row.EndTime)
	assert.True(t, row.Won)
	assert.Equal(t, 40, row.RoundCount)
}

func TestRoundRoundTrip(t *testing.T) {
	p := parser.NewParser(slog.New(slog.NewTextHandler(io.Discard, nil)))
	target := core.NewPosition(3, -1)

	rec := core.RoundRecord{
		Round: 5,
		Time:  time.Date(2024, 5, 1, 12, 0, 5, 0, time.UTC),
		Events: []core.Event{
			core.EchoEvent{Pos: target},
			core.EchoEvent{Pos: core.NewPosition(-4, 4)},
			core.DamagedEvent{BotID: 1, Damage: 1},
		},
		Actions: []core.Action{
			{BotID: 0, Kind: core.Cannon, Pos: target},
			{BotID: 1, Kind: core.Move, Pos: core.NewPosition(0, 1)},
		},
		Decision: core.Decision{
			Mode:         core.Attack,
			Target:       &target,
			UnusedEchoes: []core.Position{core.NewPosition(-4, 4)},
		},
		Alive:     2,
		Asteroids: 1,
	}

	row, err := CoreToRound(9, rec)
	require.NoError(t, err)
	assert.Equal(t, uint(9), row.MatchID)
	assert.Equal(t, "attack", row.Mode)
	require.NotNil(t, row.TargetX)
	assert.Equal(t, 3, *row.TargetX)

	back, err := RoundToCore(p, row)
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestRoundToCoreWithoutTarget(t *testing.T) {
	p := parser.NewParser(nil)

	row, err := CoreToRound(1, core.RoundRecord{Round: 0, Decision: core.Decision{Mode: core.Scan}})
	require.NoError(t, err)
	assert.Nil(t, row.TargetX)
	assert.Equal(t, "[]", string(row.Events))

	back, err := RoundToCore(p, row)
	require.NoError(t, err)
	assert.Equal(t, core.Scan, back.Decision.Mode)
	assert.Nil(t, back.Decision.Target)
	assert.Empty(t, back.Events)
	assert.Empty(t, back.Decision.UnusedEchoes)
}
