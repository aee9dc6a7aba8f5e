package main

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-bot/serenity/internal/ai"
	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/internal/pattern"
	"github.com/serenity-bot/serenity/internal/storage/memory"
	"github.com/serenity-bot/serenity/pkg/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// record plays scripted rounds through an engine the way the client does and
// returns what storage would have kept.
func record(t *testing.T, seed uint64) (core.Match, []core.RoundRecord) {
	t.Helper()

	cfg := core.DefaultConfig()
	cfg.FieldRadius = 9
	match := core.Match{
		ID:        1,
		TeamID:    1,
		TeamName:  "Serenity",
		Config:    cfg,
		StartTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Seed:      seed,
		Bots: []core.Bot{
			{ID: 0, Name: "Mal", Alive: true, Pos: core.NewPosition(0, 0), HP: 10},
			{ID: 1, Name: "Zoe", Alive: true, Pos: core.NewPosition(2, -1), HP: 10},
			{ID: 2, Name: "Wash", Alive: true, Pos: core.NewPosition(-2, 1), HP: 10},
		},
	}

	playCfg := cfg
	playCfg.HealthyHP = 2
	engine := ai.New(playCfg, match.Bots, ai.WithRand(pattern.NewRand(seed)), ai.WithLogger(discardLogger()))

	script := [][]core.Event{
		{},
		{core.EchoEvent{Pos: core.NewPosition(5, -3)}},
		{core.HitEvent{BotID: 7, Source: 0}, core.EchoEvent{Pos: core.NewPosition(5, -2)}},
		{core.DetectedEvent{BotID: 1}},
		{},
	}

	var rounds []core.RoundRecord
	for i, events := range script {
		round := i + 1
		actions, err := engine.HandleRound(round, events)
		require.NoError(t, err)
		d, err := engine.History().Decision(round)
		require.NoError(t, err)
		rounds = append(rounds, core.RoundRecord{
			Round:    round,
			Time:     match.StartTime.Add(time.Duration(round) * time.Second),
			Events:   events,
			Actions:  actions,
			Decision: d,
			Alive:    3,
		})
	}
	return match, rounds
}

func TestReplayReproducesRecording(t *testing.T) {
	match, rounds := record(t, 42)

	var out bytes.Buffer
	sum, err := replay(&out, match, rounds, 42, 2, discardLogger())
	require.NoError(t, err)

	assert.True(t, sum.Matches())
	assert.Equal(t, len(rounds), sum.Rounds)
	assert.Contains(t, out.String(), "replayed 5 rounds, 0 diverged")
	assert.NotContains(t, out.String(), "DIVERGED")
}

func TestReplayReportsDivergence(t *testing.T) {
	match, rounds := record(t, 42)
	rounds[1].Decision.Mode = core.Scan
	rounds[1].Decision.Target = nil

	var out bytes.Buffer
	sum, err := replay(&out, match, rounds, 42, 2, discardLogger())
	require.NoError(t, err)

	assert.False(t, sum.Matches())
	assert.Equal(t, []int{2}, sum.Diverged)
	assert.Contains(t, out.String(), "DIVERGED")
}

func TestReplayUnknownBot(t *testing.T) {
	match, rounds := record(t, 42)
	rounds[2].Events = []core.Event{core.MoveEvent{BotID: 99, Pos: core.NewPosition(0, 0)}}

	_, err := replay(io.Discard, match, rounds, 42, 2, discardLogger())
	assert.ErrorContains(t, err, "round 3")
}

func TestSameActionsIgnoresNoAction(t *testing.T) {
	a := core.Action{BotID: 1, Kind: core.Radar, Pos: core.NewPosition(1, 1)}
	idle := core.Action{BotID: 2, Kind: core.NoAction}

	assert.True(t, sameActions([]core.Action{a, idle}, []core.Action{a}))
	assert.False(t, sameActions([]core.Action{a}, nil))
}

func TestRunFromExportFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	match, rounds := record(t, 9)

	backend := memory.New(config.MemoryConfig{OutputDir: t.TempDir(), CompressOutput: true})
	require.NoError(t, backend.Init())
	require.NoError(t, backend.StartMatch(&match))
	for i := range rounds {
		require.NoError(t, backend.RecordRound(&rounds[i]))
	}
	require.NoError(t, backend.EndMatch(core.MatchResult{Rounds: len(rounds), EndTime: time.Now()}))
	path := backend.ExportedFilePath()
	require.NotEmpty(t, path)

	var out bytes.Buffer
	require.NoError(t, run(&out, t.TempDir(), "", path, 0, 0, false))
	assert.Contains(t, out.String(), "seed=9")
	assert.Contains(t, out.String(), "0 diverged")
}

func TestRunMissingRecording(t *testing.T) {
	t.Cleanup(viper.Reset)
	err := run(io.Discard, t.TempDir(), "/nonexistent/serenity.db", "", 0, 0, false)
	assert.ErrorContains(t, err, "recording not found")
}
