package influx

import (
	"bufio"
	"compress/gzip"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/pkg/core"
)

func testRound() core.RoundRecord {
	target := core.NewPosition(3, -2)
	return core.RoundRecord{
		Round: 12,
		Time:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Events: []core.Event{
			core.EchoEvent{Pos: target},
			core.EchoEvent{Pos: core.NewPosition(0, 5)},
		},
		Actions: []core.Action{
			{BotID: 0, Kind: core.Cannon, Pos: target},
			{BotID: 1, Kind: core.Cannon, Pos: target},
			{BotID: 2, Kind: core.Move, Pos: core.NewPosition(1, 1)},
		},
		Decision: core.Decision{
			Mode:         core.Attack,
			Target:       &target,
			UnusedEchoes: []core.Position{core.NewPosition(0, 5)},
		},
		Alive: 3,
	}
}

func fieldMap(p *influxdb2_write.Point) map[string]any {
	out := make(map[string]any)
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func tagMap(p *influxdb2_write.Point) map[string]string {
	out := make(map[string]string)
	for _, tag := range p.TagList() {
		out[tag.Key] = tag.Value
	}
	return out
}

func TestRoundPoint(t *testing.T) {
	match := core.Match{ID: 4, TeamName: "Serenity"}
	p := RoundPoint(match, testRound())

	assert.Equal(t, MeasurementRound, p.Name())
	assert.Equal(t, map[string]string{"team": "Serenity", "match": "4", "mode": "attack"}, tagMap(p))

	fields := fieldMap(p)
	assert.EqualValues(t, 12, fields["round"])
	assert.EqualValues(t, 3, fields["alive"])
	assert.EqualValues(t, 2, fields["cannon"])
	assert.EqualValues(t, 1, fields["move"])
	assert.EqualValues(t, 0, fields["radar"])
	assert.EqualValues(t, 1, fields["unusedEchoes"])
	assert.EqualValues(t, 3, fields["targetX"])
	assert.EqualValues(t, -2, fields["targetY"])
}

func TestRoundPointWithoutTarget(t *testing.T) {
	r := testRound()
	r.Decision = core.Decision{Mode: core.Scan}
	p := RoundPoint(core.Match{}, r)

	fields := fieldMap(p)
	assert.NotContains(t, fields, "targetX")
	assert.Equal(t, "scan", tagMap(p)["mode"])
}

func TestConnectDisabled(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.InfluxConfig{Enabled: false})
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
	assert.False(t, m.IsValid)
}

func TestWritePointWithoutWriter(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.InfluxConfig{})
	err := m.WritePoint(RoundPoint(core.Match{}, testRound()))
	assert.ErrorContains(t, err, "backup writer not available")
}

func TestBackupWriter(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(zerolog.Nop(), config.InfluxConfig{BackupDir: dir})
	require.NoError(t, m.openBackup())

	require.NoError(t, m.WritePoint(RoundPoint(core.Match{ID: 1, TeamName: "Serenity"}, testRound())))
	require.NoError(t, m.Close())

	f, err := os.Open(m.BackupPath())
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	require.True(t, scanner.Scan())
	line := scanner.Text()
	assert.True(t, strings.HasPrefix(line, "round,"), line)
	assert.Contains(t, line, "mode=attack")
	assert.Contains(t, line, "cannon=2i")
}
