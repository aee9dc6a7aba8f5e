package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionZ(t *testing.T) {
	p := NewPosition(3, -5)
	assert.Equal(t, 2, p.Z())
	assert.Equal(t, 0, p.X+p.Y+p.Z())
	assert.Equal(t, NewPosition(4, -4), p.Add(NewPosition(1, 1)))
	assert.Equal(t, "(3,-5)", p.String())
}

func TestEventKindRoundTrip(t *testing.T) {
	events := []Event{
		HitEvent{}, DieEvent{}, SeeEvent{}, EchoEvent{}, DetectedEvent{},
		DamagedEvent{}, MoveEvent{}, NoActionEvent{}, InvalidEvent{},
	}
	seen := map[EventKind]bool{}
	for _, e := range events {
		k := e.Kind()
		assert.False(t, seen[k], "duplicate kind %s", k)
		seen[k] = true
		assert.Equal(t, k, ParseEventKind(k.String()))
	}
	assert.Equal(t, KindInvalid, ParseEventKind("teleport"))
}

func TestSighting(t *testing.T) {
	pos, ok := Sighting(EchoEvent{Pos: NewPosition(1, 2)})
	require.True(t, ok)
	assert.Equal(t, NewPosition(1, 2), pos)

	pos, ok = Sighting(SeeEvent{BotID: 4, Source: 1, Pos: NewPosition(-2, 0)})
	require.True(t, ok)
	assert.Equal(t, NewPosition(-2, 0), pos)

	_, ok = Sighting(HitEvent{BotID: 1, Source: 2})
	assert.False(t, ok)
}

func TestStored(t *testing.T) {
	assert.False(t, Stored(InvalidEvent{}))
	assert.False(t, Stored(NoActionEvent{BotID: 1}))
	assert.True(t, Stored(DieEvent{BotID: 1}))
}

func TestActionKindParse(t *testing.T) {
	tests := []struct {
		name    string
		want    ActionKind
		wantErr bool
	}{
		{"radar", Radar, false},
		{"cannon", Cannon, false},
		{"move", Move, false},
		{"noaction", NoAction, false},
		{"jump", NoAction, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActionKind(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
		})
	}
}

func TestBotHealthy(t *testing.T) {
	b := &Bot{ID: 1, HP: 2}
	assert.True(t, b.Healthy(2))
	b.HP = 1
	assert.False(t, b.Healthy(2))
}

func TestRoundRecordCountActions(t *testing.T) {
	r := RoundRecord{Actions: []Action{
		{BotID: 0, Kind: Cannon},
		{BotID: 1, Kind: Radar},
		{BotID: 2, Kind: Cannon},
	}}
	assert.Equal(t, 2, r.CountActions(Cannon))
	assert.Equal(t, 1, r.CountActions(Radar))
	assert.Zero(t, r.CountActions(Move))
}

func TestMatchResultWon(t *testing.T) {
	winner := 3
	assert.True(t, MatchResult{WinnerTeamID: &winner}.Won(3))
	assert.False(t, MatchResult{WinnerTeamID: &winner}.Won(1))
	assert.False(t, MatchResult{}.Won(3))
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{NoMode, Attack, Scan} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("retreat")
	assert.Error(t, err)
}
