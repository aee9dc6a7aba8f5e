package parser

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-bot/serenity/pkg/core"
)

func newTestParser() *Parser {
	return NewParser(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseIntFromFloat(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"3", 3, false},
		{"-7", -7, false},
		{"3.0", 3, false},
		{"-2.00", -2, false},
		{"3.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseIntFromFloat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageType(t *testing.T) {
	p := newTestParser()

	typ, err := p.MessageType([]byte(`{"event_type":"events","round_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, TypeEvents, typ)

	_, err = p.MessageType([]byte(`{"round_id":1}`))
	assert.ErrorContains(t, err, "event_type")

	_, err = p.MessageType([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, msg any)
		wantErr string
	}{
		{
			name:  "connected",
			input: `{"event_type":"connected","team_name":"Serenity"}`,
			check: func(t *testing.T, msg any) {
				c, ok := msg.(Connected)
				require.True(t, ok)
				assert.Equal(t, "Serenity", c.TeamName)
			},
		},
		{
			name: "start",
			input: `{"event_type":"start",
				"you":{"team_id":1,"team_name":"Serenity","bots":[
					{"bot_id":0,"name":"Mal","alive":true,"pos":{"x":1,"y":-2},"hp":10},
					{"bot_id":1,"name":"Zoe","pos":{"x":0,"y":0}}]},
				"config":{"bots":2,"fieldRadius":8,"move":2,"startHp":5,"cannon":1,"radar":3,"see":2},
				"other_teams":[{"team_id":2,"team_name":"Reavers","bots":[]}]}`,
			check: func(t *testing.T, msg any) {
				s, ok := msg.(Start)
				require.True(t, ok)
				assert.Equal(t, 1, s.TeamID)
				assert.Equal(t, "Serenity", s.TeamName)
				assert.Equal(t, 8, s.Config.FieldRadius)
				assert.Equal(t, 5, s.Config.StartHP)
				require.Len(t, s.Bots, 2)
				assert.Equal(t, core.Bot{ID: 0, Name: "Mal", Alive: true, Pos: core.NewPosition(1, -2), HP: 10}, s.Bots[0])
				// missing hp and alive fall back to start values
				assert.Equal(t, core.Bot{ID: 1, Name: "Zoe", Alive: true, Pos: core.Origin, HP: 5}, s.Bots[1])
				assert.Equal(t, []string{"Reavers"}, s.OtherTeams)
			},
		},
		{
			name:  "events",
			input: `{"event_type":"events","round_id":4.0,"events":[{"event":"radarEcho","pos":{"x":3,"y":-1}}]}`,
			check: func(t *testing.T, msg any) {
				e, ok := msg.(Events)
				require.True(t, ok)
				assert.Equal(t, 4, e.RoundID)
				assert.Equal(t, []core.Event{core.EchoEvent{Pos: core.NewPosition(3, -1)}}, e.Events)
				assert.Zero(t, e.Invalid)
			},
		},
		{
			name:  "end with winner",
			input: `{"event_type":"end","winner_team_id":2}`,
			check: func(t *testing.T, msg any) {
				e, ok := msg.(End)
				require.True(t, ok)
				require.NotNil(t, e.WinnerTeamID)
				assert.Equal(t, 2, *e.WinnerTeamID)
			},
		},
		{
			name:  "end draw",
			input: `{"event_type":"end"}`,
			check: func(t *testing.T, msg any) {
				e, ok := msg.(End)
				require.True(t, ok)
				assert.Nil(t, e.WinnerTeamID)
			},
		},
		{
			name:    "unknown type",
			input:   `{"event_type":"spectate"}`,
			wantErr: "unknown message type: spectate",
		},
		{
			name:    "events without round",
			input:   `{"event_type":"events","events":[]}`,
			wantErr: "missing round_id",
		},
		{
			name:    "start without bots",
			input:   `{"event_type":"start","you":{"team_name":"Serenity","bots":[]},"config":{"fieldRadius":8}}`,
			wantErr: "no bots",
		},
		{
			name:    "start with bad radius",
			input:   `{"event_type":"start","you":{"bots":[{"bot_id":0}]},"config":{"fieldRadius":0}}`,
			wantErr: "fieldRadius",
		},
		{
			name:    "start with bad bot id",
			input:   `{"event_type":"start","you":{"bots":[{"bot_id":0.5}]},"config":{"fieldRadius":4}}`,
			wantErr: "error parsing bot 0: error parsing bot_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := p.Decode([]byte(tt.input))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, msg)
		})
	}
}

func TestEncodeJoin(t *testing.T) {
	p := newTestParser()

	data, err := p.EncodeJoin("Serenity")
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_type":"join","team_name":"Serenity"}`, string(data))
}

func TestEncodeActions(t *testing.T) {
	p := newTestParser()

	actions := []core.Action{
		{BotID: 0, Kind: core.Cannon, Pos: core.NewPosition(1, 2)},
		{BotID: 1, Kind: core.NoAction},
		{BotID: 2, Kind: core.Move, Pos: core.NewPosition(-1, 0)},
	}

	data, err := p.EncodeActions(7, actions)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_type":"actions","round_id":7,"actions":[
		{"bot_id":0,"type":"cannon","pos":{"x":1,"y":2}},
		{"bot_id":2,"type":"move","pos":{"x":-1,"y":0}}]}`, string(data))

	var msg ActionsMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	back, err := ActionsFromWire(msg.Actions)
	require.NoError(t, err)
	assert.Equal(t, []core.Action{actions[0], actions[2]}, back)
}

func TestActionsFromWireRejectsUnknownType(t *testing.T) {
	_, err := ActionsFromWire([]WireAction{{BotID: 1, Type: "laser"}})
	assert.ErrorContains(t, err, "action 0 type")
}
