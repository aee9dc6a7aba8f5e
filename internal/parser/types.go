package parser

import (
	"encoding/json"

	"github.com/serenity-bot/serenity/pkg/core"
)

// Message type discriminators carried in the event_type field.
const (
	TypeConnected = "connected"
	TypeStart     = "start"
	TypeEvents    = "events"
	TypeEnd       = "end"
	TypeJoin      = "join"
	TypeActions   = "actions"
)

// envelope is decoded first to route the rest of the payload.
type envelope struct {
	EventType string `json:"event_type"`
}

// Connected is the server greeting.
type Connected struct {
	TeamName string `json:"team_name"`
}

// RawPos is a position as it appears on the wire. Coordinates may be
// serialized as floats by the server.
type RawPos struct {
	X json.Number `json:"x"`
	Y json.Number `json:"y"`
}

// RawBot is a roster entry.
type RawBot struct {
	BotID  json.Number `json:"bot_id"`
	Name   string      `json:"name"`
	Alive  *bool       `json:"alive,omitempty"`
	Pos    *RawPos     `json:"pos,omitempty"`
	HP     json.Number `json:"hp,omitempty"`
	TeamID json.Number `json:"team_id,omitempty"`
}

// RawTeam is one side of the match.
type RawTeam struct {
	TeamID   json.Number `json:"team_id"`
	TeamName string      `json:"team_name"`
	Bots     []RawBot    `json:"bots"`
}

type rawStart struct {
	You        RawTeam     `json:"you"`
	Config     core.Config `json:"config"`
	OtherTeams []RawTeam   `json:"other_teams"`
}

// Start announces a match: our roster, the game config and the opponents.
type Start struct {
	TeamID     int
	TeamName   string
	Bots       []core.Bot
	Config     core.Config
	OtherTeams []string
}

// RawEvent is a single record of an events message. Which fields are set
// depends on Event.
type RawEvent struct {
	Event  string      `json:"event"`
	BotID  json.Number `json:"bot_id,omitempty"`
	Source json.Number `json:"source,omitempty"`
	Pos    *RawPos     `json:"pos,omitempty"`
	Damage json.Number `json:"damage,omitempty"`
}

type rawEvents struct {
	RoundID json.Number `json:"round_id"`
	Events  []RawEvent  `json:"events"`
}

// Events is one round of observations.
type Events struct {
	RoundID int
	Events  []core.Event
	// Invalid counts records that could not be decoded.
	Invalid int
}

type rawEnd struct {
	WinnerTeamID json.Number `json:"winner_team_id,omitempty"`
}

// End closes a match. WinnerTeamID is nil on a draw.
type End struct {
	WinnerTeamID *int
}

// JoinMessage is our reply to Connected.
type JoinMessage struct {
	EventType string `json:"event_type"`
	TeamName  string `json:"team_name"`
}

// WireAction is one bot order as sent to the server.
type WireAction struct {
	BotID int           `json:"bot_id"`
	Type  string        `json:"type"`
	Pos   core.Position `json:"pos"`
}

// ActionsMessage is our reply to an Events message.
type ActionsMessage struct {
	EventType string       `json:"event_type"`
	RoundID   int          `json:"round_id"`
	Actions   []WireAction `json:"actions"`
}
