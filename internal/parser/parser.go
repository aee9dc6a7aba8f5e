package parser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/serenity-bot/serenity/pkg/core"
)

// parseIntFromFloat parses a string that may be an integer ("3") or float ("3.0") into int64.
// The game server is written in JavaScript, which has no integer type on the wire.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// parseNumber converts a required numeric field, naming it in the error.
func parseNumber(n json.Number, field string) (int, error) {
	if n == "" {
		return 0, fmt.Errorf("missing %s", field)
	}
	v, err := parseIntFromFloat(n.String())
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %v", field, err)
	}
	return int(v), nil
}

// Parser converts raw websocket payloads into typed messages and back.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// MessageType returns the event_type discriminator of a payload.
func (p *Parser) MessageType(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("error unmarshalling message envelope: %w", err)
	}
	if env.EventType == "" {
		return "", fmt.Errorf("missing event_type")
	}
	return env.EventType, nil
}

// Decode parses a payload into one of Connected, Start, Events or End.
func (p *Parser) Decode(data []byte) (any, error) {
	eventType, err := p.MessageType(data)
	if err != nil {
		return nil, err
	}

	switch eventType {
	case TypeConnected:
		return p.ParseConnected(data)
	case TypeStart:
		return p.ParseStart(data)
	case TypeEvents:
		return p.ParseEvents(data)
	case TypeEnd:
		return p.ParseEnd(data)
	default:
		return nil, fmt.Errorf("unknown message type: %s", eventType)
	}
}

// ParseConnected parses the server greeting.
func (p *Parser) ParseConnected(data []byte) (Connected, error) {
	var result Connected
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("error unmarshalling connected message: %w", err)
	}
	return result, nil
}

// ParseStart parses a match start: roster, config and opponents.
// Bots without an explicit hp start with the configured StartHP.
func (p *Parser) ParseStart(data []byte) (Start, error) {
	var result Start

	var raw rawStart
	raw.Config = defaultWireConfig()
	if err := json.Unmarshal(data, &raw); err != nil {
		return result, fmt.Errorf("error unmarshalling start message: %w", err)
	}

	if raw.Config.FieldRadius <= 0 {
		return result, fmt.Errorf("error parsing config: fieldRadius must be positive, got %d", raw.Config.FieldRadius)
	}
	result.Config = raw.Config

	if raw.You.TeamID != "" {
		teamID, err := parseNumber(raw.You.TeamID, "team_id")
		if err != nil {
			return result, err
		}
		result.TeamID = teamID
	}
	result.TeamName = raw.You.TeamName

	if len(raw.You.Bots) == 0 {
		return result, fmt.Errorf("start message has no bots")
	}
	for i, rb := range raw.You.Bots {
		bot, err := p.parseBot(rb, raw.Config.StartHP)
		if err != nil {
			return result, fmt.Errorf("error parsing bot %d: %w", i, err)
		}
		result.Bots = append(result.Bots, bot)
	}

	for _, t := range raw.OtherTeams {
		result.OtherTeams = append(result.OtherTeams, t.TeamName)
	}

	p.logger.Debug("Parsed start message",
		"team", result.TeamName,
		"bots", len(result.Bots),
		"fieldRadius", result.Config.FieldRadius)

	return result, nil
}

func (p *Parser) parseBot(rb RawBot, startHP int) (core.Bot, error) {
	var bot core.Bot

	id, err := parseNumber(rb.BotID, "bot_id")
	if err != nil {
		return bot, err
	}
	bot.ID = id
	bot.Name = rb.Name

	bot.Alive = true
	if rb.Alive != nil {
		bot.Alive = *rb.Alive
	}

	if rb.Pos != nil {
		pos, err := parsePos(rb.Pos)
		if err != nil {
			return bot, err
		}
		bot.Pos = pos
	}

	bot.HP = startHP
	if rb.HP != "" {
		hp, err := parseNumber(rb.HP, "hp")
		if err != nil {
			return bot, err
		}
		bot.HP = hp
	}

	return bot, nil
}

func parsePos(rp *RawPos) (core.Position, error) {
	if rp == nil {
		return core.Position{}, fmt.Errorf("missing pos")
	}
	x, err := parseNumber(rp.X, "pos.x")
	if err != nil {
		return core.Position{}, err
	}
	y, err := parseNumber(rp.Y, "pos.y")
	if err != nil {
		return core.Position{}, err
	}
	return core.NewPosition(x, y), nil
}

// ParseEvents parses one round of events. Records that cannot be decoded
// become InvalidEvent and are counted, they never fail the message.
func (p *Parser) ParseEvents(data []byte) (Events, error) {
	var result Events

	var raw rawEvents
	if err := json.Unmarshal(data, &raw); err != nil {
		return result, fmt.Errorf("error unmarshalling events message: %w", err)
	}

	roundID, err := parseNumber(raw.RoundID, "round_id")
	if err != nil {
		return result, err
	}
	result.RoundID = roundID

	result.Events = p.ConvertEvents(raw.Events)
	for _, ev := range result.Events {
		if ev.Kind() == core.KindInvalid {
			result.Invalid++
		}
	}

	return result, nil
}

// ParseEnd parses the match end message.
func (p *Parser) ParseEnd(data []byte) (End, error) {
	var result End

	var raw rawEnd
	if err := json.Unmarshal(data, &raw); err != nil {
		return result, fmt.Errorf("error unmarshalling end message: %w", err)
	}
	if raw.WinnerTeamID != "" {
		winner, err := parseNumber(raw.WinnerTeamID, "winner_team_id")
		if err != nil {
			return result, err
		}
		result.WinnerTeamID = &winner
	}
	return result, nil
}

func defaultWireConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.HealthyHP = 0
	return cfg
}
