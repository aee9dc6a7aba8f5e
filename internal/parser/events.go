package parser

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/serenity-bot/serenity/pkg/core"
)

// ConvertEvent maps a raw record to its typed event. The error names the
// first missing or malformed field.
func (p *Parser) ConvertEvent(raw RawEvent) (core.Event, error) {
	kind := core.ParseEventKind(raw.Event)

	switch kind {
	case core.KindHit:
		botID, err := parseNumber(raw.BotID, "bot_id")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		source, err := parseNumber(raw.Source, "source")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.HitEvent{BotID: botID, Source: source}, nil

	case core.KindDie:
		botID, err := parseNumber(raw.BotID, "bot_id")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.DieEvent{BotID: botID}, nil

	case core.KindSee:
		botID, err := parseNumber(raw.BotID, "bot_id")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		source, err := parseNumber(raw.Source, "source")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		pos, err := parsePos(raw.Pos)
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.SeeEvent{BotID: botID, Source: source, Pos: pos}, nil

	case core.KindEcho:
		pos, err := parsePos(raw.Pos)
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.EchoEvent{Pos: pos}, nil

	case core.KindDetected:
		botID, err := parseNumber(raw.BotID, "bot_id")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.DetectedEvent{BotID: botID}, nil

	case core.KindDamaged:
		botID, err := parseNumber(raw.BotID, "bot_id")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		damage, err := parseNumber(raw.Damage, "damage")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.DamagedEvent{BotID: botID, Damage: damage}, nil

	case core.KindMove:
		botID, err := parseNumber(raw.BotID, "bot_id")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		pos, err := parsePos(raw.Pos)
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.MoveEvent{BotID: botID, Pos: pos}, nil

	case core.KindNoAction:
		botID, err := parseNumber(raw.BotID, "bot_id")
		if err != nil {
			return core.InvalidEvent{}, err
		}
		return core.NoActionEvent{BotID: botID}, nil

	default:
		return core.InvalidEvent{}, fmt.Errorf("unknown event %q", raw.Event)
	}
}

// ConvertEvents maps every record, substituting InvalidEvent for records
// that fail to decode.
func (p *Parser) ConvertEvents(raws []RawEvent) []core.Event {
	events := make([]core.Event, 0, len(raws))
	for i, raw := range raws {
		ev, err := p.ConvertEvent(raw)
		if err != nil {
			p.logger.Debug("Dropping malformed event", "index", i, "event", raw.Event, "error", err)
		}
		events = append(events, ev)
	}
	return events
}

// EncodeEvent is the inverse of ConvertEvent. Recorded rounds are stored in
// wire form so that a replay goes through the same decoder as a live match.
func EncodeEvent(e core.Event) RawEvent {
	raw := RawEvent{Event: e.Kind().String()}

	switch ev := e.(type) {
	case core.HitEvent:
		raw.BotID = number(ev.BotID)
		raw.Source = number(ev.Source)
	case core.DieEvent:
		raw.BotID = number(ev.BotID)
	case core.SeeEvent:
		raw.BotID = number(ev.BotID)
		raw.Source = number(ev.Source)
		raw.Pos = rawPos(ev.Pos)
	case core.EchoEvent:
		raw.Pos = rawPos(ev.Pos)
	case core.DetectedEvent:
		raw.BotID = number(ev.BotID)
	case core.DamagedEvent:
		raw.BotID = number(ev.BotID)
		raw.Damage = number(ev.Damage)
	case core.MoveEvent:
		raw.BotID = number(ev.BotID)
		raw.Pos = rawPos(ev.Pos)
	case core.NoActionEvent:
		raw.BotID = number(ev.BotID)
	}

	return raw
}

// EncodeEvents encodes a slice of events, preserving order.
func EncodeEvents(events []core.Event) []RawEvent {
	raws := make([]RawEvent, 0, len(events))
	for _, e := range events {
		raws = append(raws, EncodeEvent(e))
	}
	return raws
}

func number(v int) json.Number {
	return json.Number(strconv.Itoa(v))
}

func rawPos(p core.Position) *RawPos {
	return &RawPos{X: number(p.X), Y: number(p.Y)}
}
