package parser

import (
	"encoding/json"
	"fmt"

	"github.com/serenity-bot/serenity/pkg/core"
)

// EncodeJoin builds the join reply sent after the server greeting.
func (p *Parser) EncodeJoin(teamName string) ([]byte, error) {
	data, err := json.Marshal(JoinMessage{EventType: TypeJoin, TeamName: teamName})
	if err != nil {
		return nil, fmt.Errorf("error marshalling join message: %w", err)
	}
	return data, nil
}

// EncodeActions builds the actions reply for a round. NoAction entries are
// not sent.
func (p *Parser) EncodeActions(roundID int, actions []core.Action) ([]byte, error) {
	msg := ActionsMessage{
		EventType: TypeActions,
		RoundID:   roundID,
		Actions:   WireActions(actions),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("error marshalling actions message: %w", err)
	}
	return data, nil
}

// WireActions converts engine actions to their wire form, skipping NoAction.
func WireActions(actions []core.Action) []WireAction {
	out := make([]WireAction, 0, len(actions))
	for _, a := range actions {
		if a.Kind == core.NoAction {
			continue
		}
		out = append(out, WireAction{BotID: a.BotID, Type: a.Kind.String(), Pos: a.Pos})
	}
	return out
}

// ActionsFromWire converts recorded wire actions back to engine actions.
func ActionsFromWire(wire []WireAction) ([]core.Action, error) {
	out := make([]core.Action, 0, len(wire))
	for i, w := range wire {
		kind, err := core.ParseActionKind(w.Type)
		if err != nil {
			return nil, fmt.Errorf("error parsing action %d type: %w", i, err)
		}
		out = append(out, core.Action{BotID: w.BotID, Kind: kind, Pos: w.Pos})
	}
	return out, nil
}
