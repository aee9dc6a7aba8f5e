package core

import "fmt"

// ActionKind identifies what a bot does in a round.
type ActionKind int

const (
	NoAction ActionKind = iota
	Radar
	Cannon
	Move
)

func (k ActionKind) String() string {
	switch k {
	case NoAction:
		return "noaction"
	case Radar:
		return "radar"
	case Cannon:
		return "cannon"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// ParseActionKind maps a wire name back to its ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "noaction":
		return NoAction, nil
	case "radar":
		return Radar, nil
	case "cannon":
		return Cannon, nil
	case "move":
		return Move, nil
	default:
		return NoAction, fmt.Errorf("unknown action kind %q", s)
	}
}

// Action is the order given to one bot for one round.
type Action struct {
	BotID int
	Kind  ActionKind
	Pos   Position
}

func (a Action) String() string {
	return fmt.Sprintf("bot %d %s %s", a.BotID, a.Kind, a.Pos)
}
