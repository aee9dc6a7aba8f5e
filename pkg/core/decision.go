package core

import "fmt"

// Mode is the squad's overall stance for a round.
type Mode int

const (
	NoMode Mode = iota
	Attack
	Scan
)

func (m Mode) String() string {
	switch m {
	case NoMode:
		return "none"
	case Attack:
		return "attack"
	case Scan:
		return "scan"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Decision is produced once per round and kept in the history so that later
// rounds can decide whether to continue an attack or recover a skipped echo.
type Decision struct {
	Mode   Mode
	Target *Position
	// UnusedEchoes are the positions sighted this round that were not chosen
	// as the target.
	UnusedEchoes []Position
}

// HasTarget reports whether the decision carries a target position.
func (d Decision) HasTarget() bool {
	return d.Target != nil
}

// ParseMode maps a stored mode name back to its Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "none", "":
		return NoMode, nil
	case "attack":
		return Attack, nil
	case "scan":
		return Scan, nil
	default:
		return NoMode, fmt.Errorf("unknown mode %q", s)
	}
}
