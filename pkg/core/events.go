// pkg/core/events.go
package core

import "fmt"

// EventKind identifies an Event variant.
type EventKind int

const (
	KindInvalid EventKind = iota
	KindHit
	KindDie
	KindSee
	KindEcho
	KindDetected
	KindDamaged
	KindMove
	KindNoAction
)

var eventKindNames = map[EventKind]string{
	KindInvalid:  "invalid",
	KindHit:      "hit",
	KindDie:      "die",
	KindSee:      "see",
	KindEcho:     "radarEcho",
	KindDetected: "detected",
	KindDamaged:  "damaged",
	KindMove:     "move",
	KindNoAction: "noaction",
}

// String returns the wire name of the kind.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind maps a wire name to its kind. Unknown names map to KindInvalid.
func ParseEventKind(s string) EventKind {
	for k, name := range eventKindNames {
		if name == s {
			return k
		}
	}
	return KindInvalid
}

// Event is one observation reported by the server for a round. The set of
// implementations is closed; consumers switch on the concrete type.
type Event interface {
	Kind() EventKind
	event()
}

// HitEvent: bot BotID was hit by a shot fired by Source.
type HitEvent struct {
	BotID  int
	Source int
}

// DieEvent: bot BotID died.
type DieEvent struct {
	BotID int
}

// SeeEvent: our bot Source saw bot BotID at Pos.
type SeeEvent struct {
	BotID  int
	Source int
	Pos    Position
}

// EchoEvent: a radar reported something at Pos.
type EchoEvent struct {
	Pos Position
}

// DetectedEvent: our bot BotID was spotted by the enemy.
type DetectedEvent struct {
	BotID int
}

// DamagedEvent: our bot BotID lost Damage hit points.
type DamagedEvent struct {
	BotID  int
	Damage int
}

// MoveEvent: our bot BotID is now at Pos.
type MoveEvent struct {
	BotID int
	Pos   Position
}

// NoActionEvent: bot BotID did nothing last round.
type NoActionEvent struct {
	BotID int
}

// InvalidEvent stands in for a record that could not be decoded.
type InvalidEvent struct{}

func (HitEvent) Kind() EventKind      { return KindHit }
func (DieEvent) Kind() EventKind      { return KindDie }
func (SeeEvent) Kind() EventKind      { return KindSee }
func (EchoEvent) Kind() EventKind     { return KindEcho }
func (DetectedEvent) Kind() EventKind { return KindDetected }
func (DamagedEvent) Kind() EventKind  { return KindDamaged }
func (MoveEvent) Kind() EventKind     { return KindMove }
func (NoActionEvent) Kind() EventKind { return KindNoAction }
func (InvalidEvent) Kind() EventKind  { return KindInvalid }

func (HitEvent) event()      {}
func (DieEvent) event()      {}
func (SeeEvent) event()      {}
func (EchoEvent) event()     {}
func (DetectedEvent) event() {}
func (DamagedEvent) event()  {}
func (MoveEvent) event()     {}
func (NoActionEvent) event() {}
func (InvalidEvent) event()  {}

// Sighting returns the position carried by a See or Echo event.
func Sighting(e Event) (Position, bool) {
	switch ev := e.(type) {
	case SeeEvent:
		return ev.Pos, true
	case EchoEvent:
		return ev.Pos, true
	default:
		return Position{}, false
	}
}

// Stored reports whether an event is kept in the round history. Invalid and
// NoAction records carry nothing the engine uses.
func Stored(e Event) bool {
	switch e.(type) {
	case InvalidEvent, NoActionEvent:
		return false
	default:
		return true
	}
}
