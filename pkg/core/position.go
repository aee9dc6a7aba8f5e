// Package core defines the game model shared by the engine, the wire codec and
// the storage backends: positions on the hex board, bots, events, actions and
// the per-round decision.
package core

import "fmt"

// Position is an axial hex coordinate. The third cube coordinate is derived
// as Z = -X - Y.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is the center of the board.
var Origin = Position{}

// NewPosition builds a position from its axial coordinates.
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// Z returns the implicit third cube coordinate.
func (p Position) Z() int {
	return -p.X - p.Y
}

// Add returns the component-wise sum of two positions.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
