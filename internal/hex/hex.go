// Package hex implements distance, neighborhood and clamping on the axial hex
// board. The board is the hexagon of all positions within FieldRadius of the
// origin.
package hex

import (
	"math"

	"github.com/serenity-bot/serenity/pkg/core"
)

// Directions lists the six unit offsets in axial coordinates.
var Directions = [6]core.Position{
	{X: 1, Y: 0},
	{X: 1, Y: -1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: -1, Y: 1},
	{X: 0, Y: 1},
}

// Distance is the hex metric: the largest absolute cube coordinate difference.
func Distance(a, b core.Position) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z() - b.Z()
	return max(abs(dx), abs(dy), abs(dz))
}

// Disk returns every position within radius of center, center included,
// ordered by dx ascending then dy ascending.
func Disk(center core.Position, radius int) []core.Position {
	if radius < 0 {
		return nil
	}
	out := make([]core.Position, 0, 3*radius*(radius+1)+1)
	for dx := -radius; dx <= radius; dx++ {
		lo := max(-radius, -dx-radius)
		hi := min(radius, -dx+radius)
		for dy := lo; dy <= hi; dy++ {
			out = append(out, core.Position{X: center.X + dx, Y: center.Y + dy})
		}
	}
	return out
}

// Neighbors returns every position p with 1 <= Distance(center, p) <= radius
// in Disk order. A non-positive radius yields an empty slice.
func Neighbors(center core.Position, radius int) []core.Position {
	if radius <= 0 {
		return []core.Position{}
	}
	disk := Disk(center, radius)
	out := make([]core.Position, 0, len(disk)-1)
	for _, p := range disk {
		if p != center {
			out = append(out, p)
		}
	}
	return out
}

// ClampedNeighbors is Neighbors restricted to the board.
func ClampedNeighbors(center core.Position, radius, fieldRadius int) []core.Position {
	all := Neighbors(center, radius)
	out := all[:0]
	for _, p := range all {
		if InBounds(p, fieldRadius) {
			out = append(out, p)
		}
	}
	return out
}

// Board returns every position on a board of the given radius.
func Board(fieldRadius int) []core.Position {
	return Disk(core.Origin, fieldRadius)
}

// InBounds reports whether p lies on the board.
func InBounds(p core.Position, fieldRadius int) bool {
	return Distance(p, core.Origin) <= fieldRadius
}

// DistanceToEdge is the number of steps from p to the board boundary. It is
// negative for positions off the board.
func DistanceToEdge(p core.Position, fieldRadius int) int {
	return fieldRadius - Distance(p, core.Origin)
}

// Clamp projects p onto the board. Positions already on the board are
// returned unchanged. Off-board positions are scaled toward the origin and
// rounded back onto the grid.
func Clamp(p core.Position, fieldRadius int) core.Position {
	d := Distance(p, core.Origin)
	if d <= fieldRadius {
		return p
	}
	if fieldRadius <= 0 {
		return core.Origin
	}

	scale := float64(fieldRadius) / float64(d)
	fx := float64(p.X) * scale
	fy := float64(p.Y) * scale
	fz := float64(p.Z()) * scale

	rx, ry, rz := math.Round(fx), math.Round(fy), math.Round(fz)
	ex, ey, ez := math.Abs(rx-fx), math.Abs(ry-fy), math.Abs(rz-fz)

	// Rebuild the axis with the smallest error from the other two.
	out := rebuild(rx, ry, rz, smallest(ex, ey, ez))
	if !InBounds(out, fieldRadius) {
		// Half-way ties can push the smallest-error rebuild past the rim.
		out = rebuild(rx, ry, rz, largest(ex, ey, ez))
	}
	for !InBounds(out, fieldRadius) {
		out = StepToward(out, core.Origin)
	}
	return out
}

// StepToward returns the neighbor of p one step closer to target, or p itself
// when they coincide. Ties go to the first direction in Directions order.
func StepToward(p, target core.Position) core.Position {
	if p == target {
		return p
	}
	best := p
	bestDist := Distance(p, target)
	for _, d := range Directions {
		n := p.Add(d)
		if dist := Distance(n, target); dist < bestDist {
			best, bestDist = n, dist
		}
	}
	return best
}

const (
	axisX = iota
	axisY
	axisZ
)

func rebuild(rx, ry, rz float64, axis int) core.Position {
	x, y, z := int(rx), int(ry), int(rz)
	switch axis {
	case axisX:
		x = -y - z
	case axisY:
		y = -x - z
	}
	// Z is implicit in axial form, so rebuilding it is a no-op.
	return core.Position{X: x, Y: y}
}

func smallest(ex, ey, ez float64) int {
	switch {
	case ex <= ey && ex <= ez:
		return axisX
	case ey <= ez:
		return axisY
	default:
		return axisZ
	}
}

func largest(ex, ey, ez float64) int {
	switch {
	case ex > ey && ex > ez:
		return axisX
	case ey > ez:
		return axisY
	default:
		return axisZ
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
