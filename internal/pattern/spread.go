package pattern

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/pkg/core"
)

// Orientation is the axis a two-point twin is laid along.
type Orientation int

const (
	Horizontal Orientation = iota
	Slash
	Backslash
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Slash:
		return "slash"
	default:
		return "backslash"
	}
}

var (
	triangleLeft  = [3]core.Position{{X: -1, Y: 0}, {X: 1, Y: -1}, {X: 0, Y: 1}}
	triangleRight = [3]core.Position{{X: 1, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: -1}}

	wideLeft  = [3]core.Position{{X: -1, Y: 2}, {X: 2, Y: -1}, {X: -1, Y: -1}}
	wideRight = [3]core.Position{{X: 1, Y: -2}, {X: -2, Y: 1}, {X: 1, Y: 1}}
)

func twinOffsets(o Orientation) [2]core.Position {
	switch o {
	case Horizontal:
		return [2]core.Position{{X: 1, Y: 0}, {X: -1, Y: 0}}
	case Slash:
		return [2]core.Position{{X: 1, Y: -1}, {X: -1, Y: 1}}
	default:
		return [2]core.Position{{X: 0, Y: -1}, {X: 0, Y: 1}}
	}
}

// WedgeOrientation picks the twin axis that runs parallel to the nearest
// board edge: the dominant cube axis decides, ties resolved x, y, z. The
// origin has no wedge and gets a random orientation.
func WedgeOrientation(target core.Position, rng Rand) Orientation {
	if target == core.Origin {
		return Orientation(rng.IntN(3))
	}
	ax, ay, az := abs(target.X), abs(target.Y), abs(target.Z())
	switch {
	case ax >= ay && ax >= az:
		return Backslash
	case ay >= az:
		return Horizontal
	default:
		return Slash
	}
}

// Twin returns the two positions either side of target along o, scaled by
// dist.
func Twin(target core.Position, o Orientation, dist int) []core.Position {
	offs := twinOffsets(o)
	out := make([]core.Position, 0, 2)
	for _, d := range offs {
		out = append(out, target.Add(core.Position{X: d.X * dist, Y: d.Y * dist}))
	}
	return out
}

// Triangle returns one of the two mirrored tight triangles around target,
// shuffled, with one corner replaced by target itself.
func Triangle(target core.Position, rng Rand) []core.Position {
	shape := triangleLeft
	if rng.IntN(2) == 1 {
		shape = triangleRight
	}
	out := make([]core.Position, 3)
	for i, d := range shape {
		out[i] = target.Add(d)
	}
	shuffle(out, rng)
	out[0] = target
	shuffle(out, rng)
	return out
}

// WideTriangle returns one of the two mirrored triangles at offset 2-3 from
// target.
func WideTriangle(target core.Position, rng Rand) []core.Position {
	shape := wideLeft
	if rng.IntN(2) == 1 {
		shape = wideRight
	}
	out := make([]core.Position, 3)
	for i, d := range shape {
		out[i] = target.Add(d)
	}
	return out
}

// Jitter moves target by -1, 0 or +1 on each axial coordinate.
func Jitter(target core.Position, rng Rand) core.Position {
	return core.Position{
		X: target.X + rng.IntN(3) - 1,
		Y: target.Y + rng.IntN(3) - 1,
	}
}

// AttackSpread returns n cannon targets around target, all on the board.
func AttackSpread(target core.Position, n, fieldRadius int, rng Rand) []core.Position {
	if n <= 0 {
		return []core.Position{}
	}
	var out []core.Position
	switch n {
	case 1:
		out = []core.Position{Jitter(target, rng)}
	case 2:
		out = Twin(target, WedgeOrientation(target, rng), 1)
		for i, p := range out {
			if hex.DistanceToEdge(p, fieldRadius) <= 0 {
				out[i] = hex.StepToward(p, core.Origin)
			}
		}
	case 3:
		out = Triangle(target, rng)
	default:
		out = append(Triangle(target, rng), target)
		for len(out) < n {
			out = append(out, Jitter(target, rng))
		}
	}
	return clampAll(out, fieldRadius)
}

// ScanSpread returns n radar centers around target, spaced wider than an
// attack spread so the squad re-acquires a target that may have moved.
func ScanSpread(target core.Position, n, fieldRadius int, rng Rand) []core.Position {
	if n <= 0 {
		return []core.Position{}
	}
	var out []core.Position
	switch n {
	case 1:
		out = []core.Position{target}
	case 2:
		out = Twin(target, WedgeOrientation(target, rng), 2)
	case 3:
		out = WideTriangle(target, rng)
	default:
		layout := append(WideTriangle(target, rng), target)
		out = make([]core.Position, n)
		for i := range out {
			out[i] = layout[i%len(layout)]
		}
	}
	return clampAll(out, fieldRadius)
}

func clampAll(ps []core.Position, fieldRadius int) []core.Position {
	for i, p := range ps {
		ps[i] = hex.Clamp(p, fieldRadius)
	}
	return ps
}

func shuffle(ps []core.Position, rng Rand) {
	rng.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
