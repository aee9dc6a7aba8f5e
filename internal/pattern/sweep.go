package pattern

import (
	"github.com/serenity-bot/serenity/internal/hex"
	"github.com/serenity-bot/serenity/pkg/core"
)

// RadarSweep returns radar centers whose radius-r disks together cover a
// board of radius fieldRadius. Centers are laid out in staggered rows from
// the top of the board; any hex the lattice misses gets a patch center
// appended at the end.
func RadarSweep(fieldRadius, r int) []core.Position {
	if r >= fieldRadius {
		return []core.Position{core.Origin}
	}
	if r <= 0 {
		return hex.Board(fieldRadius)
	}

	inner := fieldRadius - r
	seen := make(map[core.Position]bool)
	var out []core.Position
	add := func(p core.Position) {
		p = hex.Clamp(p, fieldRadius)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	step := 2 * r
	for row, y := 0, -inner; ; row, y = row+1, y+r+1 {
		lo := max(-fieldRadius, -fieldRadius-y) - r
		hi := min(fieldRadius, fieldRadius-y) + r
		phase := (row * r) % step
		for x := alignUp(lo, phase, step); x <= hi; x += step {
			add(core.Position{X: x, Y: y})
		}
		if y >= inner {
			break
		}
	}

	covered := make(map[core.Position]bool)
	for _, c := range out {
		for _, p := range hex.Disk(c, r) {
			covered[p] = true
		}
	}
	for _, h := range hex.Board(fieldRadius) {
		if covered[h] {
			continue
		}
		c := hex.Clamp(h, inner)
		if hex.Distance(c, h) > r {
			c = h
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
		for _, p := range hex.Disk(c, r) {
			covered[p] = true
		}
	}
	return out
}

// alignUp returns the smallest v >= lo with v ≡ phase (mod step).
func alignUp(lo, phase, step int) int {
	m := ((lo-phase)%step + step) % step
	if m == 0 {
		return lo
	}
	return lo + step - m
}

// Cursor walks a radar sweep round-robin, wrapping to the first center after
// the last one.
type Cursor struct {
	positions []core.Position
	next      int
}

// NewCursor builds a cursor over a copy of positions.
func NewCursor(positions []core.Position) *Cursor {
	return &Cursor{positions: append([]core.Position(nil), positions...)}
}

// Next returns the current center and advances. An empty cursor yields the
// origin.
func (c *Cursor) Next() core.Position {
	if len(c.positions) == 0 {
		return core.Origin
	}
	p := c.positions[c.next]
	c.next = (c.next + 1) % len(c.positions)
	return p
}

// Reset rewinds the cursor to the first center.
func (c *Cursor) Reset() {
	c.next = 0
}

// Len returns the number of centers in the sweep.
func (c *Cursor) Len() int {
	return len(c.positions)
}
