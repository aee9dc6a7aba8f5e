// Package asteroid infers which radar echoes are asteroids rather than enemy
// bots, by correlating echoes with our earlier cannon fire.
package asteroid

// Tribool is a three-valued verdict.
type Tribool int

const (
	No Tribool = iota
	Maybe
	Yes
)

func (t Tribool) String() string {
	switch t {
	case Yes:
		return "Yes"
	case Maybe:
		return "Maybe"
	default:
		return "No"
	}
}
