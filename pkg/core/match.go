// pkg/core/match.go
package core

import "time"

// Match describes a recorded game session as announced by the server.
type Match struct {
	ID        uint
	TeamID    int
	TeamName  string
	Opponents []string
	Config    Config
	Bots      []Bot
	StartTime time.Time
	Seed      uint64
}

// MatchResult closes a match. WinnerTeamID is nil on a draw.
type MatchResult struct {
	WinnerTeamID *int
	Rounds       int
	EndTime      time.Time
}

// Won reports whether teamID won the match.
func (r MatchResult) Won(teamID int) bool {
	return r.WinnerTeamID != nil && *r.WinnerTeamID == teamID
}

// RoundRecord is everything that happened in one round: the observations
// that came in, what we decided and the orders that went out.
type RoundRecord struct {
	Round     int
	Time      time.Time
	Events    []Event
	Actions   []Action
	Decision  Decision
	Alive     int
	Invalid   int
	Asteroids int
}

// CountActions returns how many actions of the given kind were issued.
func (r RoundRecord) CountActions(kind ActionKind) int {
	n := 0
	for _, a := range r.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}
