package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Match{},
	&Round{},
}

// Match is one game session from start to end.
type Match struct {
	gorm.Model
	TeamID       int            `json:"teamId"`
	TeamName     string         `json:"teamName" gorm:"size:127"`
	Opponents    datatypes.JSON `json:"opponents"` // []string
	Config       datatypes.JSON `json:"config"`    // core.Config
	Bots         datatypes.JSON `json:"bots"`      // starting roster []core.Bot
	Seed         uint64         `json:"seed"`
	StartTime    time.Time      `json:"startTime" gorm:"index:idx_match_start"`
	EndTime      *time.Time     `json:"endTime"`
	WinnerTeamID *int           `json:"winnerTeamId"`
	Won          bool           `json:"won"`
	RoundCount   int            `json:"roundCount"`
	Rounds       []Round        `json:"-"`
}

func (*Match) TableName() string {
	return "matches"
}

// Round holds one round of a match. Events are stored in wire form so a
// replay decodes them the same way a live match does.
type Round struct {
	ID           uint           `json:"id" gorm:"primarykey;autoIncrement"`
	MatchID      uint           `json:"matchId" gorm:"uniqueIndex:idx_match_round"`
	RoundID      int            `json:"roundId" gorm:"uniqueIndex:idx_match_round"`
	Time         time.Time      `json:"time"`
	Events       datatypes.JSON `json:"events"`  // []parser.RawEvent
	Actions      datatypes.JSON `json:"actions"` // []parser.WireAction
	Mode         string         `json:"mode" gorm:"size:16"`
	TargetX      *int           `json:"targetX"`
	TargetY      *int           `json:"targetY"`
	UnusedEchoes datatypes.JSON `json:"unusedEchoes"` // []core.Position
	Alive        int            `json:"alive"`
	Invalid      int            `json:"invalid"`
	Asteroids    int            `json:"asteroids"`
}

func (*Round) TableName() string {
	return "rounds"
}
