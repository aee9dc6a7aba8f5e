package core

// Config is the game configuration announced by the server at match start.
type Config struct {
	Bots        int `json:"bots"`
	FieldRadius int `json:"fieldRadius"`
	Move        int `json:"move"`
	StartHP     int `json:"startHp"`
	Cannon      int `json:"cannon"`
	Radar       int `json:"radar"`
	See         int `json:"see"`
	Asteroids   int `json:"asteroids"`
	LoopTime    int `json:"loopTime"`
	MaxCount    int `json:"maxCount"`

	// HealthyHP is not sent by the server; it comes from the client config.
	HealthyHP int `json:"-"`
}

// DefaultConfig mirrors the server's default game settings.
func DefaultConfig() Config {
	return Config{
		Bots:        3,
		FieldRadius: 14,
		Move:        2,
		StartHP:     10,
		Cannon:      1,
		Radar:       3,
		See:         2,
		Asteroids:   0,
		LoopTime:    300,
		MaxCount:    200,
		HealthyHP:   2,
	}
}
