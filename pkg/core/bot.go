package core

// Bot is a single unit on the board. Bots are never removed from a roster,
// they are only marked dead.
type Bot struct {
	ID    int      `json:"bot_id"`
	Name  string   `json:"name"`
	Alive bool     `json:"alive"`
	Pos   Position `json:"pos"`
	HP    int      `json:"hp"`
}

// Healthy reports whether the bot has at least threshold hit points left.
func (b *Bot) Healthy(threshold int) bool {
	return b.HP >= threshold
}
