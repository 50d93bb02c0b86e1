package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// PlayerType says who controls a seat
type PlayerType string

const (
	PlayerTypeHuman PlayerType = "human"
	PlayerTypeBot   PlayerType = "bot"
)

// Player is anyone who can take a seat: a guest, a registered account or a
// computer player
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool   // no login; bots are guests too
	IsBot       bool   // turns are played by the bot service
	BotStrategy string // strategy name, empty for humans
	CreatedAt   time.Time
}

// Type reports whether a person or a bot controls the player
func (p *Player) Type() PlayerType {
	if p.IsBot {
		return PlayerTypeBot
	}
	return PlayerTypeHuman
}

// RegisteredPlayer holds the login for a Player. It is stored apart from
// the player so the password hash never travels with a session.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // immutable
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
