package model

import "time"

// Session is an authenticated player session
type Session struct {
	Token     string
	PlayerID  PlayerID
	Player    Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired returns true once the session can no longer be used
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
