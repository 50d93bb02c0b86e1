package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateInProgress GameState = "in_progress" // Players taking turns
	GameStateComplete   GameState = "complete"    // Every cell filled, scores final
	GameStateAbandoned  GameState = "abandoned"   // Game was cancelled
)

// Seat limits for a single game
const (
	MinPlayers = 1
	MaxPlayers = 8
)

// Game represents a single instance of the dice game
type Game struct {
	ID     GameID
	HostID PlayerID // player who created the game and drives hot-seat turns
	State  GameState

	// Seats in turn order
	Seats []*PlayerState

	// Turn management
	CurrentIdx int // Index into Seats for the player whose turn it is
	Round      int // 1-indexed; one round is a turn for every seat

	// Timing
	TurnStartedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalRounds is the number of rounds in a full game, one per category
func TotalRounds() int {
	return len(upperCategories) + len(lowerCategories)
}

// CurrentSeat returns the seat whose turn it is
func (g *Game) CurrentSeat() *PlayerState {
	if len(g.Seats) == 0 || g.CurrentIdx < 0 || g.CurrentIdx >= len(g.Seats) {
		return nil
	}
	return g.Seats[g.CurrentIdx]
}

// CurrentPlayer returns the PlayerID of the player whose turn it is
func (g *Game) CurrentPlayer() PlayerID {
	seat := g.CurrentSeat()
	if seat == nil {
		return ""
	}
	return seat.PlayerID
}

// Seat returns the seat for the given player, or nil if not seated
func (g *Game) Seat(playerID PlayerID) *PlayerState {
	for _, s := range g.Seats {
		if s.PlayerID == playerID {
			return s
		}
	}
	return nil
}

// HasPlayer returns true if the player is seated in this game
func (g *Game) HasPlayer(playerID PlayerID) bool {
	return g.Seat(playerID) != nil
}

// AllColumnsComplete returns true once every seat has filled every cell
func (g *Game) AllColumnsComplete() bool {
	for _, s := range g.Seats {
		if !s.Column.IsComplete() {
			return false
		}
	}
	return true
}

// IsFinished returns true if the game can no longer be played
func (g *Game) IsFinished() bool {
	return g.State == GameStateComplete || g.State == GameStateAbandoned
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	clone := *g
	clone.Seats = make([]*PlayerState, len(g.Seats))
	for i, s := range g.Seats {
		clone.Seats[i] = s.Clone()
	}
	return &clone
}

// Standing is a player's derived score at a point in the game
type Standing struct {
	PlayerID    PlayerID
	DisplayName string
	UpperTotal  int
	Bonus       int
	LowerTotal  int
	GrandTotal  int
}

// GameSummary is a lightweight record of a completed game
type GameSummary struct {
	ID          GameID
	Players     []PlayerID
	FinalScores map[PlayerID]int
	Winner      PlayerID // Empty if tie
	CompletedAt time.Time
}

// Clone returns a deep copy of the summary
func (s *GameSummary) Clone() *GameSummary {
	clone := *s
	clone.Players = append([]PlayerID(nil), s.Players...)
	clone.FinalScores = make(map[PlayerID]int, len(s.FinalScores))
	for id, score := range s.FinalScores {
		clone.FinalScores[id] = score
	}
	return &clone
}

// HasPlayer returns true if the player took part in the game
func (s *GameSummary) HasPlayer(playerID PlayerID) bool {
	for _, p := range s.Players {
		if p == playerID {
			return true
		}
	}
	return false
}
