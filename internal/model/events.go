package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Game lifecycle events
	EventGameStarted   EventType = "game_started"
	EventGameComplete  EventType = "game_complete"
	EventGameAbandoned EventType = "game_abandoned"

	// Turn events
	EventStateChanged  EventType = "state_changed" // payload is a full game snapshot
	EventDiceTumbled   EventType = "dice_tumbled"  // animation frame, not authoritative
	EventDiceRolled    EventType = "dice_rolled"
	EventCellCommitted EventType = "cell_committed"
	EventTurnAdvanced  EventType = "turn_advanced"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	PlayerID  PlayerID // The player who triggered or is affected
	Payload   any      // Type-specific data
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Players []PlayerID
}

// StateChangedPayload carries a snapshot of the game after a transition
type StateChangedPayload struct {
	Game *Game
}

// DiceTumbledPayload contains an animation frame of the rolling dice
type DiceTumbledPayload struct {
	Dice Dice
}

// DiceRolledPayload contains the authoritative result of a roll
type DiceRolledPayload struct {
	Dice      Dice
	RollsLeft int
	Offers    []Offer
}

// CellCommittedPayload contains data for cell committed events
type CellCommittedPayload struct {
	Row       Row
	Value     int
	Scratched bool
}

// TurnAdvancedPayload contains data for turn advanced events
type TurnAdvancedPayload struct {
	Round        int
	NextPlayerID PlayerID
}

// GameCompletePayload contains data for game complete events
type GameCompletePayload struct {
	Standings []Standing
	Winner    PlayerID // Empty if tie
}

// GameAbandonedPayload contains data for game abandoned events
type GameAbandonedPayload struct {
	Reason string
}
