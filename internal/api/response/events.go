package response

import (
	"time"

	"github.com/mcoot/yahtzee-go/internal/model"
)

// Event is a game event as pushed to streaming clients
type Event struct {
	Type      string    `json:"type"`
	GameID    string    `json:"game_id"`
	PlayerID  string    `json:"player_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// DiceTumbled is an animation frame of the current player's dice
type DiceTumbled struct {
	Dice []Die `json:"dice"`
}

// DiceRolled is the settled result of a roll
type DiceRolled struct {
	Dice      []Die   `json:"dice"`
	RollsLeft int     `json:"rolls_left"`
	Offers    []Offer `json:"offers"`
}

// CellCommitted reports a committed score cell
type CellCommitted struct {
	Row       string `json:"row"`
	Value     int    `json:"value"`
	Scratched bool   `json:"scratched"`
}

// TurnAdvanced reports whose turn it now is
type TurnAdvanced struct {
	Round        int    `json:"round"`
	NextPlayerID string `json:"next_player_id"`
}

// GameStarted lists the seats of a new game
type GameStarted struct {
	Players []string `json:"players"`
}

// GameAbandoned reports why a game ended early
type GameAbandoned struct {
	Reason string `json:"reason"`
}

// EventFromModel converts a model.Event, translating its payload to the
// matching response type
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		GameID:    string(e.GameID),
		PlayerID:  string(e.PlayerID),
		Timestamp: e.Timestamp,
		Data:      eventData(e.Payload),
	}
}

func eventData(payload any) any {
	switch p := payload.(type) {
	case model.StateChangedPayload:
		if p.Game == nil {
			return nil
		}
		return GameStateFromModel(p.Game)
	case model.DiceTumbledPayload:
		return DiceTumbled{Dice: DiceFromModel(p.Dice)}
	case model.DiceRolledPayload:
		return DiceRolled{
			Dice:      DiceFromModel(p.Dice),
			RollsLeft: p.RollsLeft,
			Offers:    OffersFromModel(p.Offers),
		}
	case model.CellCommittedPayload:
		return CellCommitted{Row: string(p.Row), Value: p.Value, Scratched: p.Scratched}
	case model.TurnAdvancedPayload:
		return TurnAdvanced{Round: p.Round, NextPlayerID: string(p.NextPlayerID)}
	case model.GameCompletePayload:
		return StandingsResponse{
			Standings: StandingsFromModel(p.Standings),
			Winner:    optionalID(p.Winner),
		}
	case model.GameStartedPayload:
		players := make([]string, len(p.Players))
		for i, id := range p.Players {
			players[i] = string(id)
		}
		return GameStarted{Players: players}
	case model.GameAbandonedPayload:
		return GameAbandoned{Reason: p.Reason}
	default:
		return nil
	}
}
