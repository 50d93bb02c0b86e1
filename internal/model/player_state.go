package model

import "time"

// RollsPerTurn is the number of rolls a player gets each turn
const RollsPerTurn = 3

// TurnPhase is the position of a player within the turn cycle
type TurnPhase string

const (
	PhaseIdle              TurnPhase = "idle"               // waiting for a roll
	PhaseRolling           TurnPhase = "rolling"            // dice are tumbling
	PhaseAwaitingSelection TurnPhase = "awaiting_selection" // cells are offered
	PhaseCommitted         TurnPhase = "committed"          // a cell was assigned, turn over
)

// PlayerState is a seat at the table: the player's dice, score column and
// position in the turn cycle
type PlayerState struct {
	PlayerID    PlayerID
	DisplayName string
	IsBot       bool
	BotStrategy string

	Dice      Dice
	Column    Column
	RollsLeft     int
	IsRolling     bool
	RollStartedAt time.Time // zero unless IsRolling
	Phase         TurnPhase
}

// NewPlayerState seats a player with fresh dice and an empty column
func NewPlayerState(p Player) *PlayerState {
	return &PlayerState{
		PlayerID:    p.ID,
		DisplayName: p.DisplayName,
		IsBot:       p.IsBot,
		BotStrategy: p.BotStrategy,
		Dice:        NewDice(),
		Column:      NewColumn(),
		RollsLeft:   RollsPerTurn,
		Phase:       PhaseIdle,
	}
}

// StartTurn resets the roll counter, releases all dice and clears any
// offered cells left from an earlier turn
func (p *PlayerState) StartTurn() {
	p.RollsLeft = RollsPerTurn
	p.IsRolling = false
	p.RollStartedAt = time.Time{}
	p.Phase = PhaseIdle
	p.Dice.UnlockAll()
	p.Column.ResetTransient()
}

// RollOverdue reports whether a roll still marked as in progress should
// have settled by now, given how long a roll lasts
func (p *PlayerState) RollOverdue(now time.Time, d time.Duration) bool {
	return p.IsRolling && !now.Before(p.RollStartedAt.Add(d))
}

// HasRolled returns true once the player has rolled at least once this turn
func (p *PlayerState) HasRolled() bool {
	return p.RollsLeft < RollsPerTurn
}

// Offer is a cell the player may currently commit
type Offer struct {
	Row     Row
	Value   int
	Scratch bool
}

// Offers lists the cells offered for the current roll in table order
func (p *PlayerState) Offers() []Offer {
	var offers []Offer
	for _, cell := range p.Column.OfferedCells() {
		value := 0
		if cell.Preview != nil {
			value = *cell.Preview
		}
		offers = append(offers, Offer{
			Row:     cell.Row,
			Value:   value,
			Scratch: cell.Marker == MarkerScratch,
		})
	}
	return offers
}

// Clone returns a deep copy of the player state
func (p *PlayerState) Clone() *PlayerState {
	clone := *p
	clone.Column = p.Column.Clone()
	return &clone
}
