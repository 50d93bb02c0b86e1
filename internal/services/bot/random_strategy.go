package bot

import (
	"github.com/mcoot/yahtzee-go/internal/dependencies/random"
	"github.com/mcoot/yahtzee-go/internal/model"
)

// RandomStrategy holds random dice, rerolls on a coin flip and picks a
// random offered cell
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseHolds keeps each die with even odds
func (s *RandomStrategy) ChooseHolds(seat *model.PlayerState) Holds {
	var holds Holds
	for i := range holds {
		holds[i] = s.random.Intn(2) == 1
	}
	return holds
}

// ShouldRoll flips a coin
func (s *RandomStrategy) ShouldRoll(seat *model.PlayerState) bool {
	return s.random.Intn(2) == 0
}

// ChooseCell picks any offered row
func (s *RandomStrategy) ChooseCell(seat *model.PlayerState) model.Row {
	offers := seat.Offers()
	if len(offers) == 0 {
		return ""
	}
	return offers[s.random.Intn(len(offers))].Row
}
