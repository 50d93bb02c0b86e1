package bot

import "github.com/mcoot/yahtzee-go/internal/model"

// Holds is the lock state a bot wants for each die before its next roll
type Holds [model.DiceCount]bool

// Strategy decides how a bot plays its turn. Each method sees the bot's
// seat after the latest roll has settled.
type Strategy interface {
	// ChooseHolds picks which dice to keep for the next roll
	ChooseHolds(seat *model.PlayerState) Holds
	// ShouldRoll reports whether to roll again rather than commit now
	ShouldRoll(seat *model.PlayerState) bool
	// ChooseCell picks one of the offered rows
	ChooseCell(seat *model.PlayerState) model.Row
}
