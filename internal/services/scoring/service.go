package scoring

import (
	"sort"

	"github.com/mcoot/yahtzee-go/internal/model"
)

// Scores maps every scoring category to the score a roll would earn there
type Scores map[model.Category]int

// Calculator computes achievable scores for a roll
type Calculator interface {
	Calculate(dice []int) Scores
}

// Service provides scoring for rolls and finished columns
type Service struct{}

// New creates a scoring Service
func New() *Service {
	return &Service{}
}

// Calculate returns the score for every category given five die values.
// Categories the roll does not qualify for score 0. Input that is not five
// faces in [1,6] scores 0 everywhere.
func (s *Service) Calculate(dice []int) Scores {
	scores := make(Scores, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		scores[c] = 0
	}

	counts, ok := faceCounts(dice)
	if !ok {
		return scores
	}

	sum := 0
	for face := 1; face <= model.DieFaces; face++ {
		sum += face * counts[face]
	}

	for _, c := range model.UpperCategories() {
		face := c.Face()
		scores[c] = face * counts[face]
	}

	maxOfAKind := 0
	hasThree, hasTwo := false, false
	for face := 1; face <= model.DieFaces; face++ {
		if counts[face] > maxOfAKind {
			maxOfAKind = counts[face]
		}
		switch counts[face] {
		case 3:
			hasThree = true
		case 2:
			hasTwo = true
		}
	}

	if maxOfAKind >= 3 {
		scores[model.CategoryThreeOfAKind] = sum
	}
	if maxOfAKind >= 4 {
		scores[model.CategoryFourOfAKind] = sum
	}
	if hasThree && hasTwo {
		scores[model.CategoryFullHouse] = model.FullHouseScore
	}

	run := longestRun(counts)
	if run >= 4 {
		scores[model.CategorySmallStraight] = model.SmallStraightScore
	}
	if run >= 5 {
		scores[model.CategoryLargeStraight] = model.LargeStraightScore
	}

	scores[model.CategoryChance] = sum

	if maxOfAKind == model.DiceCount {
		scores[model.CategoryYahtzee] = model.YahtzeeScore
	}

	return scores
}

// faceCounts tallies dice by face, index 1..6
func faceCounts(dice []int) ([model.DieFaces + 1]int, bool) {
	var counts [model.DieFaces + 1]int
	if len(dice) != model.DiceCount {
		return counts, false
	}
	for _, d := range dice {
		if d < 1 || d > model.DieFaces {
			return counts, false
		}
		counts[d]++
	}
	return counts, true
}

// longestRun returns the length of the longest run of consecutive faces
func longestRun(counts [model.DieFaces + 1]int) int {
	longest, current := 0, 0
	for face := 1; face <= model.DieFaces; face++ {
		if counts[face] > 0 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// Standing derives a player's current totals from committed cells
func (s *Service) Standing(seat *model.PlayerState) model.Standing {
	return model.Standing{
		PlayerID:    seat.PlayerID,
		DisplayName: seat.DisplayName,
		UpperTotal:  seat.Column.UpperTotal(),
		Bonus:       seat.Column.Bonus(),
		LowerTotal:  seat.Column.LowerTotal(),
		GrandTotal:  seat.Column.GrandTotal(),
	}
}

// Standings scores every seat and returns results sorted by grand total
func (s *Service) Standings(game *model.Game) []model.Standing {
	standings := make([]model.Standing, 0, len(game.Seats))
	for _, seat := range game.Seats {
		standings = append(standings, s.Standing(seat))
	}

	// Stable so tied players keep seat order
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].GrandTotal > standings[j].GrandTotal
	})

	return standings
}

// DetermineWinner returns the winner's PlayerID, or empty string if tie
func (s *Service) DetermineWinner(standings []model.Standing) model.PlayerID {
	if len(standings) == 0 {
		return ""
	}

	topScore := standings[0].GrandTotal
	tieCount := 0
	for _, st := range standings {
		if st.GrandTotal == topScore {
			tieCount++
		}
	}

	if tieCount > 1 {
		return "" // Tie
	}

	return standings[0].PlayerID
}

// Interface for dependency injection
type ServiceInterface interface {
	Calculator
	Standing(seat *model.PlayerState) model.Standing
	Standings(game *model.Game) []model.Standing
	DetermineWinner(standings []model.Standing) model.PlayerID
}

var _ ServiceInterface = (*Service)(nil)
