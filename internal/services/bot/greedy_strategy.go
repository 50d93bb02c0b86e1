package bot

import "github.com/mcoot/yahtzee-go/internal/model"

// goodEnough is the preview value at which the greedy bot stops rolling
const goodEnough = 25

// scratchOrder ranks cells from least to most valuable to give up
var scratchOrder = []model.Category{
	model.CategoryOnes,
	model.CategoryYahtzee,
	model.CategoryTwos,
	model.CategoryLargeStraight,
	model.CategoryFourOfAKind,
	model.CategoryThrees,
	model.CategorySmallStraight,
	model.CategoryFullHouse,
	model.CategoryFours,
	model.CategoryThreeOfAKind,
	model.CategoryFives,
	model.CategorySixes,
	model.CategoryChance,
}

// GreedyStrategy chases the most common face or an open straight, stops on
// a strong combination and always takes the highest offer
type GreedyStrategy struct{}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// ChooseHolds keeps a run of four when a straight is still open, otherwise
// every die showing the most common face
func (s *GreedyStrategy) ChooseHolds(seat *model.PlayerState) Holds {
	var holds Holds
	values := seat.Dice.Values()

	var counts [model.DieFaces + 1]int
	for _, v := range values {
		counts[v]++
	}

	if straightOpen(seat) {
		if lo, hi := longestRun(counts); hi-lo+1 >= 4 {
			kept := make(map[int]bool)
			for i, v := range values {
				if v >= lo && v <= hi && !kept[v] {
					holds[i] = true
					kept[v] = true
				}
			}
			return holds
		}
	}

	best := 0
	for face := model.DieFaces; face >= 1; face-- {
		if counts[face] > counts[best] {
			best = face
		}
	}
	if counts[best] < 2 {
		return holds
	}
	for i, v := range values {
		holds[i] = v == best
	}
	return holds
}

// ShouldRoll stops once an offer is strong enough
func (s *GreedyStrategy) ShouldRoll(seat *model.PlayerState) bool {
	offers := seat.Offers()
	if len(offers) == 0 {
		return true
	}
	for _, o := range offers {
		switch o.Row.Category() {
		case model.CategoryYahtzee, model.CategoryLargeStraight, model.CategoryFullHouse:
			return false
		}
		if o.Value >= goodEnough {
			return false
		}
	}
	return true
}

// ChooseCell takes the highest offer, or scratches the cheapest cell
func (s *GreedyStrategy) ChooseCell(seat *model.PlayerState) model.Row {
	offers := seat.Offers()
	if len(offers) == 0 {
		return ""
	}

	if offers[0].Scratch {
		offered := make(map[model.Row]bool, len(offers))
		for _, o := range offers {
			offered[o.Row] = true
		}
		for _, c := range scratchOrder {
			if offered[c.Row()] {
				return c.Row()
			}
		}
		return offers[0].Row
	}

	best := offers[0]
	for _, o := range offers[1:] {
		if o.Value > best.Value {
			best = o
		}
	}
	return best.Row
}

func straightOpen(seat *model.PlayerState) bool {
	for _, c := range []model.Category{model.CategorySmallStraight, model.CategoryLargeStraight} {
		if cell := seat.Column.Cell(c.Row()); cell != nil && cell.IsAssignable() {
			return true
		}
	}
	return false
}

// longestRun returns the lowest and highest face of the longest run of
// consecutive faces present
func longestRun(counts [model.DieFaces + 1]int) (int, int) {
	bestLo, bestHi := 0, -1
	lo := 0
	for face := 1; face <= model.DieFaces; face++ {
		if counts[face] == 0 {
			lo = 0
			continue
		}
		if lo == 0 {
			lo = face
		}
		if face-lo > bestHi-bestLo {
			bestLo, bestHi = lo, face
		}
	}
	return bestLo, bestHi
}
