package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/yahtzee-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

// Helper to build a seat with committed cells
func (s *ServiceSuite) seat(id model.PlayerID, committed map[model.Category]int) *model.PlayerState {
	seat := model.NewPlayerState(model.Player{ID: id, DisplayName: string(id)})
	for c, v := range committed {
		s.Require().NoError(seat.Column.Cell(c.Row()).Commit(v))
	}
	return seat
}

// Calculate tests

func (s *ServiceSuite) TestEveryCategoryPresent() {
	scores := s.service.Calculate([]int{1, 2, 3, 4, 6})
	s.Len(scores, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		_, ok := scores[c]
		s.True(ok, "missing %s", c)
	}
}

func (s *ServiceSuite) TestThreeOfAKindScenario() {
	scores := s.service.Calculate([]int{2, 2, 2, 5, 6})

	s.Equal(0, scores[model.CategoryOnes])
	s.Equal(6, scores[model.CategoryTwos])
	s.Equal(0, scores[model.CategoryThrees])
	s.Equal(0, scores[model.CategoryFours])
	s.Equal(5, scores[model.CategoryFives])
	s.Equal(6, scores[model.CategorySixes])
	s.Equal(17, scores[model.CategoryThreeOfAKind])
	s.Equal(0, scores[model.CategoryFourOfAKind])
	s.Equal(0, scores[model.CategoryFullHouse])
	s.Equal(0, scores[model.CategorySmallStraight])
	s.Equal(0, scores[model.CategoryLargeStraight])
	s.Equal(17, scores[model.CategoryChance])
	s.Equal(0, scores[model.CategoryYahtzee])
}

func (s *ServiceSuite) TestYahtzee() {
	scores := s.service.Calculate([]int{1, 1, 1, 1, 1})

	s.Equal(50, scores[model.CategoryYahtzee])
	s.Equal(5, scores[model.CategoryOnes])
	s.Equal(5, scores[model.CategoryThreeOfAKind])
	s.Equal(5, scores[model.CategoryFourOfAKind])
	s.Equal(0, scores[model.CategoryFullHouse])
	s.Equal(5, scores[model.CategoryChance])
}

func (s *ServiceSuite) TestFourOfAKind() {
	scores := s.service.Calculate([]int{6, 3, 6, 6, 6})

	s.Equal(27, scores[model.CategoryFourOfAKind])
	s.Equal(27, scores[model.CategoryThreeOfAKind])
	s.Equal(24, scores[model.CategorySixes])
	s.Equal(0, scores[model.CategoryYahtzee])
}

func (s *ServiceSuite) TestFullHouse() {
	scores := s.service.Calculate([]int{3, 5, 3, 5, 3})

	s.Equal(25, scores[model.CategoryFullHouse])
	s.Equal(19, scores[model.CategoryThreeOfAKind])
	s.Equal(0, scores[model.CategoryFourOfAKind])
}

func (s *ServiceSuite) TestNoFullHouseWithoutPair() {
	scores := s.service.Calculate([]int{3, 3, 3, 5, 1})
	s.Equal(0, scores[model.CategoryFullHouse])
}

func (s *ServiceSuite) TestSmallStraights() {
	for _, dice := range [][]int{
		{1, 2, 3, 4, 6},
		{3, 4, 5, 6, 6},
		{2, 3, 4, 5, 2},
		{4, 3, 2, 1, 1},
	} {
		scores := s.service.Calculate(dice)
		s.Equal(30, scores[model.CategorySmallStraight], "dice %v", dice)
		s.Equal(0, scores[model.CategoryLargeStraight], "dice %v", dice)
	}
}

func (s *ServiceSuite) TestLargeStraights() {
	for _, dice := range [][]int{
		{1, 2, 3, 4, 5},
		{6, 2, 3, 4, 5},
	} {
		scores := s.service.Calculate(dice)
		s.Equal(40, scores[model.CategoryLargeStraight], "dice %v", dice)
		s.Equal(30, scores[model.CategorySmallStraight], "dice %v", dice)
	}
}

func (s *ServiceSuite) TestBrokenStraight() {
	scores := s.service.Calculate([]int{1, 2, 3, 5, 6})
	s.Equal(0, scores[model.CategorySmallStraight])
	s.Equal(0, scores[model.CategoryLargeStraight])
}

func (s *ServiceSuite) TestOrderDoesNotMatter() {
	a := s.service.Calculate([]int{5, 2, 6, 2, 2})
	b := s.service.Calculate([]int{2, 2, 2, 5, 6})
	s.Equal(a, b)
}

func (s *ServiceSuite) TestInvalidDiceScoreZero() {
	for _, dice := range [][]int{
		nil,
		{1, 2, 3, 4},
		{1, 2, 3, 4, 5, 6},
		{0, 2, 3, 4, 5},
		{7, 7, 7, 7, 7},
	} {
		scores := s.service.Calculate(dice)
		for c, v := range scores {
			s.Equal(0, v, "dice %v category %s", dice, c)
		}
	}
}

// Standings tests

func (s *ServiceSuite) TestStandingDerivesTotals() {
	seat := s.seat("p1", map[model.Category]int{
		model.CategoryOnes:   3,
		model.CategoryTwos:   6,
		model.CategoryThrees: 9,
		model.CategoryFours:  12,
		model.CategoryFives:  15,
		model.CategorySixes:  18,
		model.CategoryChance: 20,
	})

	st := s.service.Standing(seat)

	s.Equal(63, st.UpperTotal)
	s.Equal(50, st.Bonus)
	s.Equal(20, st.LowerTotal)
	s.Equal(133, st.GrandTotal)
}

func (s *ServiceSuite) TestStandingsSortedByTotal() {
	game := &model.Game{Seats: []*model.PlayerState{
		s.seat("low", map[model.Category]int{model.CategoryOnes: 2}),
		s.seat("high", map[model.Category]int{model.CategoryYahtzee: 50}),
		s.seat("mid", map[model.Category]int{model.CategoryChance: 20}),
	}}

	standings := s.service.Standings(game)

	s.Require().Len(standings, 3)
	s.Equal(model.PlayerID("high"), standings[0].PlayerID)
	s.Equal(model.PlayerID("mid"), standings[1].PlayerID)
	s.Equal(model.PlayerID("low"), standings[2].PlayerID)
}

func (s *ServiceSuite) TestDetermineWinner() {
	standings := []model.Standing{
		{PlayerID: "a", GrandTotal: 200},
		{PlayerID: "b", GrandTotal: 150},
	}
	s.Equal(model.PlayerID("a"), s.service.DetermineWinner(standings))
}

func (s *ServiceSuite) TestDetermineWinnerTie() {
	standings := []model.Standing{
		{PlayerID: "a", GrandTotal: 200},
		{PlayerID: "b", GrandTotal: 200},
	}
	s.Equal(model.PlayerID(""), s.service.DetermineWinner(standings))
}

func (s *ServiceSuite) TestDetermineWinnerEmpty() {
	s.Equal(model.PlayerID(""), s.service.DetermineWinner(nil))
}
