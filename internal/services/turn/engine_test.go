package turn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/yahtzee-go/internal/dependencies/mocks"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/services/scoring"
)

type EngineSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	random *mocks.MockRandom
	state  *model.PlayerState
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.state = model.NewPlayerState(model.Player{ID: "p1", DisplayName: "Alice"})
	s.engine = New(s.state, scoring.New(), s.random, s.clock)
}

func (s *EngineSuite) rollFaces(faces ...int) Evaluation {
	s.random.QueueFaces(faces...)
	ev, ok := s.engine.Roll()
	s.Require().True(ok)
	return ev
}

func offeredRows(offers []model.Offer) []model.Row {
	rows := make([]model.Row, 0, len(offers))
	for _, o := range offers {
		rows = append(rows, o.Row)
	}
	return rows
}

// Roll tests

func (s *EngineSuite) TestInitialState() {
	snap := s.engine.Snapshot()
	s.Equal(3, snap.RollsLeft)
	s.False(snap.IsRolling)
	s.Equal(model.PhaseIdle, snap.Phase)
	s.Empty(snap.Offers)
	for _, d := range snap.Dice {
		s.Equal(1, d.Value)
		s.False(d.Locked)
	}
}

func (s *EngineSuite) TestRollSettlesOnFacesInRange() {
	s.rollFaces(3, 1, 6, 2, 4)

	s.Equal([]int{3, 1, 6, 2, 4}, s.state.Dice.Values())
	for _, v := range s.state.Dice.Values() {
		s.GreaterOrEqual(v, 1)
		s.LessOrEqual(v, 6)
	}
	s.Equal(2, s.state.RollsLeft)
	s.False(s.state.IsRolling)
	s.Equal(0, s.random.Remaining())
}

func (s *EngineSuite) TestRollOffersNonzeroCells() {
	ev := s.rollFaces(2, 2, 2, 5, 6)

	s.Equal([]model.Row{
		model.CategoryTwos.Row(),
		model.CategoryFives.Row(),
		model.CategorySixes.Row(),
		model.CategoryThreeOfAKind.Row(),
		model.CategoryChance.Row(),
	}, offeredRows(ev.Offers))
	s.False(ev.Scratch)
	s.Equal(model.PhaseAwaitingSelection, s.state.Phase)

	s.Equal(17, ev.Scores[model.CategoryThreeOfAKind])
	twos := s.state.Column.Cell(model.CategoryTwos.Row())
	s.Require().NotNil(twos.Preview)
	s.Equal(6, *twos.Preview)
	s.Equal(model.MarkerOption, twos.Marker)

	ones := s.state.Column.Cell(model.CategoryOnes.Row())
	s.Nil(ones.Preview)
	s.Equal(model.MarkerNone, ones.Marker)
}

func (s *EngineSuite) TestRerollClearsStaleOffers() {
	s.rollFaces(2, 2, 2, 5, 6)
	s.rollFaces(1, 1, 3, 4, 4)

	ones := s.state.Column.Cell(model.CategoryOnes.Row())
	s.Equal(model.MarkerOption, ones.Marker)
	twos := s.state.Column.Cell(model.CategoryTwos.Row())
	s.Equal(model.MarkerNone, twos.Marker)
	s.Nil(twos.Preview)
}

func (s *EngineSuite) TestLockedDiceKeepValues() {
	s.rollFaces(1, 2, 3, 4, 5)
	s.True(s.engine.ToggleLock(0))
	s.True(s.engine.ToggleLock(1))

	s.rollFaces(6, 6, 6)

	s.Equal([]int{1, 2, 6, 6, 6}, s.state.Dice.Values())
	s.True(s.state.Dice[0].Locked)
	s.True(s.state.Dice[1].Locked)
}

func (s *EngineSuite) TestRollsLeftCountsDownAndResets() {
	s.rollFaces(1, 2, 3, 4, 6)
	s.Equal(2, s.state.RollsLeft)
	s.rollFaces(1, 2, 3, 4, 6)
	s.Equal(1, s.state.RollsLeft)
	s.rollFaces(1, 2, 3, 4, 6)
	s.Equal(0, s.state.RollsLeft)

	_, ok := s.engine.Roll()
	s.False(ok)
	s.Equal(0, s.state.RollsLeft)

	s.engine.StartTurn()
	s.Equal(3, s.state.RollsLeft)
	s.Equal(model.PhaseIdle, s.state.Phase)
}

func (s *EngineSuite) TestRollRejectedWhenAllDiceLocked() {
	s.rollFaces(1, 2, 3, 4, 6)
	for i := 0; i < model.DiceCount; i++ {
		s.True(s.engine.ToggleLock(i))
	}

	s.False(s.engine.CanRoll())
	_, ok := s.engine.Roll()
	s.False(ok)
	s.Equal(2, s.state.RollsLeft)
}

func (s *EngineSuite) TestRollIgnoredWhileRolling() {
	clk := mocks.NewManualClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	engine := New(s.state, scoring.New(), s.random, clk)
	s.random.QueueFaces(6, 5, 4, 3, 2)

	done := make(chan bool, 1)
	go func() {
		_, ok := engine.Roll()
		done <- ok
	}()

	s.Eventually(func() bool { return clk.PendingTimers() == 1 }, time.Second, time.Millisecond)

	snap := engine.Snapshot()
	s.True(snap.IsRolling)
	s.Equal(model.PhaseRolling, snap.Phase)

	_, ok := engine.Roll()
	s.False(ok)
	s.Equal(2, engine.Snapshot().RollsLeft)
	s.False(engine.ToggleLock(0))
	s.False(engine.SelectCell(model.CategoryChance.Row()))

	clk.Advance(DefaultAnimationConfig().Duration)

	select {
	case ok := <-done:
		s.True(ok)
	case <-time.After(time.Second):
		s.FailNow("roll did not finish")
	}
	final := engine.Snapshot().Dice
	s.Equal([]int{6, 5, 4, 3, 2}, final.Values())
	s.False(engine.Snapshot().IsRolling)
}

func (s *EngineSuite) TestTumbleOnlyWhileRolling() {
	before := s.engine.Tumble()
	s.Equal(s.state.Dice, before)

	s.Require().True(s.engine.BeginRoll())
	s.random.QueueFaces(4, 4, 4, 4, 4)
	frame := s.engine.Tumble()
	s.Equal([]int{4, 4, 4, 4, 4}, frame.Values())
	s.Empty(s.state.Offers())

	s.random.QueueFaces(1, 3, 5, 2, 6)
	ev, ok := s.engine.FinishRoll()
	s.True(ok)
	s.Equal([]int{1, 3, 5, 2, 6}, s.state.Dice.Values())
	s.Equal(0, ev.Scores[model.CategoryYahtzee])

	_, ok = s.engine.FinishRoll()
	s.False(ok)
}

// ToggleLock tests

func (s *EngineSuite) TestToggleLockRequiresRoll() {
	s.False(s.engine.ToggleLock(0))
	s.False(s.state.Dice[0].Locked)
}

func (s *EngineSuite) TestToggleLockTwiceIsIdentity() {
	s.rollFaces(1, 2, 3, 4, 6)
	before := s.state.Dice

	s.True(s.engine.ToggleLock(2))
	s.True(s.state.Dice[2].Locked)
	s.True(s.engine.ToggleLock(2))

	s.Equal(before, s.state.Dice)
}

func (s *EngineSuite) TestToggleLockInvalidIndex() {
	s.rollFaces(1, 2, 3, 4, 6)
	s.False(s.engine.ToggleLock(-1))
	s.False(s.engine.ToggleLock(model.DiceCount))
}

// SelectCell tests

func (s *EngineSuite) TestSelectYahtzee() {
	s.rollFaces(5, 5, 5, 5, 5)

	s.True(s.engine.SelectCell(model.CategoryYahtzee.Row()))

	cell := s.state.Column.Cell(model.CategoryYahtzee.Row())
	s.Equal(50, cell.CommittedValue())
	s.True(cell.IsDisabled())
	s.Equal(50, s.state.Column.GrandTotal())
	s.Equal(model.PhaseCommitted, s.state.Phase)
	s.Empty(s.state.Column.OfferedCells())
}

func (s *EngineSuite) TestSelectCommitsAtMostOnce() {
	s.rollFaces(2, 2, 2, 5, 6)
	s.True(s.engine.SelectCell(model.CategoryThreeOfAKind.Row()))

	s.False(s.engine.SelectCell(model.CategoryThreeOfAKind.Row()))
	s.False(s.engine.SelectCell(model.CategoryChance.Row()))
	s.Equal(17, s.state.Column.GrandTotal())

	_, ok := s.engine.Roll()
	s.False(ok)
	s.False(s.engine.ToggleLock(0))
}

func (s *EngineSuite) TestSelectRejectsUnofferedRows() {
	s.rollFaces(2, 2, 2, 5, 6)

	s.False(s.engine.SelectCell(model.CategoryOnes.Row()))
	s.False(s.engine.SelectCell(model.RowTotal))
	s.False(s.engine.SelectCell(model.Row("nonsense")))
	s.Equal(model.PhaseAwaitingSelection, s.state.Phase)
}

func (s *EngineSuite) TestSelectBeforeRollRejected() {
	s.False(s.engine.SelectCell(model.CategoryChance.Row()))
}

func (s *EngineSuite) TestForcedScratch() {
	for _, c := range model.AllCategories() {
		if c == model.CategoryFours || c == model.CategoryYahtzee {
			continue
		}
		s.Require().NoError(s.state.Column.Cell(c.Row()).Commit(1))
	}

	ev := s.rollFaces(1, 2, 3, 5, 6)
	s.False(ev.HasOffers())
	s.Equal(model.PhaseIdle, s.state.Phase)

	s.rollFaces(1, 2, 3, 5, 6)
	ev = s.rollFaces(1, 2, 3, 5, 6)

	s.True(ev.Scratch)
	s.Equal([]model.Row{model.CategoryFours.Row(), model.CategoryYahtzee.Row()}, offeredRows(ev.Offers))
	for _, o := range ev.Offers {
		s.True(o.Scratch)
		s.Equal(0, o.Value)
	}

	s.True(s.engine.SelectCell(model.CategoryYahtzee.Row()))
	cell := s.state.Column.Cell(model.CategoryYahtzee.Row())
	s.True(cell.IsCommitted())
	s.Equal(0, cell.CommittedValue())

	fours := s.state.Column.Cell(model.CategoryFours.Row())
	s.False(fours.IsCommitted())
	s.Equal(model.MarkerNone, fours.Marker)
}

// Callback tests

func (s *EngineSuite) TestSelectCallbackAndObservers() {
	var selected *model.ScoreCell
	var snaps []Snapshot
	engine := New(s.state, scoring.New(), s.random, s.clock,
		WithSelectCallback(func(_ *model.PlayerState, cell *model.ScoreCell) {
			selected = cell
		}),
		WithObserver(func(snap Snapshot) {
			snaps = append(snaps, snap)
		}),
	)

	s.random.QueueFaces(3, 3, 3, 3, 3)
	_, ok := engine.Roll()
	s.Require().True(ok)
	s.Require().True(engine.SelectCell(model.CategoryThrees.Row()))

	s.Require().NotNil(selected)
	s.Equal(model.CategoryThrees.Row(), selected.Row)
	s.Equal(15, selected.CommittedValue())

	s.Require().NotEmpty(snaps)
	last := snaps[len(snaps)-1]
	s.Equal(model.PhaseCommitted, last.Phase)
	s.Equal(15, last.UpperTotal)
	upper := last.Cell(model.RowUpperSum)
	s.Require().NotNil(upper)
	s.Require().NotNil(upper.Value)
	s.Equal(15, *upper.Value)
	s.True(upper.Disabled)
}

func (s *EngineSuite) TestSnapshotIsIndependent() {
	s.rollFaces(2, 2, 2, 5, 6)
	snap := s.engine.Snapshot()

	s.True(s.engine.SelectCell(model.CategoryTwos.Row()))

	s.Equal(model.PhaseAwaitingSelection, snap.Phase)
	s.Nil(snap.Cell(model.CategoryTwos.Row()).Value)
	s.Len(snap.Offers, 5)
}
