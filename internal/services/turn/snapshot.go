package turn

import "github.com/mcoot/yahtzee-go/internal/model"

// CellView is the read-only view of one score table row
type CellView struct {
	Row      model.Row
	Category model.Category
	Section  model.Section
	Value    *int // committed value, or the derived value for aggregate rows
	Preview  *int
	Marker   model.CellMarker
	Disabled bool
}

// Snapshot is the read-only observation of a player's turn that renderers
// subscribe to. It shares no memory with the engine.
type Snapshot struct {
	PlayerID    model.PlayerID
	DisplayName string
	Dice        model.Dice
	RollsLeft   int
	IsRolling   bool
	Phase       model.TurnPhase
	Cells       []CellView
	Offers      []model.Offer

	UpperTotal int
	Bonus      int
	LowerTotal int
	GrandTotal int
}

// TakeSnapshot copies the observable state of a seat
func TakeSnapshot(state *model.PlayerState) Snapshot {
	col := &state.Column
	cells := make([]CellView, len(col.Cells))
	for i := range col.Cells {
		c := &col.Cells[i]
		view := CellView{
			Row:      c.Row,
			Category: c.Category,
			Section:  c.Section,
			Marker:   c.Marker,
			Disabled: c.IsDisabled(),
		}
		switch {
		case c.IsAggregate():
			v := col.AggregateValue(c.Row)
			view.Value = &v
			view.Disabled = true
		case c.Value != nil:
			v := *c.Value
			view.Value = &v
		}
		if c.Preview != nil {
			p := *c.Preview
			view.Preview = &p
		}
		cells[i] = view
	}

	return Snapshot{
		PlayerID:    state.PlayerID,
		DisplayName: state.DisplayName,
		Dice:        state.Dice,
		RollsLeft:   state.RollsLeft,
		IsRolling:   state.IsRolling,
		Phase:       state.Phase,
		Cells:       cells,
		Offers:      state.Offers(),
		UpperTotal:  col.UpperTotal(),
		Bonus:       col.Bonus(),
		LowerTotal:  col.LowerTotal(),
		GrandTotal:  col.GrandTotal(),
	}
}

// Cell returns the view for a row, or nil if the row is unknown
func (s Snapshot) Cell(row model.Row) *CellView {
	for i := range s.Cells {
		if s.Cells[i].Row == row {
			return &s.Cells[i]
		}
	}
	return nil
}
