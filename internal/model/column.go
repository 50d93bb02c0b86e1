package model

// Column is a player's score column in table order: the upper categories,
// upper sum, bonus, the lower categories and the grand total
type Column struct {
	Cells []ScoreCell `json:"cells"`
}

// NewColumn creates a column with every cell open
func NewColumn() Column {
	cells := make([]ScoreCell, 0, len(upperCategories)+len(lowerCategories)+3)
	for _, c := range upperCategories {
		cells = append(cells, NewScoreCell(c))
	}
	cells = append(cells,
		newAggregateCell(RowUpperSum, SectionSum),
		newAggregateCell(RowBonus, SectionSum),
	)
	for _, c := range lowerCategories {
		cells = append(cells, NewScoreCell(c))
	}
	cells = append(cells, newAggregateCell(RowTotal, SectionTotal))
	return Column{Cells: cells}
}

// Cell returns the cell for the given row, or nil if the row is unknown
func (c *Column) Cell(row Row) *ScoreCell {
	for i := range c.Cells {
		if c.Cells[i].Row == row {
			return &c.Cells[i]
		}
	}
	return nil
}

// AvailableCells returns every open scoring cell in table order
func (c *Column) AvailableCells() []*ScoreCell {
	var available []*ScoreCell
	for i := range c.Cells {
		if c.Cells[i].IsAssignable() {
			available = append(available, &c.Cells[i])
		}
	}
	return available
}

// OfferedCells returns the cells marked as choices for the current roll
func (c *Column) OfferedCells() []*ScoreCell {
	var offered []*ScoreCell
	for i := range c.Cells {
		if c.Cells[i].IsOffered() {
			offered = append(offered, &c.Cells[i])
		}
	}
	return offered
}

// ResetTransient clears markers and stale previews on every cell
func (c *Column) ResetTransient() {
	for i := range c.Cells {
		c.Cells[i].ResetTransient()
	}
}

// IsComplete returns true when every scoring cell is committed
func (c *Column) IsComplete() bool {
	for i := range c.Cells {
		if c.Cells[i].IsAssignable() {
			return false
		}
	}
	return true
}

// UpperTotal sums committed upper section cells
func (c *Column) UpperTotal() int {
	return c.sectionTotal(SectionUpper)
}

// LowerTotal sums committed lower section cells
func (c *Column) LowerTotal() int {
	return c.sectionTotal(SectionLower)
}

// Bonus returns the upper section bonus earned so far
func (c *Column) Bonus() int {
	if c.UpperTotal() >= UpperBonusThreshold {
		return UpperBonus
	}
	return 0
}

// GrandTotal is always derived from committed cells, never stored
func (c *Column) GrandTotal() int {
	return c.UpperTotal() + c.LowerTotal() + c.Bonus()
}

// AggregateValue returns the derived value shown in an aggregate row
func (c *Column) AggregateValue(row Row) int {
	switch row {
	case RowUpperSum:
		return c.UpperTotal()
	case RowBonus:
		return c.Bonus()
	case RowTotal:
		return c.GrandTotal()
	default:
		return 0
	}
}

func (c *Column) sectionTotal(section Section) int {
	total := 0
	for i := range c.Cells {
		if c.Cells[i].Section == section {
			total += c.Cells[i].CommittedValue()
		}
	}
	return total
}

// Clone returns a deep copy of the column
func (c Column) Clone() Column {
	cells := make([]ScoreCell, len(c.Cells))
	for i, cell := range c.Cells {
		cells[i] = cell
		if cell.Value != nil {
			v := *cell.Value
			cells[i].Value = &v
		}
		if cell.Preview != nil {
			p := *cell.Preview
			cells[i].Preview = &p
		}
	}
	return Column{Cells: cells}
}
