package model

// CellMarker is transient display state for a cell during a turn
type CellMarker string

const (
	MarkerNone    CellMarker = ""
	MarkerOption  CellMarker = "option"  // offered with a nonzero score
	MarkerScratch CellMarker = "scratch" // offered for a forced zero commit
)

// ScoreCell is one row of a player's score column
type ScoreCell struct {
	Row      Row      `json:"row"`
	Category Category `json:"category,omitempty"` // empty for aggregate rows
	Section  Section  `json:"section"`

	// Value is the committed score, nil while the cell is open
	Value *int `json:"value"`

	// Preview is a display-only hint shown before the player commits
	Preview *int       `json:"preview,omitempty"`
	Marker  CellMarker `json:"marker,omitempty"`
}

// NewScoreCell creates an open cell for a scoring category
func NewScoreCell(c Category) ScoreCell {
	return ScoreCell{
		Row:      c.Row(),
		Category: c,
		Section:  c.Section(),
	}
}

// newAggregateCell creates a derived row that is never assignable
func newAggregateCell(row Row, section Section) ScoreCell {
	return ScoreCell{
		Row:     row,
		Section: section,
	}
}

// IsAggregate returns true for the sum, bonus and total rows
func (c *ScoreCell) IsAggregate() bool {
	return c.Section == SectionSum || c.Section == SectionTotal
}

// IsCommitted returns true once a value has been assigned
func (c *ScoreCell) IsCommitted() bool {
	return c.Value != nil
}

// IsDisabled returns true once the cell can no longer be chosen
func (c *ScoreCell) IsDisabled() bool {
	return c.IsCommitted()
}

// IsAssignable returns true if the cell is open and not an aggregate row
func (c *ScoreCell) IsAssignable() bool {
	return !c.IsAggregate() && !c.IsCommitted()
}

// IsOffered returns true if the cell is marked as a choice for this roll
func (c *ScoreCell) IsOffered() bool {
	return c.Marker == MarkerOption || c.Marker == MarkerScratch
}

// CommittedValue returns the committed score, or 0 while open
func (c *ScoreCell) CommittedValue() int {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}

// Commit assigns the final value. A cell is committed at most once.
func (c *ScoreCell) Commit(value int) error {
	if c.IsAggregate() {
		return ErrCellNotAssignable
	}
	if c.IsCommitted() {
		return ErrCellCommitted
	}
	v := value
	c.Value = &v
	c.Preview = nil
	return nil
}

// PreviewValue sets the display-only hint and marker
func (c *ScoreCell) PreviewValue(value int, marker CellMarker) {
	v := value
	c.Preview = &v
	c.Marker = marker
}

// ScratchValue is the value committed when the cell is forced as a scratch
func (c *ScoreCell) ScratchValue() int {
	return 0
}

// ResetTransient clears the marker and any stale preview on an open cell
func (c *ScoreCell) ResetTransient() {
	c.Marker = MarkerNone
	if !c.IsCommitted() {
		c.Preview = nil
	}
}
