package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commit(t *testing.T, col *Column, c Category, value int) {
	t.Helper()
	require.NoError(t, col.Cell(c.Row()).Commit(value))
}

func TestNewColumnLayout(t *testing.T) {
	col := NewColumn()

	require.Len(t, col.Cells, 16)
	assert.Equal(t, Row(CategoryOnes), col.Cells[0].Row)
	assert.Equal(t, RowUpperSum, col.Cells[6].Row)
	assert.Equal(t, RowBonus, col.Cells[7].Row)
	assert.Equal(t, Row(CategoryThreeOfAKind), col.Cells[8].Row)
	assert.Equal(t, RowTotal, col.Cells[15].Row)
	assert.Len(t, col.AvailableCells(), 13)
}

func TestAggregateRowsAreNotAssignable(t *testing.T) {
	col := NewColumn()

	for _, row := range []Row{RowUpperSum, RowBonus, RowTotal} {
		cell := col.Cell(row)
		require.NotNil(t, cell)
		assert.False(t, cell.IsAssignable())
		assert.ErrorIs(t, cell.Commit(5), ErrCellNotAssignable)
	}
}

func TestCommitIsOneTime(t *testing.T) {
	col := NewColumn()
	cell := col.Cell(CategoryChance.Row())

	require.NoError(t, cell.Commit(22))
	assert.ErrorIs(t, cell.Commit(30), ErrCellCommitted)
	assert.Equal(t, 22, cell.CommittedValue())
	assert.True(t, cell.IsDisabled())
}

func TestResetTransientKeepsCommittedValues(t *testing.T) {
	col := NewColumn()
	open := col.Cell(CategoryFives.Row())
	open.PreviewValue(15, MarkerOption)
	done := col.Cell(CategorySixes.Row())
	require.NoError(t, done.Commit(18))
	done.Marker = MarkerOption

	col.ResetTransient()

	assert.Nil(t, open.Preview)
	assert.Equal(t, MarkerNone, open.Marker)
	assert.Equal(t, 18, done.CommittedValue())
	assert.Equal(t, MarkerNone, done.Marker)
}

func TestTotalsWithoutBonus(t *testing.T) {
	col := NewColumn()
	commit(t, &col, CategoryThrees, 9)
	commit(t, &col, CategorySixes, 24)
	commit(t, &col, CategoryFullHouse, 25)

	assert.Equal(t, 33, col.UpperTotal())
	assert.Equal(t, 25, col.LowerTotal())
	assert.Equal(t, 0, col.Bonus())
	assert.Equal(t, 58, col.GrandTotal())
}

func TestBonusAtThreshold(t *testing.T) {
	col := NewColumn()
	commit(t, &col, CategoryOnes, 3)
	commit(t, &col, CategoryTwos, 6)
	commit(t, &col, CategoryThrees, 9)
	commit(t, &col, CategoryFours, 12)
	commit(t, &col, CategoryFives, 15)
	commit(t, &col, CategorySixes, 18)
	commit(t, &col, CategoryYahtzee, 50)

	assert.Equal(t, 63, col.UpperTotal())
	assert.Equal(t, UpperBonus, col.Bonus())
	assert.Equal(t, 63+50+50, col.GrandTotal())
	assert.Equal(t, 63, col.AggregateValue(RowUpperSum))
	assert.Equal(t, 50, col.AggregateValue(RowBonus))
	assert.Equal(t, col.GrandTotal(), col.AggregateValue(RowTotal))
}

func TestPreviewsDoNotCount(t *testing.T) {
	col := NewColumn()
	col.Cell(CategoryChance.Row()).PreviewValue(30, MarkerOption)

	assert.Equal(t, 0, col.GrandTotal())
}

func TestIsComplete(t *testing.T) {
	col := NewColumn()
	for _, c := range AllCategories() {
		assert.False(t, col.IsComplete())
		commit(t, &col, c, 0)
	}
	assert.True(t, col.IsComplete())
	assert.Empty(t, col.AvailableCells())
}

func TestCloneIsIndependent(t *testing.T) {
	col := NewColumn()
	commit(t, &col, CategoryTwos, 4)

	clone := col.Clone()
	require.NoError(t, clone.Cell(CategoryOnes.Row()).Commit(2))
	*clone.Cell(CategoryTwos.Row()).Value = 99

	assert.False(t, col.Cell(CategoryOnes.Row()).IsCommitted())
	assert.Equal(t, 4, col.Cell(CategoryTwos.Row()).CommittedValue())
}

func TestCategorySections(t *testing.T) {
	assert.Equal(t, SectionUpper, CategoryFours.Section())
	assert.Equal(t, 4, CategoryFours.Face())
	assert.Equal(t, SectionLower, CategoryYahtzee.Section())
	assert.Equal(t, 0, CategoryYahtzee.Face())
	assert.False(t, Category("bogus").IsValid())
	assert.Equal(t, Category(""), RowBonus.Category())
	assert.Len(t, AllCategories(), TotalRounds())
}
