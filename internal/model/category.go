package model

// Category identifies a scoring category on the score table
type Category string

const (
	// Upper section
	CategoryOnes   Category = "ones"
	CategoryTwos   Category = "twos"
	CategoryThrees Category = "threes"
	CategoryFours  Category = "fours"
	CategoryFives  Category = "fives"
	CategorySixes  Category = "sixes"

	// Lower section
	CategoryThreeOfAKind  Category = "three_of_a_kind"
	CategoryFourOfAKind   Category = "four_of_a_kind"
	CategoryFullHouse     Category = "full_house"
	CategorySmallStraight Category = "small_straight"
	CategoryLargeStraight Category = "large_straight"
	CategoryChance        Category = "chance"
	CategoryYahtzee       Category = "yahtzee"
)

// Section groups rows of the score table
type Section string

const (
	SectionUpper Section = "upper"
	SectionLower Section = "lower"
	SectionSum   Section = "sum"   // upper sum and bonus rows
	SectionTotal Section = "total" // grand total row
)

// Row identifies a row of the score table. Scoring rows use the category
// name; aggregate rows have their own identifiers.
type Row string

const (
	RowUpperSum Row = "upper_sum"
	RowBonus    Row = "bonus"
	RowTotal    Row = "total"
)

// Upper section bonus rule
const (
	UpperBonusThreshold = 63
	UpperBonus          = 50
)

// Fixed scores for the lower section combinations
const (
	FullHouseScore     = 25
	SmallStraightScore = 30
	LargeStraightScore = 40
	YahtzeeScore       = 50
)

var upperCategories = []Category{
	CategoryOnes, CategoryTwos, CategoryThrees,
	CategoryFours, CategoryFives, CategorySixes,
}

var lowerCategories = []Category{
	CategoryThreeOfAKind, CategoryFourOfAKind, CategoryFullHouse,
	CategorySmallStraight, CategoryLargeStraight, CategoryChance, CategoryYahtzee,
}

// UpperCategories returns the upper section categories in table order
func UpperCategories() []Category {
	return append([]Category(nil), upperCategories...)
}

// LowerCategories returns the lower section categories in table order
func LowerCategories() []Category {
	return append([]Category(nil), lowerCategories...)
}

// AllCategories returns every scoring category in table order
func AllCategories() []Category {
	all := make([]Category, 0, len(upperCategories)+len(lowerCategories))
	all = append(all, upperCategories...)
	return append(all, lowerCategories...)
}

// Section returns the section the category belongs to, or "" if unknown
func (c Category) Section() Section {
	for _, u := range upperCategories {
		if u == c {
			return SectionUpper
		}
	}
	for _, l := range lowerCategories {
		if l == c {
			return SectionLower
		}
	}
	return ""
}

// IsValid returns true if c is one of the scoring categories
func (c Category) IsValid() bool {
	return c.Section() != ""
}

// Face returns the die face counted by an upper section category, or 0
func (c Category) Face() int {
	for i, u := range upperCategories {
		if u == c {
			return i + 1
		}
	}
	return 0
}

// Row returns the score table row for the category
func (c Category) Row() Row {
	return Row(c)
}

// Category returns the scoring category for the row, or "" for aggregate rows
func (r Row) Category() Category {
	c := Category(r)
	if c.IsValid() {
		return c
	}
	return ""
}
