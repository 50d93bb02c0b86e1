package model

const (
	// DieFaces is the number of faces on each die
	DieFaces = 6
	// DiceCount is the number of dice each player rolls
	DiceCount = 5
)

// Intner is the source of randomness a die rolls with
type Intner interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// Die is a single six-sided die that can be held between rolls
type Die struct {
	Value  int  `json:"value"`
	Locked bool `json:"locked"`
}

// Roll assigns a new random face unless the die is locked, and returns
// the current face either way
func (d *Die) Roll(r Intner) int {
	if !d.Locked {
		d.Value = r.Intn(DieFaces) + 1
	}
	return d.Value
}

// Lock holds the die so rolls leave it unchanged
func (d *Die) Lock() {
	d.Locked = true
}

// Unlock releases the die for future rolls
func (d *Die) Unlock() {
	d.Locked = false
}

// ToggleLock flips the lock flag and returns the new state
func (d *Die) ToggleLock() bool {
	d.Locked = !d.Locked
	return d.Locked
}

// Dice is a player's set of five dice
type Dice [DiceCount]Die

// NewDice returns five unlocked dice showing a single pip
func NewDice() Dice {
	var dice Dice
	for i := range dice {
		dice[i].Value = 1
	}
	return dice
}

// Values returns the current face values in die order
func (d *Dice) Values() []int {
	values := make([]int, len(d))
	for i := range d {
		values[i] = d[i].Value
	}
	return values
}

// Roll rolls every unlocked die and returns all face values
func (d *Dice) Roll(r Intner) []int {
	values := make([]int, len(d))
	for i := range d {
		values[i] = d[i].Roll(r)
	}
	return values
}

// AnyUnlocked returns true if at least one die can be rolled
func (d *Dice) AnyUnlocked() bool {
	for i := range d {
		if !d[i].Locked {
			return true
		}
	}
	return false
}

// UnlockAll releases every die
func (d *Dice) UnlockAll() {
	for i := range d {
		d[i].Unlock()
	}
}

// IsValidDieIndex returns true if i addresses one of the dice
func IsValidDieIndex(i int) bool {
	return i >= 0 && i < DiceCount
}
