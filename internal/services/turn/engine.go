// Package turn implements the per-player roll and assignment cycle:
// roll, hold dice, re-roll, offer eligible cells and commit one of them.
//
// Commands never fail. A command that is not allowed in the current state
// leaves the state untouched and reports accepted=false.
package turn

import (
	"sync"
	"time"

	"github.com/mcoot/yahtzee-go/internal/dependencies/clock"
	"github.com/mcoot/yahtzee-go/internal/dependencies/random"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/services/scoring"
)

// SelectFunc is called after a cell has been committed. The orchestrator
// uses it to advance to the next player.
type SelectFunc func(player *model.PlayerState, cell *model.ScoreCell)

// Observer receives a snapshot after every transition
type Observer func(Snapshot)

// Evaluation is the outcome of scoring the current dice
type Evaluation struct {
	Scores  scoring.Scores
	Offers  []model.Offer
	Scratch bool // no cell qualified and rolls are exhausted
}

// HasOffers returns true if the player can commit a cell
func (ev Evaluation) HasOffers() bool {
	return len(ev.Offers) > 0
}

// Engine drives one player's turn
type Engine struct {
	mu        sync.Mutex
	state     *model.PlayerState
	calc      scoring.Calculator
	random    random.Random
	clock     clock.Clock
	animation AnimationConfig
	onSelect  SelectFunc
	observers []Observer
}

// Option configures an Engine
type Option func(*Engine)

// WithAnimation sets the roll timing
func WithAnimation(cfg AnimationConfig) Option {
	return func(e *Engine) {
		e.animation = cfg
	}
}

// WithSelectCallback sets the turn-advance callback
func WithSelectCallback(fn SelectFunc) Option {
	return func(e *Engine) {
		e.onSelect = fn
	}
}

// WithObserver subscribes a renderer to snapshots
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, fn)
	}
}

// New creates an Engine that owns the given player state
func New(state *model.PlayerState, calc scoring.Calculator, rnd random.Random, clk clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		state:     state,
		calc:      calc,
		random:    rnd,
		clock:     clk,
		animation: DefaultAnimationConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns a copy of the observable state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return TakeSnapshot(e.state)
}

// StartTurn gives the player three fresh rolls with every die released
func (e *Engine) StartTurn() {
	e.mu.Lock()
	e.state.StartTurn()
	snap := TakeSnapshot(e.state)
	e.mu.Unlock()

	e.notify(snap)
}

// CanRoll reports whether a roll request would be accepted
func (e *Engine) CanRoll() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canRollLocked()
}

func (e *Engine) canRollLocked() bool {
	s := e.state
	return !s.IsRolling &&
		s.RollsLeft >= 1 &&
		s.Phase != model.PhaseCommitted &&
		s.Dice.AnyUnlocked()
}

// Roll performs a full timed roll and blocks until the dice settle.
// It returns accepted=false without waiting if a roll is not allowed.
func (e *Engine) Roll() (Evaluation, bool) {
	if !e.BeginRoll() {
		return Evaluation{}, false
	}
	Animate(e.clock, e.animation, func() {
		e.Tumble()
	})
	return e.FinishRoll()
}

// BeginRoll consumes a roll and marks the dice as rolling
func (e *Engine) BeginRoll() bool {
	e.mu.Lock()
	if !e.canRollLocked() {
		e.mu.Unlock()
		return false
	}
	e.state.RollsLeft--
	e.state.IsRolling = true
	e.state.RollStartedAt = e.clock.Now()
	e.state.Phase = model.PhaseRolling
	e.state.Column.ResetTransient()
	snap := TakeSnapshot(e.state)
	e.mu.Unlock()

	e.notify(snap)
	return true
}

// Tumble re-randomizes the unlocked dice for an animation frame. These
// values are never scored.
func (e *Engine) Tumble() model.Dice {
	e.mu.Lock()
	if !e.state.IsRolling {
		dice := e.state.Dice
		e.mu.Unlock()
		return dice
	}
	e.state.Dice.Roll(e.random)
	snap := TakeSnapshot(e.state)
	e.mu.Unlock()

	e.notify(snap)
	return snap.Dice
}

// FinishRoll settles the dice on their final values and offers cells
func (e *Engine) FinishRoll() (Evaluation, bool) {
	e.mu.Lock()
	if !e.state.IsRolling {
		e.mu.Unlock()
		return Evaluation{}, false
	}
	e.state.Dice.Roll(e.random)
	e.state.IsRolling = false
	e.state.RollStartedAt = time.Time{}
	ev := e.evaluateLocked()
	snap := TakeSnapshot(e.state)
	e.mu.Unlock()

	e.notify(snap)
	return ev, true
}

// evaluateLocked clears stale offers, scores the dice and marks the cells
// the player may choose
func (e *Engine) evaluateLocked() Evaluation {
	col := &e.state.Column
	col.ResetTransient()

	scores := e.calc.Calculate(e.state.Dice.Values())
	available := col.AvailableCells()

	var eligible []*model.ScoreCell
	for _, cell := range available {
		if scores[cell.Category] != 0 {
			eligible = append(eligible, cell)
		}
	}

	ev := Evaluation{Scores: scores}
	switch {
	case len(eligible) > 0:
		for _, cell := range eligible {
			cell.PreviewValue(scores[cell.Category], model.MarkerOption)
		}
		e.state.Phase = model.PhaseAwaitingSelection
	case e.state.RollsLeft == 0 && len(available) > 0:
		for _, cell := range available {
			cell.PreviewValue(cell.ScratchValue(), model.MarkerScratch)
		}
		ev.Scratch = true
		e.state.Phase = model.PhaseAwaitingSelection
	default:
		e.state.Phase = model.PhaseIdle
	}

	ev.Offers = e.state.Offers()
	return ev
}

// ToggleLock holds or releases a die between rolls
func (e *Engine) ToggleLock(index int) bool {
	e.mu.Lock()
	s := e.state
	if !model.IsValidDieIndex(index) ||
		s.IsRolling ||
		s.Phase == model.PhaseCommitted ||
		!s.HasRolled() {
		e.mu.Unlock()
		return false
	}
	s.Dice[index].ToggleLock()
	snap := TakeSnapshot(s)
	e.mu.Unlock()

	e.notify(snap)
	return true
}

// SelectCell commits the offered value of a row and ends the turn
func (e *Engine) SelectCell(row model.Row) bool {
	e.mu.Lock()
	s := e.state
	if s.IsRolling || s.Phase != model.PhaseAwaitingSelection {
		e.mu.Unlock()
		return false
	}

	cell := s.Column.Cell(row)
	if cell == nil || !cell.IsOffered() || !cell.IsAssignable() || cell.Preview == nil {
		e.mu.Unlock()
		return false
	}
	if err := cell.Commit(*cell.Preview); err != nil {
		e.mu.Unlock()
		return false
	}

	s.Column.ResetTransient()
	s.Phase = model.PhaseCommitted
	snap := TakeSnapshot(s)
	onSelect := e.onSelect
	e.mu.Unlock()

	e.notify(snap)
	if onSelect != nil {
		onSelect(s, cell)
	}
	return true
}

func (e *Engine) notify(snap Snapshot) {
	for _, obs := range e.observers {
		obs(snap)
	}
}
