package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/yahtzee-go/internal/dependencies/clock"
	"github.com/mcoot/yahtzee-go/internal/dependencies/random"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/services/scoring"
	"github.com/mcoot/yahtzee-go/internal/services/turn"
	"github.com/mcoot/yahtzee-go/internal/storage"
)

const (
	gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	gameIDLength   = 12
)

// Publisher receives game events for live subscribers
type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

// NopPublisher discards every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, model.Event) {}

// Result is the outcome of a turn command. Accepted is false when the
// command was ignored and Game is unchanged.
type Result struct {
	Game     *model.Game
	Accepted bool
}

// Controller manages the game state machine and turn flow. Every command
// loads the game, applies one transition through the turn engine and saves
// it back under a per-game lock.
type Controller struct {
	storage   storage.Storage
	scoring   scoring.ServiceInterface
	clock     clock.Clock
	random    random.Random
	publisher Publisher
	animation turn.AnimationConfig
	logger    *slog.Logger

	locksMu sync.Mutex
	locks   map[model.GameID]*sync.Mutex
	rolling map[model.GameID]bool // animations running in this process
}

// Option configures a Controller
type Option func(*Controller)

// WithPublisher routes game events to a live publisher
func WithPublisher(p Publisher) Option {
	return func(c *Controller) {
		c.publisher = p
	}
}

// WithAnimation overrides the roll timing
func WithAnimation(cfg turn.AnimationConfig) Option {
	return func(c *Controller) {
		c.animation = cfg
	}
}

// NewController creates a Controller
func NewController(
	storage storage.Storage,
	scoringService scoring.ServiceInterface,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		storage:   storage,
		scoring:   scoringService,
		clock:     clock,
		random:    random,
		publisher: NopPublisher{},
		animation: turn.DefaultAnimationConfig(),
		logger:    logger.With(slog.String("component", "game-controller")),
		locks:     make(map[model.GameID]*sync.Mutex),
		rolling:   make(map[model.GameID]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) lock(gameID model.GameID) func() {
	c.locksMu.Lock()
	mu, ok := c.locks[gameID]
	if !ok {
		mu = &sync.Mutex{}
		c.locks[gameID] = mu
	}
	c.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func (c *Controller) setRolling(gameID model.GameID, on bool) {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	if on {
		c.rolling[gameID] = true
		return
	}
	delete(c.rolling, gameID)
}

func (c *Controller) isRolling(gameID model.GameID) bool {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	return c.rolling[gameID]
}

// CreateGame seats the given players in order and starts the first turn.
// The host is seated first if not already listed.
func (c *Controller) CreateGame(ctx context.Context, hostID model.PlayerID, players []model.PlayerID) (*model.Game, error) {
	ordered := make([]model.PlayerID, 0, len(players)+1)
	seen := make(map[model.PlayerID]bool)
	if hostID != "" && !contains(players, hostID) {
		ordered = append(ordered, hostID)
		seen[hostID] = true
	}
	for _, id := range players {
		if !seen[id] {
			ordered = append(ordered, id)
			seen[id] = true
		}
	}

	if len(ordered) < model.MinPlayers {
		return nil, model.ErrInsufficientPlayers
	}
	if len(ordered) > model.MaxPlayers {
		return nil, model.ErrTooManyPlayers
	}

	seats := make([]*model.PlayerState, 0, len(ordered))
	for _, id := range ordered {
		player, err := c.storage.GetPlayer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("seating %s: %w", id, err)
		}
		seats = append(seats, model.NewPlayerState(*player))
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:            model.GameID(c.random.String(gameIDLength, gameIDAlphabet)),
		HostID:        hostID,
		State:         model.GameStateInProgress,
		Seats:         seats,
		CurrentIdx:    0,
		Round:         1,
		TurnStartedAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if game.HostID == "" {
		game.HostID = ordered[0]
	}
	game.CurrentSeat().StartTurn()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("host_id", string(game.HostID)),
		slog.Int("player_count", len(seats)),
	)

	c.publish(ctx, game, model.EventGameStarted, game.HostID, model.GameStartedPayload{Players: ordered})
	c.publishState(ctx, game)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// loadPlayable loads a game and checks the actor may drive the current turn
func (c *Controller) loadPlayable(ctx context.Context, gameID model.GameID, actorID model.PlayerID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := checkPlayable(game); err != nil {
		return nil, err
	}
	if !canAct(game, actorID) {
		return nil, model.ErrNotPlayerTurn
	}
	if err := c.settleInterruptedRoll(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// settleInterruptedRoll finishes a roll that is still marked in progress
// although no animation for it is running here and its time is up. This
// happens when the final save of a roll failed or the server restarted
// mid-roll. Must be called with the game lock held.
func (c *Controller) settleInterruptedRoll(ctx context.Context, game *model.Game) error {
	seat := game.CurrentSeat()
	if !seat.RollOverdue(c.clock.Now(), c.animation.Duration) || c.isRolling(game.ID) {
		return nil
	}

	ev, ok := c.engine(seat).FinishRoll()
	if !ok {
		return nil
	}
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	c.logger.Warn("settled interrupted roll",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(seat.PlayerID)),
	)
	c.publishRolled(ctx, game, seat, ev)
	return nil
}

func checkPlayable(game *model.Game) error {
	switch game.State {
	case model.GameStateComplete:
		return model.ErrGameComplete
	case model.GameStateAbandoned:
		return model.ErrGameAbandoned
	}
	if game.CurrentSeat() == nil {
		return model.ErrNoGameInProgress
	}
	return nil
}

// canAct allows the seat's own player, or the host for human seats so a
// whole table can play on one device
func canAct(game *model.Game, actorID model.PlayerID) bool {
	seat := game.CurrentSeat()
	if seat.PlayerID == actorID {
		return true
	}
	return !seat.IsBot && actorID == game.HostID
}

func (c *Controller) engine(seat *model.PlayerState, opts ...turn.Option) *turn.Engine {
	opts = append([]turn.Option{turn.WithAnimation(c.animation)}, opts...)
	return turn.New(seat, c.scoring, c.random, c.clock, opts...)
}

// Roll rolls the current player's unlocked dice and blocks until they
// settle. Tumble frames are published while the dice are rolling; only the
// final roll is scored and saved.
func (c *Controller) Roll(ctx context.Context, gameID model.GameID, actorID model.PlayerID) (*Result, error) {
	unlock := c.lock(gameID)
	game, err := c.loadPlayable(ctx, gameID, actorID)
	if err != nil {
		unlock()
		return nil, err
	}

	seat := game.CurrentSeat()
	if !c.engine(seat).BeginRoll() {
		unlock()
		return &Result{Game: game, Accepted: false}, nil
	}
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		unlock()
		return nil, err
	}
	c.setRolling(gameID, true)
	defer c.setRolling(gameID, false)
	unlock()
	c.publishState(ctx, game)

	// Animation frames run on a private copy so nothing but the final roll
	// reaches storage
	frames := seat.Clone()
	frameEngine := c.engine(frames)
	turn.Animate(c.clock, c.animation, func() {
		dice := frameEngine.Tumble()
		c.publish(ctx, game, model.EventDiceTumbled, seat.PlayerID, model.DiceTumbledPayload{Dice: dice})
	})

	// The roll already consumed a roll; finish it even if the caller went away
	return c.finishRoll(context.WithoutCancel(ctx), gameID, seat.PlayerID)
}

func (c *Controller) finishRoll(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*Result, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := game.Seat(playerID)
	if seat == nil || game.IsFinished() {
		return &Result{Game: game, Accepted: false}, nil
	}

	ev, ok := c.engine(seat).FinishRoll()
	if !ok {
		return &Result{Game: game, Accepted: false}, nil
	}
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		// The stored seat is still rolling; the next command settles it
		c.logger.Error("failed to save roll",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Debug("dice rolled",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Any("dice", seat.Dice.Values()),
		slog.Int("rolls_left", seat.RollsLeft),
		slog.Int("offers", len(ev.Offers)),
	)

	c.publishRolled(ctx, game, seat, ev)
	return &Result{Game: game, Accepted: true}, nil
}

func (c *Controller) publishRolled(ctx context.Context, game *model.Game, seat *model.PlayerState, ev turn.Evaluation) {
	c.publish(ctx, game, model.EventDiceRolled, seat.PlayerID, model.DiceRolledPayload{
		Dice:      seat.Dice,
		RollsLeft: seat.RollsLeft,
		Offers:    ev.Offers,
	})
	c.publishState(ctx, game)
}

// ToggleLock holds or releases one of the current player's dice
func (c *Controller) ToggleLock(ctx context.Context, gameID model.GameID, actorID model.PlayerID, index int) (*Result, error) {
	if !model.IsValidDieIndex(index) {
		return nil, model.ErrInvalidDie
	}

	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.loadPlayable(ctx, gameID, actorID)
	if err != nil {
		return nil, err
	}

	if !c.engine(game.CurrentSeat()).ToggleLock(index) {
		return &Result{Game: game, Accepted: false}, nil
	}
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.publishState(ctx, game)
	return &Result{Game: game, Accepted: true}, nil
}

// SelectCell commits an offered cell for the current player and advances
// the game to the next turn
func (c *Controller) SelectCell(ctx context.Context, gameID model.GameID, actorID model.PlayerID, row model.Row) (*Result, error) {
	if row.Category() == "" {
		return nil, model.ErrInvalidRow
	}

	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.loadPlayable(ctx, gameID, actorID)
	if err != nil {
		return nil, err
	}

	seat := game.CurrentSeat()
	var committed *model.ScoreCell
	engine := c.engine(seat, turn.WithSelectCallback(func(_ *model.PlayerState, cell *model.ScoreCell) {
		committed = cell
	}))
	if !engine.SelectCell(row) {
		return &Result{Game: game, Accepted: false}, nil
	}

	value := committed.CommittedValue()
	c.publish(ctx, game, model.EventCellCommitted, seat.PlayerID, model.CellCommittedPayload{
		Row:       committed.Row,
		Value:     value,
		Scratched: value == 0,
	})
	c.logger.Info("cell committed",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(seat.PlayerID)),
		slog.String("row", string(committed.Row)),
		slog.Int("value", value),
	)

	if err := c.advanceTurn(ctx, game); err != nil {
		return nil, err
	}
	return &Result{Game: game, Accepted: true}, nil
}

// advanceTurn moves to the next seat or completes the game
func (c *Controller) advanceTurn(ctx context.Context, game *model.Game) error {
	now := c.clock.Now()
	game.UpdatedAt = now

	if game.AllColumnsComplete() {
		return c.completeGame(ctx, game)
	}

	game.CurrentIdx = (game.CurrentIdx + 1) % len(game.Seats)
	if game.CurrentIdx == 0 {
		game.Round++
	}
	game.TurnStartedAt = now
	game.CurrentSeat().StartTurn()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	c.logger.Info("turn advanced",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", game.Round),
		slog.String("next_player", string(game.CurrentPlayer())),
	)

	c.publish(ctx, game, model.EventTurnAdvanced, game.CurrentPlayer(), model.TurnAdvancedPayload{
		Round:        game.Round,
		NextPlayerID: game.CurrentPlayer(),
	})
	c.publishState(ctx, game)
	return nil
}

func (c *Controller) completeGame(ctx context.Context, game *model.Game) error {
	game.State = model.GameStateComplete
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	standings := c.scoring.Standings(game)
	winner := c.scoring.DetermineWinner(standings)

	summary := c.buildSummary(game, standings, winner)
	if err := c.storage.SaveGameSummary(ctx, summary); err != nil {
		return err
	}

	c.logger.Info("game completed",
		slog.String("game_id", string(game.ID)),
		slog.String("winner", string(winner)),
		slog.Int("rounds", game.Round),
	)

	c.publish(ctx, game, model.EventGameComplete, winner, model.GameCompletePayload{
		Standings: standings,
		Winner:    winner,
	})
	c.publishState(ctx, game)
	return nil
}

func (c *Controller) buildSummary(game *model.Game, standings []model.Standing, winner model.PlayerID) *model.GameSummary {
	players := make([]model.PlayerID, 0, len(game.Seats))
	for _, seat := range game.Seats {
		players = append(players, seat.PlayerID)
	}
	finalScores := make(map[model.PlayerID]int, len(standings))
	for _, st := range standings {
		finalScores[st.PlayerID] = st.GrandTotal
	}
	return &model.GameSummary{
		ID:          game.ID,
		Players:     players,
		FinalScores: finalScores,
		Winner:      winner,
		CompletedAt: c.clock.Now(),
	}
}

// AbandonGame ends a game early. Only the host may abandon.
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID, actorID model.PlayerID) (*model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.HostID != actorID {
		return nil, model.ErrNotHost
	}
	if game.IsFinished() {
		return game, nil
	}

	game.State = model.GameStateAbandoned
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game abandoned",
		slog.String("game_id", string(gameID)),
		slog.String("by", string(actorID)),
	)

	c.publish(ctx, game, model.EventGameAbandoned, actorID, model.GameAbandonedPayload{Reason: "abandoned by host"})
	c.publishState(ctx, game)
	return game, nil
}

// GetStandings returns the current standings of any game, best first
func (c *Controller) GetStandings(ctx context.Context, gameID model.GameID) ([]model.Standing, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return c.scoring.Standings(game), nil
}

// CreateGameSummary returns the summary record for a completed game
func (c *Controller) CreateGameSummary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != model.GameStateComplete {
		return nil, model.ErrGameInProgress
	}

	if summary, err := c.storage.GetGameSummary(ctx, gameID); err == nil {
		return summary, nil
	}

	standings := c.scoring.Standings(game)
	summary := c.buildSummary(game, standings, c.scoring.DetermineWinner(standings))
	if err := c.storage.SaveGameSummary(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ListHistory returns the player's completed games, newest first
func (c *Controller) ListHistory(ctx context.Context, playerID model.PlayerID) ([]*model.GameSummary, error) {
	return c.storage.ListGameSummaries(ctx, playerID)
}

func (c *Controller) publish(ctx context.Context, game *model.Game, eventType model.EventType, playerID model.PlayerID, payload any) {
	c.publisher.Publish(ctx, model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		PlayerID:  playerID,
		Payload:   payload,
	})
}

func (c *Controller) publishState(ctx context.Context, game *model.Game) {
	c.publish(ctx, game, model.EventStateChanged, game.CurrentPlayer(), model.StateChangedPayload{Game: game.Clone()})
}

func contains(ids []model.PlayerID, id model.PlayerID) bool {
	for _, p := range ids {
		if p == id {
			return true
		}
	}
	return false
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, hostID model.PlayerID, players []model.PlayerID) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	Roll(ctx context.Context, gameID model.GameID, actorID model.PlayerID) (*Result, error)
	ToggleLock(ctx context.Context, gameID model.GameID, actorID model.PlayerID, index int) (*Result, error)
	SelectCell(ctx context.Context, gameID model.GameID, actorID model.PlayerID, row model.Row) (*Result, error)
	AbandonGame(ctx context.Context, gameID model.GameID, actorID model.PlayerID) (*model.Game, error)
	GetStandings(ctx context.Context, gameID model.GameID) ([]model.Standing, error)
	CreateGameSummary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error)
	ListHistory(ctx context.Context, playerID model.PlayerID) ([]*model.GameSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
