package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/yahtzee-go/internal/dependencies/clock"
	"github.com/mcoot/yahtzee-go/internal/dependencies/random"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/services/game"
	"github.com/mcoot/yahtzee-go/internal/storage"
)

const (
	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
	// MaxBotIterations is a safety limit for the ProcessBotTurns loop
	MaxBotIterations = 1000
)

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionRoll         BotActionType = "roll"
	ActionLock         BotActionType = "lock"
	ActionSelect       BotActionType = "select"
	ActionTurnComplete BotActionType = "turn_complete"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction is a single step a bot took during ProcessBotTurns
type BotAction struct {
	Type     BotActionType
	PlayerID model.PlayerID
	Dice     []int
	DieIndex int
	Row      model.Row
}

// Service plays the turns of computer-controlled seats
type Service struct {
	storage        storage.Storage
	gameController game.ControllerInterface
	strategies     map[string]Strategy
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	gameController game.ControllerInterface,
	strategies map[string]Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:        store,
		gameController: gameController,
		strategies:     strategies,
		clock:          clk,
		random:         rnd,
		logger:         logger.With(slog.String("component", "bot-service")),
	}
}

// DefaultStrategies returns every built-in strategy keyed by name
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyRandom: NewRandomStrategy(rnd),
		model.BotStrategyGreedy: NewGreedyStrategy(),
	}
}

// CreateBotPlayer creates a new bot player and saves it to storage
func (s *Service) CreateBotPlayer(ctx context.Context, displayName string, strategy string) (*model.Player, error) {
	if _, ok := s.strategies[strategy]; !ok {
		return nil, fmt.Errorf("unknown bot strategy: %s", strategy)
	}
	if displayName == "" {
		displayName = model.BotStrategyDisplayName(strategy) + " Bot"
	}

	player := &model.Player{
		ID:          model.PlayerID("bot-" + s.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: displayName,
		IsGuest:     true,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("bot created",
		slog.String("bot_id", string(player.ID)),
		slog.String("strategy", strategy),
	)

	return player, nil
}

// ProcessBotTurns plays consecutive bot turns until a human is up or the
// game ends. It returns every action taken so callers can report them.
func (s *Service) ProcessBotTurns(ctx context.Context, gameID model.GameID) ([]BotAction, error) {
	var actions []BotAction

	for range MaxBotIterations {
		g, err := s.gameController.GetGame(ctx, gameID)
		if err != nil {
			return actions, err
		}
		if g.IsFinished() {
			break
		}

		seat := g.CurrentSeat()
		if seat == nil || !seat.IsBot {
			break
		}

		turnActions, err := s.playTurn(ctx, gameID, seat)
		actions = append(actions, turnActions...)
		if err != nil {
			return actions, err
		}

		g, err = s.gameController.GetGame(ctx, gameID)
		if err != nil {
			return actions, err
		}
		if g.State == model.GameStateComplete {
			actions = append(actions, BotAction{Type: ActionGameComplete})
			break
		}
		actions = append(actions, BotAction{Type: ActionTurnComplete, PlayerID: seat.PlayerID})
	}

	return actions, nil
}

// playTurn rolls until the strategy is satisfied, then commits a cell
func (s *Service) playTurn(ctx context.Context, gameID model.GameID, seat *model.PlayerState) ([]BotAction, error) {
	var actions []BotAction
	botID := seat.PlayerID
	strategy := s.strategyFor(seat.BotStrategy)

	for {
		res, err := s.gameController.Roll(ctx, gameID, botID)
		if err != nil {
			return actions, err
		}
		if !res.Accepted {
			return actions, fmt.Errorf("bot %s could not roll in game %s", botID, gameID)
		}
		seat = res.Game.CurrentSeat()
		actions = append(actions, BotAction{Type: ActionRoll, PlayerID: botID, Dice: seat.Dice.Values()})

		if seat.RollsLeft == 0 {
			break
		}
		if len(seat.Offers()) > 0 && !strategy.ShouldRoll(seat) {
			break
		}

		holds := strategy.ChooseHolds(seat)
		if allHeld(holds) {
			if len(seat.Offers()) > 0 {
				break
			}
			holds = Holds{}
		}
		lockActions, err := s.applyHolds(ctx, gameID, seat, holds)
		actions = append(actions, lockActions...)
		if err != nil {
			return actions, err
		}
	}

	row := strategy.ChooseCell(seat)
	res, err := s.gameController.SelectCell(ctx, gameID, botID, row)
	if err != nil || !res.Accepted {
		// Strategy picked something unusable; take the first offer instead
		offers := seat.Offers()
		if len(offers) == 0 {
			return actions, fmt.Errorf("bot %s has no cell to commit in game %s", botID, gameID)
		}
		row = offers[0].Row
		res, err = s.gameController.SelectCell(ctx, gameID, botID, row)
		if err != nil {
			return actions, err
		}
		if !res.Accepted {
			return actions, fmt.Errorf("bot %s could not commit %s in game %s", botID, row, gameID)
		}
	}
	actions = append(actions, BotAction{Type: ActionSelect, PlayerID: botID, Row: row})

	s.logger.Debug("bot turn played",
		slog.String("game_id", string(gameID)),
		slog.String("bot_id", string(botID)),
		slog.String("row", string(row)),
	)

	return actions, nil
}

// applyHolds toggles the dice whose lock state differs from holds
func (s *Service) applyHolds(ctx context.Context, gameID model.GameID, seat *model.PlayerState, holds Holds) ([]BotAction, error) {
	var actions []BotAction
	for i, want := range holds {
		if seat.Dice[i].Locked == want {
			continue
		}
		res, err := s.gameController.ToggleLock(ctx, gameID, seat.PlayerID, i)
		if err != nil {
			return actions, err
		}
		if res.Accepted {
			actions = append(actions, BotAction{Type: ActionLock, PlayerID: seat.PlayerID, DieIndex: i})
		}
	}
	return actions, nil
}

func allHeld(holds Holds) bool {
	for _, h := range holds {
		if !h {
			return false
		}
	}
	return true
}

// strategyFor returns the named strategy, falling back to greedy and then
// to any registered strategy
func (s *Service) strategyFor(name string) Strategy {
	if st, ok := s.strategies[name]; ok {
		return st
	}
	if st, ok := s.strategies[model.BotStrategyGreedy]; ok {
		return st
	}
	for _, st := range s.strategies {
		return st
	}
	return NewGreedyStrategy()
}
