package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/mcoot/yahtzee-go/internal/api/apierr"
	"github.com/mcoot/yahtzee-go/internal/api/middleware"
	"github.com/mcoot/yahtzee-go/internal/api/request"
	"github.com/mcoot/yahtzee-go/internal/api/response"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/services/bot"
	"github.com/mcoot/yahtzee-go/internal/services/game"
)

// BotService creates computer players and plays their turns
type BotService interface {
	CreateBotPlayer(ctx context.Context, displayName string, strategy string) (*model.Player, error)
	ProcessBotTurns(ctx context.Context, gameID model.GameID) ([]bot.BotAction, error)
}

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController game.ControllerInterface
	botService     BotService
	logger         *slog.Logger

	// asyncBots plays bot turns after the response is written. Tests run
	// them inline so responses already reflect the bots' moves.
	asyncBots bool
	botsMu    sync.Mutex
	botsBusy  map[model.GameID]bool
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController game.ControllerInterface, botService BotService, logger *slog.Logger, asyncBots bool) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		botService:     botService,
		logger:         logger.With(slog.String("component", "game-handler")),
		asyncBots:      asyncBots,
		botsBusy:       make(map[model.GameID]bool),
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	seats := 1 + len(req.Players) + len(req.Bots)
	for _, id := range req.Players {
		if model.PlayerID(id) == player.ID {
			seats--
		}
	}
	if seats > model.MaxPlayers {
		apierr.WriteError(w, model.ErrTooManyPlayers)
		return
	}
	for _, b := range req.Bots {
		if !model.IsValidBotStrategy(b.Strategy) {
			apierr.WriteError(w, apierr.NewInvalidRequestError("unknown bot strategy: "+b.Strategy))
			return
		}
	}

	players := make([]model.PlayerID, 0, len(req.Players)+len(req.Bots))
	for _, id := range req.Players {
		players = append(players, model.PlayerID(id))
	}
	for _, b := range req.Bots {
		botPlayer, err := h.botService.CreateBotPlayer(r.Context(), b.DisplayName, b.Strategy)
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		players = append(players, botPlayer.ID)
	}

	g, err := h.gameController.CreateGame(r.Context(), player.ID, players)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g = h.runBots(r.Context(), g)
	response.JSON(w, http.StatusCreated, response.GameStateFromModel(g))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Abandon handles DELETE /api/v1/games/{id}
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.AbandonGame(r.Context(), gameID(r), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Roll handles POST /api/v1/games/{id}/roll. The response is sent once the
// dice have settled.
func (h *GameHandler) Roll(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	res, err := h.gameController.Roll(r.Context(), gameID(r), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	writeResult(w, res)
}

// ToggleLock handles POST /api/v1/games/{id}/dice/{index}/lock
func (h *GameHandler) ToggleLock(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		apierr.WriteError(w, model.ErrInvalidDie)
		return
	}

	res, err := h.gameController.ToggleLock(r.Context(), gameID(r), player.ID, index)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	writeResult(w, res)
}

// Select handles POST /api/v1/games/{id}/select
func (h *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Row == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("row is required"))
		return
	}

	res, err := h.gameController.SelectCell(r.Context(), gameID(r), player.ID, model.Row(req.Row))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if res.Accepted {
		res.Game = h.runBots(r.Context(), res.Game)
	}
	writeResult(w, res)
}

// Standings handles GET /api/v1/games/{id}/standings. The winner is only
// reported once the game is complete.
func (h *GameHandler) Standings(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)

	standings, err := h.gameController.GetStandings(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.StandingsResponse{Standings: response.StandingsFromModel(standings)}
	summary, err := h.gameController.CreateGameSummary(r.Context(), id)
	switch {
	case err == nil:
		if summary.Winner != "" {
			winner := string(summary.Winner)
			resp.Winner = &winner
		}
	case errors.Is(err, model.ErrGameInProgress), errors.Is(err, model.ErrGameAbandoned):
	default:
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// runBots plays any bot turns that are now due. Inline runs return the
// game as the bots left it; background runs return g unchanged.
func (h *GameHandler) runBots(ctx context.Context, g *model.Game) *model.Game {
	if h.botService == nil || g.IsFinished() {
		return g
	}
	if seat := g.CurrentSeat(); seat == nil || !seat.IsBot {
		return g
	}

	if !h.claimBots(g.ID) {
		return g
	}

	if h.asyncBots {
		go func() {
			defer h.releaseBots(g.ID)
			h.processBots(context.WithoutCancel(ctx), g.ID)
		}()
		return g
	}

	defer h.releaseBots(g.ID)
	h.processBots(ctx, g.ID)
	if updated, err := h.gameController.GetGame(ctx, g.ID); err == nil {
		return updated
	}
	return g
}

func (h *GameHandler) processBots(ctx context.Context, id model.GameID) {
	actions, err := h.botService.ProcessBotTurns(ctx, id)
	if err != nil {
		h.logger.Error("bot turns failed",
			slog.String("game_id", string(id)),
			slog.Int("actions", len(actions)),
			slog.Any("error", err))
		return
	}
	h.logger.Debug("bot turns played",
		slog.String("game_id", string(id)),
		slog.Int("actions", len(actions)))
}

// claimBots ensures only one bot runner drives a game at a time
func (h *GameHandler) claimBots(id model.GameID) bool {
	h.botsMu.Lock()
	defer h.botsMu.Unlock()
	if h.botsBusy[id] {
		return false
	}
	h.botsBusy[id] = true
	return true
}

func (h *GameHandler) releaseBots(id model.GameID) {
	h.botsMu.Lock()
	defer h.botsMu.Unlock()
	delete(h.botsBusy, id)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

func writeResult(w http.ResponseWriter, res *game.Result) {
	response.JSON(w, http.StatusOK, response.ActionResponse{
		Accepted: res.Accepted,
		Game:     response.GameStateFromModel(res.Game),
	})
}
