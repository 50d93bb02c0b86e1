package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/yahtzee-go/internal/api/apierr"
	"github.com/mcoot/yahtzee-go/internal/api/middleware"
	"github.com/mcoot/yahtzee-go/internal/api/response"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/services/game"
	"github.com/mcoot/yahtzee-go/internal/web/qrcode"
	"github.com/mcoot/yahtzee-go/internal/web/sse"
)

// StreamHandler serves live game updates and the spectator join link.
// Watching is open to anyone who knows the game ID.
type StreamHandler struct {
	gameController game.ControllerInterface
	hubManager     *sse.HubManager
	publicURL      string
	logger         *slog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(gameController game.ControllerInterface, hubManager *sse.HubManager, publicURL string, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		gameController: gameController,
		hubManager:     hubManager,
		publicURL:      publicURL,
		logger:         logger.With(slog.String("component", "stream-handler")),
	}
}

// Events handles GET /api/v1/games/{id}/events
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	g, initial, ok := h.prepare(w, r)
	if !ok {
		return
	}
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(g.ID), watcherID(r), initial)
}

// WebSocket handles GET /api/v1/games/{id}/ws
func (h *StreamHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	g, initial, ok := h.prepare(w, r)
	if !ok {
		return
	}
	sse.ServeWS(w, r, h.hubManager.GetOrCreateHub(g.ID), watcherID(r), initial, h.logger)
}

// QR handles GET /api/v1/games/{id}/qr with a PNG linking to the game
func (h *StreamHandler) QR(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	png, err := qrcode.Generate(qrcode.GameURL(h.publicURL, r.Host, g.ID), qrcode.DefaultSize)
	if err != nil {
		h.logger.Error("qr generation failed", slog.String("game_id", string(g.ID)), slog.Any("error", err))
		apierr.WriteError(w, err)
		return
	}

	// A game's link never changes
	response.PNG(w, png, time.Hour)
}

// prepare loads the game and encodes its snapshot as the first message
func (h *StreamHandler) prepare(w http.ResponseWriter, r *http.Request) (*model.Game, *sse.Message, bool) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return nil, nil, false
	}
	initial, err := sse.SnapshotMessage(g)
	if err != nil {
		apierr.WriteError(w, err)
		return nil, nil, false
	}
	return g, &initial, true
}

func watcherID(r *http.Request) model.PlayerID {
	if p := middleware.GetPlayer(r.Context()); p != nil {
		return p.ID
	}
	return ""
}
