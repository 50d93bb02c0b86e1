package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/yahtzee-go/internal/api/apierr"
	"github.com/mcoot/yahtzee-go/internal/api/handler"
	"github.com/mcoot/yahtzee-go/internal/api/middleware"
	"github.com/mcoot/yahtzee-go/internal/api/response"
	httpmw "github.com/mcoot/yahtzee-go/internal/middleware"
	"github.com/mcoot/yahtzee-go/internal/services/auth"
	"github.com/mcoot/yahtzee-go/internal/services/game"
	"github.com/mcoot/yahtzee-go/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController game.ControllerInterface
	BotService     handler.BotService
	HubManager     *sse.HubManager

	// PublicURL is the externally visible base URL used in QR join links.
	// The request host is used when empty.
	PublicURL string
	// AsyncBots plays bot turns in the background after a response
	AsyncBots bool
	// HealthCheck reports whether backing services are reachable (optional)
	HealthCheck func(ctx context.Context) error
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.GameController)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BotService, cfg.Logger, cfg.AsyncBots)
	streamHandler := handler.NewStreamHandler(cfg.GameController, cfg.HubManager, cfg.PublicURL, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(httpmw.Recovery(cfg.Logger, apierr.WritePanic))
	api.Use(httpmw.Logging(cfg.Logger))

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/history", playerHandler.History).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Watching a game needs only its ID
	watch := api.PathPrefix("/games/{id}").Subrouter()
	watch.Use(optionalAuthMiddleware)
	watch.HandleFunc("", gameHandler.Get).Methods(http.MethodGet)
	watch.HandleFunc("/standings", gameHandler.Standings).Methods(http.MethodGet)
	watch.HandleFunc("/events", streamHandler.Events).Methods(http.MethodGet)
	watch.HandleFunc("/ws", streamHandler.WebSocket).Methods(http.MethodGet)
	watch.HandleFunc("/qr", streamHandler.QR).Methods(http.MethodGet)

	// Playing requires a session
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Abandon).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/roll", gameHandler.Roll).Methods(http.MethodPost)
	games.HandleFunc("/{id}/dice/{index}/lock", gameHandler.ToggleLock).Methods(http.MethodPost)
	games.HandleFunc("/{id}/select", gameHandler.Select).Methods(http.MethodPost)

	api.HandleFunc("/health", healthHandler(cfg.HealthCheck)).Methods(http.MethodGet)

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				response.JSON(w, http.StatusServiceUnavailable, response.HealthResponse{Status: "unavailable"})
				return
			}
		}
		response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
	}
}
