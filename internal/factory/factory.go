package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/yahtzee-go/internal/api"
	"github.com/mcoot/yahtzee-go/internal/dependencies/clock"
	"github.com/mcoot/yahtzee-go/internal/dependencies/random"
	"github.com/mcoot/yahtzee-go/internal/services/auth"
	"github.com/mcoot/yahtzee-go/internal/services/bot"
	"github.com/mcoot/yahtzee-go/internal/services/game"
	"github.com/mcoot/yahtzee-go/internal/services/scoring"
	"github.com/mcoot/yahtzee-go/internal/services/turn"
	"github.com/mcoot/yahtzee-go/internal/storage"
	"github.com/mcoot/yahtzee-go/internal/storage/memory"
	redisstorage "github.com/mcoot/yahtzee-go/internal/storage/redis"
	"github.com/mcoot/yahtzee-go/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoringService *scoring.Service
	GameController *game.Controller
	AuthService    *auth.Service
	BotService     *bot.Service

	// Live updates
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster

	logger      *slog.Logger
	storageType string
	publicURL   string
	asyncBots   bool
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Animation controls roll timing (optional)
	// If zero value, defaults to turn.DefaultAnimationConfig()
	Animation turn.AnimationConfig
	// DiceSeed makes dice and IDs reproducible when nonzero
	DiceSeed uint64
	// PublicURL is the base URL encoded in QR join links (optional)
	PublicURL string
	// SyncBots plays bot turns before API responses are written instead of
	// in the background
	SyncBots bool
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", storageType)
	}

	var rnd random.Random = random.New()
	if cfg.DiceSeed != 0 {
		rnd = random.NewSeeded(cfg.DiceSeed)
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	animation := cfg.Animation
	if animation == (turn.AnimationConfig{}) {
		animation = turn.DefaultAnimationConfig()
	}

	app := newWithDependencies(store, clock.New(), rnd, authCfg, animation, logger)
	app.storageType = storageType
	app.publicURL = cfg.PublicURL
	app.asyncBots = !cfg.SyncBots
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	animation turn.AnimationConfig,
	logger *slog.Logger,
) *App {
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	scoringService := scoring.New()
	gameController := game.NewController(store, scoringService, clk, rnd, logger,
		game.WithAnimation(animation),
		game.WithPublisher(broadcaster),
	)
	authService := auth.New(store, clk, logger, authCfg)
	botService := bot.NewService(store, gameController, bot.DefaultStrategies(rnd), clk, rnd, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		ScoringService: scoringService,
		GameController: gameController,
		AuthService:    authService,
		BotService:     botService,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		logger:         logger,
		storageType:    StorageTypeMemory,
	}
}

// Router builds the HTTP API for the app
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:         a.logger,
		AuthService:    a.AuthService,
		GameController: a.GameController,
		BotService:     a.BotService,
		HubManager:     a.HubManager,
		PublicURL:      a.publicURL,
		AsyncBots:      a.asyncBots,
		HealthCheck:    a.Ping,
	})
}

// StorageType names the storage backend in use
func (a *App) StorageType() string {
	return a.storageType
}

// Ping checks the storage backend is reachable
func (a *App) Ping(ctx context.Context) error {
	if p, ok := a.Storage.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases streaming hubs and the storage connection
func (a *App) Close() error {
	a.HubManager.Close()
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
