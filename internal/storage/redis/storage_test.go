package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/yahtzee-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.SessionTTL = 2 * time.Hour
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func newGame(id model.GameID, players ...model.PlayerID) *model.Game {
	game := &model.Game{
		ID:        id,
		HostID:    players[0],
		State:     model.GameStateInProgress,
		Round:     1,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, p := range players {
		game.Seats = append(game.Seats, model.NewPlayerState(model.Player{ID: p, DisplayName: string(p)}))
	}
	return game
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1"})

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGuestPlayerTTL() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "guest", IsGuest: true})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "registered"})

	s.Equal(time.Hour, s.mini.TTL(playerKey("guest")))
	s.Equal(time.Duration(0), s.mini.TTL(playerKey("registered")))
}

// Registered player tests

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)
	s.Equal("hash", retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *StorageSuite) TestSessionLifecycle() {
	session := &model.Session{
		Token:     "sess_1",
		PlayerID:  "player-1",
		Player:    model.Player{ID: "player-1", DisplayName: "Alice"},
		ExpiresAt: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	s.Equal(2*time.Hour, s.mini.TTL(sessionKey("sess_1")))

	retrieved, err := s.storage.GetSession(s.ctx, "sess_1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Player.DisplayName)
	s.True(session.ExpiresAt.Equal(retrieved.ExpiresAt))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "sess_1"))
	_, err = s.storage.GetSession(s.ctx, "sess_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGameRoundTrip() {
	game := newGame("game-1", "p1", "p2")
	seat := game.Seats[0]
	seat.Dice[2].Value = 5
	seat.Dice[2].Locked = true
	seat.RollsLeft = 1
	seat.Phase = model.PhaseAwaitingSelection
	s.Require().NoError(seat.Column.Cell(model.CategoryYahtzee.Row()).Commit(50))
	seat.Column.Cell(model.CategoryChance.Row()).PreviewValue(17, model.MarkerOption)

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), retrieved.HostID)
	s.Require().Len(retrieved.Seats, 2)

	got := retrieved.Seats[0]
	s.Equal(5, got.Dice[2].Value)
	s.True(got.Dice[2].Locked)
	s.Equal(1, got.RollsLeft)
	s.Equal(model.PhaseAwaitingSelection, got.Phase)
	s.Equal(50, got.Column.Cell(model.CategoryYahtzee.Row()).CommittedValue())
	chance := got.Column.Cell(model.CategoryChance.Row())
	s.Require().NotNil(chance.Preview)
	s.Equal(17, *chance.Preview)
	s.Equal(model.MarkerOption, chance.Marker)
	s.Equal(50, got.Column.GrandTotal())
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGameTTL() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "p1"))
	s.Equal(time.Hour, s.mini.TTL(gameKey("game-1")))
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "p1"))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Summary tests

func (s *StorageSuite) TestSaveAndGetGameSummary() {
	summary := &model.GameSummary{
		ID:          "game-1",
		Players:     []model.PlayerID{"p1", "p2"},
		FinalScores: map[model.PlayerID]int{"p1": 200, "p2": 150},
		Winner:      "p1",
		CompletedAt: time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SaveGameSummary(s.ctx, summary))

	retrieved, err := s.storage.GetGameSummary(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), retrieved.Winner)
	s.Equal(200, retrieved.FinalScores["p1"])
	s.Equal(time.Duration(0), s.mini.TTL(summaryKey("game-1")))
}

func (s *StorageSuite) TestListGameSummariesNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: "old", Players: []model.PlayerID{"p1", "p2"}, CompletedAt: base})
	_ = s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: "new", Players: []model.PlayerID{"p1"}, CompletedAt: base.Add(time.Hour)})
	_ = s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: "other", Players: []model.PlayerID{"p3"}, CompletedAt: base})

	summaries, err := s.storage.ListGameSummaries(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(model.GameID("new"), summaries[0].ID)
	s.Equal(model.GameID("old"), summaries[1].ID)

	p2, err := s.storage.ListGameSummaries(s.ctx, "p2")
	s.Require().NoError(err)
	s.Len(p2, 1)
}

func (s *StorageSuite) TestListGameSummariesEmpty() {
	summaries, err := s.storage.ListGameSummaries(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(summaries)
}

func (s *StorageSuite) TestListGameSummariesSkipsExpired() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: "a", Players: []model.PlayerID{"p1"}, CompletedAt: base})
	_ = s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: "b", Players: []model.PlayerID{"p1"}, CompletedAt: base.Add(time.Minute)})
	s.mini.Del(summaryKey("a"))

	summaries, err := s.storage.ListGameSummaries(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(model.GameID("b"), summaries[0].ID)
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	cfg := DefaultConfig()
	cfg.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty URL")
	}

	cfg = DefaultConfig()
	cfg.GameTTL = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative TTL")
	}
}

func TestNewConnectsToServer(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()

	store, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
