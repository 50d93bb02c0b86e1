package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/yahtzee-go/internal/api/response"
	"github.com/mcoot/yahtzee-go/internal/model"
)

// Broadcaster pushes game events to the clients watching each game. It
// satisfies the game controller's publisher.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "stream-broadcaster")),
	}
}

// Publish sends the event to the game's hub. Games nobody is watching have
// no hub and the event is dropped.
func (b *Broadcaster) Publish(_ context.Context, event model.Event) {
	hub := b.hubManager.GetHub(event.GameID)
	if hub == nil {
		return
	}

	msg, err := EventMessage(event)
	if err != nil {
		b.logger.Error("stream failed to encode event",
			slog.String("game_id", string(event.GameID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(msg)
}

// EventMessage encodes an event as a hub message
func EventMessage(event model.Event) (Message, error) {
	data, err := json.Marshal(response.EventFromModel(event))
	if err != nil {
		return Message{}, err
	}
	return Message{Event: string(event.Type), Data: data}, nil
}

// SnapshotMessage encodes the current state of a game as a state_changed
// message
func SnapshotMessage(game *model.Game) (Message, error) {
	return EventMessage(model.Event{
		Type:      model.EventStateChanged,
		Timestamp: game.UpdatedAt,
		GameID:    game.ID,
		PlayerID:  game.CurrentPlayer(),
		Payload:   model.StateChangedPayload{Game: game},
	})
}
