package sse_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/yahtzee-go/internal/api/response"
	"github.com/mcoot/yahtzee-go/internal/model"
	"github.com/mcoot/yahtzee-go/internal/testutil"
	"github.com/mcoot/yahtzee-go/internal/web/sse"
)

func testGame() *model.Game {
	seat := model.NewPlayerState(model.Player{ID: "alice", DisplayName: "Alice"})
	seat.RollsLeft = 2
	for i, v := range []int{2, 2, 2, 5, 6} {
		seat.Dice[i].Value = v
	}
	return &model.Game{
		ID:     "G1",
		HostID: "alice",
		State:  model.GameStateInProgress,
		Seats:  []*model.PlayerState{seat},
		Round:  1,
	}
}

func TestEventMessageEncodesPayload(t *testing.T) {
	msg, err := sse.EventMessage(model.Event{
		Type:     model.EventCellCommitted,
		GameID:   "G1",
		PlayerID: "alice",
		Payload:  model.CellCommittedPayload{Row: "chance", Value: 17},
	})
	require.NoError(t, err)
	assert.Equal(t, "cell_committed", msg.Event)

	var decoded struct {
		Type   string                 `json:"type"`
		GameID string                 `json:"game_id"`
		Data   response.CellCommitted `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "cell_committed", decoded.Type)
	assert.Equal(t, "G1", decoded.GameID)
	assert.Equal(t, response.CellCommitted{Row: "chance", Value: 17}, decoded.Data)
}

func TestSnapshotMessage(t *testing.T) {
	msg, err := sse.SnapshotMessage(testGame())
	require.NoError(t, err)
	assert.Equal(t, "state_changed", msg.Event)

	var decoded struct {
		Data response.GameState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "alice", decoded.Data.CurrentPlayer)
	require.Len(t, decoded.Data.Seats, 1)
	assert.Equal(t, 2, decoded.Data.Seats[0].RollsLeft)
	assert.Equal(t, 6, decoded.Data.Seats[0].Dice[4].Value)
}

func TestPublishWithoutWatchersIsDropped(t *testing.T) {
	manager := sse.NewHubManager(testutil.NopLogger())
	b := sse.NewBroadcaster(manager, testutil.NopLogger())

	assert.NotPanics(t, func() {
		b.Publish(context.Background(), model.Event{Type: model.EventDiceRolled, GameID: "nobody"})
	})
	assert.Nil(t, manager.GetHub("nobody"))
}

// readEvent reads one "event:/data:" block from an event stream
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "" && event != "":
			return event, data
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data += strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestServeSSEStreamsSnapshotAndEvents(t *testing.T) {
	manager := sse.NewHubManager(testutil.NopLogger())
	defer manager.Close()
	b := sse.NewBroadcaster(manager, testutil.NopLogger())
	game := testGame()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initial, err := sse.SnapshotMessage(game)
		require.NoError(t, err)
		sse.ServeSSE(w, r, manager.GetOrCreateHub(game.ID), "", &initial)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	event, _ := readEvent(t, reader)
	assert.Equal(t, "connected", event)
	event, data := readEvent(t, reader)
	assert.Equal(t, "state_changed", event)
	assert.Contains(t, data, `"current_player":"alice"`)

	hub := manager.GetHub(game.ID)
	require.NotNil(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	b.Publish(context.Background(), model.Event{
		Type:    model.EventTurnAdvanced,
		GameID:  game.ID,
		Payload: model.TurnAdvancedPayload{Round: 2, NextPlayerID: "alice"},
	})

	event, data = readEvent(t, reader)
	assert.Equal(t, "turn_advanced", event)
	assert.Contains(t, data, `"round":2`)
}

func TestServeWSStreamsSnapshotAndEvents(t *testing.T) {
	manager := sse.NewHubManager(testutil.NopLogger())
	defer manager.Close()
	b := sse.NewBroadcaster(manager, testutil.NopLogger())
	game := testGame()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initial, err := sse.SnapshotMessage(game)
		require.NoError(t, err)
		sse.ServeWS(w, r, manager.GetOrCreateHub(game.ID), "alice", &initial, testutil.NopLogger())
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var snapshot response.Event
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, "state_changed", snapshot.Type)

	hub := manager.GetHub(game.ID)
	require.NotNil(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	b.Publish(context.Background(), model.Event{
		Type:    model.EventGameAbandoned,
		GameID:  game.ID,
		Payload: model.GameAbandonedPayload{Reason: "abandoned by host"},
	})

	var abandoned struct {
		Type string                 `json:"type"`
		Data response.GameAbandoned `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&abandoned))
	assert.Equal(t, "game_abandoned", abandoned.Type)
	assert.Equal(t, "abandoned by host", abandoned.Data.Reason)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, time.Millisecond)
}
