package redis

import (
	"fmt"

	"github.com/mcoot/yahtzee-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "yahtzee"

func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey maps a username to its player_id
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

func summaryKey(id model.GameID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, id)
}

// playerHistoryIndexKey is a ZSET of summary keys scored by completion time
func playerHistoryIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:history:%s", keyPrefix, playerID)
}
