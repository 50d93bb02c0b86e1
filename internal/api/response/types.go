package response

import (
	"time"

	"github.com/mcoot/yahtzee-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
	BotStrategy string `json:"bot_strategy,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Type:        string(p.Type()),
		IsGuest:     p.IsGuest,
		IsBot:       p.IsBot,
		BotStrategy: p.BotStrategy,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *model.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Die is one die as shown to clients
type Die struct {
	Value  int  `json:"value"`
	Locked bool `json:"locked"`
}

// DiceFromModel converts the dice of a seat
func DiceFromModel(d model.Dice) []Die {
	dice := make([]Die, len(d))
	for i, die := range d {
		dice[i] = Die{Value: die.Value, Locked: die.Locked}
	}
	return dice
}

// Cell is one row of a score column. Value is the committed score, or the
// derived value for aggregate rows.
type Cell struct {
	Row       string `json:"row"`
	Section   string `json:"section"`
	Value     *int   `json:"value"`
	Preview   *int   `json:"preview,omitempty"`
	Marker    string `json:"marker,omitempty"`
	Aggregate bool   `json:"aggregate,omitempty"`
}

// ColumnFromModel converts a score column in table order
func ColumnFromModel(c model.Column) []Cell {
	cells := make([]Cell, len(c.Cells))
	for i := range c.Cells {
		mc := &c.Cells[i]
		cell := Cell{
			Row:       string(mc.Row),
			Section:   string(mc.Section),
			Marker:    string(mc.Marker),
			Aggregate: mc.IsAggregate(),
		}
		switch {
		case mc.IsAggregate():
			v := c.AggregateValue(mc.Row)
			cell.Value = &v
		case mc.IsCommitted():
			v := mc.CommittedValue()
			cell.Value = &v
		case mc.Preview != nil:
			v := *mc.Preview
			cell.Preview = &v
		}
		cells[i] = cell
	}
	return cells
}

// Offer is a cell the current player may commit
type Offer struct {
	Row     string `json:"row"`
	Value   int    `json:"value"`
	Scratch bool   `json:"scratch,omitempty"`
}

// OffersFromModel converts offered cells
func OffersFromModel(offers []model.Offer) []Offer {
	out := make([]Offer, len(offers))
	for i, o := range offers {
		out[i] = Offer{Row: string(o.Row), Value: o.Value, Scratch: o.Scratch}
	}
	return out
}

// Seat is a player's place at the table
type Seat struct {
	PlayerID    string  `json:"player_id"`
	DisplayName string  `json:"display_name"`
	IsBot       bool    `json:"is_bot,omitempty"`
	Dice        []Die   `json:"dice"`
	RollsLeft   int     `json:"rolls_left"`
	IsRolling   bool    `json:"is_rolling"`
	Phase       string  `json:"phase"`
	Cells       []Cell  `json:"cells"`
	Offers      []Offer `json:"offers"`
	Total       int     `json:"total"`
}

// SeatFromModel converts a model.PlayerState
func SeatFromModel(p *model.PlayerState) Seat {
	return Seat{
		PlayerID:    string(p.PlayerID),
		DisplayName: p.DisplayName,
		IsBot:       p.IsBot,
		Dice:        DiceFromModel(p.Dice),
		RollsLeft:   p.RollsLeft,
		IsRolling:   p.IsRolling,
		Phase:       string(p.Phase),
		Cells:       ColumnFromModel(p.Column),
		Offers:      OffersFromModel(p.Offers()),
		Total:       p.Column.GrandTotal(),
	}
}

// GameState is the full snapshot of a game
type GameState struct {
	ID            string    `json:"id"`
	HostID        string    `json:"host_id"`
	State         string    `json:"state"`
	Round         int       `json:"round"`
	TotalRounds   int       `json:"total_rounds"`
	CurrentPlayer string    `json:"current_player"`
	Seats         []Seat    `json:"seats"`
	TurnStartedAt time.Time `json:"turn_started_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GameStateFromModel converts model.Game
func GameStateFromModel(g *model.Game) GameState {
	seats := make([]Seat, len(g.Seats))
	for i, s := range g.Seats {
		seats[i] = SeatFromModel(s)
	}
	return GameState{
		ID:            string(g.ID),
		HostID:        string(g.HostID),
		State:         string(g.State),
		Round:         g.Round,
		TotalRounds:   model.TotalRounds(),
		CurrentPlayer: string(g.CurrentPlayer()),
		Seats:         seats,
		TurnStartedAt: g.TurnStartedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// ActionResponse reports whether a turn command took effect along with the
// resulting state. A rejected command leaves the state unchanged.
type ActionResponse struct {
	Accepted bool      `json:"accepted"`
	Game     GameState `json:"game"`
}

// Standing represents a player's derived totals
type Standing struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	UpperTotal  int    `json:"upper_total"`
	Bonus       int    `json:"bonus"`
	LowerTotal  int    `json:"lower_total"`
	GrandTotal  int    `json:"grand_total"`
}

// StandingsFromModel converts a list of model.Standing
func StandingsFromModel(standings []model.Standing) []Standing {
	out := make([]Standing, len(standings))
	for i, s := range standings {
		out[i] = Standing{
			PlayerID:    string(s.PlayerID),
			DisplayName: s.DisplayName,
			UpperTotal:  s.UpperTotal,
			Bonus:       s.Bonus,
			LowerTotal:  s.LowerTotal,
			GrandTotal:  s.GrandTotal,
		}
	}
	return out
}

// StandingsResponse wraps standings with the winner once known
type StandingsResponse struct {
	Standings []Standing `json:"standings"`
	Winner    *string    `json:"winner"`
}

// GameSummary represents a completed game summary
type GameSummary struct {
	ID          string         `json:"id"`
	Players     []string       `json:"players"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	CompletedAt time.Time      `json:"completed_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g *model.GameSummary) GameSummary {
	players := make([]string, len(g.Players))
	for i, p := range g.Players {
		players[i] = string(p)
	}
	scores := make(map[string]int, len(g.FinalScores))
	for pid, score := range g.FinalScores {
		scores[string(pid)] = score
	}
	return GameSummary{
		ID:          string(g.ID),
		Players:     players,
		FinalScores: scores,
		Winner:      optionalID(g.Winner),
		CompletedAt: g.CompletedAt,
	}
}

// HistoryResponse lists a player's completed games, newest first
type HistoryResponse struct {
	Games []GameSummary `json:"games"`
}

// HistoryFromModel converts a list of summaries
func HistoryFromModel(summaries []*model.GameSummary) HistoryResponse {
	games := make([]GameSummary, len(summaries))
	for i, s := range summaries {
		games[i] = GameSummaryFromModel(s)
	}
	return HistoryResponse{Games: games}
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

func optionalID(id model.PlayerID) *string {
	if id == "" {
		return nil
	}
	s := string(id)
	return &s
}
