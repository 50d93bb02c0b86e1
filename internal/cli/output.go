package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/yahtzee-go/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		o.printf("%s\n", msg)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printPlayer(v.Player)
		o.printf("Token: %s\n", v.SessionToken)
		o.printf("Session expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04"))
	case response.GameState:
		o.printGameState(v)
	case response.ActionResponse:
		if !v.Accepted {
			o.printf("Not accepted: nothing changed\n")
		}
		o.printGameState(v.Game)
	case response.StandingsResponse:
		o.printStandings(v)
	case response.HistoryResponse:
		o.printHistory(v)
	case response.HealthResponse:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	kind := p.Type
	switch {
	case p.IsBot:
		kind += " (" + p.BotStrategy + ")"
	case p.IsGuest:
		kind += ", guest"
	}
	o.printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	o.printf("Type: %s\n", kind)
}

func (o *Output) printGameState(g response.GameState) {
	o.printf("Game: %s\n", g.ID)
	o.printf("State: %s\n", g.State)
	o.printf("Round: %d/%d\n", g.Round, g.TotalRounds)

	for _, seat := range g.Seats {
		marker := " "
		if seat.PlayerID == g.CurrentPlayer {
			marker = ">"
		}
		o.printf("%s %s (%s): %d points\n", marker, seat.DisplayName, seat.PlayerID, seat.Total)
		if seat.PlayerID != g.CurrentPlayer {
			continue
		}

		o.printf("  Dice: %s   rolls left: %d\n", formatDice(seat.Dice), seat.RollsLeft)
		for _, offer := range seat.Offers {
			label := "offer"
			if offer.Scratch {
				label = "scratch"
			}
			o.printf("  %-7s %-16s %d\n", label, offer.Row, offer.Value)
		}
	}
}

// formatDice shows held dice in brackets
func formatDice(dice []response.Die) string {
	parts := make([]string, len(dice))
	for i, d := range dice {
		if d.Locked {
			parts[i] = fmt.Sprintf("[%d]", d.Value)
		} else {
			parts[i] = fmt.Sprintf(" %d ", d.Value)
		}
	}
	return strings.Join(parts, "")
}

func (o *Output) printStandings(s response.StandingsResponse) {
	for i, st := range s.Standings {
		o.printf("%d. %s: %d (upper %d, bonus %d, lower %d)\n",
			i+1, st.DisplayName, st.GrandTotal, st.UpperTotal, st.Bonus, st.LowerTotal)
	}
	if s.Winner != nil {
		o.printf("Winner: %s\n", *s.Winner)
	}
}

func (o *Output) printHistory(h response.HistoryResponse) {
	if len(h.Games) == 0 {
		o.printf("No completed games\n")
		return
	}
	for _, g := range h.Games {
		winner := "tie"
		if g.Winner != nil {
			winner = *g.Winner
		}
		o.printf("%s  %s  %s  winner: %s\n",
			g.CompletedAt.Format("2006-01-02 15:04"), g.ID, formatScores(g), winner)
	}
}

// formatScores lists final scores in seating order
func formatScores(g response.GameSummary) string {
	parts := make([]string, 0, len(g.Players))
	for _, id := range g.Players {
		parts = append(parts, fmt.Sprintf("%s %d", id, g.FinalScores[id]))
	}
	return strings.Join(parts, ", ")
}
