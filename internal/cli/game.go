package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/yahtzee-go/internal/api/request"
	"github.com/mcoot/yahtzee-go/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameRollCmd())
	cmd.AddCommand(newGameLockCmd())
	cmd.AddCommand(newGameSelectCmd())
	cmd.AddCommand(newGameAbandonCmd())
	cmd.AddCommand(newGameStandingsCmd())
	cmd.AddCommand(newGameQRCmd())

	return cmd
}

func gamePath(id string, parts ...string) string {
	return "/api/v1/games/" + strings.Join(append([]string{id}, parts...), "/")
}

// parseBotSeat reads "strategy" or "strategy:Display Name"
func parseBotSeat(s string) request.BotSeat {
	strategy, name, _ := strings.Cut(s, ":")
	return request.BotSeat{Strategy: strategy, DisplayName: name}
}

func newGameCreateCmd() *cobra.Command {
	var players, bots []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game hosted by you",
		Long: `Create a game with you in the first seat.

Other players are seated in the order given with --player. Computer players
are added after them with --bot strategy[:name], for example
--bot greedy:Robo. Strategies: random, greedy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateGameRequest{Players: players}
			for _, b := range bots {
				req.Bots = append(req.Bots, parseBotSeat(b))
			}

			var result response.GameState
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&players, "player", nil, "Player ID to seat (repeatable)")
	cmd.Flags().StringArrayVar(&bots, "bot", nil, "Bot seat as strategy[:name] (repeatable)")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameState
			if err := client.Get(gamePath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameRollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll <game-id>",
		Short: "Roll the unlocked dice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ActionResponse
			if err := client.Post(gamePath(args[0], "roll"), nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock <game-id> <die>",
		Short: "Hold or release a die (0-4)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid die index: %w", err)
			}

			var result response.ActionResponse
			if err := client.Post(gamePath(args[0], "dice", strconv.Itoa(index), "lock"), nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <game-id> <row>",
		Short: "Commit an offered score cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.SelectRequest{Row: args[1]}

			var result response.ActionResponse
			if err := client.Post(gamePath(args[0], "select"), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <game-id>",
		Short: "Abandon the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameState
			if err := client.Delete(gamePath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <game-id>",
		Short: "Show the current standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.StandingsResponse
			if err := client.Get(gamePath(args[0], "standings"), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameQRCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "qr <game-id>",
		Short: "Save the spectator QR code as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			png, err := client.GetRaw(gamePath(args[0], "qr"), "image/png")
			if err != nil {
				return err
			}

			if file == "" {
				file = args[0] + ".png"
			}
			if err := os.WriteFile(file, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			output(cmd).PrintMessage("QR code written to " + file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Output file (default <game-id>.png)")

	return cmd
}
