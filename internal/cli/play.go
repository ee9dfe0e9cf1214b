package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/gemtrader/internal/model"
)

const playHelp = `Commands:
  draw <color>         draw one chip (R, G, B, W, K)
  buy <index>          buy a card from the offer
  reserve <index>      reserve a card and take a gold chip
  buy-reserved <index> buy one of your reserved cards
  end                  end your turn
  show                 show the table
  quit                 leave; the game is saved`

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively, resuming the saved game or starting a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gc := app.GameController
			out := NewOutput(cmd, cfg.Output)

			if _, err := gc.LoadOrNewGame(ctx); err != nil {
				if !errors.Is(err, model.ErrSaveFailed) {
					return err
				}
				out.PrintError(err)
			}
			out.Print(newGameView(gc.Game()))
			out.PrintMessage(playHelp)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for !gc.IsGameOver() && scanner.Scan() {
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}

				kind, payload := fields[0], strings.Join(fields[1:], " ")
				switch strings.ToLower(kind) {
				case "quit", "exit":
					return nil
				case "help":
					out.PrintMessage(playHelp)
					continue
				case "show":
					out.Print(newGameView(gc.Game()))
					continue
				case "end":
					kind = string(model.MoveEndTurn)
				}

				if !gc.MakeMove(ctx, kind, payload) {
					out.PrintMessage("Move rejected: " + scanner.Text())
					continue
				}
				out.Print(newGameView(gc.Game()))
			}
			return scanner.Err()
		},
	}
}
