package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/gemtrader/internal/model"
)

// errNoSave points the user at "new" when there is nothing to resume
var errNoSave = errors.New("no saved game; start one with 'gemtrader new'")

func newNewCmd() *cobra.Command {
	var players []string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game, replacing any saved game",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, cfg.Output)

			game, err := app.GameController.NewGame(cmd.Context(), players)
			if err != nil && !errors.Is(err, model.ErrSaveFailed) {
				return err
			}
			if err != nil {
				out.PrintError(err)
			}

			out.Print(newGameView(game))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&players, "players", "p", []string{"Player1", "Player2"}, "Player names, 2 to 4")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := loadGame(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(newGameView(game))
			return nil
		},
	}
}

// loadGame resumes the saved game for a single move command
func loadGame(ctx context.Context) (*model.Game, error) {
	game, err := app.GameController.LoadGame(ctx)
	if errors.Is(err, model.ErrNoSavedGame) {
		return nil, errNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("loading saved game: %w", err)
	}
	return game, nil
}
