package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/gemtrader/internal/model"
)

// applyMoves loads the saved game and applies moves in order, printing each
// result. It stops at the first rejected move.
func applyMoves(cmd *cobra.Command, moves ...model.Move) error {
	game, err := loadGame(cmd.Context())
	if err != nil {
		return err
	}

	out := NewOutput(cmd, cfg.Output)
	for _, move := range moves {
		result, err := app.GameController.Apply(cmd.Context(), move)
		if err != nil && !errors.Is(err, model.ErrSaveFailed) {
			return fmt.Errorf("%s: %w", move, err)
		}
		if err != nil {
			out.PrintError(err)
		}
		out.Print(newMoveView(game, result))
	}
	return nil
}

func newDrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw <color> [color...]",
		Short: "Draw chips: up to three different colors, or two of one color",
		Long: `Draw chips from the bank. Colors are R, G, B, W and K.

A turn's draws are either up to three chips of different colors or exactly
two chips of one color. Several colors may be given at once.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			moves := make([]model.Move, 0, len(args))
			for _, arg := range args {
				move, err := model.ParseMove(string(model.MoveDraw), arg)
				if err != nil {
					return err
				}
				moves = append(moves, move)
			}
			return applyMoves(cmd, moves...)
		},
	}
}

func newIndexMoveCmd(use, short, kind string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <index>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			move, err := model.ParseMove(kind, args[0])
			if err != nil {
				return err
			}
			return applyMoves(cmd, move)
		},
	}
}

func newEndTurnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end-turn",
		Short: "End the current turn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyMoves(cmd, model.Move{Kind: model.MoveEndTurn})
		},
	}
}
