package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/gemtrader/internal/factory"
)

var (
	cfg *Config
	app *factory.App
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "gemtrader",
		Short: "Play a game of gem trading at the terminal",
		Long: `gemtrader is a two to four player card game played at one terminal.

Players draw colored chips from the bank and spend them on cards that grant
victory points and permanent discounts. The first player to reach 15 points
wins. The game is saved after every move and resumed by the next command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger(cmd.ErrOrStderr())

			factoryCfg, err := cfg.FactoryConfig(logger)
			if err != nil {
				return err
			}

			app, err = factory.New(factoryCfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.StorageType, "storage", cfg.StorageType, "Save backend: memory, file, redis, sqlite")
	rootCmd.PersistentFlags().StringVar(&cfg.SavePath, "save-path", cfg.SavePath, "Save file path (file storage)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (redis storage)")
	rootCmd.PersistentFlags().StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "Database path (sqlite storage)")
	rootCmd.PersistentFlags().StringVar(&cfg.CardsPath, "cards", cfg.CardsPath, "Card definition file; empty generates cards")
	rootCmd.PersistentFlags().IntVar(&cfg.OfferSize, "offer-size", cfg.OfferSize, "Number of cards dealt into a new game")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Diagnostic log format: json, text")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newDrawCmd())
	rootCmd.AddCommand(newIndexMoveCmd("buy", "Buy a card from the offer", "buy"))
	rootCmd.AddCommand(newIndexMoveCmd("reserve", "Reserve a card from the offer and take a gold chip", "reserve"))
	rootCmd.AddCommand(newIndexMoveCmd("buy-reserved", "Buy one of your reserved cards", "buy_reserved"))
	rootCmd.AddCommand(newEndTurnCmd())
	rootCmd.AddCommand(newPlayCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
