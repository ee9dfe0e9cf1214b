package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/gemtrader/internal/factory"
	"github.com/mcoot/gemtrader/internal/services/game"
	filestorage "github.com/mcoot/gemtrader/internal/storage/file"
	redisstorage "github.com/mcoot/gemtrader/internal/storage/redis"
	sqlitestorage "github.com/mcoot/gemtrader/internal/storage/sqlite"
)

// Config holds CLI configuration. Everything comes from flags.
type Config struct {
	StorageType string
	SavePath    string
	RedisURL    string
	SQLitePath  string
	CardsPath   string
	OfferSize   int
	Output      string
	LogFormat   string
	Verbose     bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		StorageType: factory.StorageTypeFile,
		SavePath:    filestorage.DefaultConfig().SavePath,
		RedisURL:    redisstorage.DefaultConfig().URL,
		SQLitePath:  sqlitestorage.DefaultConfig().Path,
		OfferSize:   game.DefaultConfig().OfferSize,
		Output:      "text",
		LogFormat:   "json",
	}
}

// Logger builds the diagnostic logger. Only warnings and errors are shown
// unless verbose is set.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// FactoryConfig translates flags into the application factory config
func (c *Config) FactoryConfig(logger *slog.Logger) (factory.Config, error) {
	if c.Output != "text" && c.Output != "json" {
		return factory.Config{}, fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}

	gameCfg := game.DefaultConfig()
	gameCfg.CardsPath = c.CardsPath
	gameCfg.OfferSize = c.OfferSize

	fc := factory.Config{
		StorageType: c.StorageType,
		GameConfig:  gameCfg,
		Logger:      logger,
	}
	switch c.StorageType {
	case factory.StorageTypeFile:
		fileCfg := filestorage.DefaultConfig()
		fileCfg.SavePath = c.SavePath
		fileCfg.CardsCachePath = ""
		fc.FileConfig = fileCfg
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		fc.RedisConfig = &redisCfg
	case factory.StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		sqliteCfg.Path = c.SQLitePath
		fc.SQLiteConfig = sqliteCfg
	}
	return fc, nil
}
