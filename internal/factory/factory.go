package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/gemtrader/internal/dependencies/clock"
	"github.com/mcoot/gemtrader/internal/dependencies/random"
	"github.com/mcoot/gemtrader/internal/services/deck"
	"github.com/mcoot/gemtrader/internal/services/game"
	"github.com/mcoot/gemtrader/internal/storage"
	filestorage "github.com/mcoot/gemtrader/internal/storage/file"
	"github.com/mcoot/gemtrader/internal/storage/memory"
	redisstorage "github.com/mcoot/gemtrader/internal/storage/redis"
	sqlitestorage "github.com/mcoot/gemtrader/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// StorageTypes lists the accepted StorageType values
func StorageTypes() []string {
	return []string{StorageTypeMemory, StorageTypeFile, StorageTypeRedis, StorageTypeSQLite}
}

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DeckService    *deck.Service
	GameController *game.Controller
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the save slot backend
	// If empty, defaults to "file"
	StorageType string
	// FileConfig is used when StorageType is "file"
	// If zero value, defaults to file.DefaultConfig()
	FileConfig filestorage.Config
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig is used when StorageType is "sqlite"
	// If zero value, defaults to sqlite.DefaultConfig()
	SQLiteConfig sqlitestorage.Config
	// GameConfig holds the rules and setup options
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), random.New(), withGameDefaults(cfg.GameConfig), logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		fileCfg := cfg.FileConfig
		if fileCfg.SavePath == "" {
			fileCfg.SavePath = filestorage.DefaultConfig().SavePath
		}
		return filestorage.New(fileCfg)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		sqliteCfg := cfg.SQLiteConfig
		if sqliteCfg.Path == "" {
			sqliteCfg = sqlitestorage.DefaultConfig()
		}
		return sqlitestorage.New(sqliteCfg)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of %v", storageType, StorageTypes())
	}
}

// withGameDefaults fills unset game options from game.DefaultConfig
func withGameDefaults(cfg game.Config) game.Config {
	defaults := game.DefaultConfig()
	if cfg.OfferSize <= 0 {
		cfg.OfferSize = defaults.OfferSize
	}
	if cfg.TargetScore <= 0 {
		cfg.TargetScore = defaults.TargetScore
	}
	if len(cfg.PlayerNames) == 0 {
		cfg.PlayerNames = defaults.PlayerNames
	}
	return cfg
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, gameCfg game.Config, logger *slog.Logger) *App {
	deckService := deck.New(store, rnd, logger)
	gameController := game.NewController(store, deckService, clk, gameCfg, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		DeckService:    deckService,
		GameController: gameController,
	}
}
