package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gemtrader/internal/model"
	"github.com/mcoot/gemtrader/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Saved game operations

func (s *Storage) LoadGame(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, savedGameKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoSavedGame
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) SaveGame(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, savedGameKey(), data, s.cfg.SaveTTL).Err()
}

func (s *Storage) DeleteGame(ctx context.Context) error {
	return s.client.Del(ctx, savedGameKey()).Err()
}

// Card definition operations

func (s *Storage) GetCardDefinitions(ctx context.Context) ([]string, error) {
	key := cardDefinitionsKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrCardsNotLoaded
	}

	// A LIST keeps file order, which determines card IDs
	return s.client.LRange(ctx, key, 0, -1).Result()
}

func (s *Storage) SaveCardDefinitions(ctx context.Context, lines []string) error {
	key := cardDefinitionsKey()

	// Replace existing definitions atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)

	if len(lines) > 0 {
		members := make([]interface{}, len(lines))
		for i, l := range lines {
			members[i] = l
		}
		pipe.RPush(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
