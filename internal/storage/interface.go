package storage

import (
	"context"
)

// Storage defines the interface for data persistence. Saved games live in a
// single fixed slot and are opaque blobs to the storage layer.
type Storage interface {
	// Saved game operations
	LoadGame(ctx context.Context) ([]byte, error)
	SaveGame(ctx context.Context, data []byte) error
	DeleteGame(ctx context.Context) error

	// Card definition operations
	GetCardDefinitions(ctx context.Context) ([]string, error)
	SaveCardDefinitions(ctx context.Context, lines []string) error

	Close() error
}
