package memory

import (
	"context"
	"sync"

	"github.com/mcoot/gemtrader/internal/model"
	"github.com/mcoot/gemtrader/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	savedGame       []byte
	cardDefinitions []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Saved game operations

func (s *Storage) LoadGame(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.savedGame == nil {
		return nil, model.ErrNoSavedGame
	}
	result := make([]byte, len(s.savedGame))
	copy(result, s.savedGame)
	return result, nil
}

func (s *Storage) SaveGame(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedGame = make([]byte, len(data))
	copy(s.savedGame, data)
	return nil
}

func (s *Storage) DeleteGame(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedGame = nil
	return nil
}

// Card definition operations

func (s *Storage) GetCardDefinitions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cardDefinitions == nil {
		return nil, model.ErrCardsNotLoaded
	}
	result := make([]string, len(s.cardDefinitions))
	copy(result, s.cardDefinitions)
	return result, nil
}

func (s *Storage) SaveCardDefinitions(ctx context.Context, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cardDefinitions = make([]string, len(lines))
	copy(s.cardDefinitions, lines)
	return nil
}

func (s *Storage) Close() error {
	return nil
}
