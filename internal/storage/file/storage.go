package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/mcoot/gemtrader/internal/model"
	"github.com/mcoot/gemtrader/internal/storage"
)

// Config holds the on-disk locations used by the file storage
type Config struct {
	// SavePath is the single save slot
	SavePath string
	// CardsCachePath holds the last loaded card definitions
	CardsCachePath string
}

// DefaultConfig returns paths relative to the working directory
func DefaultConfig() Config {
	return Config{
		SavePath:       "savegame.json",
		CardsCachePath: "cards.cache",
	}
}

// Storage persists the save slot and card definitions as plain files
type Storage struct {
	mu  sync.Mutex
	cfg Config
}

// New creates a file storage, creating parent directories as needed
func New(cfg Config) (*Storage, error) {
	if cfg.SavePath == "" {
		return nil, errors.New("file storage requires a save path")
	}
	if cfg.CardsCachePath == "" {
		cfg.CardsCachePath = filepath.Join(filepath.Dir(cfg.SavePath), DefaultConfig().CardsCachePath)
	}
	for _, p := range []string{cfg.SavePath, cfg.CardsCachePath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, err
		}
	}
	return &Storage{cfg: cfg}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Saved game operations

func (s *Storage) LoadGame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.cfg.SavePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrNoSavedGame
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, model.ErrNoSavedGame
	}
	return data, nil
}

func (s *Storage) SaveGame(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return atomic.WriteFile(s.cfg.SavePath, bytes.NewReader(data))
}

func (s *Storage) DeleteGame(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.cfg.SavePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Card definition operations

func (s *Storage) GetCardDefinitions(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.cfg.CardsCachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrCardsNotLoaded
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.ErrCardsNotLoaded
	}
	return lines, nil
}

func (s *Storage) SaveCardDefinitions(ctx context.Context, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return atomic.WriteFile(s.cfg.CardsCachePath, strings.NewReader(sb.String()))
}

func (s *Storage) Close() error {
	return nil
}
