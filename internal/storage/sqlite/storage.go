package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/gemtrader/internal/model"
	"github.com/mcoot/gemtrader/internal/storage"
)

// Config holds SQLite settings
type Config struct {
	// Path is the database file, or ":memory:"
	Path        string
	BusyTimeout time.Duration
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path:        "gemtrader.db",
		BusyTimeout: 5 * time.Second,
	}
}

// Storage keeps the save slot and card definitions in a local SQLite file
type Storage struct {
	db *sql.DB
}

// New opens (and if needed creates) the database
func New(cfg Config) (*Storage, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("empty sqlite database path")
	}
	if path != ":memory:" {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases stable and writes serialized
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = DefaultConfig().BusyTimeout
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`PRAGMA busy_timeout = %d;`, busy.Milliseconds())); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS saved_game (
    slot          INTEGER PRIMARY KEY CHECK (slot = 0),
    data          BLOB NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS card_definitions (
    position INTEGER PRIMARY KEY,
    line     TEXT NOT NULL
)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Saved game operations

func (s *Storage) LoadGame(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM saved_game WHERE slot = 0`).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoSavedGame
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) SaveGame(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO saved_game (slot, data, updated_at_ms)
VALUES (0, ?, ?)
ON CONFLICT (slot) DO UPDATE SET data = excluded.data, updated_at_ms = excluded.updated_at_ms
`, data, time.Now().UTC().UnixMilli())
	return err
}

func (s *Storage) DeleteGame(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_game WHERE slot = 0`)
	return err
}

// Card definition operations

func (s *Storage) GetCardDefinitions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT line FROM card_definitions ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.ErrCardsNotLoaded
	}
	return lines, nil
}

func (s *Storage) SaveCardDefinitions(ctx context.Context, lines []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM card_definitions`); err != nil {
		return err
	}
	for i, line := range lines {
		if _, err := tx.ExecContext(ctx, `INSERT INTO card_definitions (position, line) VALUES (?, ?)`, i, line); err != nil {
			return err
		}
	}
	return tx.Commit()
}
