package deck

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mcoot/gemtrader/internal/dependencies/random"
	"github.com/mcoot/gemtrader/internal/model"
	"github.com/mcoot/gemtrader/internal/storage"
)

// DefaultOfferSize is the number of cards dealt into a new offer
const DefaultOfferSize = 15

// Service builds the card offer for new games, either procedurally or from
// card definitions (one "victoryPoints,cost,bonus" per line)
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new deck Service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger,
	}
}

// Generate creates n procedural cards with ids 0..n-1
func (s *Service) Generate(n int) []model.Card {
	cards := make([]model.Card, 0, max(n, 0))
	for id := 0; id < n; id++ {
		cards = append(cards, s.generateCard(id))
	}
	return cards
}

// generateCard picks one to three distinct gem colors. One of them (the
// focus) costs 2-3, the others 0-3, and zero entries are dropped.
func (s *Service) generateCard(id int) model.Card {
	numColors := 1 + s.random.Intn(3)

	remaining := model.GemColors()
	picked := make([]model.Color, 0, numColors)
	for k := 0; k < numColors; k++ {
		i := s.random.Intn(len(remaining))
		picked = append(picked, remaining[i])
		remaining = slices.Delete(remaining, i, i+1)
	}

	focus := s.random.Intn(numColors)
	cost := make([]model.CostEntry, 0, numColors)
	total, highest := 0, 0
	for i, c := range picked {
		var n int
		if i == focus {
			n = 2 + s.random.Intn(2)
		} else {
			n = s.random.Intn(4)
		}
		if n == 0 {
			continue
		}
		cost = append(cost, model.CostEntry{Color: c, Count: n})
		total += n
		highest = max(highest, n)
	}

	gems := model.GemColors()
	bonus := gems[s.random.Intn(len(gems))]
	vp := 1 + total/3 + max(0, highest-2)

	// Every input is valid by construction
	card, _ := model.NewCard(id, vp, bonus, cost)
	return card
}

// ParseDefinition parses a single "victoryPoints,cost,bonus" line
func ParseDefinition(line string, id int) (model.Card, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return model.Card{}, fmt.Errorf("%w: want 3 fields, got %d", model.ErrInvalidCard, len(fields))
	}

	vp, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return model.Card{}, fmt.Errorf("%w: victory points %q", model.ErrInvalidCard, fields[0])
	}
	cost, err := model.ParseCost(strings.TrimSpace(fields[1]))
	if err != nil {
		return model.Card{}, err
	}
	bonus, err := model.ParseColor(strings.TrimSpace(fields[2]))
	if err != nil {
		return model.Card{}, err
	}
	return model.NewCard(id, vp, bonus, cost)
}

// ParseDefinitions parses definition lines, skipping blanks and '#'
// comments. Malformed lines are logged and skipped. Card ids follow the
// order of accepted lines.
func (s *Service) ParseDefinitions(lines []string) []model.Card {
	var cards []model.Card
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		card, err := ParseDefinition(line, len(cards))
		if err != nil {
			s.logger.Warn("skipping malformed card definition",
				slog.Int("line", i+1),
				slog.String("definition", line),
				slog.String("error", err.Error()),
			)
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// LoadFromFile reads card definitions from a file and caches the raw lines
// in storage for later sessions
func (s *Service) LoadFromFile(ctx context.Context, path string) ([]model.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	cards := s.ParseDefinitions(lines)
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no valid cards in %s", model.ErrCardsNotLoaded, path)
	}

	if err := s.storage.SaveCardDefinitions(ctx, lines); err != nil {
		s.logger.Warn("failed to cache card definitions",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
	return cards, nil
}

// LoadFromStorage parses the card definitions cached by LoadFromFile
func (s *Service) LoadFromStorage(ctx context.Context) ([]model.Card, error) {
	lines, err := s.storage.GetCardDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	cards := s.ParseDefinitions(lines)
	if len(cards) == 0 {
		return nil, model.ErrCardsNotLoaded
	}
	return cards, nil
}

// Defaults returns the built-in card set
func (s *Service) Defaults() []model.Card {
	return s.ParseDefinitions(DefaultDefinitions())
}

// BuildOffer deals the opening offer. With no cards path it generates size
// procedural cards. Otherwise it tries the file, then the storage cache, then
// the built-in set, and deals size cards from a shuffle of the result.
// It never fails.
func (s *Service) BuildOffer(ctx context.Context, cardsPath string, size int) []model.Card {
	if size <= 0 {
		size = DefaultOfferSize
	}
	if cardsPath == "" {
		return s.Generate(size)
	}

	cards, err := s.LoadFromFile(ctx, cardsPath)
	if err != nil {
		s.logger.Warn("card definitions unavailable, trying cache",
			slog.String("path", cardsPath),
			slog.String("error", err.Error()),
		)
		cards, err = s.LoadFromStorage(ctx)
	}
	if err != nil {
		if !errors.Is(err, model.ErrCardsNotLoaded) {
			s.logger.Warn("failed to read cached card definitions",
				slog.String("error", err.Error()),
			)
		}
		s.logger.Info("using built-in card set")
		cards = s.Defaults()
	}

	random.Shuffle(s.random, len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	if len(cards) > size {
		cards = cards[:size]
	}
	return cards
}

// DefaultDefinitions returns the built-in card definitions
func DefaultDefinitions() []string {
	return []string{
		// Cheap, few points
		"0,3R,R",
		"0,3G,G",
		"0,3B,B",
		"0,3W,W",
		"0,3K,K",
		"1,4R,R",
		"1,4G,G",
		"1,4B,B",

		// Mid cost
		"2,5R,R",
		"2,5G,G",
		"2,5B,B",
		"2,3R3G2W,W",
		"2,3B3K2R,K",

		// Expensive
		"3,7R,R",
		"3,7G,G",
		"4,6R3G3B,W",
		"4,6G3B3K,R",
		"5,7R3G,B",
	}
}
