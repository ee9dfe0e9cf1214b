package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CostEntry is one color requirement of a card
type CostEntry struct {
	Color Color
	Count int
}

// Card is an immutable purchasable card. Cost order is preserved and
// drives the order in which payment is applied.
type Card struct {
	id            int
	victoryPoints int
	gemBonus      Color
	cost          []CostEntry
}

// NewCard validates and constructs a card
func NewCard(id, victoryPoints int, gemBonus Color, cost []CostEntry) (Card, error) {
	if victoryPoints < 0 {
		return Card{}, fmt.Errorf("%w: negative victory points", ErrInvalidCard)
	}
	if !gemBonus.IsGem() {
		return Card{}, fmt.Errorf("%w: bonus must be a gem color, got %q", ErrInvalidCard, gemBonus)
	}

	seen := make(map[Color]bool, len(cost))
	entries := make([]CostEntry, 0, len(cost))
	for _, e := range cost {
		if !e.Color.IsGem() {
			return Card{}, fmt.Errorf("%w: cost color %q", ErrInvalidCard, e.Color)
		}
		if e.Count <= 0 {
			return Card{}, fmt.Errorf("%w: cost for %s must be positive", ErrInvalidCard, e.Color)
		}
		if seen[e.Color] {
			return Card{}, fmt.Errorf("%w: duplicate cost color %s", ErrInvalidCard, e.Color)
		}
		seen[e.Color] = true
		entries = append(entries, e)
	}

	return Card{
		id:            id,
		victoryPoints: victoryPoints,
		gemBonus:      gemBonus,
		cost:          entries,
	}, nil
}

// ID returns the card identifier
func (c Card) ID() int { return c.id }

// VictoryPoints returns the points awarded on purchase
func (c Card) VictoryPoints() int { return c.victoryPoints }

// GemBonus returns the permanent discount color this card grants
func (c Card) GemBonus() Color { return c.gemBonus }

// Cost returns a copy of the ordered cost entries
func (c Card) Cost() []CostEntry {
	result := make([]CostEntry, len(c.cost))
	copy(result, c.cost)
	return result
}

// CostOf returns the required count for a color, or 0 if absent
func (c Card) CostOf(color Color) int {
	for _, e := range c.cost {
		if e.Color == color {
			return e.Count
		}
	}
	return 0
}

// TotalCost returns the sum of all cost entries
func (c Card) TotalCost() int {
	total := 0
	for _, e := range c.cost {
		total += e.Count
	}
	return total
}

// CostString renders the cost in compact form, e.g. "3R2G"
func (c Card) CostString() string {
	return FormatCost(c.cost)
}

func (c Card) String() string {
	return fmt.Sprintf("Card[id=%d vp=%d bonus=%s cost=%s]", c.id, c.victoryPoints, c.gemBonus, c.CostString())
}

// FormatCost renders cost entries as repeated <count><colorLetter>
func FormatCost(cost []CostEntry) string {
	var sb strings.Builder
	for _, e := range cost {
		sb.WriteString(strconv.Itoa(e.Count))
		sb.WriteString(string(e.Color))
	}
	return sb.String()
}

// ParseCost parses the compact cost form "3R2G". An empty string is a free card.
// Letter-first forms such as "R3,G2" are rejected rather than guessed at.
func ParseCost(s string) ([]CostEntry, error) {
	s = strings.TrimSpace(s)
	var entries []CostEntry
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("%w: expected count at position %d in %q", ErrMalformedCost, start, s)
		}
		count, err := strconv.Atoi(s[start:i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCost, err)
		}
		if i >= len(s) {
			return nil, fmt.Errorf("%w: count without color in %q", ErrMalformedCost, s)
		}
		color := Color(strings.ToUpper(s[i : i+1]))
		i++
		if !color.IsGem() {
			return nil, fmt.Errorf("%w: %q is not a gem color", ErrMalformedCost, color)
		}
		entries = append(entries, CostEntry{Color: color, Count: count})
	}
	return entries, nil
}
