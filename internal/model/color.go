package model

import "strings"

// Color identifies a chip or gem type
type Color string

const (
	Red   Color = "R"
	Green Color = "G"
	Blue  Color = "B"
	White Color = "W"
	Black Color = "K"
	Gold  Color = "Y" // Wildcard, never part of a card cost
)

// GemColors returns the five gem colors in canonical order
func GemColors() []Color {
	return []Color{Red, Green, Blue, White, Black}
}

// AllColors returns the gem colors followed by gold
func AllColors() []Color {
	return []Color{Red, Green, Blue, White, Black, Gold}
}

// IsGem returns true for the five non-wildcard colors
func (c Color) IsGem() bool {
	switch c {
	case Red, Green, Blue, White, Black:
		return true
	default:
		return false
	}
}

// IsValid returns true for any gem color or gold
func (c Color) IsValid() bool {
	return c.IsGem() || c == Gold
}

// DisplayName returns a human-readable label for a color
func (c Color) DisplayName() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	case White:
		return "White"
	case Black:
		return "Black"
	case Gold:
		return "Gold"
	default:
		return string(c)
	}
}

// ParseColor parses a single color letter, case-insensitively
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidColor
	}
	return c, nil
}
