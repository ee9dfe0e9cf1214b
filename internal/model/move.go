package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MoveKind identifies the type of move
type MoveKind string

const (
	MoveDraw        MoveKind = "draw"
	MoveBuy         MoveKind = "buy"
	MoveReserve     MoveKind = "reserve"
	MoveBuyReserved MoveKind = "buy_reserved"
	MoveEndTurn     MoveKind = "end_turn"
)

// ValidMoveKinds returns all move kinds
func ValidMoveKinds() []MoveKind {
	return []MoveKind{MoveDraw, MoveBuy, MoveReserve, MoveBuyReserved, MoveEndTurn}
}

// ParseMoveKind parses a move name, accepting dashes for underscores
func ParseMoveKind(s string) (MoveKind, error) {
	k := MoveKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, valid := range ValidMoveKinds() {
		if k == valid {
			return k, nil
		}
	}
	return "", ErrUnknownMove
}

// Move is a single player action
type Move struct {
	Kind  MoveKind
	Color Color // Draw only
	Index int   // Offer index for buy/reserve, reserved index for buy_reserved
}

// MoveResult describes the effect of an applied move
type MoveResult struct {
	Move       Move
	PlayerIdx  int // Player who moved
	Card       *Card
	Spent      map[Color]int // Chips returned to the bank by a purchase
	Gained     map[Color]int // Chips taken from the bank by a draw or reservation
	TurnEnded  bool
	NextPlayer int
	GameOver   bool
}

// ParseMove builds a move from its name and a text payload: a color letter
// for draw, an index for buy, reserve and buy_reserved, nothing for end_turn
func ParseMove(kind, payload string) (Move, error) {
	k, err := ParseMoveKind(kind)
	if err != nil {
		return Move{}, err
	}

	payload = strings.TrimSpace(payload)
	switch k {
	case MoveDraw:
		c, err := ParseColor(payload)
		if err != nil {
			return Move{}, err
		}
		return Move{Kind: k, Color: c}, nil
	case MoveBuy, MoveReserve, MoveBuyReserved:
		idx, err := strconv.Atoi(payload)
		if err != nil {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidCardIndex, payload)
		}
		return Move{Kind: k, Index: idx}, nil
	default:
		return Move{Kind: k}, nil
	}
}

func (m Move) String() string {
	switch m.Kind {
	case MoveDraw:
		return fmt.Sprintf("draw %s", m.Color)
	case MoveBuy, MoveReserve, MoveBuyReserved:
		return fmt.Sprintf("%s %d", m.Kind, m.Index)
	default:
		return string(m.Kind)
	}
}
