package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredPlayer(t *testing.T, name string, vp int) *Player {
	t.Helper()
	p, err := NewPlayerFromConfig(PlayerConfig{Name: name, TotalVP: vp})
	require.NoError(t, err)
	return p
}

func TestChipBankInitialize(t *testing.T) {
	bank := NewChipBank()

	bank.Initialize(2)
	assert.Equal(t, SmallTableGems, bank.Count(Red))
	assert.Equal(t, GoldChips, bank.Count(Gold))

	bank.Initialize(4)
	assert.Equal(t, FullTableGems, bank.Count(Black))
	assert.Equal(t, GoldChips, bank.Count(Gold))
}

func TestChipBankTakeGive(t *testing.T) {
	bank := NewChipBank()
	bank.Initialize(2)

	assert.True(t, bank.Take(Red, 3))
	assert.Equal(t, 1, bank.Count(Red))
	assert.False(t, bank.Take(Red, 2))
	assert.Equal(t, 1, bank.Count(Red))

	bank.Give(Red, 2)
	assert.Equal(t, 3, bank.Count(Red))

	bank.Give(Color("X"), 2)
	assert.Equal(t, 0, bank.Count(Color("X")))
}

func TestWinnerAtTarget(t *testing.T) {
	g := &Game{
		Players: []*Player{scoredPlayer(t, "P1", 16), scoredPlayer(t, "P2", 20)},
		Offer:   []Card{mustCard(t, 0, 1, Red, "1R")},
	}

	assert.True(t, g.IsOver())
	assert.Equal(t, "P1", g.Winner().Name())
}

func TestWinnerByHighestScore(t *testing.T) {
	g := &Game{
		Players: []*Player{scoredPlayer(t, "P1", 3), scoredPlayer(t, "P2", 7), scoredPlayer(t, "P3", 7)},
	}

	assert.True(t, g.IsOver(), "empty offer ends the game")
	assert.Equal(t, "P2", g.Winner().Name())
}

func TestWinnerNoPlayers(t *testing.T) {
	g := &Game{}
	assert.Nil(t, g.Winner())
	assert.Nil(t, g.CurrentPlayer())
}

func TestIsOverFalseWhileOfferRemains(t *testing.T) {
	g := &Game{
		Players: []*Player{scoredPlayer(t, "P1", 14), scoredPlayer(t, "P2", 0)},
		Offer:   []Card{mustCard(t, 0, 1, Red, "1R")},
	}
	assert.False(t, g.IsOver())
}

func TestAdvanceTurnWraps(t *testing.T) {
	g := &Game{
		Players:          []*Player{NewPlayer("P1"), NewPlayer("P2")},
		CurrentPlayerIdx: 1,
		Phase:            PhaseDrawing,
		TurnChipsDrawn:   map[Color]int{Red: 1},
		ActionTaken:      true,
	}

	g.AdvanceTurn()
	assert.Equal(t, 0, g.CurrentPlayerIdx)
	assert.Equal(t, PhaseAwaitingAction, g.Phase)
	assert.Empty(t, g.TurnChipsDrawn)
	assert.False(t, g.ActionTaken)
}

func TestParseMoveKind(t *testing.T) {
	k, err := ParseMoveKind("Buy-Reserved")
	require.NoError(t, err)
	assert.Equal(t, MoveBuyReserved, k)

	_, err = ParseMoveKind("undo")
	assert.ErrorIs(t, err, ErrUnknownMove)
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("draw", " g ")
	require.NoError(t, err)
	assert.Equal(t, Move{Kind: MoveDraw, Color: Green}, m)

	m, err = ParseMove("reserve", "2")
	require.NoError(t, err)
	assert.Equal(t, Move{Kind: MoveReserve, Index: 2}, m)
	assert.Equal(t, "reserve 2", m.String())

	m, err = ParseMove("end-turn", "ignored")
	require.NoError(t, err)
	assert.Equal(t, MoveEndTurn, m.Kind)

	_, err = ParseMove("draw", "purple")
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = ParseMove("buy", "first")
	assert.ErrorIs(t, err, ErrInvalidCardIndex)
}
