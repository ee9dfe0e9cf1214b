package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Phase is the position of the current turn in the turn state machine
type Phase string

const (
	PhaseAwaitingAction Phase = "awaiting_action" // Start of a turn
	PhaseDrawing        Phase = "drawing"         // One or more chips drawn this turn
	PhaseResolved       Phase = "resolved"        // Buy or reserve completed
)

// Game limits
const (
	MinPlayers         = 2
	MaxPlayers         = 4
	DefaultTargetScore = 15
)

// Game is the full state of one game. It is mutated only by the game
// controller and replaced wholesale by a new game or a reload.
type Game struct {
	ID      GameID
	Players []*Player // Fixed for the lifetime of the game

	// Turn management
	CurrentPlayerIdx int
	Phase            Phase
	TurnChipsDrawn   map[Color]int // Reset every turn
	ActionTaken      bool          // Buy or reserve taken this turn

	Offer       []Card // Visible buyable cards
	Bank        *ChipBank
	TargetScore int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Target returns the winning score, defaulting to 15
func (g *Game) Target() int {
	if g.TargetScore <= 0 {
		return DefaultTargetScore
	}
	return g.TargetScore
}

// CurrentPlayer returns the player whose turn it is, or nil if there are none
func (g *Game) CurrentPlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentPlayerIdx]
}

// ChipsDrawnThisTurn returns the number of chips drawn in the current turn
func (g *Game) ChipsDrawnThisTurn() int {
	total := 0
	for _, n := range g.TurnChipsDrawn {
		total += n
	}
	return total
}

// ResetTurn clears the per-turn tracking
func (g *Game) ResetTurn() {
	g.TurnChipsDrawn = make(map[Color]int)
	g.ActionTaken = false
	g.Phase = PhaseAwaitingAction
}

// AdvanceTurn passes the turn to the next player in order
func (g *Game) AdvanceTurn() {
	if len(g.Players) == 0 {
		return
	}
	g.CurrentPlayerIdx = (g.CurrentPlayerIdx + 1) % len(g.Players)
	g.ResetTurn()
}

// IsOver returns true once any player reaches the target or the offer is empty
func (g *Game) IsOver() bool {
	for _, p := range g.Players {
		if p.TotalVP() >= g.Target() {
			return true
		}
	}
	return len(g.Offer) == 0
}

// Winner returns the first player in order at or above the target, otherwise
// the player with the strictly highest score (ties go to the lowest index).
func (g *Game) Winner() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	for _, p := range g.Players {
		if p.TotalVP() >= g.Target() {
			return p
		}
	}
	best := g.Players[0]
	for _, p := range g.Players[1:] {
		if p.TotalVP() > best.TotalVP() {
			best = p
		}
	}
	return best
}

// ChipTotals returns bank plus all hands per color. In a valid game this
// always equals the initial allotment.
func (g *Game) ChipTotals() map[Color]int {
	totals := g.Bank.Counts()
	for _, p := range g.Players {
		for c, n := range p.Chips() {
			totals[c] += n
		}
	}
	return totals
}
