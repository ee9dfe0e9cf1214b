package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/gemtrader/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates an Output writing to the command's streams
func NewOutput(cmd *cobra.Command, format string) *Output {
	return &Output{format: format, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GameView:
		o.printGame(v)
	case MoveView:
		o.printMove(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CardView is a card as shown to players
type CardView struct {
	Index         int    `json:"index"`
	ID            int    `json:"id"`
	VictoryPoints int    `json:"victory_points"`
	Cost          string `json:"cost"`
	Bonus         string `json:"bonus"`
}

// PlayerView is one player's public state
type PlayerView struct {
	Name      string         `json:"name"`
	VP        int            `json:"vp"`
	Chips     map[string]int `json:"chips"`
	Bonuses   map[string]int `json:"bonuses"`
	Purchased int            `json:"purchased"`
	Reserved  []CardView     `json:"reserved,omitempty"`
	Current   bool           `json:"current"`
}

// GameView is the whole table
type GameView struct {
	ID            string         `json:"id"`
	CurrentPlayer string         `json:"current_player"`
	Phase         string         `json:"phase"`
	Drawn         map[string]int `json:"drawn,omitempty"`
	Bank          map[string]int `json:"bank"`
	Offer         []CardView     `json:"offer"`
	Players       []PlayerView   `json:"players"`
	GameOver      bool           `json:"game_over"`
	Winner        *string        `json:"winner,omitempty"`
}

// MoveView describes an applied move
type MoveView struct {
	Move       string         `json:"move"`
	Player     string         `json:"player"`
	Card       *CardView      `json:"card,omitempty"`
	Spent      map[string]int `json:"spent,omitempty"`
	Gained     map[string]int `json:"gained,omitempty"`
	TurnEnded  bool           `json:"turn_ended"`
	NextPlayer string         `json:"next_player"`
	GameOver   bool           `json:"game_over"`
	Winner     *string        `json:"winner,omitempty"`
}

func newCardView(index int, c model.Card) CardView {
	return CardView{
		Index:         index,
		ID:            c.ID(),
		VictoryPoints: c.VictoryPoints(),
		Cost:          c.CostString(),
		Bonus:         string(c.GemBonus()),
	}
}

func cardViews(cards []model.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = newCardView(i, c)
	}
	return views
}

func countView(counts map[model.Color]int) map[string]int {
	if len(counts) == 0 {
		return nil
	}
	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[string(c)] = n
	}
	return out
}

func winnerName(g *model.Game) *string {
	if !g.IsOver() {
		return nil
	}
	name := g.Winner().Name()
	return &name
}

func newGameView(g *model.Game) GameView {
	view := GameView{
		ID:            string(g.ID),
		CurrentPlayer: g.CurrentPlayer().Name(),
		Phase:         string(g.Phase),
		Bank:          countView(g.Bank.Counts()),
		Offer:         cardViews(g.Offer),
		GameOver:      g.IsOver(),
		Winner:        winnerName(g),
	}
	if g.ChipsDrawnThisTurn() > 0 {
		view.Drawn = countView(g.TurnChipsDrawn)
	}
	for i, p := range g.Players {
		pv := PlayerView{
			Name:      p.Name(),
			VP:        p.TotalVP(),
			Chips:     countView(p.Chips()),
			Bonuses:   countView(p.CardBonuses()),
			Purchased: len(p.Purchased()),
			Current:   i == g.CurrentPlayerIdx,
		}
		if reserved := p.Reserved(); len(reserved) > 0 {
			pv.Reserved = cardViews(reserved)
		}
		view.Players = append(view.Players, pv)
	}
	return view
}

func newMoveView(g *model.Game, r *model.MoveResult) MoveView {
	view := MoveView{
		Move:       r.Move.String(),
		Player:     g.Players[r.PlayerIdx].Name(),
		Spent:      countView(r.Spent),
		Gained:     countView(r.Gained),
		TurnEnded:  r.TurnEnded,
		NextPlayer: g.Players[r.NextPlayer].Name(),
		GameOver:   r.GameOver,
		Winner:     winnerName(g),
	}
	if r.Card != nil {
		cv := newCardView(r.Move.Index, *r.Card)
		view.Card = &cv
	}
	return view
}

// formatCounts renders counts in color order, e.g. "R:2 G:0 ... Y:1"
func formatCounts(counts map[string]int, colors []model.Color) string {
	parts := make([]string, 0, len(colors))
	for _, c := range colors {
		parts = append(parts, fmt.Sprintf("%s:%d", c, counts[string(c)]))
	}
	return strings.Join(parts, " ")
}

func formatCard(c CardView) string {
	cost := c.Cost
	if cost == "" {
		cost = "free"
	}
	return fmt.Sprintf("[%d] %dVP cost %s bonus %s", c.Index, c.VictoryPoints, cost, c.Bonus)
}

func (o *Output) printGame(g GameView) {
	fmt.Fprintf(o.out, "Game: %s\n", g.ID)
	fmt.Fprintf(o.out, "Bank: %s\n", formatCounts(g.Bank, model.AllColors()))

	fmt.Fprintf(o.out, "\nOffer (%d):\n", len(g.Offer))
	for _, c := range g.Offer {
		fmt.Fprintf(o.out, "  %s\n", formatCard(c))
	}

	fmt.Fprintln(o.out, "\nPlayers:")
	for _, p := range g.Players {
		marker := " "
		if p.Current {
			marker = "*"
		}
		fmt.Fprintf(o.out, "%s %s: %d VP, %d cards\n", marker, p.Name, p.VP, p.Purchased)
		fmt.Fprintf(o.out, "    chips   %s\n", formatCounts(p.Chips, model.AllColors()))
		fmt.Fprintf(o.out, "    bonuses %s\n", formatCounts(p.Bonuses, model.GemColors()))
		for _, c := range p.Reserved {
			fmt.Fprintf(o.out, "    reserved %s\n", formatCard(c))
		}
	}

	if g.GameOver {
		fmt.Fprintf(o.out, "\nGame over! Winner: %s\n", *g.Winner)
		return
	}
	fmt.Fprintf(o.out, "\nTurn: %s (%s)\n", g.CurrentPlayer, g.Phase)
	if len(g.Drawn) > 0 {
		fmt.Fprintf(o.out, "Drawn this turn: %s\n", formatCounts(g.Drawn, model.GemColors()))
	}
}

func (o *Output) printMove(m MoveView) {
	fmt.Fprintf(o.out, "%s: %s\n", m.Player, m.Move)
	if m.Card != nil {
		fmt.Fprintf(o.out, "  card %s\n", formatCard(*m.Card))
	}
	if len(m.Spent) > 0 {
		fmt.Fprintf(o.out, "  spent %s\n", formatCounts(m.Spent, model.AllColors()))
	}
	if len(m.Gained) > 0 {
		fmt.Fprintf(o.out, "  gained %s\n", formatCounts(m.Gained, model.AllColors()))
	}
	if m.GameOver {
		fmt.Fprintf(o.out, "Game over! Winner: %s\n", *m.Winner)
	} else if m.TurnEnded {
		fmt.Fprintf(o.out, "Next: %s\n", m.NextPlayer)
	}
}
