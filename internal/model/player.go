package model

import "fmt"

// Per-player limits
const (
	MaxHeldChips = 10 // Hand-size limit, gold included
	MaxReserved  = 3
)

// Player holds one participant's chips, purchased cards and score
type Player struct {
	name        string
	totalVP     int
	chips       map[Color]int
	cardBonuses map[Color]int
	purchased   []Card
	reserved    []Card
}

// PlayerConfig is the full initial state of a player
type PlayerConfig struct {
	Name string
	// TotalVP is only honoured when Purchased is empty (a score restored
	// without its card history). Otherwise zero derives the score from the
	// purchased cards and any other value must match them.
	TotalVP   int
	Chips     map[Color]int
	Purchased []Card
	Reserved  []Card
}

// NewPlayer creates a player with an empty hand
func NewPlayer(name string) *Player {
	p, _ := NewPlayerFromConfig(PlayerConfig{Name: name})
	return p
}

// NewPlayerFromConfig creates a player from a complete initial state
func NewPlayerFromConfig(cfg PlayerConfig) (*Player, error) {
	if cfg.TotalVP < 0 {
		return nil, fmt.Errorf("%w: negative score", ErrInvalidPlayer)
	}
	if len(cfg.Reserved) > MaxReserved {
		return nil, fmt.Errorf("%w: %d reserved cards", ErrInvalidPlayer, len(cfg.Reserved))
	}

	p := &Player{
		name:        cfg.Name,
		chips:       make(map[Color]int),
		cardBonuses: make(map[Color]int),
	}

	held := 0
	for c, n := range cfg.Chips {
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: chip color %q", ErrInvalidPlayer, c)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative %s chips", ErrInvalidPlayer, c)
		}
		if n > 0 {
			p.chips[c] = n
			held += n
		}
	}
	if held > MaxHeldChips {
		return nil, fmt.Errorf("%w: holds %d chips", ErrInvalidPlayer, held)
	}

	for _, card := range cfg.Purchased {
		p.RecordPurchase(card)
	}
	if len(cfg.Purchased) == 0 {
		p.totalVP = cfg.TotalVP
	} else if cfg.TotalVP != 0 && cfg.TotalVP != p.totalVP {
		return nil, fmt.Errorf("%w: score %d does not match purchased cards (%d)", ErrInvalidPlayer, cfg.TotalVP, p.totalVP)
	}

	p.reserved = append(p.reserved, cfg.Reserved...)
	return p, nil
}

// Name returns the player's display name
func (p *Player) Name() string { return p.name }

// TotalVP returns the player's victory points
func (p *Player) TotalVP() int { return p.totalVP }

// ChipCount returns the held chips of a color
func (p *Player) ChipCount(color Color) int { return p.chips[color] }

// Bonus returns the permanent discount for a color
func (p *Player) Bonus(color Color) int { return p.cardBonuses[color] }

// Chips returns a copy of the hand, with explicit zeros for every color
func (p *Player) Chips() map[Color]int {
	result := make(map[Color]int, len(AllColors()))
	for _, c := range AllColors() {
		result[c] = p.chips[c]
	}
	return result
}

// CardBonuses returns a copy of the bonuses, with explicit zeros for every gem
func (p *Player) CardBonuses() map[Color]int {
	result := make(map[Color]int, len(GemColors()))
	for _, c := range GemColors() {
		result[c] = p.cardBonuses[c]
	}
	return result
}

// Purchased returns the purchased cards in purchase order
func (p *Player) Purchased() []Card {
	result := make([]Card, len(p.purchased))
	copy(result, p.purchased)
	return result
}

// Reserved returns the reserved cards
func (p *Player) Reserved() []Card {
	result := make([]Card, len(p.reserved))
	copy(result, p.reserved)
	return result
}

// HeldChips returns the total number of chips in hand
func (p *Player) HeldChips() int {
	total := 0
	for _, n := range p.chips {
		total += n
	}
	return total
}

// CanReceive returns true if n more chips fit under the hand cap
func (p *Player) CanReceive(n int) bool {
	return n > 0 && p.HeldChips()+n <= MaxHeldChips
}

// ReceiveChip adds n chips of a color. It fails without mutation if the
// hand cap would be exceeded.
func (p *Player) ReceiveChip(color Color, n int) bool {
	if !color.IsValid() || !p.CanReceive(n) {
		return false
	}
	p.chips[color] += n
	return true
}

// deficit returns the gold needed to cover one cost entry
func (p *Player) deficit(e CostEntry) int {
	return max(0, e.Count-p.cardBonuses[e.Color]-p.chips[e.Color])
}

// AffordCard returns true if bonuses, matching chips and gold cover the cost
func (p *Player) AffordCard(card Card) bool {
	total := 0
	for _, e := range card.cost {
		total += p.deficit(e)
	}
	return total <= p.chips[Gold]
}

// PayForCard spends chips for a card and returns what was spent.
// Per cost entry, in cost order: bonuses first, then matching chips, with
// any remainder covered by gold in a single debit at the end.
func (p *Player) PayForCard(card Card) (map[Color]int, error) {
	if !p.AffordCard(card) {
		return nil, ErrCannotAfford
	}

	spent := make(map[Color]int)
	gold := 0
	for _, e := range card.cost {
		need := max(0, e.Count-p.cardBonuses[e.Color])
		use := min(need, p.chips[e.Color])
		if use > 0 {
			p.chips[e.Color] -= use
			spent[e.Color] += use
		}
		gold += need - use
	}

	if gold > 0 {
		p.chips[Gold] -= gold
		spent[Gold] = gold
	}
	return spent, nil
}

// RecordPurchase adds a card to the purchased set
func (p *Player) RecordPurchase(card Card) {
	p.purchased = append(p.purchased, card)
	p.totalVP += card.victoryPoints
	p.cardBonuses[card.gemBonus]++
}

// RecordReservation adds a card to the reserved hand
func (p *Player) RecordReservation(card Card) bool {
	if len(p.reserved) >= MaxReserved {
		return false
	}
	p.reserved = append(p.reserved, card)
	return true
}

// TakeReserved removes and returns a reserved card
func (p *Player) TakeReserved(index int) (Card, error) {
	if index < 0 || index >= len(p.reserved) {
		return Card{}, ErrInvalidCardIndex
	}
	card := p.reserved[index]
	p.reserved = append(p.reserved[:index:index], p.reserved[index+1:]...)
	return card, nil
}

func (p *Player) String() string {
	return fmt.Sprintf("%s(VP=%d, chips=%v)", p.name, p.totalVP, p.chips)
}
