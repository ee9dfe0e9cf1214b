package model

// Bank allotments per color
const (
	SmallTableGems = 4 // Fewer than four players
	FullTableGems  = 7
	GoldChips      = 5
)

// ChipBank is the shared pool of tradable chips
type ChipBank struct {
	counts map[Color]int
}

// NewChipBank creates an empty bank
func NewChipBank() *ChipBank {
	return &ChipBank{counts: make(map[Color]int)}
}

// NewChipBankWithCounts creates a bank holding the given counts.
// Negative or unknown entries are ignored.
func NewChipBankWithCounts(counts map[Color]int) *ChipBank {
	b := NewChipBank()
	for c, n := range counts {
		if c.IsValid() && n > 0 {
			b.counts[c] = n
		}
	}
	return b
}

// InitialAllotment returns the starting counts for a table of the given size
func InitialAllotment(numPlayers int) map[Color]int {
	gems := FullTableGems
	if numPlayers < 4 {
		gems = SmallTableGems
	}
	result := make(map[Color]int, len(AllColors()))
	for _, c := range GemColors() {
		result[c] = gems
	}
	result[Gold] = GoldChips
	return result
}

// Initialize resets the bank for a new game
func (b *ChipBank) Initialize(numPlayers int) {
	b.counts = InitialAllotment(numPlayers)
}

// Take removes n chips of a color. It fails without mutation if the bank
// does not hold enough.
func (b *ChipBank) Take(color Color, n int) bool {
	if !color.IsValid() || n < 0 || b.counts[color] < n {
		return false
	}
	b.counts[color] -= n
	return true
}

// Give returns n chips of a color to the bank
func (b *ChipBank) Give(color Color, n int) {
	if !color.IsValid() || n <= 0 {
		return
	}
	b.counts[color] += n
}

// Count returns the available chips of a color
func (b *ChipBank) Count(color Color) int {
	return b.counts[color]
}

// Counts returns a copy of all counts, with explicit zeros
func (b *ChipBank) Counts() map[Color]int {
	result := make(map[Color]int, len(AllColors()))
	for _, c := range AllColors() {
		result[c] = b.counts[c]
	}
	return result
}

// Total returns the number of chips in the bank
func (b *ChipBank) Total() int {
	total := 0
	for _, n := range b.counts {
		total += n
	}
	return total
}

// Clone returns an independent copy of the bank
func (b *ChipBank) Clone() *ChipBank {
	return NewChipBankWithCounts(b.counts)
}
