// Package codec converts a game to and from its saved JSON form.
//
// Layout of a saved game:
//
//	{
//	  "gameId": "...", "savedAt": "...",
//	  "player": {"0": {"name": "...", "totalVP": 3, "chips": {"R": 1, ...}, "purchased": [...]}},
//	  "cards": {"0": {"id": 7, "victoryPoint": 2, "cost": "3R2G", "gemBonus": "R"}},
//	  "cardsRemaining": [7],
//	  "bank": {"R": 3, ...},
//	  "currTurn": 0
//	}
//
// Costs always use the compact "<count><color>" form.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mcoot/gemtrader/internal/model"
)

type saveFile struct {
	GameID         string                  `json:"gameId,omitempty"`
	SavedAt        *time.Time              `json:"savedAt,omitempty"`
	Players        map[string]playerRecord `json:"player"`
	Cards          map[string]cardRecord   `json:"cards"`
	CardsRemaining []int                   `json:"cardsRemaining"`
	Bank           map[string]int          `json:"bank,omitempty"`
	TurnChipsDrawn map[string]int          `json:"turnChipsDrawn,omitempty"`
	ActionTaken    bool                    `json:"actionTaken,omitempty"`
	TargetScore    int                     `json:"targetScore,omitempty"`
	CurrTurn       int                     `json:"currTurn"`
}

type playerRecord struct {
	Name      string         `json:"name,omitempty"`
	TotalVP   int            `json:"totalVP"`
	Chips     map[string]int `json:"chips"`
	Purchased []cardRecord   `json:"purchased,omitempty"`
	Reserved  []cardRecord   `json:"reserved,omitempty"`
}

type cardRecord struct {
	ID           *int   `json:"id,omitempty"`
	VictoryPoint int    `json:"victoryPoint"`
	Cost         string `json:"cost"`
	GemBonus     string `json:"gemBonus,omitempty"`
}

// Encode serializes a game
func Encode(game *model.Game, savedAt time.Time) ([]byte, error) {
	if game == nil || len(game.Players) == 0 {
		return nil, model.ErrNoGameInProgress
	}

	out := saveFile{
		GameID:         string(game.ID),
		Players:        make(map[string]playerRecord, len(game.Players)),
		Cards:          make(map[string]cardRecord, len(game.Offer)),
		CardsRemaining: make([]int, 0, len(game.Offer)),
		Bank:           colorCounts(game.Bank.Counts()),
		TurnChipsDrawn: drawnCounts(game.TurnChipsDrawn),
		ActionTaken:    game.ActionTaken,
		TargetScore:    game.TargetScore,
		CurrTurn:       game.CurrentPlayerIdx,
	}
	if !savedAt.IsZero() {
		ts := savedAt.UTC()
		out.SavedAt = &ts
	}

	for i, p := range game.Players {
		out.Players[strconv.Itoa(i)] = playerRecord{
			Name:      p.Name(),
			TotalVP:   p.TotalVP(),
			Chips:     colorCounts(p.Chips()),
			Purchased: cardRecords(p.Purchased()),
			Reserved:  cardRecords(p.Reserved()),
		}
	}
	for i, c := range game.Offer {
		out.Cards[strconv.Itoa(i)] = toCardRecord(c)
		out.CardsRemaining = append(out.CardsRemaining, c.ID())
	}

	return json.MarshalIndent(out, "", "  ")
}

// Decode rebuilds a game from its saved form. Any structural problem yields
// an error wrapping model.ErrMalformedSave; a save with no players also
// matches model.ErrNoSavedGame.
func Decode(data []byte) (*model.Game, error) {
	var in saveFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, malformed("%v", err)
	}
	if len(in.Players) == 0 {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedSave, model.ErrNoSavedGame)
	}
	if len(in.Players) < model.MinPlayers || len(in.Players) > model.MaxPlayers {
		return nil, malformed("%d players", len(in.Players))
	}

	players := make([]*model.Player, len(in.Players))
	for i := range players {
		rec, ok := in.Players[strconv.Itoa(i)]
		if !ok {
			return nil, malformed("missing player %d", i)
		}
		p, err := decodePlayer(i, rec)
		if err != nil {
			return nil, err
		}
		players[i] = p
	}

	offer := make([]model.Card, len(in.Cards))
	for i := range offer {
		rec, ok := in.Cards[strconv.Itoa(i)]
		if !ok {
			return nil, malformed("missing card %d", i)
		}
		card, err := decodeCard(rec, i)
		if err != nil {
			return nil, malformed("card %d: %v", i, err)
		}
		offer[i] = card
	}
	if in.CardsRemaining != nil {
		if len(in.CardsRemaining) != len(offer) {
			return nil, malformed("cardsRemaining lists %d cards, offer has %d", len(in.CardsRemaining), len(offer))
		}
		for i, id := range in.CardsRemaining {
			if offer[i].ID() != id {
				return nil, malformed("cardsRemaining[%d] is %d, card %d has id %d", i, id, i, offer[i].ID())
			}
		}
	}

	if err := checkCardIDs(offer, in.Players); err != nil {
		return nil, err
	}

	if in.CurrTurn < 0 || in.CurrTurn >= len(players) {
		return nil, malformed("currTurn %d out of range", in.CurrTurn)
	}

	bank, err := decodeBank(in.Bank, players)
	if err != nil {
		return nil, err
	}

	game := &model.Game{
		ID:               model.GameID(in.GameID),
		Players:          players,
		CurrentPlayerIdx: in.CurrTurn,
		Offer:            offer,
		Bank:             bank,
		TargetScore:      in.TargetScore,
	}
	if in.SavedAt != nil {
		game.UpdatedAt = *in.SavedAt
	}
	game.ResetTurn()

	if err := decodeTurn(game, in); err != nil {
		return nil, err
	}
	return game, nil
}

func decodePlayer(i int, rec playerRecord) (*model.Player, error) {
	chips, err := parseCounts(rec.Chips)
	if err != nil {
		return nil, malformed("player %d chips: %v", i, err)
	}
	purchased, err := decodeCards(rec.Purchased)
	if err != nil {
		return nil, malformed("player %d purchased: %v", i, err)
	}
	reserved, err := decodeCards(rec.Reserved)
	if err != nil {
		return nil, malformed("player %d reserved: %v", i, err)
	}

	name := rec.Name
	if name == "" {
		name = fmt.Sprintf("Player%d", i+1)
	}

	p, err := model.NewPlayerFromConfig(model.PlayerConfig{
		Name:      name,
		TotalVP:   rec.TotalVP,
		Chips:     chips,
		Purchased: purchased,
		Reserved:  reserved,
	})
	if err != nil {
		return nil, malformed("player %d: %v", i, err)
	}
	if len(purchased) > 0 && p.TotalVP() != rec.TotalVP {
		return nil, malformed("player %d: totalVP %d does not match purchased cards (%d)", i, rec.TotalVP, p.TotalVP())
	}
	return p, nil
}

// checkCardIDs rejects a card id that shows up twice across the offer and
// every player's purchased and reserved cards. Player cards saved without
// an id have no identity to check.
func checkCardIDs(offer []model.Card, players map[string]playerRecord) error {
	seen := make(map[int]string, len(offer))
	claim := func(id int, where string) error {
		if prev, ok := seen[id]; ok {
			return malformed("card id %d appears in %s and %s", id, prev, where)
		}
		seen[id] = where
		return nil
	}

	for i, c := range offer {
		if err := claim(c.ID(), fmt.Sprintf("offer %d", i)); err != nil {
			return err
		}
	}
	for i := 0; i < len(players); i++ {
		rec := players[strconv.Itoa(i)]
		for _, group := range []struct {
			name  string
			cards []cardRecord
		}{{"purchased", rec.Purchased}, {"reserved", rec.Reserved}} {
			for j, c := range group.cards {
				if c.ID == nil {
					continue
				}
				if err := claim(*c.ID, fmt.Sprintf("player %d %s %d", i, group.name, j)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// decodeBank validates the stored bank against the closed economy, or
// derives it when the save predates bank tracking
func decodeBank(stored map[string]int, players []*model.Player) (*model.ChipBank, error) {
	allotment := model.InitialAllotment(len(players))
	held := make(map[model.Color]int)
	for _, p := range players {
		for c, n := range p.Chips() {
			held[c] += n
		}
	}

	if stored == nil {
		counts := make(map[model.Color]int)
		for _, c := range model.AllColors() {
			n := allotment[c] - held[c]
			if n < 0 {
				return nil, malformed("players hold %d %s chips, more than the %d in play", held[c], c, allotment[c])
			}
			counts[c] = n
		}
		return model.NewChipBankWithCounts(counts), nil
	}

	counts, err := parseCounts(stored)
	if err != nil {
		return nil, malformed("bank: %v", err)
	}
	for _, c := range model.AllColors() {
		if counts[c]+held[c] != allotment[c] {
			return nil, malformed("%s chips do not add up: bank %d + held %d != %d", c, counts[c], held[c], allotment[c])
		}
	}
	return model.NewChipBankWithCounts(counts), nil
}

func decodeTurn(game *model.Game, in saveFile) error {
	drawn, err := parseCounts(in.TurnChipsDrawn)
	if err != nil {
		return malformed("turnChipsDrawn: %v", err)
	}
	// A pair, a third chip or an action all pass the turn before the next
	// save, so only one or two different colors can be pending
	total := 0
	for c, n := range drawn {
		if !c.IsGem() || n > 1 {
			return malformed("turnChipsDrawn: %d %s in an unfinished turn", n, c)
		}
		total += n
	}
	if total > 2 {
		return malformed("turnChipsDrawn: %d chips drawn in a finished turn", total)
	}
	if in.ActionTaken {
		return malformed("actionTaken set on a turn that should have passed")
	}

	for c, n := range drawn {
		if n > 0 {
			game.TurnChipsDrawn[c] = n
		}
	}
	if total > 0 {
		game.Phase = model.PhaseDrawing
	}
	return nil
}

func decodeCards(recs []cardRecord) ([]model.Card, error) {
	cards := make([]model.Card, 0, len(recs))
	for i, rec := range recs {
		card, err := decodeCard(rec, i)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func decodeCard(rec cardRecord, fallbackID int) (model.Card, error) {
	cost, err := model.ParseCost(rec.Cost)
	if err != nil {
		return model.Card{}, err
	}

	id := fallbackID
	if rec.ID != nil {
		id = *rec.ID
	}

	var bonus model.Color
	if rec.GemBonus != "" {
		bonus, err = model.ParseColor(rec.GemBonus)
		if err != nil {
			return model.Card{}, err
		}
	} else {
		bonus = dominantColor(cost)
	}

	return model.NewCard(id, rec.VictoryPoint, bonus, cost)
}

// dominantColor picks a bonus for saves written without one: the largest
// cost entry, first on ties
func dominantColor(cost []model.CostEntry) model.Color {
	var best model.CostEntry
	for _, e := range cost {
		if e.Count > best.Count {
			best = e
		}
	}
	return best.Color
}

func toCardRecord(c model.Card) cardRecord {
	id := c.ID()
	return cardRecord{
		ID:           &id,
		VictoryPoint: c.VictoryPoints(),
		Cost:         c.CostString(),
		GemBonus:     string(c.GemBonus()),
	}
}

func cardRecords(cards []model.Card) []cardRecord {
	if len(cards) == 0 {
		return nil
	}
	recs := make([]cardRecord, len(cards))
	for i, c := range cards {
		recs[i] = toCardRecord(c)
	}
	return recs
}

// colorCounts writes every color, zeros included
func colorCounts(counts map[model.Color]int) map[string]int {
	out := make(map[string]int, len(model.AllColors()))
	for _, c := range model.AllColors() {
		out[string(c)] = counts[c]
	}
	return out
}

func drawnCounts(drawn map[model.Color]int) map[string]int {
	out := make(map[string]int)
	for c, n := range drawn {
		if n > 0 {
			out[string(c)] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseCounts(in map[string]int) (map[model.Color]int, error) {
	out := make(map[model.Color]int, len(in))
	for k, n := range in {
		c, err := model.ParseColor(k)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", k, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative count for %s", c)
		}
		if _, dup := out[c]; dup {
			return nil, fmt.Errorf("color %s listed twice", c)
		}
		out[c] = n
	}
	return out, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrMalformedSave, fmt.Sprintf(format, args...))
}

// IsRecoverable reports whether a load error means "start a new game"
// rather than a storage failure
func IsRecoverable(err error) bool {
	return errors.Is(err, model.ErrNoSavedGame) || errors.Is(err, model.ErrMalformedSave)
}
