package deck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gemtrader/internal/dependencies/mocks"
	"github.com/mcoot/gemtrader/internal/dependencies/random"
	"github.com/mcoot/gemtrader/internal/model"
	"github.com/mcoot/gemtrader/internal/storage/memory"
	"github.com/mcoot/gemtrader/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) writeCards(lines string) string {
	path := filepath.Join(s.T().TempDir(), "cards.txt")
	s.Require().NoError(os.WriteFile(path, []byte(lines), 0o644))
	return path
}

// Generate tests

func (s *ServiceSuite) TestGenerateScriptedCard() {
	// two colors: R then B (index 1 of G,B,W,K); focus R costs 3, B costs 3; bonus K
	s.random.QueueIntn(1, 0, 1, 0, 1, 3, 4)

	cards := s.service.Generate(1)
	s.Require().Len(cards, 1)

	card := cards[0]
	s.Equal(0, card.ID())
	s.Equal("3R3B", card.CostString())
	s.Equal(model.Black, card.GemBonus())
	s.Equal(4, card.VictoryPoints())
}

func (s *ServiceSuite) TestGenerateDropsZeroCostColors() {
	// three colors R,G,B; focus G; R rolls 0 and is dropped
	s.random.QueueIntn(2, 0, 0, 0, 1, 0, 0, 1, 2)

	card := s.service.Generate(1)[0]

	s.Equal("2G1B", card.CostString())
	s.Equal(model.Blue, card.GemBonus())
	s.Equal(2, card.VictoryPoints())
}

func (s *ServiceSuite) TestGenerateWithExhaustedRandomIsCheapest() {
	cards := s.service.Generate(3)
	s.Require().Len(cards, 3)

	for i, card := range cards {
		s.Equal(i, card.ID())
		s.Equal("2R", card.CostString())
		s.Equal(model.Red, card.GemBonus())
		s.Equal(1, card.VictoryPoints())
	}
}

func (s *ServiceSuite) TestGenerateWithRealRandomKeepsShape() {
	service := New(s.storage, random.New(), testutil.NopLogger())

	for _, card := range service.Generate(DefaultOfferSize) {
		cost := card.Cost()
		s.GreaterOrEqual(len(cost), 1)
		s.LessOrEqual(len(cost), 3)

		total, highest := 0, 0
		for _, e := range cost {
			s.True(e.Color.IsGem())
			s.GreaterOrEqual(e.Count, 1)
			s.LessOrEqual(e.Count, 3)
			total += e.Count
			highest = max(highest, e.Count)
		}
		s.GreaterOrEqual(highest, 2, "the focus color always costs at least 2")
		s.Equal(1+total/3+max(0, highest-2), card.VictoryPoints())
		s.True(card.GemBonus().IsGem())
	}
}

// Definition parsing tests

func (s *ServiceSuite) TestParseDefinition() {
	card, err := ParseDefinition(" 2 , 3R3G2W , w ", 7)
	s.Require().NoError(err)

	s.Equal(7, card.ID())
	s.Equal(2, card.VictoryPoints())
	s.Equal("3R3G2W", card.CostString())
	s.Equal(model.White, card.GemBonus())
}

func (s *ServiceSuite) TestParseDefinitionRejectsMalformed() {
	cases := map[string]error{
		"2,3R":       model.ErrInvalidCard,
		"x,3R,R":     model.ErrInvalidCard,
		"2,R3G3W2,W": model.ErrMalformedCost,
		"2,3R,Y":     model.ErrInvalidCard,
		"2,3R,Q":     model.ErrInvalidColor,
		"-1,3R,R":    model.ErrInvalidCard,
	}
	for line, want := range cases {
		_, err := ParseDefinition(line, 0)
		s.ErrorIs(err, want, line)
	}
}

func (s *ServiceSuite) TestParseDefinitionsSkipsCommentsAndBadLines() {
	cards := s.service.ParseDefinitions([]string{
		"# header",
		"",
		"1,4R,R",
		"not a card",
		"2,R3G3,W",
		"3,7G,G",
	})

	s.Require().Len(cards, 2)
	s.Equal(0, cards[0].ID())
	s.Equal("4R", cards[0].CostString())
	s.Equal(1, cards[1].ID())
	s.Equal("7G", cards[1].CostString())
}

func (s *ServiceSuite) TestDefaultsAllParse() {
	s.Len(s.service.Defaults(), len(DefaultDefinitions()))
}

// Loading tests

func (s *ServiceSuite) TestLoadFromFileCachesDefinitions() {
	path := s.writeCards("0,3R,R\n5,7R3G,B\n")

	cards, err := s.service.LoadFromFile(s.ctx, path)
	s.Require().NoError(err)
	s.Len(cards, 2)

	cached, err := s.storage.GetCardDefinitions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"0,3R,R", "5,7R3G,B"}, cached)

	fromCache, err := s.service.LoadFromStorage(s.ctx)
	s.Require().NoError(err)
	s.Equal(cards, fromCache)
}

func (s *ServiceSuite) TestLoadFromFileMissing() {
	_, err := s.service.LoadFromFile(s.ctx, filepath.Join(s.T().TempDir(), "nope.txt"))
	s.Error(err)
}

func (s *ServiceSuite) TestLoadFromFileWithNoValidCards() {
	path := s.writeCards("# nothing here\nbad line\n")

	_, err := s.service.LoadFromFile(s.ctx, path)
	s.ErrorIs(err, model.ErrCardsNotLoaded)

	_, err = s.storage.GetCardDefinitions(s.ctx)
	s.ErrorIs(err, model.ErrCardsNotLoaded, "nothing is cached from an unusable file")
}

func (s *ServiceSuite) TestLoadFromStorageEmpty() {
	_, err := s.service.LoadFromStorage(s.ctx)
	s.ErrorIs(err, model.ErrCardsNotLoaded)
}

// BuildOffer tests

func (s *ServiceSuite) TestBuildOfferGeneratesWithoutPath() {
	offer := s.service.BuildOffer(s.ctx, "", 5)
	s.Len(offer, 5)
}

func (s *ServiceSuite) TestBuildOfferDefaultSize() {
	offer := s.service.BuildOffer(s.ctx, "", 0)
	s.Len(offer, DefaultOfferSize)
}

func (s *ServiceSuite) TestBuildOfferFromFileIsShuffledAndTrimmed() {
	path := s.writeCards("0,3R,R\n1,4G,G\n2,5B,B\n")
	// i=2 swaps with 0, i=1 with 1
	s.random.QueueIntn(0, 1)

	offer := s.service.BuildOffer(s.ctx, path, 2)

	s.Require().Len(offer, 2)
	s.Equal("5B", offer[0].CostString())
	s.Equal("4G", offer[1].CostString())
}

func (s *ServiceSuite) TestBuildOfferFallsBackToCache() {
	s.Require().NoError(s.storage.SaveCardDefinitions(s.ctx, []string{"5,7R3G,B", "0,3K,K"}))

	offer := s.service.BuildOffer(s.ctx, filepath.Join(s.T().TempDir(), "missing.txt"), DefaultOfferSize)

	s.Require().Len(offer, 2)
	var costs []string
	for _, c := range offer {
		costs = append(costs, c.CostString())
	}
	s.ElementsMatch([]string{"7R3G", "3K"}, costs)
}

func (s *ServiceSuite) TestBuildOfferFallsBackToDefaults() {
	offer := s.service.BuildOffer(s.ctx, filepath.Join(s.T().TempDir(), "missing.txt"), DefaultOfferSize)

	s.Require().Len(offer, DefaultOfferSize)
	seen := make(map[int]bool)
	for _, c := range offer {
		s.False(seen[c.ID()], "card %d dealt twice", c.ID())
		seen[c.ID()] = true
		s.Less(c.ID(), len(DefaultDefinitions()))
	}
}
