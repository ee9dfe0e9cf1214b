package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gemtrader/internal/model"
)

type StorageSuite struct {
	suite.Suite
	path    string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "data", "gemtrader.db")

	store, err := New(Config{Path: s.path})
	s.Require().NoError(err)

	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestNewRejectsEmptyPath() {
	_, err := New(Config{Path: "  "})
	s.Error(err)
}

func (s *StorageSuite) TestLoadGameNotFound() {
	_, err := s.storage.LoadGame(s.ctx)
	s.ErrorIs(err, model.ErrNoSavedGame)
}

func (s *StorageSuite) TestSaveAndLoadGame() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, []byte("first")))
	s.Require().NoError(s.storage.SaveGame(s.ctx, []byte("second")))

	data, err := s.storage.LoadGame(s.ctx)
	s.Require().NoError(err)
	s.Equal("second", string(data))
}

func (s *StorageSuite) TestSavedGameSurvivesReopen() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, []byte("persisted")))
	s.Require().NoError(s.storage.Close())

	reopened, err := New(Config{Path: s.path})
	s.Require().NoError(err)
	s.storage = reopened

	data, err := s.storage.LoadGame(s.ctx)
	s.Require().NoError(err)
	s.Equal("persisted", string(data))
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, []byte("data"))

	s.Require().NoError(s.storage.DeleteGame(s.ctx))

	_, err := s.storage.LoadGame(s.ctx)
	s.ErrorIs(err, model.ErrNoSavedGame)
}

func (s *StorageSuite) TestCardDefinitions() {
	_, err := s.storage.GetCardDefinitions(s.ctx)
	s.ErrorIs(err, model.ErrCardsNotLoaded)

	s.Require().NoError(s.storage.SaveCardDefinitions(s.ctx, []string{"0,3R,R", "1,4G,G", "2,5B,B"}))
	s.Require().NoError(s.storage.SaveCardDefinitions(s.ctx, []string{"5,7R3G,B", "0,3K,K"}))

	lines, err := s.storage.GetCardDefinitions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"5,7R3G,B", "0,3K,K"}, lines)
}
