package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gemtrader/internal/model"
)

type StorageSuite struct {
	suite.Suite
	dir     string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.dir = s.T().TempDir()

	store, err := New(Config{
		SavePath:       filepath.Join(s.dir, "saves", "savegame.json"),
		CardsCachePath: filepath.Join(s.dir, "cards.cache"),
	})
	s.Require().NoError(err)

	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) TestNewRequiresSavePath() {
	_, err := New(Config{})
	s.Error(err)
}

func (s *StorageSuite) TestLoadGameMissingFile() {
	_, err := s.storage.LoadGame(s.ctx)
	s.ErrorIs(err, model.ErrNoSavedGame)
}

func (s *StorageSuite) TestLoadGameEmptyFile() {
	err := os.WriteFile(s.storage.cfg.SavePath, []byte("  \n"), 0o644)
	s.Require().NoError(err)

	_, err = s.storage.LoadGame(s.ctx)
	s.ErrorIs(err, model.ErrNoSavedGame)
}

func (s *StorageSuite) TestSaveAndLoadGame() {
	err := s.storage.SaveGame(s.ctx, []byte(`{"currTurn":1}`))
	s.Require().NoError(err)

	data, err := s.storage.LoadGame(s.ctx)
	s.Require().NoError(err)
	s.Equal(`{"currTurn":1}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(s.storage.cfg.SavePath))
	s.Require().NoError(err)
	s.Len(entries, 1, "temp files should not be left behind")
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, []byte("data"))

	s.Require().NoError(s.storage.DeleteGame(s.ctx))
	s.Require().NoError(s.storage.DeleteGame(s.ctx), "deleting twice is fine")

	_, err := s.storage.LoadGame(s.ctx)
	s.ErrorIs(err, model.ErrNoSavedGame)
}

func (s *StorageSuite) TestSaveGameFailsOnUnwritableDirectory() {
	store := &Storage{cfg: Config{SavePath: filepath.Join(s.dir, "missing", "dir", "save.json")}}

	err := store.SaveGame(s.ctx, []byte("data"))
	s.Error(err)
}

func (s *StorageSuite) TestCardDefinitions() {
	_, err := s.storage.GetCardDefinitions(s.ctx)
	s.ErrorIs(err, model.ErrCardsNotLoaded)

	lines := []string{"0,3R,R", "2,3R3G2W,W"}
	s.Require().NoError(s.storage.SaveCardDefinitions(s.ctx, lines))

	retrieved, err := s.storage.GetCardDefinitions(s.ctx)
	s.Require().NoError(err)
	s.Equal(lines, retrieved)
}

func (s *StorageSuite) TestSaveGameReplacesPreviousSave() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, []byte(`{"currTurn":0,"padding":"a much longer first save"}`)))
	s.Require().NoError(s.storage.SaveGame(s.ctx, []byte(`{"currTurn":1}`)))

	data, err := s.storage.LoadGame(s.ctx)
	s.Require().NoError(err)
	s.Equal(`{"currTurn":1}`, string(data), "no bytes of the longer save survive")

	entries, err := os.ReadDir(filepath.Dir(s.storage.cfg.SavePath))
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *StorageSuite) TestCardDefinitionsReplaceCache() {
	s.Require().NoError(s.storage.SaveCardDefinitions(s.ctx, []string{"0,3R,R", "1,3G,G", "2,3B,B"}))
	s.Require().NoError(s.storage.SaveCardDefinitions(s.ctx, []string{"4,7W,W"}))

	retrieved, err := s.storage.GetCardDefinitions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"4,7W,W"}, retrieved)
}
