package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mcoot/gemtrader/internal/codec"
	"github.com/mcoot/gemtrader/internal/dependencies/clock"
	"github.com/mcoot/gemtrader/internal/model"
	"github.com/mcoot/gemtrader/internal/services/deck"
	"github.com/mcoot/gemtrader/internal/storage"
)

// Config holds game rules and setup options
type Config struct {
	// CardsPath is a card-definition file; empty means procedural cards
	CardsPath   string
	OfferSize   int
	TargetScore int
	// PlayerNames seats a fresh game when no save can be loaded
	PlayerNames []string
}

// DefaultConfig returns the standard rules for a two player game
func DefaultConfig() Config {
	return Config{
		OfferSize:   deck.DefaultOfferSize,
		TargetScore: model.DefaultTargetScore,
		PlayerNames: []string{"Player1", "Player2"},
	}
}

// Controller owns the single game in play: it applies moves, enforces the
// turn rules and saves after every change. It is not safe for concurrent use.
type Controller struct {
	storage storage.Storage
	deck    *deck.Service
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger

	game *model.Game
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	deck *deck.Service,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		deck:    deck,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// NewGame seats the named players, deals a fresh offer and saves. Blank
// names become "PlayerN". A failed save still leaves the game in play and is
// reported as ErrSaveFailed.
func (c *Controller) NewGame(ctx context.Context, names []string) (*model.Game, error) {
	if len(names) < model.MinPlayers || len(names) > model.MaxPlayers {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidPlayerCount, len(names))
	}

	players := make([]*model.Player, len(names))
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("Player%d", i+1)
		}
		players[i] = model.NewPlayer(name)
	}

	bank := model.NewChipBank()
	bank.Initialize(len(players))

	now := c.clock.Now()
	game := &model.Game{
		ID:          model.GameID(uuid.NewString()),
		Players:     players,
		Offer:       c.deck.BuildOffer(ctx, c.cfg.CardsPath, c.cfg.OfferSize),
		Bank:        bank,
		TargetScore: c.cfg.TargetScore,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	game.ResetTurn()
	c.game = game

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.Int("player_count", len(players)),
		slog.Int("offer_size", len(game.Offer)),
	)

	return game, c.save(ctx)
}

// LoadGame replaces the game in play with the saved one. It returns
// ErrNoSavedGame when the slot is empty and ErrMalformedSave when the save
// cannot be trusted; the game in play is left untouched in both cases.
func (c *Controller) LoadGame(ctx context.Context) (*model.Game, error) {
	data, err := c.storage.LoadGame(ctx)
	if err != nil {
		return nil, err
	}

	game, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if game.ID == "" {
		game.ID = model.GameID(uuid.NewString())
	}
	if game.TargetScore <= 0 {
		game.TargetScore = c.cfg.TargetScore
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = game.UpdatedAt
	}
	c.game = game

	c.logger.Info("game loaded",
		slog.String("game_id", string(game.ID)),
		slog.Int("player_count", len(game.Players)),
		slog.Int("current_player", game.CurrentPlayerIdx),
	)
	return game, nil
}

// LoadOrNewGame resumes the saved game, or starts one with the configured
// players when there is no usable save
func (c *Controller) LoadOrNewGame(ctx context.Context) (*model.Game, error) {
	game, err := c.LoadGame(ctx)
	if err == nil {
		return game, nil
	}
	if !codec.IsRecoverable(err) {
		return nil, err
	}
	if errors.Is(err, model.ErrMalformedSave) {
		c.logger.Warn("discarding unreadable save",
			slog.String("error", err.Error()),
		)
	}
	return c.NewGame(ctx, c.cfg.PlayerNames)
}

// MakeMove applies a move given by name and text payload and reports whether
// it was applied. Rejections are logged at debug level. A move that applied
// but could not be saved still reports true.
func (c *Controller) MakeMove(ctx context.Context, kind, payload string) bool {
	move, err := model.ParseMove(kind, payload)
	if err == nil {
		_, err = c.Apply(ctx, move)
	}
	if err == nil {
		return true
	}
	if errors.Is(err, model.ErrSaveFailed) {
		c.logger.Error("move applied but not saved",
			slog.String("game_id", string(c.game.ID)),
			slog.String("move", move.String()),
			slog.String("error", err.Error()),
		)
		return true
	}
	c.logger.Debug("move rejected",
		slog.String("kind", kind),
		slog.String("payload", payload),
		slog.String("error", err.Error()),
	)
	return false
}

// Apply validates and applies a move for the current player. Rejected moves
// leave the game unchanged. If the game cannot be saved afterwards the move
// stays applied and the result is returned with an ErrSaveFailed error.
func (c *Controller) Apply(ctx context.Context, move model.Move) (*model.MoveResult, error) {
	game := c.game
	if game == nil {
		return nil, model.ErrNoGameInProgress
	}
	if game.IsOver() {
		return nil, model.ErrGameOver
	}

	var (
		result *model.MoveResult
		err    error
	)
	switch move.Kind {
	case model.MoveDraw:
		result, err = c.draw(game, move.Color)
	case model.MoveBuy:
		result, err = c.buy(game, move.Index)
	case model.MoveReserve:
		result, err = c.reserve(game, move.Index)
	case model.MoveBuyReserved:
		result, err = c.buyReserved(game, move.Index)
	case model.MoveEndTurn:
		result = c.endTurn(game)
	default:
		err = model.ErrUnknownMove
	}
	if err != nil {
		return nil, err
	}

	result.Move = move
	result.NextPlayer = game.CurrentPlayerIdx
	result.GameOver = game.IsOver()

	c.logger.Debug("move applied",
		slog.String("game_id", string(game.ID)),
		slog.Int("player", result.PlayerIdx),
		slog.String("move", move.String()),
		slog.Bool("turn_ended", result.TurnEnded),
	)
	if result.GameOver {
		winner := game.Winner()
		c.logger.Info("game over",
			slog.String("game_id", string(game.ID)),
			slog.String("winner", winner.Name()),
			slog.Int("winner_vp", winner.TotalVP()),
		)
	}

	return result, c.save(ctx)
}

// checkDraw enforces the combination rule: up to three different colors,
// or exactly two of one color
func checkDraw(game *model.Game, color model.Color) error {
	if !color.IsGem() {
		return fmt.Errorf("%w: cannot draw %q", model.ErrInvalidColor, color)
	}
	if game.ActionTaken {
		return model.ErrActionTaken
	}

	total := game.ChipsDrawnThisTurn()
	for c, n := range game.TurnChipsDrawn {
		if n >= 2 {
			return fmt.Errorf("%w: already took two %s", model.ErrIllegalDraw, c)
		}
	}
	if total >= 3 {
		return fmt.Errorf("%w: already drew three chips", model.ErrIllegalDraw)
	}
	if game.TurnChipsDrawn[color] > 0 && total > 1 {
		return fmt.Errorf("%w: %s repeats after drawing different colors", model.ErrIllegalDraw, color)
	}

	if game.Bank.Count(color) < 1 {
		return fmt.Errorf("%w: no %s chips left", model.ErrBankEmpty, color)
	}
	if !game.CurrentPlayer().CanReceive(1) {
		return model.ErrHandFull
	}
	return nil
}

func (c *Controller) draw(game *model.Game, color model.Color) (*model.MoveResult, error) {
	if err := checkDraw(game, color); err != nil {
		return nil, err
	}

	player := game.CurrentPlayer()
	game.Bank.Take(color, 1)
	player.ReceiveChip(color, 1)
	game.TurnChipsDrawn[color]++
	game.Phase = model.PhaseDrawing

	result := &model.MoveResult{
		PlayerIdx: game.CurrentPlayerIdx,
		Gained:    map[model.Color]int{color: 1},
	}
	if game.ChipsDrawnThisTurn() == 3 || game.TurnChipsDrawn[color] == 2 {
		game.AdvanceTurn()
		result.TurnEnded = true
	}
	return result, nil
}

// checkAction guards the single buy or reserve allowed per turn
func checkAction(game *model.Game) error {
	if game.ChipsDrawnThisTurn() > 0 {
		return model.ErrAlreadyDrew
	}
	if game.ActionTaken {
		return model.ErrActionTaken
	}
	return nil
}

func (c *Controller) buy(game *model.Game, index int) (*model.MoveResult, error) {
	if err := checkAction(game); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(game.Offer) {
		return nil, fmt.Errorf("%w: offer has %d cards", model.ErrInvalidCardIndex, len(game.Offer))
	}

	card := game.Offer[index]
	spent, err := c.purchase(game, card)
	if err != nil {
		return nil, err
	}
	game.Offer = slices.Delete(game.Offer, index, index+1)

	return c.resolve(game, card, spent), nil
}

func (c *Controller) buyReserved(game *model.Game, index int) (*model.MoveResult, error) {
	if err := checkAction(game); err != nil {
		return nil, err
	}

	player := game.CurrentPlayer()
	reserved := player.Reserved()
	if index < 0 || index >= len(reserved) {
		return nil, fmt.Errorf("%w: %d cards reserved", model.ErrInvalidCardIndex, len(reserved))
	}

	card := reserved[index]
	spent, err := c.purchase(game, card)
	if err != nil {
		return nil, err
	}
	// Index was checked above
	_, _ = player.TakeReserved(index)

	return c.resolve(game, card, spent), nil
}

// purchase pays for a card and returns the spent chips to the bank
func (c *Controller) purchase(game *model.Game, card model.Card) (map[model.Color]int, error) {
	player := game.CurrentPlayer()
	spent, err := player.PayForCard(card)
	if err != nil {
		return nil, err
	}
	for color, n := range spent {
		game.Bank.Give(color, n)
	}
	player.RecordPurchase(card)
	return spent, nil
}

func (c *Controller) reserve(game *model.Game, index int) (*model.MoveResult, error) {
	if err := checkAction(game); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(game.Offer) {
		return nil, fmt.Errorf("%w: offer has %d cards", model.ErrInvalidCardIndex, len(game.Offer))
	}

	player := game.CurrentPlayer()
	card := game.Offer[index]
	if !player.RecordReservation(card) {
		return nil, model.ErrTooManyReserved
	}
	game.Offer = slices.Delete(game.Offer, index, index+1)

	var gained map[model.Color]int
	if player.CanReceive(1) && game.Bank.Take(model.Gold, 1) {
		player.ReceiveChip(model.Gold, 1)
		gained = map[model.Color]int{model.Gold: 1}
	}

	result := c.resolve(game, card, nil)
	result.Gained = gained
	return result, nil
}

// resolve closes a turn that ended in a buy or reserve
func (c *Controller) resolve(game *model.Game, card model.Card, spent map[model.Color]int) *model.MoveResult {
	result := &model.MoveResult{
		PlayerIdx: game.CurrentPlayerIdx,
		Card:      &card,
		Spent:     spent,
		TurnEnded: true,
	}
	game.ActionTaken = true
	game.Phase = model.PhaseResolved
	game.AdvanceTurn()
	return result
}

func (c *Controller) endTurn(game *model.Game) *model.MoveResult {
	result := &model.MoveResult{
		PlayerIdx: game.CurrentPlayerIdx,
		TurnEnded: true,
	}
	game.AdvanceTurn()
	return result
}

func (c *Controller) save(ctx context.Context) error {
	now := c.clock.Now()
	c.game.UpdatedAt = now

	data, err := codec.Encode(c.game, now)
	if err == nil {
		err = c.storage.SaveGame(ctx, data)
	}
	if err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(c.game.ID)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", model.ErrSaveFailed, err)
	}
	return nil
}

// Game returns the game in play, or nil before NewGame or LoadGame
func (c *Controller) Game() *model.Game {
	return c.game
}

// CurrentPlayer returns the player whose turn it is
func (c *Controller) CurrentPlayer() *model.Player {
	if c.game == nil {
		return nil
	}
	return c.game.CurrentPlayer()
}

// Players returns the players in turn order
func (c *Controller) Players() []*model.Player {
	if c.game == nil {
		return nil
	}
	return slices.Clone(c.game.Players)
}

// Offer returns a copy of the visible cards
func (c *Controller) Offer() []model.Card {
	if c.game == nil {
		return nil
	}
	return slices.Clone(c.game.Offer)
}

// ChipBank returns a copy of the bank
func (c *Controller) ChipBank() *model.ChipBank {
	if c.game == nil {
		return model.NewChipBank()
	}
	return c.game.Bank.Clone()
}

// IsGameOver reports whether the game in play has finished
func (c *Controller) IsGameOver() bool {
	return c.game != nil && c.game.IsOver()
}

// Winner returns the leading player by the winning rules
func (c *Controller) Winner() *model.Player {
	if c.game == nil {
		return nil
	}
	return c.game.Winner()
}

// Interface for dependency injection
type ControllerInterface interface {
	NewGame(ctx context.Context, names []string) (*model.Game, error)
	LoadGame(ctx context.Context) (*model.Game, error)
	LoadOrNewGame(ctx context.Context) (*model.Game, error)
	MakeMove(ctx context.Context, kind, payload string) bool
	Apply(ctx context.Context, move model.Move) (*model.MoveResult, error)
	Game() *model.Game
	CurrentPlayer() *model.Player
	Players() []*model.Player
	Offer() []model.Card
	ChipBank() *model.ChipBank
	IsGameOver() bool
	Winner() *model.Player
}

var _ ControllerInterface = (*Controller)(nil)
