package model

import "errors"

// Common errors used across the application
var (
	// Card errors
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidCard      = errors.New("invalid card")
	ErrMalformedCost    = errors.New("malformed cost string")
	ErrInvalidCardIndex = errors.New("card index out of range")
	ErrCardsNotLoaded   = errors.New("card definitions not loaded")
	ErrTooManyReserved  = errors.New("reserved hand is full")

	// Player errors
	ErrCannotAfford       = errors.New("player cannot afford card")
	ErrHandFull           = errors.New("player hand is at the chip cap")
	ErrInvalidPlayerCount = errors.New("a game needs two to four players")
	ErrInvalidPlayer      = errors.New("invalid player state")

	// Bank errors
	ErrBankEmpty = errors.New("bank has no chips of that color")

	// Move errors
	ErrGameOver         = errors.New("game is over")
	ErrNoGameInProgress = errors.New("no game in progress")
	ErrActionTaken      = errors.New("an action was already taken this turn")
	ErrAlreadyDrew      = errors.New("chips were already drawn this turn")
	ErrIllegalDraw      = errors.New("draw breaks the chip combination rule")
	ErrUnknownMove      = errors.New("unknown move")

	// Persistence errors
	ErrNoSavedGame   = errors.New("no saved game")
	ErrMalformedSave = errors.New("malformed saved game")
	ErrSaveFailed    = errors.New("failed to save game")
)
