package model

import "errors"

var (
	ErrInvalidSquare      = errors.New("invalid square")
	ErrNoPiece            = errors.New("no piece at from square")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrIllegalMove        = errors.New("illegal move")
	ErrPromotionPending   = errors.New("promotion choice pending")
	ErrNoPendingPromotion = errors.New("no pending promotion")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrGameOver           = errors.New("game is over")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrGamePaused         = errors.New("game is paused")
)
