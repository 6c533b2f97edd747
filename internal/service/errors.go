package service

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrInvalidOptions = errors.New("invalid game options")
	ErrInvalidMode    = errors.New("not available in this game mode")
	ErrAIThinking     = errors.New("engine is thinking")
	ErrNotHumanTurn   = errors.New("it is the engine's turn")
	ErrNotEngineTurn  = errors.New("it is not the engine's turn")
)
