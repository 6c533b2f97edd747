package model

import (
	"fmt"

	"github.com/notnil/chess"
)

var fenPieceTypes = map[chess.PieceType]PieceType{
	chess.Pawn:   Pawn,
	chess.Knight: Knight,
	chess.Bishop: Bishop,
	chess.Rook:   Rook,
	chess.Queen:  Queen,
	chess.King:   King,
}

// ParseFEN builds a position and side to move from a FEN string. Move
// counters are ignored.
func ParseFEN(fen string) (*BoardState, Color, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, White, fmt.Errorf("parse fen: %w", err)
	}
	pos := chess.NewGame(opt).Position()

	state := &BoardState{}
	kings := [2]int{}
	for sq, p := range pos.Board().SquareMap() {
		pt, ok := fenPieceTypes[p.Type()]
		if !ok {
			continue
		}
		color := White
		if p.Color() == chess.Black {
			color = Black
		}
		at := Position{Row: 7 - int(sq.Rank()), Col: int(sq.File())}
		state.Board.set(at, &Piece{Type: pt, Color: color})
		if pt == King {
			state.KingPositions[color] = at
			kings[color]++
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, White, fmt.Errorf("parse fen: need exactly one king per side, got %d white and %d black", kings[White], kings[Black])
	}

	rights := pos.CastleRights()
	state.CastlingRights[White] = CastlingRights{
		Kingside:  rights.CanCastle(chess.White, chess.KingSide),
		Queenside: rights.CanCastle(chess.White, chess.QueenSide),
	}
	state.CastlingRights[Black] = CastlingRights{
		Kingside:  rights.CanCastle(chess.Black, chess.KingSide),
		Queenside: rights.CanCastle(chess.Black, chess.QueenSide),
	}
	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		state.EnPassantTarget = &Position{Row: 7 - int(ep.Rank()), Col: int(ep.File())}
	}

	toMove := White
	if pos.Turn() == chess.Black {
		toMove = Black
	}
	return state, toMove, nil
}

// NewGameFromFEN starts a game from an arbitrary position.
func NewGameFromFEN(id, fen string) (*Game, error) {
	board, toMove, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:    id,
		state: newGameState(board, toMove),
	}, nil
}
