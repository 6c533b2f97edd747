package ai

import "github.com/benbeisheim/chess-ai-backend/internal/model"

var pieceValues = [...]float64{
	model.Pawn:   100,
	model.Knight: 320,
	model.Bishop: 330,
	model.Rook:   500,
	model.Queen:  900,
	model.King:   20000,
}

// Piece-square tables are laid out from white's side: row 0 is the eighth
// rank. Black reads them mirrored.
var pieceSquareTables = [...][8][8]float64{
	model.Pawn: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{78, 83, 86, 73, 102, 82, 85, 90},
		{7, 29, 21, 44, 40, 31, 44, 7},
		{-17, 16, -2, 15, 14, 0, 15, -13},
		{-26, 3, 10, 9, 6, 1, 0, -23},
		{-22, 9, 5, -11, -10, -2, 3, -19},
		{-31, 8, -7, -37, -36, -14, 3, -31},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	model.Knight: {
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	},
	model.Bishop: {
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	},
	model.Rook: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{0, 0, 0, 5, 5, 0, 0, 0},
	},
	model.Queen: {
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	},
	model.King: {
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{20, 30, 10, 0, 0, 10, 30, 20},
	},
}

var centerSquares = [4]model.Position{
	{Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 4, Col: 3}, {Row: 4, Col: 4},
}

const (
	mobilityWeight   = 5
	castledBonus     = 50
	attackerPenalty  = 30
	centerOccupation = 20
	centerAttack     = 10
)

// Evaluate scores a position from me's point of view. Mobility counts the
// legal moves of every piece on the board, whoever is to move.
func Evaluate(s *model.BoardState, me model.Color, p Profile) float64 {
	score := 0.0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := s.Board[row][col]
			if piece == nil {
				continue
			}
			value := pieceValues[piece.Type]
			tableRow := row
			if piece.Color == model.Black {
				tableRow = 7 - row
			}
			value += pieceSquareTables[piece.Type][tableRow][col] * p.PositionalWeight

			if piece.Color == model.White {
				score += value
			} else {
				score -= value
			}
		}
	}

	mobility := len(s.AllLegalMoves(model.White)) - len(s.AllLegalMoves(model.Black))
	score += float64(mobility) * mobilityWeight * p.PositionalWeight

	score += kingSafety(s, model.White, p) - kingSafety(s, model.Black, p)
	score += centerControl(s, model.White, p) - centerControl(s, model.Black, p)

	if me == model.Black {
		return -score
	}
	return score
}

// kingSafety rewards a king tucked toward either edge and punishes every
// enemy piece bearing on its square.
func kingSafety(s *model.BoardState, c model.Color, p Profile) float64 {
	king := s.KingPosition(c)
	safety := 0.0
	if king.Col >= 6 || king.Col <= 2 {
		safety += castledBonus * p.PositionalWeight
	}
	safety -= float64(s.KingAttackers(c)) * attackerPenalty * p.Aggression
	return safety
}

func centerControl(s *model.BoardState, c model.Color, p Profile) float64 {
	control := 0.0
	for _, sq := range centerSquares {
		if piece := s.Board[sq.Row][sq.Col]; piece != nil && piece.Color == c {
			control += centerOccupation * p.PositionalWeight
		}
		if attacked, err := s.IsSquareAttacked(sq, c); err == nil && attacked {
			control += centerAttack * p.PositionalWeight
		}
	}
	return control
}
