package model

import "strings"

// getNotation renders a finalized move in the short algebraic style used by
// the move list. It runs after the move is on the board so that the check
// and mate suffixes describe the resulting position.
func (s *BoardState) getNotation(m *Move) string {
	var b strings.Builder

	if m.Special == SpecialCastling {
		if m.To.Col == 6 {
			b.WriteString("O-O")
		} else {
			b.WriteString("O-O-O")
		}
	} else {
		isPawn := m.Piece.Type == Pawn || m.Special == SpecialPromotion
		if !isPawn {
			b.WriteString(m.Piece.Type.getPieceNotation())
		}
		if m.CapturedPiece != nil {
			if isPawn {
				b.WriteString(m.From.getFileNotation())
			}
			b.WriteString("x")
		}
		b.WriteString(m.To.getSquareNotation())
		if m.Special == SpecialPromotion {
			b.WriteString("=")
			b.WriteString(m.PromotionPiece.getPieceNotation())
		}
	}

	opponent := m.Piece.Color.Opponent()
	if s.IsInCheck(opponent) {
		if s.HasLegalMoves(opponent) {
			b.WriteString("+")
		} else {
			b.WriteString("#")
		}
	}
	return b.String()
}
