package model

import "fmt"

// LegalMoves returns the legal moves of the piece standing on from, whatever
// its color. An empty square yields no moves.
func (s *BoardState) LegalMoves(from Position) ([]SimpleMove, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSquare, from)
	}
	return s.legalMoves(from), nil
}

func (s *BoardState) legalMoves(from Position) []SimpleMove {
	piece := s.Board.at(from)
	if piece == nil {
		return nil
	}
	return s.filterLegalMoves(piece, s.pseudoMoves(piece, from))
}

// AllLegalMoves scans the board row by row and collects every legal move of
// color c. The order is stable; the AI relies on it at low randomness.
func (s *BoardState) AllLegalMoves(c Color) []SimpleMove {
	moves := make([]SimpleMove, 0, 40)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := s.Board[row][col]
			if piece == nil || piece.Color != c {
				continue
			}
			from := Position{Row: row, Col: col}
			moves = append(moves, s.filterLegalMoves(piece, s.pseudoMoves(piece, from))...)
		}
	}
	return moves
}

// HasLegalMoves stops at the first legal move found.
func (s *BoardState) HasLegalMoves(c Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := s.Board[row][col]
			if piece == nil || piece.Color != c {
				continue
			}
			from := Position{Row: row, Col: col}
			for _, m := range s.pseudoMoves(piece, from) {
				if !s.wouldBeInCheck(piece.Color, m) {
					return true
				}
			}
		}
	}
	return false
}

func (s *BoardState) pseudoMoves(piece *Piece, from Position) []SimpleMove {
	switch piece.Type {
	case Pawn:
		return s.getPseudoPawnMoves(piece, from)
	case Knight:
		return s.getPseudoStepMoves(piece, from, knightDirs[:])
	case Bishop:
		return s.getPseudoSlidingMoves(piece, from, bishopDirs[:])
	case Rook:
		return s.getPseudoSlidingMoves(piece, from, rookDirs[:])
	case Queen:
		return append(s.getPseudoSlidingMoves(piece, from, rookDirs[:]), s.getPseudoSlidingMoves(piece, from, bishopDirs[:])...)
	case King:
		return s.getPseudoKingMoves(piece, from)
	}
	return nil
}

func (s *BoardState) filterLegalMoves(piece *Piece, pseudoMoves []SimpleMove) []SimpleMove {
	legalMoves := pseudoMoves[:0]
	for _, m := range pseudoMoves {
		if !s.wouldBeInCheck(piece.Color, m) {
			legalMoves = append(legalMoves, m)
		}
	}
	return legalMoves
}

// wouldBeInCheck plays m on the board, asks whether mover's king is attacked
// and puts everything back.
func (s *BoardState) wouldBeInCheck(mover Color, m SimpleMove) bool {
	inCheck := false
	s.withTemporary(m, func() {
		inCheck = s.IsInCheck(mover)
	})
	return inCheck
}

func (s *BoardState) getPseudoPawnMoves(piece *Piece, from Position) []SimpleMove {
	pawnMoves := []SimpleMove{}
	dir := piece.Color.forward()

	// Check move forward 1
	one := from.add(dir, 0)
	if one.Valid() && s.Board.at(one) == nil {
		pawnMoves = append(pawnMoves, SimpleMove{From: from, To: one})
		// Check move forward 2 from the starting rank
		two := from.add(2*dir, 0)
		if from.Row == piece.Color.pawnRank() && s.Board.at(two) == nil {
			pawnMoves = append(pawnMoves, SimpleMove{From: from, To: two})
		}
	}
	// Diagonal captures, en passant included
	for _, dCol := range [2]int{-1, 1} {
		target := from.add(dir, dCol)
		if !target.Valid() {
			continue
		}
		if occupant := s.Board.at(target); occupant != nil {
			if occupant.Color != piece.Color {
				pawnMoves = append(pawnMoves, SimpleMove{From: from, To: target, Capture: true})
			}
			continue
		}
		if s.isEnPassantCapture(piece, SimpleMove{From: from, To: target}) {
			pawnMoves = append(pawnMoves, SimpleMove{From: from, To: target, Capture: true})
		}
	}
	return pawnMoves
}

// getPseudoStepMoves covers knights and the king's single steps.
func (s *BoardState) getPseudoStepMoves(piece *Piece, from Position, dirs []Position) []SimpleMove {
	moves := []SimpleMove{}
	for _, dir := range dirs {
		target := from.add(dir.Row, dir.Col)
		if !target.Valid() {
			continue
		}
		occupant := s.Board.at(target)
		if occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, SimpleMove{From: from, To: target, Capture: occupant != nil})
		}
	}
	return moves
}

func (s *BoardState) getPseudoSlidingMoves(piece *Piece, from Position, dirs []Position) []SimpleMove {
	moves := []SimpleMove{}
	for _, dir := range dirs {
		for i := 1; i < 8; i++ {
			target := from.add(i*dir.Row, i*dir.Col)
			if !target.Valid() {
				break
			}
			occupant := s.Board.at(target)
			if occupant == nil {
				moves = append(moves, SimpleMove{From: from, To: target})
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, SimpleMove{From: from, To: target, Capture: true})
			}
			break
		}
	}
	return moves
}

func (s *BoardState) getPseudoKingMoves(piece *Piece, from Position) []SimpleMove {
	kingMoves := s.getPseudoStepMoves(piece, from, kingDirs[:])

	rights := s.CastlingRights[piece.Color]
	if (!rights.Kingside && !rights.Queenside) || from != (Position{Row: piece.Color.backRank(), Col: 4}) {
		return kingMoves
	}
	if s.IsInCheck(piece.Color) {
		return kingMoves
	}
	row := from.Row
	// the landing square is left to the legality filter
	if rights.Kingside && s.hasOwnRook(piece.Color, Position{Row: row, Col: 7}) &&
		s.emptyCols(row, 5, 6) &&
		!s.wouldBeInCheck(piece.Color, SimpleMove{From: from, To: Position{Row: row, Col: 5}}) {
		kingMoves = append(kingMoves, SimpleMove{From: from, To: Position{Row: row, Col: 6}})
	}
	if rights.Queenside && s.hasOwnRook(piece.Color, Position{Row: row, Col: 0}) &&
		s.emptyCols(row, 1, 2, 3) &&
		!s.wouldBeInCheck(piece.Color, SimpleMove{From: from, To: Position{Row: row, Col: 3}}) {
		kingMoves = append(kingMoves, SimpleMove{From: from, To: Position{Row: row, Col: 2}})
	}
	return kingMoves
}

func (s *BoardState) hasOwnRook(c Color, p Position) bool {
	piece := s.Board.at(p)
	return piece != nil && piece.Type == Rook && piece.Color == c
}

func (s *BoardState) emptyCols(row int, cols ...int) bool {
	for _, col := range cols {
		if s.Board[row][col] != nil {
			return false
		}
	}
	return true
}
