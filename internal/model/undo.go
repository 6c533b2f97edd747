package model

import "fmt"

type cellChange struct {
	pos  Position
	prev *Piece
}

// Undo is the log of one temporary move: every touched cell with its
// previous occupant, plus both king squares. Replaying it restores the
// board exactly, whatever kind of move produced it.
type Undo struct {
	cells [4]cellChange
	n     int
	kings [2]Position
}

func (u *Undo) record(b *Board, p Position) {
	u.cells[u.n] = cellChange{pos: p, prev: b.at(p)}
	u.n++
}

// MakeTemporary moves pieces for m without touching castling rights, the
// en passant target or any history. Castling relocates the rook and en
// passant lifts the captured pawn so that check tests see the real board.
// Promotion squares are treated as ordinary destinations. m is expected to
// come from the move generator; only its squares and mover are checked.
func (s *BoardState) MakeTemporary(m SimpleMove) (Undo, error) {
	if !m.From.Valid() || !m.To.Valid() {
		return Undo{}, fmt.Errorf("%w: %s-%s", ErrInvalidSquare, m.From, m.To)
	}
	if s.Board.at(m.From) == nil {
		return Undo{}, fmt.Errorf("%w: %s", ErrNoPiece, m.From)
	}
	return s.makeTemporary(m), nil
}

func (s *BoardState) makeTemporary(m SimpleMove) Undo {
	u := Undo{kings: s.KingPositions}
	piece := s.Board.at(m.From)

	u.record(&s.Board, m.From)
	u.record(&s.Board, m.To)

	switch piece.Type {
	case King:
		if rookFrom, rookTo, ok := castleRookSquares(m); ok {
			u.record(&s.Board, rookFrom)
			u.record(&s.Board, rookTo)
			s.Board.set(rookTo, s.Board.at(rookFrom))
			s.Board.set(rookFrom, nil)
		}
		s.KingPositions[piece.Color] = m.To
	case Pawn:
		if s.isEnPassantCapture(piece, m) {
			victim := Position{Row: m.From.Row, Col: m.To.Col}
			u.record(&s.Board, victim)
			s.Board.set(victim, nil)
		}
	}

	s.Board.set(m.To, piece)
	s.Board.set(m.From, nil)
	return u
}

// UndoTemporary reverts a MakeTemporary call.
func (s *BoardState) UndoTemporary(u Undo) {
	for i := u.n - 1; i >= 0; i-- {
		s.Board.set(u.cells[i].pos, u.cells[i].prev)
	}
	s.KingPositions = u.kings
}

// withTemporary runs fn with m applied and always restores the board.
func (s *BoardState) withTemporary(m SimpleMove, fn func()) {
	u := s.makeTemporary(m)
	defer s.UndoTemporary(u)
	fn()
}

// castleRookSquares returns the rook relocation for a two-column king move.
func castleRookSquares(m SimpleMove) (from, to Position, ok bool) {
	if m.From.Row != m.To.Row || abs(m.To.Col-m.From.Col) != 2 {
		return Position{}, Position{}, false
	}
	if m.To.Col == 6 {
		return Position{Row: m.From.Row, Col: 7}, Position{Row: m.From.Row, Col: 5}, true
	}
	return Position{Row: m.From.Row, Col: 0}, Position{Row: m.From.Row, Col: 3}, true
}

// isEnPassantCapture also demands an enemy pawn beside the mover, since a
// search tree never refreshes the target square.
func (s *BoardState) isEnPassantCapture(piece *Piece, m SimpleMove) bool {
	if piece.Type != Pawn || s.EnPassantTarget == nil || *s.EnPassantTarget != m.To ||
		m.From.Col == m.To.Col || s.Board.at(m.To) != nil {
		return false
	}
	victim := s.Board.at(Position{Row: m.From.Row, Col: m.To.Col})
	return victim != nil && victim.Type == Pawn && victim.Color != piece.Color
}
