package model

// applyMove plays a legal from/to pair on the position and returns the move
// record. Promotion is not resolved here; the pawn stays a pawn until
// promoteMove is called.
func (s *BoardState) applyMove(from, to Position) *Move {
	piece := s.Board.at(from)
	m := &Move{
		From:          from,
		To:            to,
		Piece:         piece,
		CapturedPiece: s.Board.at(to),
		capturedAt:    to,
		before: positionSnapshot{
			kings:           s.KingPositions,
			castlingRights:  s.CastlingRights,
			enPassantTarget: s.EnPassantTarget,
		},
	}

	// special moves first: rook hop for castling, victim removal for en passant
	if piece.Type == King {
		if rookFrom, rookTo, ok := castleRookSquares(SimpleMove{From: from, To: to}); ok {
			s.Board.set(rookTo, s.Board.at(rookFrom))
			s.Board.set(rookFrom, nil)
			m.Special = SpecialCastling
			m.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
		}
	}
	if s.isEnPassantCapture(piece, SimpleMove{From: from, To: to}) {
		victim := Position{Row: from.Row, Col: to.Col}
		m.CapturedPiece = s.Board.at(victim)
		m.capturedAt = victim
		m.Special = SpecialEnPassant
		s.Board.set(victim, nil)
	}

	s.Board.set(to, piece)
	s.Board.set(from, nil)

	if piece.Type == King {
		s.KingPositions[piece.Color] = to
	}

	s.updateCastlingRights(m)

	s.EnPassantTarget = nil
	if piece.Type == Pawn && abs(to.Row-from.Row) == 2 {
		s.EnPassantTarget = &Position{Row: (from.Row + to.Row) / 2, Col: from.Col}
	}
	return m
}

// needsPromotion reports whether m left a pawn on its last rank.
func needsPromotion(m *Move) bool {
	return m.Piece.Type == Pawn && m.To.Row == m.Piece.Color.promotionRank()
}

func promoteMove(m *Move, pt PieceType) {
	m.Piece.Type = pt
	m.Special = SpecialPromotion
	m.PromotionPiece = pt
}

// unapplyMove is the exact inverse of applyMove (and of promoteMove).
func (s *BoardState) unapplyMove(m *Move) {
	if m.Special == SpecialPromotion {
		m.Piece.Type = Pawn
	}
	s.Board.set(m.To, nil)
	s.Board.set(m.From, m.Piece)
	if m.CapturedPiece != nil {
		s.Board.set(m.capturedAt, m.CapturedPiece)
	}
	if m.CastleRookMove != nil {
		s.Board.set(m.CastleRookMove.From, s.Board.at(m.CastleRookMove.To))
		s.Board.set(m.CastleRookMove.To, nil)
	}
	s.KingPositions = m.before.kings
	s.CastlingRights = m.before.castlingRights
	s.EnPassantTarget = m.before.enPassantTarget
}

func (s *BoardState) updateCastlingRights(m *Move) {
	piece := m.Piece
	switch piece.Type {
	case King:
		s.CastlingRights[piece.Color] = CastlingRights{}
	case Rook:
		home := piece.Color.backRank()
		if m.From == (Position{Row: home, Col: 0}) {
			s.CastlingRights[piece.Color].Queenside = false
		} else if m.From == (Position{Row: home, Col: 7}) {
			s.CastlingRights[piece.Color].Kingside = false
		}
	}

	if captured := m.CapturedPiece; captured != nil && captured.Type == Rook {
		home := captured.Color.backRank()
		if m.To == (Position{Row: home, Col: 0}) {
			s.CastlingRights[captured.Color].Queenside = false
		} else if m.To == (Position{Row: home, Col: 7}) {
			s.CastlingRights[captured.Color].Kingside = false
		}
	}
}
