package model

var promotionChoices = [4]PieceType{Queen, Rook, Bishop, Knight}

// Perft counts the leaf nodes of the legal move tree, playing every move
// through the full apply/undo path. Each promotion choice counts separately.
func Perft(s *BoardState, toMove Color, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, lm := range s.AllLegalMoves(toMove) {
		m := s.applyMove(lm.From, lm.To)
		if !needsPromotion(m) {
			nodes += Perft(s, toMove.Opponent(), depth-1)
			s.unapplyMove(m)
			continue
		}
		for _, pt := range promotionChoices {
			promoteMove(m, pt)
			nodes += Perft(s, toMove.Opponent(), depth-1)
		}
		s.unapplyMove(m)
	}
	return nodes
}
