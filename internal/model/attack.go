package model

import "fmt"

var (
	rookDirs   = [4]Position{{Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: -1, Col: 0}}
	bishopDirs = [4]Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	knightDirs = [8]Position{{Row: -2, Col: -1}, {Row: -2, Col: 1}, {Row: -1, Col: -2}, {Row: -1, Col: 2}, {Row: 1, Col: -2}, {Row: 1, Col: 2}, {Row: 2, Col: -1}, {Row: 2, Col: 1}}
	kingDirs   = [8]Position{{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1}, {Row: 0, Col: -1}, {Row: 0, Col: 1}, {Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}
)

// IsInCheck reports whether the king of color c is attacked.
func (s *BoardState) IsInCheck(c Color) bool {
	return s.isSquareAttacked(s.KingPositions[c], c.Opponent())
}

// KingAttackers counts the enemy pieces bearing on the king of color c.
func (s *BoardState) KingAttackers(c Color) int {
	return s.countAttackers(s.KingPositions[c], c.Opponent())
}

// IsSquareAttacked reports whether any piece of byColor attacks target.
func (s *BoardState) IsSquareAttacked(target Position, byColor Color) (bool, error) {
	if !target.Valid() {
		return false, fmt.Errorf("%w: %s", ErrInvalidSquare, target)
	}
	return s.isSquareAttacked(target, byColor), nil
}

// isSquareAttacked walks outward from the target rather than scanning every
// piece. target must be on the board.
func (s *BoardState) isSquareAttacked(target Position, byColor Color) bool {
	for _, dir := range rookDirs {
		if piece := s.firstOnRay(target, dir); piece != nil && piece.Color == byColor && (piece.Type == Rook || piece.Type == Queen) {
			return true
		}
	}
	for _, dir := range bishopDirs {
		if piece := s.firstOnRay(target, dir); piece != nil && piece.Color == byColor && (piece.Type == Bishop || piece.Type == Queen) {
			return true
		}
	}
	for _, dir := range knightDirs {
		p := target.add(dir.Row, dir.Col)
		if p.Valid() {
			if piece := s.Board.at(p); piece != nil && piece.Color == byColor && piece.Type == Knight {
				return true
			}
		}
	}
	for _, dir := range kingDirs {
		p := target.add(dir.Row, dir.Col)
		if p.Valid() {
			if piece := s.Board.at(p); piece != nil && piece.Color == byColor && piece.Type == King {
				return true
			}
		}
	}
	// an attacking pawn stands one row behind the target from its own point of view
	for _, dCol := range [2]int{-1, 1} {
		p := target.add(-byColor.forward(), dCol)
		if p.Valid() {
			if piece := s.Board.at(p); piece != nil && piece.Color == byColor && piece.Type == Pawn {
				return true
			}
		}
	}
	return false
}

func (s *BoardState) firstOnRay(from, dir Position) *Piece {
	p := from.add(dir.Row, dir.Col)
	for p.Valid() {
		if piece := s.Board.at(p); piece != nil {
			return piece
		}
		p = p.add(dir.Row, dir.Col)
	}
	return nil
}

// CanAttack reports whether the piece standing on from attacks to. An empty
// from square attacks nothing.
func (s *BoardState) CanAttack(from, to Position) (bool, error) {
	if !from.Valid() || !to.Valid() {
		return false, fmt.Errorf("%w: %s-%s", ErrInvalidSquare, from, to)
	}
	return s.canAttack(from, to), nil
}

func (s *BoardState) canAttack(from, to Position) bool {
	if from == to {
		return false
	}
	piece := s.Board.at(from)
	if piece == nil {
		return false
	}
	rowDiff := to.Row - from.Row
	colDiff := to.Col - from.Col
	switch piece.Type {
	case Pawn:
		return rowDiff == piece.Color.forward() && abs(colDiff) == 1
	case Knight:
		return (abs(rowDiff) == 2 && abs(colDiff) == 1) || (abs(rowDiff) == 1 && abs(colDiff) == 2)
	case Bishop:
		return abs(rowDiff) == abs(colDiff) && s.isPathClear(from, to)
	case Rook:
		return (rowDiff == 0 || colDiff == 0) && s.isPathClear(from, to)
	case Queen:
		return (rowDiff == 0 || colDiff == 0 || abs(rowDiff) == abs(colDiff)) && s.isPathClear(from, to)
	case King:
		return abs(rowDiff) <= 1 && abs(colDiff) <= 1
	}
	return false
}

// isPathClear checks the squares strictly between from and to.
// Callers guarantee the two squares share a line or diagonal.
func (s *BoardState) isPathClear(from, to Position) bool {
	rowDir := sign(to.Row - from.Row)
	colDir := sign(to.Col - from.Col)
	p := from.add(rowDir, colDir)
	for p != to {
		if s.Board.at(p) != nil {
			return false
		}
		p = p.add(rowDir, colDir)
	}
	return true
}

// CountAttackers returns how many pieces of byColor attack target.
func (s *BoardState) CountAttackers(target Position, byColor Color) (int, error) {
	if !target.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSquare, target)
	}
	return s.countAttackers(target, byColor), nil
}

func (s *BoardState) countAttackers(target Position, byColor Color) int {
	count := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := s.Board[row][col]
			if piece != nil && piece.Color == byColor && s.canAttack(Position{Row: row, Col: col}, target) {
				count++
			}
		}
	}
	return count
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
