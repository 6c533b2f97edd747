package model

import (
	"fmt"
)

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceNames = [...]string{
	NoPieceType: "",
	Pawn:        "pawn",
	Knight:      "knight",
	Bishop:      "bishop",
	Rook:        "rook",
	Queen:       "queen",
	King:        "king",
}

func (p PieceType) String() string {
	if int(p) < len(pieceNames) {
		return pieceNames[p]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(p))
}

func ParsePieceType(s string) (PieceType, error) {
	for pt, name := range pieceNames {
		if name != "" && name == s {
			return PieceType(pt), nil
		}
	}
	return NoPieceType, fmt.Errorf("unknown piece type %q", s)
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = NoPieceType
		return nil
	}
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// IsPromotionChoice reports whether a pawn may promote to p.
func (p PieceType) IsPromotionChoice() bool {
	switch p {
	case Knight, Bishop, Rook, Queen:
		return true
	}
	return false
}

type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return p.getSquareNotation()
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.Col+'a', 8-p.Row)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.Col+'a')
}

func (p Position) add(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// ParsePosition converts an algebraic square such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	p := Position{Row: 8 - int(rank-'0'), Col: int(file) - 'a'}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' || !p.Valid() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return p, nil
}

// Board is indexed [row][col]; row 0 is black's back rank.
type Board [8][8]*Piece

// At returns the piece on p, or nil when the square is empty.
func (b *Board) At(p Position) (*Piece, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSquare, p)
	}
	return b[p.Row][p.Col], nil
}

// Set places piece on p. A nil piece clears the square.
func (b *Board) Set(p Position, piece *Piece) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSquare, p)
	}
	b[p.Row][p.Col] = piece
	return nil
}

func (b *Board) at(p Position) *Piece {
	return b[p.Row][p.Col]
}

func (b *Board) set(p Position, piece *Piece) {
	b[p.Row][p.Col] = piece
}

type CastlingRights struct {
	Kingside  bool `json:"kingside"`
	Queenside bool `json:"queenside"`
}

// BoardState is the board plus the positional state that travels with it.
type BoardState struct {
	Board           Board             `json:"board"`
	KingPositions   [2]Position       `json:"kingPositions"`
	CastlingRights  [2]CastlingRights `json:"castlingRights"`
	EnPassantTarget *Position         `json:"enPassantTarget"`
}

var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() *BoardState {
	board := &BoardState{}
	for col, pt := range backRankOrder {
		board.Board[0][col] = &Piece{Type: pt, Color: Black}
		board.Board[1][col] = &Piece{Type: Pawn, Color: Black}
		board.Board[6][col] = &Piece{Type: Pawn, Color: White}
		board.Board[7][col] = &Piece{Type: pt, Color: White}
	}
	board.KingPositions[White] = Position{Row: 7, Col: 4}
	board.KingPositions[Black] = Position{Row: 0, Col: 4}
	board.CastlingRights[White] = CastlingRights{Kingside: true, Queenside: true}
	board.CastlingRights[Black] = CastlingRights{Kingside: true, Queenside: true}
	return board
}

// NewBoardState returns the standard starting position.
func NewBoardState() *BoardState {
	return newBoard()
}

// Clone deep-copies the state, pieces included.
func (s *BoardState) Clone() *BoardState {
	c := &BoardState{
		KingPositions:  s.KingPositions,
		CastlingRights: s.CastlingRights,
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := s.Board[row][col]; piece != nil {
				cp := *piece
				c.Board[row][col] = &cp
			}
		}
	}
	if s.EnPassantTarget != nil {
		ep := *s.EnPassantTarget
		c.EnPassantTarget = &ep
	}
	return c
}

// KingPosition returns where the king of color c stands.
func (s *BoardState) KingPosition(c Color) Position {
	return s.KingPositions[c]
}
