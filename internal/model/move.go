package model

import "fmt"

type Special uint8

const (
	SpecialNone Special = iota
	SpecialCastling
	SpecialEnPassant
	SpecialPromotion
)

var specialNames = [...]string{"none", "castling", "enPassant", "promotion"}

func (s Special) String() string {
	if int(s) < len(specialNames) {
		return specialNames[s]
	}
	return fmt.Sprintf("Special(%d)", uint8(s))
}

func (s Special) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Special) UnmarshalText(text []byte) error {
	for i, name := range specialNames {
		if name == string(text) {
			*s = Special(i)
			return nil
		}
	}
	return fmt.Errorf("unknown move kind %q", text)
}

// MoveRequest is a from/to pair coming from a player. Promotion may be left
// empty; the game then waits for a promotion choice.
type MoveRequest struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// SimpleMove is a legal destination as handed to the UI and the AI.
// Capture is set for en passant as well, although the victim sits elsewhere.
type SimpleMove struct {
	From    Position `json:"from"`
	To      Position `json:"to"`
	Capture bool     `json:"capture"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// positionSnapshot is the auxiliary state a move overwrites.
type positionSnapshot struct {
	kings           [2]Position
	castlingRights  [2]CastlingRights
	enPassantTarget *Position
}

type Move struct {
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Piece          *Piece          `json:"piece"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	Special        Special         `json:"special"`
	PromotionPiece PieceType       `json:"promotionPiece,omitempty"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Notation       string          `json:"notation"`

	capturedAt Position
	before     positionSnapshot
}

// MovePair is one numbered row of the move list.
type MovePair struct {
	Number   int    `json:"number"`
	WhitePly string `json:"whitePly"`
	BlackPly string `json:"blackPly,omitempty"`
}
