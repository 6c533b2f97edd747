package model

import (
	"fmt"
	"sync"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
)

type Winner string

const (
	WinnerNone  Winner = ""
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

func winnerOf(c Color) Winner {
	if c == White {
		return WinnerWhite
	}
	return WinnerBlack
}

// CapturedPieces is keyed by the side that made the capture.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func (cp *CapturedPieces) list(c Color) *[]Piece {
	if c == White {
		return &cp.White
	}
	return &cp.Black
}

// The Game struct owns a single game's state and serializes access to it.
type Game struct {
	ID    string
	mu    sync.Mutex
	state GameState
}

type GameState struct {
	Board            *BoardState    `json:"boardState"`
	ToMove           Color          `json:"toMove"`
	MoveHistory      []*Move        `json:"moveHistory"`
	MoveList         []MovePair     `json:"moveList"`
	CapturedPieces   CapturedPieces `json:"capturedPieces"`
	MoveCount        int            `json:"moveCount"`
	Status           Status         `json:"status"`
	IsGameOver       bool           `json:"isGameOver"`
	Winner           Winner         `json:"winner"`
	PromotionSquare  *Position      `json:"promotionSquare"`
	LastMove         *SimpleMove    `json:"lastMove"`
	Paused           bool           `json:"paused"`
	pendingPromotion *Move
}

func NewGame(id string) *Game {
	return &Game{
		ID:    id,
		state: newGameState(newBoard(), White),
	}
}

func newGameState(board *BoardState, toMove Color) GameState {
	gs := GameState{
		Board:          board,
		ToMove:         toMove,
		MoveHistory:    make([]*Move, 0),
		CapturedPieces: newCapturedPieces(),
		Status:         StatusActive,
	}
	gs.checkGameEnd()
	return gs
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// GetState returns a deep copy that is safe to read and serialize while the
// game keeps moving.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.snapshot()
}

func (gs *GameState) snapshot() GameState {
	out := *gs
	out.Board = gs.Board.Clone()
	out.MoveHistory = make([]*Move, len(gs.MoveHistory))
	for i, m := range gs.MoveHistory {
		out.MoveHistory[i] = m.clone()
	}
	out.MoveList = gs.PairedHistory()
	out.CapturedPieces = CapturedPieces{
		White: append(make([]Piece, 0, len(gs.CapturedPieces.White)), gs.CapturedPieces.White...),
		Black: append(make([]Piece, 0, len(gs.CapturedPieces.Black)), gs.CapturedPieces.Black...),
	}
	if gs.PromotionSquare != nil {
		sq := *gs.PromotionSquare
		out.PromotionSquare = &sq
	}
	if gs.LastMove != nil {
		lm := *gs.LastMove
		out.LastMove = &lm
	}
	out.pendingPromotion = nil
	return out
}

func (m *Move) clone() *Move {
	out := *m
	if m.Piece != nil {
		p := *m.Piece
		out.Piece = &p
	}
	if m.CapturedPiece != nil {
		p := *m.CapturedPiece
		out.CapturedPiece = &p
	}
	if m.CastleRookMove != nil {
		crm := *m.CastleRookMove
		out.CastleRookMove = &crm
	}
	return &out
}

// PairedHistory groups plies into numbered rows, white first.
func (gs *GameState) PairedHistory() []MovePair {
	pairs := make([]MovePair, 0, (len(gs.MoveHistory)+1)/2)
	for _, m := range gs.MoveHistory {
		if m.Piece.Color == White || len(pairs) == 0 {
			pair := MovePair{Number: len(pairs) + 1}
			if m.Piece.Color == White {
				pair.WhitePly = m.Notation
			} else {
				pair.WhitePly = "..."
				pair.BlackPly = m.Notation
			}
			pairs = append(pairs, pair)
			continue
		}
		pairs[len(pairs)-1].BlackPly = m.Notation
	}
	return pairs
}

// Turn returns the side to move.
func (g *Game) Turn() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.ToMove
}

func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.IsGameOver
}

// LegalMovesFrom lists the legal moves from a square for highlighting. Only
// the side to move gets moves; anything else yields an empty list.
func (g *Game) LegalMovesFrom(from Position) ([]SimpleMove, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSquare, from)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	piece := g.state.Board.Board.at(from)
	if piece == nil || piece.Color != g.state.ToMove || g.state.IsGameOver || g.state.pendingPromotion != nil {
		return []SimpleMove{}, nil
	}
	return g.state.Board.legalMoves(from), nil
}

// Position returns a private copy of the board and the side to move, for
// searching without holding the game lock.
func (g *Game) Position() (*BoardState, Color, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Board.Clone(), g.state.ToMove, g.state.MoveCount
}

// MakeMove validates and plays a move for the side to move. When a pawn
// reaches its last rank and the request names no promotion piece, the move
// stays pending until Promote is called.
func (g *Game) MakeMove(req MoveRequest) (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.validateMove(req); err != nil {
		return Move{}, err
	}
	return g.executeMove(req), nil
}

func (g *Game) validateMove(req MoveRequest) error {
	switch {
	case g.state.IsGameOver:
		return ErrGameOver
	case g.state.Paused:
		return ErrGamePaused
	case g.state.pendingPromotion != nil:
		return ErrPromotionPending
	}
	if !req.From.Valid() || !req.To.Valid() {
		return fmt.Errorf("%w: %s-%s", ErrInvalidSquare, req.From, req.To)
	}
	if req.Promotion != NoPieceType && !req.Promotion.IsPromotionChoice() {
		return fmt.Errorf("%w: %s", ErrInvalidPromotion, req.Promotion)
	}
	piece := g.state.Board.Board.at(req.From)
	if piece == nil {
		return fmt.Errorf("%w: %s", ErrNoPiece, req.From)
	}
	if piece.Color != g.state.ToMove {
		return ErrNotYourTurn
	}
	for _, legal := range g.state.Board.legalMoves(req.From) {
		if legal.To == req.To {
			return nil
		}
	}
	return fmt.Errorf("%w: %s-%s", ErrIllegalMove, req.From, req.To)
}

func (g *Game) executeMove(req MoveRequest) Move {
	m := g.state.Board.applyMove(req.From, req.To)
	if m.CapturedPiece != nil {
		list := g.state.CapturedPieces.list(m.Piece.Color)
		*list = append(*list, *m.CapturedPiece)
	}

	if needsPromotion(m) {
		if req.Promotion == NoPieceType {
			g.state.pendingPromotion = m
			sq := m.To
			g.state.PromotionSquare = &sq
			return *m.clone()
		}
		promoteMove(m, req.Promotion)
	}
	g.finalizeMove(m)
	return *m.clone()
}

// Promote resolves the pending promotion with the chosen piece.
func (g *Game) Promote(pt PieceType) (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := g.state.pendingPromotion
	if m == nil {
		return Move{}, ErrNoPendingPromotion
	}
	if g.state.Paused {
		return Move{}, ErrGamePaused
	}
	if !pt.IsPromotionChoice() {
		return Move{}, fmt.Errorf("%w: %s", ErrInvalidPromotion, pt)
	}
	promoteMove(m, pt)
	g.state.pendingPromotion = nil
	g.state.PromotionSquare = nil
	g.finalizeMove(m)
	return *m.clone(), nil
}

func (g *Game) finalizeMove(m *Move) {
	m.Notation = g.state.Board.getNotation(m)
	g.state.MoveHistory = append(g.state.MoveHistory, m)
	g.state.MoveCount++
	g.state.ToMove = g.state.ToMove.Opponent()
	g.state.LastMove = &SimpleMove{From: m.From, To: m.To, Capture: m.CapturedPiece != nil}
	g.state.checkGameEnd()
}

// checkGameEnd classifies the position for the side to move.
func (gs *GameState) checkGameEnd() {
	color := gs.ToMove
	inCheck := gs.Board.IsInCheck(color)
	hasMoves := gs.Board.HasLegalMoves(color)
	switch {
	case hasMoves:
		gs.Status = StatusActive
		if inCheck {
			gs.Status = StatusCheck
		}
		gs.IsGameOver = false
		gs.Winner = WinnerNone
	case inCheck:
		gs.Status = StatusCheckmate
		gs.IsGameOver = true
		gs.Winner = winnerOf(color.Opponent())
	default:
		gs.Status = StatusStalemate
		gs.IsGameOver = true
		gs.Winner = WinnerDraw
	}
}

// Undo takes back the last ply, or cancels a pending promotion. Castling
// rights and the en passant target are restored along with the board.
func (g *Game) Undo() (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if m := g.state.pendingPromotion; m != nil {
		g.revertMove(m)
		g.state.pendingPromotion = nil
		g.state.PromotionSquare = nil
		return *m.clone(), nil
	}
	n := len(g.state.MoveHistory)
	if n == 0 {
		return Move{}, ErrNothingToUndo
	}
	m := g.state.MoveHistory[n-1]
	g.state.MoveHistory = g.state.MoveHistory[:n-1]
	g.revertMove(m)
	g.state.MoveCount--
	g.state.ToMove = g.state.ToMove.Opponent()
	g.state.LastMove = nil
	if n > 1 {
		prev := g.state.MoveHistory[n-2]
		g.state.LastMove = &SimpleMove{From: prev.From, To: prev.To, Capture: prev.CapturedPiece != nil}
	}
	g.state.checkGameEnd()
	return *m.clone(), nil
}

func (g *Game) revertMove(m *Move) {
	g.state.Board.unapplyMove(m)
	if m.CapturedPiece == nil {
		return
	}
	// matched by type, newest first
	list := g.state.CapturedPieces.list(m.Piece.Color)
	for i := len(*list) - 1; i >= 0; i-- {
		if (*list)[i].Type == m.CapturedPiece.Type {
			*list = append((*list)[:i], (*list)[i+1:]...)
			break
		}
	}
}

// LastMover returns the color that made the most recent finalized move.
func (g *Game) LastMover() (Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := len(g.state.MoveHistory)
	if n == 0 {
		return White, false
	}
	return g.state.MoveHistory[n-1].Piece.Color, true
}

// Reset puts the game back to the standard starting position.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = newGameState(newBoard(), White)
}

func (g *Game) SetPaused(paused bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Paused = paused
}
