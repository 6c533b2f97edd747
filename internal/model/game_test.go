package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewGameStartingPosition(t *testing.T) {
	g := NewGame("g1")
	state := g.GetState()

	if state.ToMove != White || state.Status != StatusActive || state.IsGameOver {
		t.Fatalf("unexpected initial state: toMove=%s status=%s over=%v", state.ToMove, state.Status, state.IsGameOver)
	}
	want := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, pt := range want {
		if p := state.Board.Board[0][col]; p == nil || p.Type != pt || p.Color != Black {
			t.Errorf("row 0 col %d = %+v, want black %s", col, p, pt)
		}
		if p := state.Board.Board[7][col]; p == nil || p.Type != pt || p.Color != White {
			t.Errorf("row 7 col %d = %+v, want white %s", col, p, pt)
		}
		if p := state.Board.Board[1][col]; p == nil || p.Type != Pawn || p.Color != Black {
			t.Errorf("row 1 col %d = %+v, want black pawn", col, p)
		}
		if p := state.Board.Board[6][col]; p == nil || p.Type != Pawn || p.Color != White {
			t.Errorf("row 6 col %d = %+v, want white pawn", col, p)
		}
	}
	if state.Board.KingPosition(White) != (Position{Row: 7, Col: 4}) || state.Board.KingPosition(Black) != (Position{Row: 0, Col: 4}) {
		t.Errorf("king positions = %+v", state.Board.KingPositions)
	}
	if state.Board.Board[0][0] == state.Board.Board[0][7] {
		t.Error("rooks share one piece object")
	}
}

func TestBoardBounds(t *testing.T) {
	b := NewBoardState()
	for _, p := range []Position{{Row: -1, Col: 0}, {Row: 0, Col: 8}, {Row: 8, Col: 8}} {
		if _, err := b.Board.At(p); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("At(%v) err = %v, want ErrInvalidSquare", p, err)
		}
		if err := b.Board.Set(p, nil); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("Set(%v) err = %v, want ErrInvalidSquare", p, err)
		}
	}
	for _, s := range []string{"", "i1", "a9", "a0", "e44"} {
		if _, err := ParsePosition(s); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParsePosition(%q) err = %v", s, err)
		}
	}
	if p, _ := ParsePosition("e2"); p != (Position{Row: 6, Col: 4}) {
		t.Errorf("e2 = %+v", p)
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame("fools")
	play(t, g, "f2", "f3")
	play(t, g, "e7", "e5")
	play(t, g, "g2", "g4")
	m := play(t, g, "d8", "h4")

	if m.Notation != "Qh4#" {
		t.Errorf("notation = %q, want Qh4#", m.Notation)
	}
	state := g.GetState()
	if state.Status != StatusCheckmate || !state.IsGameOver || state.Winner != WinnerBlack {
		t.Fatalf("status=%s over=%v winner=%q", state.Status, state.IsGameOver, state.Winner)
	}
	if !state.Board.IsInCheck(White) {
		t.Error("white should be in check")
	}
	if n := len(state.Board.AllLegalMoves(White)); n != 0 {
		t.Errorf("white has %d legal moves, want 0", n)
	}
	if _, err := g.MakeMove(MoveRequest{From: sq(t, "a2"), To: sq(t, "a3")}); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate err = %v", err)
	}
}

func TestStalemate(t *testing.T) {
	g := gameFromFEN(t, "7k/8/4Q1K1/8/8/8/8/8 w - - 0 1")
	play(t, g, "e6", "f7")

	state := g.GetState()
	if state.Status != StatusStalemate || !state.IsGameOver || state.Winner != WinnerDraw {
		t.Fatalf("status=%s over=%v winner=%q", state.Status, state.IsGameOver, state.Winner)
	}
	if state.Board.IsInCheck(Black) {
		t.Error("stalemated side must not be in check")
	}
}

func TestCheckStatus(t *testing.T) {
	g := NewGame("check")
	play(t, g, "e2", "e4")
	play(t, g, "f7", "f6")
	m := play(t, g, "d1", "h5")
	if m.Notation != "Qh5+" {
		t.Errorf("notation = %q, want Qh5+", m.Notation)
	}
	if s := g.GetState(); s.Status != StatusCheck || s.IsGameOver {
		t.Errorf("status = %s over=%v", s.Status, s.IsGameOver)
	}
}

func TestIllegalRequestsLeaveStateUntouched(t *testing.T) {
	g := NewGame("illegal")
	before := g.GetState()

	tests := []struct {
		name string
		req  MoveRequest
		err  error
	}{
		{"off board", MoveRequest{From: Position{Row: 6, Col: 4}, To: Position{Row: 8, Col: 4}}, ErrInvalidSquare},
		{"empty square", MoveRequest{From: sq(t, "e4"), To: sq(t, "e5")}, ErrNoPiece},
		{"wrong side", MoveRequest{From: sq(t, "e7"), To: sq(t, "e5")}, ErrNotYourTurn},
		{"illegal geometry", MoveRequest{From: sq(t, "e2"), To: sq(t, "e5")}, ErrIllegalMove},
		{"bad promotion piece", MoveRequest{From: sq(t, "e2"), To: sq(t, "e4"), Promotion: King}, ErrInvalidPromotion},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.MakeMove(tc.req); !errors.Is(err, tc.err) {
				t.Fatalf("err = %v, want %v", err, tc.err)
			}
			if after := g.GetState(); !reflect.DeepEqual(before, after) {
				t.Error("state changed after rejected move")
			}
		})
	}

	if _, err := g.Promote(Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Errorf("Promote without pending err = %v", err)
	}
	if after := g.GetState(); !reflect.DeepEqual(before, after) {
		t.Error("state changed after rejected promotion")
	}
}

func TestLegalMovesFromOnlyForSideToMove(t *testing.T) {
	g := NewGame("moves")
	moves, err := g.LegalMovesFrom(sq(t, "g1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 {
		t.Errorf("knight g1 has %d moves, want 2", len(moves))
	}
	moves, _ = g.LegalMovesFrom(sq(t, "g8"))
	if len(moves) != 0 {
		t.Errorf("black knight listed %d moves on white's turn", len(moves))
	}
	if _, err := g.LegalMovesFrom(Position{Row: 0, Col: -1}); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("err = %v", err)
	}
}

func TestKingsideCastling(t *testing.T) {
	g := gameFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	moves, _ := g.LegalMovesFrom(sq(t, "e1"))
	if _, ok := hasTarget(moves, sq(t, "g1")); !ok {
		t.Fatal("kingside castling missing")
	}
	if _, ok := hasTarget(moves, sq(t, "c1")); !ok {
		t.Fatal("queenside castling missing")
	}

	m := play(t, g, "e1", "g1")
	if m.Special != SpecialCastling || m.Notation != "O-O" {
		t.Errorf("special=%s notation=%q", m.Special, m.Notation)
	}
	state := g.GetState()
	if p, _ := state.Board.Board.At(sq(t, "h1")); p != nil {
		t.Error("h1 should be empty after castling")
	}
	if p, _ := state.Board.Board.At(sq(t, "f1")); p == nil || p.Type != Rook || p.Color != White {
		t.Errorf("f1 = %+v, want white rook", p)
	}
	if state.Board.KingPosition(White) != sq(t, "g1") {
		t.Errorf("king at %s", state.Board.KingPosition(White))
	}
	if state.Board.CastlingRights[White] != (CastlingRights{}) {
		t.Errorf("white rights = %+v", state.Board.CastlingRights[White])
	}

	m = play(t, g, "e8", "c8")
	if m.Notation != "O-O-O" {
		t.Errorf("notation = %q", m.Notation)
	}
	if p, _ := g.GetState().Board.Board.At(sq(t, "d8")); p == nil || p.Type != Rook {
		t.Errorf("d8 = %+v, want rook", p)
	}
}

func TestCastlingRestrictions(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingside  bool
		queenside bool
	}{
		{"through attacked square", "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"onto attacked square", "4k1r1/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"while in check", "4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1", false, false},
		{"b1 attacked is fine", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, true},
		{"blocked by knight", "4k3/8/8/8/8/8/8/RN2K1NR w KQ - 0 1", false, false},
		{"rights lost", "4k3/8/8/8/8/8/8/R3K2R w - - 0 1", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := gameFromFEN(t, tc.fen)
			moves, _ := g.LegalMovesFrom(sq(t, "e1"))
			_, ks := hasTarget(moves, sq(t, "g1"))
			_, qs := hasTarget(moves, sq(t, "c1"))
			if ks != tc.kingside || qs != tc.queenside {
				t.Errorf("kingside=%v queenside=%v, want %v %v", ks, qs, tc.kingside, tc.queenside)
			}
		})
	}
}

func TestCastlingRightsRevoked(t *testing.T) {
	g := gameFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, g, "h1", "h8")
	rights := g.GetState().Board.CastlingRights
	if rights[White].Kingside || !rights[White].Queenside {
		t.Errorf("white rights = %+v", rights[White])
	}
	if rights[Black].Kingside || !rights[Black].Queenside {
		t.Errorf("black rights = %+v", rights[Black])
	}
	play(t, g, "e8", "d7")
	if r := g.GetState().Board.CastlingRights[Black]; r != (CastlingRights{}) {
		t.Errorf("black rights after king move = %+v", r)
	}
}

func TestEnPassantWindow(t *testing.T) {
	g := NewGame("ep")
	play(t, g, "e2", "e4")
	play(t, g, "a7", "a6")
	play(t, g, "e4", "e5")
	play(t, g, "d7", "d5")

	moves, _ := g.LegalMovesFrom(sq(t, "e5"))
	ep, ok := hasTarget(moves, sq(t, "d6"))
	if !ok || !ep.Capture {
		t.Fatalf("en passant missing or not tagged as capture: %+v", moves)
	}

	// take it and put it back
	m := play(t, g, "e5", "d6")
	if m.Special != SpecialEnPassant || m.Notation != "exd6" {
		t.Errorf("special=%s notation=%q", m.Special, m.Notation)
	}
	state := g.GetState()
	if p, _ := state.Board.Board.At(sq(t, "d5")); p != nil {
		t.Error("captured pawn still on d5")
	}
	if len(state.CapturedPieces.White) != 1 || state.CapturedPieces.White[0].Type != Pawn {
		t.Errorf("white captures = %+v", state.CapturedPieces.White)
	}
	if _, err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	state = g.GetState()
	if p, _ := state.Board.Board.At(sq(t, "d5")); p == nil || p.Color != Black {
		t.Error("d5 pawn not restored")
	}
	if state.Board.EnPassantTarget == nil || *state.Board.EnPassantTarget != sq(t, "d6") {
		t.Errorf("en passant target = %v", state.Board.EnPassantTarget)
	}

	// one ply later the chance is gone
	play(t, g, "h2", "h3")
	play(t, g, "a6", "a5")
	moves, _ = g.LegalMovesFrom(sq(t, "e5"))
	if _, ok := hasTarget(moves, sq(t, "d6")); ok {
		t.Error("en passant still offered after the window closed")
	}
}

func TestPromotionFlow(t *testing.T) {
	g := gameFromFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")

	m := play(t, g, "a7", "a8")
	if m.Notation != "" {
		t.Errorf("pending move already has notation %q", m.Notation)
	}
	state := g.GetState()
	if state.PromotionSquare == nil || *state.PromotionSquare != sq(t, "a8") {
		t.Fatalf("promotion square = %v", state.PromotionSquare)
	}
	if state.ToMove != White || len(state.MoveHistory) != 0 {
		t.Fatalf("pending promotion must not finalize: toMove=%s history=%d", state.ToMove, len(state.MoveHistory))
	}
	if _, err := g.MakeMove(MoveRequest{From: sq(t, "a1"), To: sq(t, "a2")}); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("move while pending err = %v", err)
	}
	if _, err := g.Promote(King); !errors.Is(err, ErrInvalidPromotion) {
		t.Errorf("promote to king err = %v", err)
	}

	m, err := g.Promote(Queen)
	if err != nil {
		t.Fatal(err)
	}
	if m.Notation != "a8=Q+" || m.Special != SpecialPromotion || m.PromotionPiece != Queen {
		t.Errorf("move = %+v", m)
	}
	state = g.GetState()
	if p, _ := state.Board.Board.At(sq(t, "a8")); p == nil || p.Type != Queen {
		t.Errorf("a8 = %+v, want queen", p)
	}
	if state.ToMove != Black || state.MoveCount != 1 || state.Status != StatusCheck {
		t.Errorf("toMove=%s count=%d status=%s", state.ToMove, state.MoveCount, state.Status)
	}
}

func TestPromotionWithRequestedPiece(t *testing.T) {
	g := gameFromFEN(t, "1r5k/P7/8/8/8/8/8/K7 w - - 0 1")
	m, err := g.MakeMove(MoveRequest{From: sq(t, "a7"), To: sq(t, "b8"), Promotion: Knight})
	if err != nil {
		t.Fatal(err)
	}
	if m.Notation != "axb8=N" {
		t.Errorf("notation = %q", m.Notation)
	}
	if state := g.GetState(); len(state.CapturedPieces.White) != 1 || state.CapturedPieces.White[0].Type != Rook {
		t.Errorf("captures = %+v", state.CapturedPieces.White)
	}
}

func TestUndoCancelsPendingPromotion(t *testing.T) {
	g := gameFromFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	before := g.GetState()
	play(t, g, "a7", "a8")
	if _, err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if after := g.GetState(); !reflect.DeepEqual(before, after) {
		t.Error("cancelled promotion did not restore the position")
	}
}

func TestUndoNothing(t *testing.T) {
	g := NewGame("undo")
	if _, err := g.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v", err)
	}
}

func TestPausedGameRejectsMoves(t *testing.T) {
	g := NewGame("pause")
	g.SetPaused(true)
	if _, err := g.MakeMove(MoveRequest{From: sq(t, "e2"), To: sq(t, "e4")}); !errors.Is(err, ErrGamePaused) {
		t.Errorf("err = %v", err)
	}
	g.SetPaused(false)
	play(t, g, "e2", "e4")
}

func TestPausedGameRejectsPromotion(t *testing.T) {
	g := gameFromFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	play(t, g, "a7", "a8")
	g.SetPaused(true)
	before := g.GetState()

	if _, err := g.Promote(Queen); !errors.Is(err, ErrGamePaused) {
		t.Fatalf("err = %v, want ErrGamePaused", err)
	}
	if after := g.GetState(); !reflect.DeepEqual(before, after) {
		t.Errorf("paused promotion changed the game: toMove=%s count=%d", after.ToMove, after.MoveCount)
	}

	g.SetPaused(false)
	m, err := g.Promote(Queen)
	if err != nil {
		t.Fatal(err)
	}
	if m.Notation != "a8=Q+" || g.Turn() != Black {
		t.Errorf("notation=%q toMove=%s", m.Notation, g.Turn())
	}
}

func TestPairedHistory(t *testing.T) {
	g := NewGame("pairs")
	play(t, g, "e2", "e4")
	play(t, g, "e7", "e5")
	play(t, g, "g1", "f3")

	got := g.GetState().MoveList
	want := []MovePair{
		{Number: 1, WhitePly: "e4", BlackPly: "e5"},
		{Number: 2, WhitePly: "Nf3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("move list = %+v, want %+v", got, want)
	}

	b := gameFromFEN(t, "4k3/8/8/8/8/8/4P3/4K3 b - - 0 1")
	play(t, b, "e8", "d7")
	play(t, b, "e2", "e4")
	got = b.GetState().MoveList
	want = []MovePair{
		{Number: 1, WhitePly: "...", BlackPly: "Kd7"},
		{Number: 2, WhitePly: "e4"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("move list = %+v, want %+v", got, want)
	}
}

func TestResetRestoresInitialGame(t *testing.T) {
	g := NewGame("reset")
	play(t, g, "e2", "e4")
	g.Reset()
	if !reflect.DeepEqual(g.GetState(), NewGame("other").GetState()) {
		t.Error("reset state differs from a fresh game")
	}
}
