package model

import "testing"

func sq(t *testing.T, s string) Position {
	t.Helper()
	p, err := ParsePosition(s)
	if err != nil {
		t.Fatalf("ParsePosition(%q): %v", s, err)
	}
	return p
}

func gameFromFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGameFromFEN("test", fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

func play(t *testing.T, g *Game, from, to string) Move {
	t.Helper()
	m, err := g.MakeMove(MoveRequest{From: sq(t, from), To: sq(t, to)})
	if err != nil {
		t.Fatalf("MakeMove %s-%s: %v", from, to, err)
	}
	return m
}

func hasTarget(moves []SimpleMove, to Position) (SimpleMove, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return SimpleMove{}, false
}
