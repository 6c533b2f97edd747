package model

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// forward is the row delta of a pawn push.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) backRank() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) pawnRank() int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRank is the row on which a pawn of this color promotes.
func (c Color) promotionRank() int {
	return c.Opponent().backRank()
}
