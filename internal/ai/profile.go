package ai

import "fmt"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Profile tunes how deep the engine looks and how sloppy it is allowed to be.
type Profile struct {
	Depth            int     `json:"depth"`
	Randomness       float64 `json:"randomness"`
	Aggression       float64 `json:"aggression"`
	PositionalWeight float64 `json:"positionalWeight"`
}

var Profiles = map[Difficulty]Profile{
	Easy:   {Depth: 2, Randomness: 0.4, Aggression: 0.3, PositionalWeight: 0.5},
	Medium: {Depth: 3, Randomness: 0.15, Aggression: 0.7, PositionalWeight: 0.8},
	Hard:   {Depth: 4, Randomness: 0.05, Aggression: 1.0, PositionalWeight: 1.0},
}

// ParseDifficulty accepts easy, medium or hard. An empty string means medium.
func ParseDifficulty(s string) (Difficulty, error) {
	if s == "" {
		return Medium, nil
	}
	d := Difficulty(s)
	if _, ok := Profiles[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// shuffles reports whether root candidates are searched in random order.
func (p Profile) shuffles() bool {
	return p.Randomness > 0.1
}
