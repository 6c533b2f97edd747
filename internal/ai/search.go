package ai

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

var (
	ErrNoMove            = errors.New("no legal move available")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

const (
	mateScore     = 999999
	historyLength = 6
)

type moveKey struct {
	from, to model.Position
	piece    model.PieceType
}

// Engine picks moves for one game. It remembers its own recent moves so that
// it does not shuffle a piece back and forth.
type Engine struct {
	mu         sync.Mutex
	difficulty Difficulty
	profile    Profile
	rng        *rand.Rand
	history    []moveKey
	nodes      int64
	log        log.Interface
}

// NewEngine builds an engine for a difficulty. A zero seed draws one from the
// clock.
func NewEngine(d Difficulty, seed int64, logger log.Interface) (*Engine, error) {
	profile, ok := Profiles[d]
	if !ok {
		return nil, ErrUnknownDifficulty
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Log
	}
	return &Engine{
		difficulty: d,
		profile:    profile,
		rng:        rand.New(rand.NewSource(seed)),
		history:    make([]moveKey, 0, historyLength),
		log:        logger.WithField("difficulty", d),
	}, nil
}

func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Reset forgets the move history, for a new game.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = e.history[:0]
}

// BestMove searches s for color me. The position is mutated during the search
// and restored before returning, so callers hand in a private copy.
func (e *Engine) BestMove(s *model.BoardState, me model.Color) (model.SimpleMove, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.nodes = 0

	moves := s.AllLegalMoves(me)
	if len(moves) == 0 {
		return model.SimpleMove{}, ErrNoMove
	}
	if e.profile.shuffles() {
		e.rng.Shuffle(len(moves), func(i, j int) {
			moves[i], moves[j] = moves[j], moves[i]
		})
	}

	candidates := moves
	if e.difficulty != Easy {
		candidates = e.withoutRepetition(s, moves)
	}

	var best model.SimpleMove
	bestValue := math.Inf(-1)
	for _, m := range candidates {
		value, err := e.score(s, me, m, e.profile.Depth-1, false, math.Inf(-1), math.Inf(1))
		if err != nil {
			return model.SimpleMove{}, fmt.Errorf("search %s-%s: %w", m.From, m.To, err)
		}

		adjusted := value + (e.rng.Float64()-0.5)*e.profile.Randomness*100
		if adjusted > bestValue {
			bestValue = adjusted
			best = m
		}
	}

	e.remember(s, best)
	e.log.WithFields(log.Fields{
		"color":   me,
		"move":    best.From.String() + best.To.String(),
		"score":   bestValue,
		"nodes":   e.nodes,
		"elapsed": time.Since(start).String(),
	}).Debug("engine move")
	return best, nil
}

// withoutRepetition drops candidates that would undo the engine's previous
// move. If that leaves nothing, every move stays eligible.
func (e *Engine) withoutRepetition(s *model.BoardState, moves []model.SimpleMove) []model.SimpleMove {
	if len(e.history) < 2 {
		return moves
	}
	banned := e.history[len(e.history)-2]
	kept := make([]model.SimpleMove, 0, len(moves))
	for _, m := range moves {
		if keyOf(s, m) != banned {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return moves
	}
	return kept
}

func (e *Engine) remember(s *model.BoardState, m model.SimpleMove) {
	e.history = append(e.history, keyOf(s, m))
	if len(e.history) > historyLength {
		e.history = e.history[1:]
	}
}

func keyOf(s *model.BoardState, m model.SimpleMove) moveKey {
	k := moveKey{from: m.From, to: m.To}
	if p := s.Board[m.From.Row][m.From.Col]; p != nil {
		k.piece = p.Type
	}
	return k
}

// score plays m temporarily and searches the reply.
func (e *Engine) score(s *model.BoardState, me model.Color, m model.SimpleMove, depth int, maximizing bool, alpha, beta float64) (float64, error) {
	u, err := s.MakeTemporary(m)
	if err != nil {
		return 0, err
	}
	defer s.UndoTemporary(u)
	return e.minimax(s, me, depth, maximizing, alpha, beta)
}

// minimax scores the position for me with alpha-beta pruning. The maximizing
// side is always me. Every temporary move is undone before the loop can break.
func (e *Engine) minimax(s *model.BoardState, me model.Color, depth int, maximizing bool, alpha, beta float64) (float64, error) {
	e.nodes++
	if depth == 0 {
		return Evaluate(s, me, e.profile), nil
	}

	side := me
	if !maximizing {
		side = me.Opponent()
	}
	moves := s.AllLegalMoves(side)
	if len(moves) == 0 {
		if !s.IsInCheck(side) {
			return 0, nil
		}
		if maximizing {
			return -mateScore, nil
		}
		return mateScore, nil
	}

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			value, err := e.score(s, me, m, depth-1, false, alpha, beta)
			if err != nil {
				return 0, err
			}
			best = max(best, value)
			alpha = max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return best, nil
	}

	best := math.Inf(1)
	for _, m := range moves {
		value, err := e.score(s, me, m, depth-1, true, alpha, beta)
		if err != nil {
			return 0, err
		}
		best = min(best, value)
		beta = min(beta, value)
		if beta <= alpha {
			break
		}
	}
	return best, nil
}
