// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/benbeisheim/chess-ai-backend/internal/ai"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

// Options configures a GameManager.
type Options struct {
	// AIDelay paces the engine's reply. Zero makes the engine answer inside
	// the request that handed it the move.
	AIDelay time.Duration
	// Seed makes engine randomness reproducible. Zero seeds from the clock.
	Seed   int64
	Logger log.Interface
}

type GameManager struct {
	games   map[string]*session
	mu      sync.RWMutex
	aiDelay time.Duration
	seed    int64
	created int64
	log     log.Interface
}

func NewGameManager(opts Options) *GameManager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Log
	}
	return &GameManager{
		games:   make(map[string]*session),
		aiDelay: opts.AIDelay,
		seed:    opts.Seed,
		log:     logger,
	}
}

func (gm *GameManager) CreateGame(gameID string, opts GameOptions) (Snapshot, error) {
	mode, err := parseMode(opts.Mode)
	if err != nil {
		return Snapshot{}, err
	}

	var game *model.Game
	if opts.FEN != "" {
		game, err = model.NewGameFromFEN(gameID, opts.FEN)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	} else {
		game = model.NewGame(gameID)
	}

	sess := &session{
		id:    gameID,
		game:  game,
		mode:  mode,
		conns: newConnections(),
		clock: model.NewClock(),
		log:   gm.log.WithField("game", gameID),
	}
	if mode == ModeAI {
		if err := gm.attachEngine(sess, opts); err != nil {
			return Snapshot{}, err
		}
	}

	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return Snapshot{}, errors.New("game already exists")
	}
	gm.games[gameID] = sess
	gm.mu.Unlock()

	sess.log.WithFields(log.Fields{
		"mode":       mode,
		"difficulty": opts.Difficulty,
		"aiColor":    opts.AIColor,
	}).Info("game created")

	sess.mu.Lock()
	sess.syncClock()
	gm.scheduleAI(sess)
	snap := sess.snapshotLocked(sess.thinking)
	sess.mu.Unlock()
	return snap, nil
}

func (gm *GameManager) attachEngine(sess *session, opts GameOptions) error {
	difficulty, err := ai.ParseDifficulty(opts.Difficulty)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	sess.aiColor = model.Black
	if opts.AIColor != "" {
		if sess.aiColor, err = model.ParseColor(opts.AIColor); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	}

	seed := gm.seed
	if seed != 0 {
		gm.mu.Lock()
		gm.created++
		seed += gm.created
		gm.mu.Unlock()
	}
	sess.engine, err = ai.NewEngine(difficulty, seed, sess.log)
	return err
}

func (gm *GameManager) session(gameID string) (*session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	sess, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return sess, nil
}

func (gm *GameManager) GetGameState(gameID string) (Snapshot, error) {
	sess, err := gm.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.snapshot(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from model.Position) ([]model.SimpleMove, error) {
	sess, err := gm.session(gameID)
	if err != nil {
		return nil, err
	}
	return sess.game.LegalMovesFrom(from)
}

// mutate runs op under the session lock, refusing while the engine thinks,
// then lets the engine reply if the position calls for it and broadcasts.
func (gm *GameManager) mutate(gameID string, op func(sess *session) error) (Snapshot, error) {
	sess, err := gm.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	if sess.thinking {
		sess.mu.Unlock()
		return Snapshot{}, ErrAIThinking
	}
	if err := op(sess); err != nil {
		sess.mu.Unlock()
		return Snapshot{}, err
	}
	sess.syncClock()
	gm.scheduleAI(sess)
	snap := sess.snapshotLocked(sess.thinking)
	sess.mu.Unlock()

	sess.broadcast(snap)
	return snap, nil
}

func (gm *GameManager) MakeMove(gameID string, req model.MoveRequest) (Snapshot, error) {
	return gm.mutate(gameID, func(sess *session) error {
		if sess.mode == ModeAI && sess.game.Turn() == sess.aiColor {
			return ErrNotHumanTurn
		}
		m, err := sess.game.MakeMove(req)
		if err != nil {
			return err
		}
		logMove(sess.log, m)
		return nil
	})
}

func (gm *GameManager) Promote(gameID string, piece model.PieceType) (Snapshot, error) {
	return gm.mutate(gameID, func(sess *session) error {
		m, err := sess.game.Promote(piece)
		if err != nil {
			return err
		}
		logMove(sess.log, m)
		return nil
	})
}

// Undo takes back the last ply. Against the engine it keeps going until the
// human is to move again, so the engine's reply goes with the human's move.
func (gm *GameManager) Undo(gameID string) (Snapshot, error) {
	return gm.mutate(gameID, func(sess *session) error {
		m, err := sess.game.Undo()
		if err != nil {
			return err
		}
		undone := 1
		if sess.mode == ModeAI && m.Notation != "" {
			for sess.game.Turn() == sess.aiColor {
				if _, ok := sess.game.LastMover(); !ok {
					break
				}
				if _, err := sess.game.Undo(); err != nil {
					return err
				}
				undone++
			}
		}
		sess.log.WithField("plies", undone).Info("undo")
		return nil
	})
}

func (gm *GameManager) Reset(gameID string) (Snapshot, error) {
	return gm.mutate(gameID, func(sess *session) error {
		sess.game.Reset()
		sess.clock.Reset()
		if sess.engine != nil {
			sess.engine.Reset()
		}
		sess.log.Info("game reset")
		return nil
	})
}

// SetPaused is allowed while the engine thinks; a paused game simply refuses
// the engine's move, and resuming asks for a fresh one.
func (gm *GameManager) SetPaused(gameID string, paused bool) (Snapshot, error) {
	sess, err := gm.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	sess.game.SetPaused(paused)
	sess.syncClock()
	if !paused && !sess.thinking {
		gm.scheduleAI(sess)
	}
	snap := sess.snapshotLocked(sess.thinking)
	sess.mu.Unlock()

	sess.log.WithField("paused", paused).Info("pause toggled")
	sess.broadcast(snap)
	return snap, nil
}

// TriggerAI asks the engine to move now. It is only valid on the engine's
// turn in an AI game.
func (gm *GameManager) TriggerAI(gameID string) (Snapshot, error) {
	return gm.mutate(gameID, func(sess *session) error {
		if sess.mode != ModeAI {
			return ErrInvalidMode
		}
		state := sess.game.GetState()
		switch {
		case state.IsGameOver:
			return model.ErrGameOver
		case state.Paused:
			return model.ErrGamePaused
		case !sess.engineToMove(state):
			return ErrNotEngineTurn
		}
		return nil
	})
}

// scheduleAI starts the engine when it is its turn. The caller holds sess.mu.
func (gm *GameManager) scheduleAI(sess *session) {
	if sess.thinking || !sess.engineToMove(sess.game.GetState()) {
		return
	}
	sess.thinking = true

	if gm.aiDelay <= 0 {
		gm.commitAI(sess, gm.searchAI(sess))
		return
	}
	time.AfterFunc(gm.aiDelay, func() {
		result := gm.searchAI(sess)

		sess.mu.Lock()
		gm.commitAI(sess, result)
		snap := sess.snapshotLocked(sess.thinking)
		sess.mu.Unlock()

		sess.broadcast(snap)
	})
}

type searchResult struct {
	move    model.SimpleMove
	color   model.Color
	ply     int
	err     error
	elapsed time.Duration
}

// searchAI runs on a private copy of the position, without the session lock.
func (gm *GameManager) searchAI(sess *session) searchResult {
	board, toMove, ply := sess.game.Position()
	start := time.Now()
	move, err := sess.engine.BestMove(board, toMove)
	return searchResult{move: move, color: toMove, ply: ply, err: err, elapsed: time.Since(start)}
}

// commitAI plays the engine's move if the game is still where the search
// started. The caller holds sess.mu.
func (gm *GameManager) commitAI(sess *session, r searchResult) {
	sess.thinking = false
	if r.err != nil {
		sess.log.WithError(r.err).Warn("engine found no move")
		return
	}

	state := sess.game.GetState()
	if state.MoveCount != r.ply || state.ToMove != r.color {
		sess.log.WithField("ply", r.ply).Warn("discarding stale engine move")
		return
	}

	m, err := sess.game.MakeMove(model.MoveRequest{From: r.move.From, To: r.move.To, Promotion: model.Queen})
	if err != nil {
		sess.log.WithError(err).Warn("engine move rejected")
		return
	}
	sess.syncClock()
	sess.log.WithField("elapsed", r.elapsed.String()).Debug("engine replied")
	logMove(sess.log, m)
}

func (gm *GameManager) RegisterConnection(gameID, clientID string, conn Conn) error {
	sess, err := gm.session(gameID)
	if err != nil {
		return err
	}
	sess.register(clientID, conn)
	sess.log.WithField("client", clientID).Info("connection registered")

	// Send initial state...
	sess.broadcast(sess.snapshot())
	return nil
}

func (gm *GameManager) UnregisterConnection(gameID, clientID string, conn Conn) {
	sess, err := gm.session(gameID)
	if err != nil {
		return
	}
	sess.unregister(clientID, conn)
	sess.log.WithField("client", clientID).Info("connection closed")
}

func logMove(l log.Interface, m model.Move) {
	entry := l.WithFields(log.Fields{
		"color": m.Piece.Color,
		"from":  m.From,
		"to":    m.To,
	})
	if m.Notation == "" {
		entry.Info("awaiting promotion choice")
		return
	}
	entry.WithField("notation", m.Notation).Info("move played")
}
