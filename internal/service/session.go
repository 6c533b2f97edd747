package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/benbeisheim/chess-ai-backend/internal/ai"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

type Mode string

const (
	ModeAI    Mode = "ai"
	ModeLocal Mode = "local"
)

func parseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAI:
		return ModeAI, nil
	case ModeLocal:
		return ModeLocal, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, s)
}

// GameOptions is what a client sends to start a game. Empty fields take the
// defaults: an AI game at medium difficulty with the engine playing black.
type GameOptions struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	AIColor    string `json:"aiColor"`
	FEN        string `json:"fen"`
}

// Snapshot is the game state plus the session details a client renders.
type Snapshot struct {
	ID         string        `json:"id"`
	Mode       Mode          `json:"mode"`
	Difficulty ai.Difficulty `json:"difficulty,omitempty"`
	AIColor    *model.Color  `json:"aiColor,omitempty"`
	Thinking   bool          `json:"thinking"`

	// ElapsedSeconds is time spent in play, not counting pauses.
	ElapsedSeconds int64 `json:"elapsedSeconds"`
	model.GameState
}

// Conn is the write side of a client connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type client struct {
	conn Conn
	mu   sync.Mutex
}

func (c *client) send(msg ws.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// The connections watching a specific game
type connections struct {
	clients map[string]*client // clientID -> connection
	mu      sync.RWMutex
}

func newConnections() *connections {
	return &connections{clients: make(map[string]*client)}
}

// session is one game and everything the server keeps next to it. mu
// serializes the operations that change the game; reads go straight to the
// game, which has its own lock.
type session struct {
	id      string
	game    *model.Game
	mode    Mode
	engine  *ai.Engine
	aiColor model.Color
	conns   *connections
	clock   *model.Clock
	log     log.Interface

	mu       sync.Mutex
	thinking bool
}

func (s *session) snapshot() Snapshot {
	s.mu.Lock()
	thinking := s.thinking
	s.mu.Unlock()
	return s.snapshotLocked(thinking)
}

func (s *session) snapshotLocked(thinking bool) Snapshot {
	snap := Snapshot{
		ID:             s.id,
		Mode:           s.mode,
		Thinking:       thinking,
		ElapsedSeconds: int64(s.clock.Elapsed() / time.Second),
		GameState:      s.game.GetState(),
	}
	if s.mode == ModeAI {
		snap.Difficulty = s.engine.Difficulty()
		c := s.aiColor
		snap.AIColor = &c
	}
	return snap
}

// syncClock runs the play clock only while the game is live. The caller holds
// s.mu.
func (s *session) syncClock() {
	s.clock.Sync(s.game.GetState())
}

// engineToMove reports whether it is the engine's turn in a live position.
func (s *session) engineToMove(state model.GameState) bool {
	return s.mode == ModeAI && !state.IsGameOver && !state.Paused &&
		state.PromotionSquare == nil && state.ToMove == s.aiColor
}

func (s *session) register(clientID string, conn Conn) {
	s.conns.mu.Lock()
	old, exists := s.conns.clients[clientID]
	s.conns.clients[clientID] = &client{conn: conn}
	s.conns.mu.Unlock()

	if exists && old.conn != conn {
		s.log.WithField("client", clientID).Info("replacing stale connection")
		old.conn.Close()
	}
}

// unregister only drops the client if conn is still its current connection.
func (s *session) unregister(clientID string, conn Conn) {
	s.conns.mu.Lock()
	defer s.conns.mu.Unlock()

	if c, exists := s.conns.clients[clientID]; exists && c.conn == conn {
		delete(s.conns.clients, clientID)
	}
}

func (s *session) broadcast(snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		s.log.WithError(err).Error("marshal game state")
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	s.conns.mu.RLock()
	active := make(map[string]*client, len(s.conns.clients))
	for id, c := range s.conns.clients {
		active[id] = c
	}
	s.conns.mu.RUnlock()

	for id, c := range active {
		if err := c.send(msg); err != nil {
			s.log.WithError(err).WithField("client", id).Warn("dropping connection")
			s.unregister(id, c.conn)
		}
	}
}
