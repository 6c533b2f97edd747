package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(opts GameOptions) (string, Snapshot, error) {
	gameID := uuid.New().String()

	snap, err := gs.gameManager.CreateGame(gameID, opts)
	if err != nil {
		return "", Snapshot{}, fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, snap, nil
}

func (gs *GameService) GetGameState(gameID string) (Snapshot, error) {
	return gs.gameManager.GetGameState(gameID)
}

// LegalMoves lists the targets of the piece on an algebraic square such as "e2".
func (gs *GameService) LegalMoves(gameID, square string) ([]model.SimpleMove, error) {
	from, err := model.ParsePosition(square)
	if err != nil {
		return nil, err
	}
	return gs.gameManager.LegalMoves(gameID, from)
}

func (gs *GameService) HandleMove(gameID string, req model.MoveRequest) (Snapshot, error) {
	return gs.gameManager.MakeMove(gameID, req)
}

func (gs *GameService) HandlePromotion(gameID, piece string) (Snapshot, error) {
	pt, err := model.ParsePieceType(piece)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", model.ErrInvalidPromotion, err)
	}
	return gs.gameManager.Promote(gameID, pt)
}

func (gs *GameService) Undo(gameID string) (Snapshot, error) {
	return gs.gameManager.Undo(gameID)
}

func (gs *GameService) Reset(gameID string) (Snapshot, error) {
	return gs.gameManager.Reset(gameID)
}

func (gs *GameService) Pause(gameID string) (Snapshot, error) {
	return gs.gameManager.SetPaused(gameID, true)
}

func (gs *GameService) Resume(gameID string) (Snapshot, error) {
	return gs.gameManager.SetPaused(gameID, false)
}

func (gs *GameService) TriggerAI(gameID string) (Snapshot, error) {
	return gs.gameManager.TriggerAI(gameID)
}

func (gs *GameService) RegisterConnection(gameID, clientID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, clientID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, clientID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, clientID, conn)
}
