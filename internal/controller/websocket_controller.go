package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-ai-backend/internal/middleware"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	log         log.Interface
}

func NewWebSocketController(gameService *service.GameService, logger log.Interface) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         logger,
	}
}

// lockedConn serializes writes; broadcasts and error replies share the socket.
type lockedConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (lc *lockedConn) WriteJSON(v interface{}) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.Conn.WriteJSON(v)
}

func (wsc *WebSocketController) gameExists(gameID string) error {
	_, err := wsc.gameService.GetGameState(gameID)
	return err
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	clientID, _ := c.Locals(middleware.ClientIDKey).(string)
	logger := wsc.log.WithFields(log.Fields{"game": gameID, "client": clientID})

	conn := &lockedConn{Conn: c}
	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, clientID, conn); err != nil {
		logger.WithError(err).Warn("failed to register connection")
		conn.WriteJSON(ws.NewError(err))
		c.Close()
		return
	}

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.WithError(err).Debug("read loop ended")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			conn.WriteJSON(ws.NewError(fmt.Errorf("malformed message: %w", err)))
			continue
		}
		if err := wsc.handleMessage(gameID, msg); err != nil {
			logger.WithError(err).WithField("type", msg.Type).Debug("message rejected")
			conn.WriteJSON(ws.NewError(err))
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(gameID, clientID, conn)
}

// Handle different types of incoming messages. Successful changes reach the
// client through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("malformed move: %w", err)
		}
		_, err := wsc.gameService.HandleMove(gameID, req)
		return err

	case ws.MessageTypePromote:
		var req ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("malformed promotion: %w", err)
		}
		_, err := wsc.gameService.HandlePromotion(gameID, req.Piece)
		return err

	case ws.MessageTypeUndo:
		_, err := wsc.gameService.Undo(gameID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
