package controller

import (
	"errors"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
	log         log.Interface
}

func NewGameController(gameService *service.GameService, logger log.Interface) *GameController {
	return &GameController{gameService: gameService, log: logger}
}

// statusFor maps a domain error to the HTTP status the client sees.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidOptions):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrInvalidSquare),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrNoPiece),
		errors.Is(err, model.ErrInvalidPromotion):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrPromotionPending),
		errors.Is(err, model.ErrNoPendingPromotion),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrGamePaused),
		errors.Is(err, model.ErrNothingToUndo),
		errors.Is(err, service.ErrAIThinking),
		errors.Is(err, service.ErrNotHumanTurn),
		errors.Is(err, service.ErrNotEngineTurn),
		errors.Is(err, service.ErrInvalidMode):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.log.WithError(err).Error("unexpected failure")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "malformed request body: " + err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var opts service.GameOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return badRequest(c, err)
		}
	}

	gameID, state, err := gc.gameService.CreateGame(opts)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), square)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	return gc.respond(c, func(gameID string) (service.Snapshot, error) {
		return gc.gameService.HandleMove(gameID, req)
	})
}

type promoteRequest struct {
	Piece string `json:"piece"`
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	return gc.respond(c, func(gameID string) (service.Snapshot, error) {
		return gc.gameService.HandlePromotion(gameID, req.Piece)
	})
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Undo)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Reset)
}

func (gc *GameController) Pause(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Pause)
}

func (gc *GameController) Resume(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Resume)
}

func (gc *GameController) TriggerAI(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.TriggerAI)
}

func (gc *GameController) respond(c *fiber.Ctx, op func(gameID string) (service.Snapshot, error)) error {
	state, err := op(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}
