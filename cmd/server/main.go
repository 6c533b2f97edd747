package main

import (
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/benbeisheim/chess-ai-backend/internal/config"
	"github.com/benbeisheim/chess-ai-backend/internal/controller"
	"github.com/benbeisheim/chess-ai-backend/internal/middleware"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	// Initialize the logger
	if cfg.LogFormat == "json" {
		log.SetHandler(json.New(os.Stderr))
	} else {
		log.SetHandler(text.New(os.Stderr))
	}
	log.SetLevel(cfg.LogLevel)
	logger := log.Log

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Client-ID",
		ExposeHeaders:    "X-Client-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(logger))

	// Initialize services
	gameManager := service.NewGameManager(service.Options{
		AIDelay: cfg.AIDelay,
		Seed:    cfg.Seed,
		Logger:  logger,
	})
	gameService := service.NewGameService(gameManager)

	// Initialize controllers
	gameController := controller.NewGameController(gameService, logger)
	wsController := controller.NewWebSocketController(gameService, logger)

	controller.RegisterRoutes(app, gameController, wsController, cfg.AllowOrigins)

	logger.WithFields(log.Fields{
		"addr":    cfg.Addr,
		"aiDelay": cfg.AIDelay.String(),
	}).Info("chess server listening")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
