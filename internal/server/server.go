// Package server exposes the session manager over HTTP and websockets.
package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/session"
)

// Server wires the fiber app to a session.Manager.
type Server struct {
	app     *fiber.App
	manager *session.Manager
	hub     *Hub
	cfg     *config.Config
	logger  *log.Logger
}

// New builds the fiber app and registers every route.
func New(cfg *config.Config, manager *session.Manager, lg *log.Logger) *Server {
	s := &Server{
		manager: manager,
		hub:     NewHub(lg),
		cfg:     cfg,
		logger:  lg,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "chessd",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	if cfg.Verbosity > config.Quiet {
		s.app.Use(logger.New(logger.Config{Output: cfg.LogFile}))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api", EnsurePlayerID())
	games := api.Group("/games")
	games.Post("/", s.createGame)
	games.Get("/", s.listGames)
	games.Delete("/", s.clearGames)
	games.Get("/:id", s.getGame)
	games.Delete("/:id", s.deleteGame)
	games.Post("/:id/join", s.joinGame)
	games.Post("/:id/leave", s.leaveGame)
	games.Get("/:id/moves/:square", s.validMoves)
	games.Post("/:id/moves", s.makeMove)
	games.Post("/:id/resign", s.resign)

	s.app.Use("/ws", EnsurePlayerID())
	s.app.Get("/ws/games/:id", WebSocketUpgrade(), websocket.New(s.handleSocket, websocket.Config{
		ReadBufferSize:  s.cfg.Server.ReadBufferSize,
		WriteBufferSize: s.cfg.Server.WriteBufferSize,
		Origins:         s.cfg.Server.Origins(),
	}))
}

// App returns the underlying fiber app, for tests and embedding.
func (s *Server) App() *fiber.App {
	return s.app
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Listen serves on the configured address until Shutdown.
func (s *Server) Listen() error {
	s.logger.Printf("listening on %s", s.cfg.Server.Addr)
	return s.app.Listen(s.cfg.Server.Addr)
}

// Shutdown stops the listener and waits for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// publish pushes an update to every websocket watching the game.
func (s *Server) publish(update session.Update) {
	id := update.Snapshot.ID
	s.hub.Broadcast(id, newMessage(MessageTypeGameState, update.Snapshot))
	for _, text := range update.Notifications {
		s.hub.Broadcast(id, notification(text))
	}
}
