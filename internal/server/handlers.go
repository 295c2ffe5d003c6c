package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/session"
)

type createRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	Colour string `json:"colour"`
}

type moveRequest struct {
	Move string `json:"move"`
}

// updateResponse is the body of every state-changing endpoint.
type updateResponse struct {
	Game          session.Snapshot `json:"game"`
	Notifications []string         `json:"notifications"`
}

type movesResponse struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

// parseBody decodes an optional JSON body into v.
func parseBody(c *fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}

// respond publishes update to websocket watchers and returns it to the caller.
func (s *Server) respond(c *fiber.Ctx, update session.Update) error {
	s.publish(update)
	notes := update.Notifications
	if notes == nil {
		notes = []string{}
	}
	return c.JSON(updateResponse{Game: update.Snapshot, Notifications: notes})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) createGame(c *fiber.Ctx) error {
	var req createRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	snap, err := s.manager.Create(c.UserContext(), strings.TrimSpace(req.Name))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

func (s *Server) listGames(c *fiber.Ctx) error {
	games, err := s.manager.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"games": games})
}

func (s *Server) clearGames(c *fiber.Ctx) error {
	if err := s.manager.Clear(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getGame(c *fiber.Ctx) error {
	snap, err := s.manager.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (s *Server) deleteGame(c *fiber.Ctx) error {
	if err := s.manager.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) joinGame(c *fiber.Ctx) error {
	var req joinRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	var (
		update session.Update
		err    error
	)
	if req.Colour == "" {
		update, err = s.manager.JoinAny(c.UserContext(), c.Params("id"), playerID(c))
	} else {
		colour, ok := chess.ParseColour(req.Colour)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "colour must be white or black")
		}
		update, err = s.manager.Join(c.UserContext(), c.Params("id"), playerID(c), colour)
	}
	if err != nil {
		return err
	}
	return s.respond(c, update)
}

func (s *Server) leaveGame(c *fiber.Ctx) error {
	update, err := s.manager.Leave(c.UserContext(), c.Params("id"), playerID(c))
	if err != nil {
		return err
	}
	return s.respond(c, update)
}

func (s *Server) validMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := s.manager.ValidMoves(c.UserContext(), c.Params("id"), square)
	if err != nil {
		return err
	}
	out := movesResponse{Square: square, Moves: make([]string, 0, len(moves))}
	for _, m := range moves {
		out.Moves = append(out.Moves, m.String())
	}
	return c.JSON(out)
}

func (s *Server) makeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	move, err := chess.ParseMove(req.Move)
	if err != nil {
		return err
	}
	update, err := s.manager.Move(c.UserContext(), c.Params("id"), playerID(c), move)
	if err != nil {
		return err
	}
	return s.respond(c, update)
}

func (s *Server) resign(c *fiber.Ctx) error {
	update, err := s.manager.Resign(c.UserContext(), c.Params("id"), playerID(c))
	if err != nil {
		return err
	}
	return s.respond(c, update)
}
