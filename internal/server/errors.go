package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, errors.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errors.ErrNoPiece),
		errors.Is(err, errors.ErrInvalidSquare),
		errors.Is(err, errors.ErrInvalidMoveText):
		return fiber.StatusBadRequest
	case errors.Is(err, errors.ErrWrongTurn),
		errors.Is(err, errors.ErrSeatTaken),
		errors.Is(err, errors.ErrNotSeated),
		errors.Is(err, errors.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, errors.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// errorHandler is the fiber.Config ErrorHandler: every handler error becomes
// a JSON body {"error": "..."} with the mapped status.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(ErrorPayload{Error: err.Error()})
}
