// Package errors provides sentinel errors and error types for the chess engine
// and the service layers built on it. It defines common error conditions and
// structured error types that preserve context while allowing error
// inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrNoPiece indicates a move whose source square is empty.
	ErrNoPiece = errors.New("no piece at source square")

	// ErrWrongTurn indicates a move by the side that is not to move.
	ErrWrongTurn = errors.New("not your turn")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidSquare indicates a malformed square name.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidMoveText indicates move text that is not long algebraic.
	ErrInvalidMoveText = errors.New("invalid move text")

	// ErrGameNotFound indicates an unknown game id.
	ErrGameNotFound = errors.New("game not found")

	// ErrSeatTaken indicates a join for a colour that already has a player.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrNotSeated indicates a player acting on a game they do not play in.
	ErrNotSeated = errors.New("player is not seated in this game")

	// ErrGameOver indicates an action on a finished game.
	ErrGameOver = errors.New("game is over")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MoveError wraps a rejected move with the move text and the colour that
// submitted it.
type MoveError struct {
	Err    error  // The underlying error
	Move   string // Long algebraic move text (e.g. "e2e4")
	Colour string // Side the moving piece belongs to, if any
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string
	if e.Move != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.Move))
	}
	if e.Colour != "" {
		parts = append(parts, e.Colour)
	}
	context := strings.Join(parts, ", ")

	switch {
	case e.Err != nil && context != "":
		return fmt.Sprintf("%s: %v", context, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case context != "":
		return context
	}
	return "move error"
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// GameError wraps errors with session context: the game id and the player
// who triggered the failure.
type GameError struct {
	Err    error  // The underlying error
	GameID string // Game identifier
	Player string // Player identifier (if applicable)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	parts := []string{fmt.Sprintf("game %s", e.GameID)}
	if e.Player != "" {
		parts = append(parts, fmt.Sprintf("player %q", e.Player))
	}
	context := strings.Join(parts, ", ")

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error.
func (e *GameError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
// It forwards to the standard library so callers need only one import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
