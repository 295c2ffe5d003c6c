// Package engine provides chess move generation, legality checking and the
// turn-based Game built on them.
package engine

import (
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// Status summarises a side's situation on the current board.
type Status int

const (
	InProgress Status = iota
	Check
	Checkmate
	Stalemate
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "in progress"
	}
}

// IsTerminal returns true for checkmate and stalemate.
func (s Status) IsTerminal() bool {
	return s == Checkmate || s == Stalemate
}

// Game owns one board, the side to move and the last applied move.
//
// A Game is not safe for concurrent use. Callers must serialise MakeMove
// (and the Set/Restore helpers) against every other call on the same Game.
type Game struct {
	board    *chess.Board
	turn     chess.Colour
	lastMove *chess.Move
}

// NewGame creates a game in the standard starting position with White to move.
func NewGame() *Game {
	return &Game{
		board: chess.NewInitialBoard(),
		turn:  chess.White,
	}
}

// NewGameFromBoard creates a game with White to move on a copy of board.
// A nil board gives an empty board.
func NewGameFromBoard(board *chess.Board) *Game {
	g := &Game{turn: chess.White}
	g.SetBoard(board)
	return g
}

// NewGameFromFEN creates a game from the placement and side-to-move fields
// of a FEN string.
func NewGameFromFEN(fen string) (*Game, error) {
	board, turn, err := NewBoardFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{board: board, turn: turn}, nil
}

// Restore replaces the whole game state, copying board. It is meant for
// reloading a persisted game; last may be nil.
func (g *Game) Restore(board *chess.Board, turn chess.Colour, last *chess.Move) {
	g.SetBoard(board)
	g.turn = turn
	g.lastMove = nil
	if last != nil {
		m := *last
		g.lastMove = &m
	}
}

// Board returns a copy of the current board.
func (g *Game) Board() *chess.Board {
	return g.board.Copy()
}

// SetBoard replaces the board with a copy of board.
func (g *Game) SetBoard(board *chess.Board) {
	if board == nil {
		g.board = chess.NewBoard()
		return
	}
	g.board = board.Copy()
}

// TeamTurn returns the colour to move.
func (g *Game) TeamTurn() chess.Colour {
	return g.turn
}

// SetTeamTurn sets the colour to move.
func (g *Game) SetTeamTurn(colour chess.Colour) {
	g.turn = colour
}

// LastMove returns the most recently applied move, if any.
func (g *Game) LastMove() (chess.Move, bool) {
	if g.lastMove == nil {
		return chess.Move{}, false
	}
	return *g.lastMove, true
}

// FEN returns the current position in FEN.
func (g *Game) FEN() string {
	return ToFEN(g.board, g.turn)
}

// ValidMoves returns the legal moves of the piece on pos. The boolean is
// false when pos is empty; an immobile piece gives an empty slice and true.
// The piece's colour need not be the side to move.
func (g *Game) ValidMoves(pos chess.Position) ([]chess.Move, bool) {
	return LegalMoves(g.board, pos)
}

// AllValidMoves returns every legal move for colour, scanning rank 1 to 8.
func (g *Game) AllValidMoves(colour chess.Colour) []chess.Move {
	var all []chess.Move
	g.board.Each(func(pos chess.Position, piece chess.Piece) {
		if piece.Colour != colour {
			return
		}
		moves, _ := LegalMoves(g.board, pos)
		all = append(all, moves...)
	})
	return all
}

// MakeMove validates and applies move. On failure it returns a *errors.MoveError
// wrapping errors.ErrNoPiece, errors.ErrWrongTurn or errors.ErrIllegalMove,
// and the game is left untouched. On success the side to move flips.
func (g *Game) MakeMove(move chess.Move) error {
	piece, ok := g.board.PieceAt(move.From)
	if !ok {
		return &errors.MoveError{Err: errors.ErrNoPiece, Move: move.String()}
	}
	if piece.Colour != g.turn {
		return &errors.MoveError{Err: errors.ErrWrongTurn, Move: move.String(), Colour: piece.Colour.String()}
	}
	if !g.isValid(move) {
		return &errors.MoveError{Err: errors.ErrIllegalMove, Move: move.String(), Colour: piece.Colour.String()}
	}

	applyToBoard(g.board, move, piece)
	g.lastMove = &move
	g.turn = g.turn.Opposite()
	return nil
}

// isValid reports whether move is among the legal moves from its source square.
func (g *Game) isValid(move chess.Move) bool {
	moves, _ := g.ValidMoves(move.From)
	for _, m := range moves {
		if m == move {
			return true
		}
	}
	return false
}

// IsInCheck returns true if colour's king is attacked.
func (g *Game) IsInCheck(colour chess.Colour) bool {
	return IsInCheck(g.board, colour)
}

// HasLegalMoves returns true if colour has at least one legal move.
func (g *Game) HasLegalMoves(colour chess.Colour) bool {
	return HasLegalMoves(g.board, colour)
}

// IsInCheckmate returns true if colour is in check with no legal moves.
func (g *Game) IsInCheckmate(colour chess.Colour) bool {
	return g.IsInCheck(colour) && !g.HasLegalMoves(colour)
}

// IsInStalemate returns true if colour is not in check and has no legal moves.
// It does not look at whose turn it is.
func (g *Game) IsInStalemate(colour chess.Colour) bool {
	return !g.IsInCheck(colour) && !g.HasLegalMoves(colour)
}

// Status reports check, checkmate, stalemate or in progress for colour.
func (g *Game) Status(colour chess.Colour) Status {
	inCheck := g.IsInCheck(colour)
	hasMoves := g.HasLegalMoves(colour)
	switch {
	case inCheck && !hasMoves:
		return Checkmate
	case inCheck:
		return Check
	case !hasMoves:
		return Stalemate
	}
	return InProgress
}
