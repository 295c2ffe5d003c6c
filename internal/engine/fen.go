package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
// The castling field is dropped because the engine does not castle.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// NewBoardFromFEN creates a board from a FEN string and returns the side to
// move (White when the field is absent). Castling, en passant and clock
// fields are accepted but ignored.
func NewBoardFromFEN(fen string) (*chess.Board, chess.Colour, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, chess.White, fmt.Errorf("empty FEN string: %w", errors.ErrInvalidFEN)
	}

	board := chess.NewBoard()
	if err := parsePiecePositions(board, parts[0]); err != nil {
		return nil, chess.White, err
	}

	turn, err := parseSideToMove(parts)
	if err != nil {
		return nil, chess.White, err
	}
	return board, turn, nil
}

// MustBoardFromFEN is like NewBoardFromFEN but panics on error and drops the
// side to move. Intended for tests and fixtures.
func MustBoardFromFEN(fen string) *chess.Board {
	board, _, err := NewBoardFromFEN(fen)
	if err != nil {
		panic(err)
	}
	return board
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(board *chess.Board, positions string) error {
	row := chess.LastRow
	col := chess.FirstCol

	for _, c := range positions {
		switch {
		case c == '/':
			if col != chess.LastCol+1 {
				return fmt.Errorf("rank %d has %d files: %w", row, col-1, errors.ErrInvalidFEN)
			}
			row--
			col = chess.FirstCol
		case c >= '1' && c <= '8':
			col += int(c - '0')
		default:
			pieceType := chess.PieceTypeFromLetter(byte(c))
			if pieceType == chess.NoPieceType {
				return fmt.Errorf("invalid piece character: %c: %w", c, errors.ErrInvalidFEN)
			}
			pos := chess.NewPosition(row, col)
			if !pos.Valid() {
				return fmt.Errorf("position out of bounds: %w", errors.ErrInvalidFEN)
			}

			colour := chess.White
			if unicode.IsLower(c) {
				colour = chess.Black
			}
			board.Place(pos, chess.NewPiece(colour, pieceType))
			col++
		}
		if col > chess.LastCol+1 {
			return fmt.Errorf("rank %d overflows: %w", row, errors.ErrInvalidFEN)
		}
	}

	if row != chess.FirstRow || col != chess.LastCol+1 {
		return fmt.Errorf("incomplete piece placement: %w", errors.ErrInvalidFEN)
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(parts []string) (chess.Colour, error) {
	if len(parts) < 2 {
		return chess.White, nil
	}
	switch parts[1] {
	case "w":
		return chess.White, nil
	case "b":
		return chess.Black, nil
	default:
		return chess.White, fmt.Errorf("invalid side to move: %s: %w", parts[1], errors.ErrInvalidFEN)
	}
}

// ToFEN converts a board and side to move to a FEN string.
func ToFEN(board *chess.Board, turn chess.Colour) string {
	var sb strings.Builder

	writePiecePositions(&sb, board)
	sb.WriteByte(' ')
	if turn == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteString(" - - 0 1")

	return sb.String()
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for row := chess.LastRow; row >= chess.FirstRow; row-- {
		emptyCount := 0
		for col := chess.FirstCol; col <= chess.LastCol; col++ {
			piece, ok := board.PieceAt(chess.NewPosition(row, col))
			if !ok {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if row > chess.FirstRow {
			sb.WriteByte('/')
		}
	}
}
