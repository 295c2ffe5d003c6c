package engine

import "github.com/lgbarn/chess-engine-go/internal/chess"

// Direction tables as (row, col) deltas.
var (
	knightOffsets  = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets    = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs   = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs   = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs      = append(append([][2]int{}, diagonalDirs...), straightDirs...)
	pawnCaptureCol = [2]int{-1, 1}
)

// PieceMoves returns the pseudo-legal moves of the piece on pos: every move
// its movement pattern and board occupancy allow, without regard to the
// safety of its own king. It returns nil for an empty or off-board square.
func PieceMoves(board *chess.Board, pos chess.Position) []chess.Move {
	piece, ok := board.PieceAt(pos)
	if !ok {
		return nil
	}

	switch piece.Type {
	case chess.Pawn:
		return pawnMoves(board, pos, piece.Colour)
	case chess.Knight:
		return stepMoves(board, pos, piece.Colour, knightOffsets)
	case chess.King:
		return stepMoves(board, pos, piece.Colour, kingOffsets)
	case chess.Bishop:
		return slidingMoves(board, pos, piece.Colour, diagonalDirs)
	case chess.Rook:
		return slidingMoves(board, pos, piece.Colour, straightDirs)
	case chess.Queen:
		return slidingMoves(board, pos, piece.Colour, queenDirs)
	}
	return nil
}

// canLandOn reports whether a piece of the given colour may finish on target:
// the square is on the board and is empty or holds an enemy piece.
func canLandOn(board *chess.Board, target chess.Position, colour chess.Colour) bool {
	if !target.Valid() {
		return false
	}
	occupant, occupied := board.PieceAt(target)
	return !occupied || occupant.Colour != colour
}

// stepMoves generates single-step moves for knights and kings.
func stepMoves(board *chess.Board, from chess.Position, colour chess.Colour, offsets [][2]int) []chess.Move {
	moves := make([]chess.Move, 0, len(offsets))
	for _, offset := range offsets {
		to := from.Offset(offset[0], offset[1])
		if canLandOn(board, to, colour) {
			moves = append(moves, chess.NewMove(from, to))
		}
	}
	return moves
}

// slidingMoves generates moves for bishops, rooks and queens. Each ray stops
// at the edge, before a friendly piece, or on an enemy piece (a capture).
func slidingMoves(board *chess.Board, from chess.Position, colour chess.Colour, dirs [][2]int) []chess.Move {
	var moves []chess.Move
	for _, dir := range dirs {
		to := from.Offset(dir[0], dir[1])
		for to.Valid() {
			occupant, occupied := board.PieceAt(to)
			if occupied {
				if occupant.Colour != colour {
					moves = append(moves, chess.NewMove(from, to))
				}
				break // Blocked
			}
			moves = append(moves, chess.NewMove(from, to))
			to = to.Offset(dir[0], dir[1])
		}
	}
	return moves
}

// pawnStartRow returns the row a pawn of the given colour starts on.
func pawnStartRow(colour chess.Colour) int {
	if colour == chess.White {
		return 2
	}
	return 7
}

// promotionRow returns the row on which a pawn of the given colour promotes.
func promotionRow(colour chess.Colour) int {
	if colour == chess.White {
		return chess.LastRow
	}
	return chess.FirstRow
}

// pawnMoves generates pushes, the double push from the start row, and
// diagonal captures. Moves onto the last row expand into one move per
// promotion piece.
func pawnMoves(board *chess.Board, from chess.Position, colour chess.Colour) []chess.Move {
	var moves []chess.Move
	dir := chess.ColourOffset(colour)

	// Forward move
	one := from.Offset(dir, 0)
	if one.Valid() && board.IsEmpty(one) {
		moves = appendPawnMove(moves, from, one, colour)

		// Double push from starting row
		if from.Row == pawnStartRow(colour) {
			two := from.Offset(2*dir, 0)
			if two.Valid() && board.IsEmpty(two) {
				moves = appendPawnMove(moves, from, two, colour)
			}
		}
	}

	// Captures
	for _, dc := range pawnCaptureCol {
		to := from.Offset(dir, dc)
		target, occupied := board.PieceAt(to)
		if occupied && target.Colour != colour {
			moves = appendPawnMove(moves, from, to, colour)
		}
	}
	return moves
}

// appendPawnMove appends from-to, expanded into the four promotion choices
// when to lies on the promotion row.
func appendPawnMove(moves []chess.Move, from, to chess.Position, colour chess.Colour) []chess.Move {
	if to.Row != promotionRow(colour) {
		return append(moves, chess.NewMove(from, to))
	}
	for _, promotion := range chess.PromotionTypes {
		moves = append(moves, chess.NewPromotionMove(from, to, promotion))
	}
	return moves
}
