package engine

import "github.com/lgbarn/chess-engine-go/internal/chess"

// IsInCheck returns true if the given colour's king is attacked on board.
// A side without a king on the board is never in check.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	king, found := findKing(board, colour)
	if !found {
		return false // No king found
	}
	return isSquareAttacked(board, king, colour.Opposite())
}

// findKing finds the king of the given colour on the board.
func findKing(board *chess.Board, colour chess.Colour) (chess.Position, bool) {
	king := chess.NewPiece(colour, chess.King)
	for row := chess.FirstRow; row <= chess.LastRow; row++ {
		for col := chess.FirstCol; col <= chess.LastCol; col++ {
			pos := chess.NewPosition(row, col)
			if board.Get(pos) == king {
				return pos, true
			}
		}
	}
	return chess.Position{}, false
}

// isSquareAttacked returns true if any pseudo-legal move of a byColour piece
// ends on target.
func isSquareAttacked(board *chess.Board, target chess.Position, byColour chess.Colour) bool {
	for row := chess.FirstRow; row <= chess.LastRow; row++ {
		for col := chess.FirstCol; col <= chess.LastCol; col++ {
			from := chess.NewPosition(row, col)
			piece, ok := board.PieceAt(from)
			if !ok || piece.Colour != byColour {
				continue
			}
			for _, move := range PieceMoves(board, from) {
				if move.To == target {
					return true
				}
			}
		}
	}
	return false
}
