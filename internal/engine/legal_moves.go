package engine

import "github.com/lgbarn/chess-engine-go/internal/chess"

// LegalMoves returns the moves of the piece on pos that do not leave its own
// king attacked. The boolean is false when pos holds no piece; a piece with no
// legal moves yields an empty, non-nil slice and true.
func LegalMoves(board *chess.Board, pos chess.Position) ([]chess.Move, bool) {
	piece, ok := board.PieceAt(pos)
	if !ok {
		return nil, false
	}

	candidates := PieceMoves(board, pos)
	legal := make([]chess.Move, 0, len(candidates))
	for _, move := range candidates {
		if tryMove(board, move, piece) {
			legal = append(legal, move)
		}
	}
	return legal, true
}

// HasLegalMoves returns true if the given colour has at least one legal move.
func HasLegalMoves(board *chess.Board, colour chess.Colour) bool {
	for row := chess.FirstRow; row <= chess.LastRow; row++ {
		for col := chess.FirstCol; col <= chess.LastCol; col++ {
			pos := chess.NewPosition(row, col)
			piece, ok := board.PieceAt(pos)
			if !ok || piece.Colour != colour {
				continue
			}
			for _, move := range PieceMoves(board, pos) {
				if tryMove(board, move, piece) {
					return true
				}
			}
		}
	}
	return false
}

// tryMove makes a move on a copied board and checks if it leaves the king in check.
func tryMove(board *chess.Board, move chess.Move, piece chess.Piece) bool {
	testBoard := board.Copy()
	applyToBoard(testBoard, move, piece)
	return !IsInCheck(testBoard, piece.Colour)
}

// applyToBoard moves piece along move, replacing it with its promoted form
// when the move names one. No other bookkeeping is done.
func applyToBoard(board *chess.Board, move chess.Move, piece chess.Piece) {
	if move.IsPromotion() {
		piece = chess.NewPiece(piece.Colour, move.Promotion)
	}
	board.Remove(move.From)
	board.Place(move.To, piece)
}
