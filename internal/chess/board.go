package chess

import "strings"

// Board is an 8x8 grid of squares. It only stores pieces; all rules live in
// the engine package. A Board is a plain value, so copying it (see Copy)
// yields a fully independent board.
type Board struct {
	// squares[row-1][col-1]; NoPiece marks an empty square.
	squares [BoardSize][BoardSize]Piece
}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	return &Board{}
}

// NewInitialBoard creates a board with the standard starting position.
func NewInitialBoard() *Board {
	b := NewBoard()
	b.SetupInitialPosition()
	return b
}

// backRank is the file order of the pieces on ranks 1 and 8.
var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	b.Clear()
	for col := FirstCol; col <= LastCol; col++ {
		b.Place(NewPosition(1, col), W(backRank[col-1]))
		b.Place(NewPosition(2, col), W(Pawn))
		b.Place(NewPosition(7, col), B(Pawn))
		b.Place(NewPosition(8, col), B(backRank[col-1]))
	}
}

// Clear empties every square.
func (b *Board) Clear() {
	b.squares = [BoardSize][BoardSize]Piece{}
}

// Place puts a piece on the given square. Placing NoPiece empties it.
// Off-board positions are ignored.
func (b *Board) Place(pos Position, piece Piece) {
	if !pos.Valid() {
		return
	}
	b.squares[pos.Row-1][pos.Col-1] = piece
}

// Remove empties the given square.
func (b *Board) Remove(pos Position) {
	b.Place(pos, NoPiece)
}

// PieceAt returns the piece on the given square. The boolean is false for
// empty squares and for off-board positions.
func (b *Board) PieceAt(pos Position) (Piece, bool) {
	if !pos.Valid() {
		return NoPiece, false
	}
	p := b.squares[pos.Row-1][pos.Col-1]
	return p, !p.IsEmpty()
}

// Get returns the piece on the given square, or NoPiece.
func (b *Board) Get(pos Position) Piece {
	p, _ := b.PieceAt(pos)
	return p
}

// IsEmpty returns true if the square holds no piece. Off-board positions
// count as empty.
func (b *Board) IsEmpty(pos Position) bool {
	_, ok := b.PieceAt(pos)
	return !ok
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// Equal reports whether both boards hold the same piece on every square.
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.squares == other.squares
}

// Each calls fn for every occupied square, rank 1 to 8, file a to h.
func (b *Board) Each(fn func(pos Position, piece Piece)) {
	for row := FirstRow; row <= LastRow; row++ {
		for col := FirstCol; col <= LastCol; col++ {
			if p := b.squares[row-1][col-1]; !p.IsEmpty() {
				fn(NewPosition(row, col), p)
			}
		}
	}
}

// Count returns the number of occupied squares.
func (b *Board) Count() int {
	n := 0
	b.Each(func(Position, Piece) { n++ })
	return n
}

// String renders the board from rank 8 down to rank 1. Each occupied cell
// shows colour and piece letters ("WK", "BP"), empty cells show ".".
func (b *Board) String() string {
	var sb strings.Builder
	for row := LastRow; row >= FirstRow; row-- {
		sb.WriteByte(byte('0' + row))
		sb.WriteString(" |")
		for col := FirstCol; col <= LastCol; col++ {
			piece := b.squares[row-1][col-1]
			if piece.IsEmpty() {
				sb.WriteString(" . ")
			} else {
				colour := byte('B')
				if piece.Colour == White {
					colour = 'W'
				}
				sb.WriteByte(' ')
				sb.WriteByte(colour)
				sb.WriteByte(piece.Type.Letter())
			}
			sb.WriteString(" |")
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for col := byte('a'); col <= 'h'; col++ {
		sb.WriteString("  ")
		sb.WriteByte(col)
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}
