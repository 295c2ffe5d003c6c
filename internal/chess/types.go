// Package chess provides core chess types and operations.
package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// ParseColour converts "white"/"black" (any case, or "w"/"b") to a Colour.
func ParseColour(s string) (Colour, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return Black, false
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// PieceType represents the kind of a chess piece.
type PieceType int

const (
	NoPieceType PieceType = iota // Empty square, or no promotion
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the string representation of a piece type.
func (p PieceType) String() string {
	names := []string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// Letter returns the single letter representation of a piece type (uppercase).
func (p PieceType) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if p >= 0 && int(p) < len(letters) {
		return letters[p]
	}
	return '?'
}

// PieceTypeFromLetter converts a letter (either case) to a piece type.
// It returns NoPieceType for anything that is not a piece letter.
func PieceTypeFromLetter(c byte) PieceType {
	switch c {
	case 'P', 'p':
		return Pawn
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'R', 'r':
		return Rook
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	}
	return NoPieceType
}

// PromotionTypes lists the piece types a pawn may promote to, in the order
// move generation emits them.
var PromotionTypes = [...]PieceType{Queen, Rook, Bishop, Knight}

// IsPromotionType reports whether p is a legal promotion choice.
func IsPromotionType(p PieceType) bool {
	for _, t := range PromotionTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Piece is an immutable (colour, type) pair. The zero value is NoPiece.
type Piece struct {
	Colour Colour
	Type   PieceType
}

// NoPiece marks an empty square.
var NoPiece = Piece{}

// NewPiece creates a piece of the given colour and type.
func NewPiece(colour Colour, pieceType PieceType) Piece {
	return Piece{Colour: colour, Type: pieceType}
}

// W creates a white piece.
func W(pieceType PieceType) Piece {
	return NewPiece(White, pieceType)
}

// B creates a black piece.
func B(pieceType PieceType) Piece {
	return NewPiece(Black, pieceType)
}

// IsEmpty returns true if the piece represents an empty square.
func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Letter returns the FEN letter: uppercase for White, lowercase for Black.
func (p Piece) Letter() byte {
	if p.IsEmpty() {
		return '.'
	}
	letter := p.Type.Letter()
	if p.Colour == Black {
		letter += 'a' - 'A'
	}
	return letter
}

// String returns e.g. "White Knight", or "Empty".
func (p Piece) String() string {
	if p.IsEmpty() {
		return "Empty"
	}
	return p.Colour.String() + " " + p.Type.String()
}

// Constants for board dimensions and coordinates.
const (
	BoardSize = 8
	FirstRow  = 1
	LastRow   = BoardSize
	FirstCol  = 1
	LastCol   = BoardSize
)

// Position is a 1-indexed (row, column) square. Row 1 is White's back rank,
// column 1 is the a-file. Any pair of ints is a Position; only those within
// [1,8] name a square on the board.
type Position struct {
	Row int
	Col int
}

// NewPosition creates a position. It never fails; see Valid.
func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

// Valid returns true if the position lies on the board.
func (p Position) Valid() bool {
	return p.Row >= FirstRow && p.Row <= LastRow && p.Col >= FirstCol && p.Col <= LastCol
}

// Offset returns the position shifted by the given row and column deltas.
func (p Position) Offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// String returns the square name (e.g. "e4"), or "(row,col)" off the board.
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return string([]byte{byte('a' + p.Col - 1), byte('0' + p.Row)})
}

// ParsePosition converts a square name such as "e4" to a Position.
func ParsePosition(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("%q: %w", s, errors.ErrInvalidSquare)
	}
	return Position{Row: int(s[1] - '0'), Col: int(s[0]-'a') + 1}, nil
}

// MustParsePosition is like ParsePosition but panics on error.
// Intended for tests and package-level fixtures.
func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Move is an immutable (from, to, promotion) triple. Promotion is
// NoPieceType for non-promoting moves. Moves compare with ==.
type Move struct {
	From      Position
	To        Position
	Promotion PieceType
}

// NewMove creates a non-promoting move.
func NewMove(from, to Position) Move {
	return Move{From: from, To: to}
}

// NewPromotionMove creates a move that promotes to the given piece type.
func NewPromotionMove(from, to Position, promotion PieceType) Move {
	return Move{From: from, To: to, Promotion: promotion}
}

// IsPromotion returns true if this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// String returns the long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Letter() + ('a' - 'A'))
	}
	return s
}

// ParseMove converts long algebraic text ("e2e4", "e7e8q", "e7-e8=Q")
// to a Move. Only the shape is checked; legality is the engine's concern.
func ParseMove(s string) (Move, error) {
	text := strings.NewReplacer("-", "", "=", "").Replace(strings.TrimSpace(s))
	if len(text) != 4 && len(text) != 5 {
		return Move{}, fmt.Errorf("%q: %w", s, errors.ErrInvalidMoveText)
	}
	from, err := ParsePosition(text[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%q: %w", s, errors.ErrInvalidMoveText)
	}
	to, err := ParsePosition(text[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%q: %w", s, errors.ErrInvalidMoveText)
	}
	move := NewMove(from, to)
	if len(text) == 5 {
		promotion := PieceTypeFromLetter(text[4])
		if !IsPromotionType(promotion) {
			return Move{}, fmt.Errorf("%q: bad promotion piece: %w", s, errors.ErrInvalidMoveText)
		}
		move.Promotion = promotion
	}
	return move, nil
}

// MustParseMove is like ParseMove but panics on error.
func MustParseMove(s string) Move {
	m, err := ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}
