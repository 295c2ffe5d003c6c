package engine

import (
	"testing"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	chesserrors "github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/testutil"
)

func TestNewBoardFromFEN(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		wantTurn chess.Colour
		checkFn  func(*chess.Board) bool
	}{
		{
			name:     "initial position",
			fen:      InitialFEN,
			wantTurn: chess.White,
			checkFn: func(b *chess.Board) bool {
				return b.Equal(chess.NewInitialBoard())
			},
		},
		{
			name:     "after 1.e4 with castling and en passant fields",
			fen:      "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			wantTurn: chess.Black,
			checkFn: func(b *chess.Board) bool {
				return b.Get(testutil.Sq("e4")) == chess.W(chess.Pawn) &&
					b.IsEmpty(testutil.Sq("e2")) &&
					b.Count() == 32
			},
		},
		{
			name:     "placement only",
			fen:      "8/8/8/8/8/8/8/K6k",
			wantTurn: chess.White,
			checkFn: func(b *chess.Board) bool {
				return b.Get(testutil.Sq("a1")) == chess.W(chess.King) &&
					b.Get(testutil.Sq("h1")) == chess.B(chess.King) &&
					b.Count() == 2
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			board, turn, err := NewBoardFromFEN(tt.fen)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, turn, tt.wantTurn)
			if !tt.checkFn(board) {
				t.Errorf("board check failed for %q:\n%s", tt.fen, board)
			}
		})
	}
}

func TestNewBoardFromFEN_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"bad piece letter", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"},
		{"long rank", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"},
		{"missing ranks", "rnbqkbnr/pppppppp/8/8 w - - 0 1"},
		{"too many ranks", "8/8/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad side to move", "8/8/8/8/8/8/8/K6k x - - 0 1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := NewBoardFromFEN(tt.fen)
			testutil.AssertErrorIs(t, err, chesserrors.ErrInvalidFEN)
		})
	}
}

func TestToFEN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
	}{
		{"initial", InitialFEN, InitialFEN},
		{"castling rights dropped", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1"},
		{"sparse", "7k/8/8/3q4/8/8/8/K7 b - - 0 1", "7k/8/8/3q4/8/8/8/K7 b - - 0 1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			board, turn, err := NewBoardFromFEN(tt.fen)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, ToFEN(board, turn), tt.want)
		})
	}
}

func TestMustBoardFromFEN_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBoardFromFEN did not panic on invalid input")
		}
	}()
	MustBoardFromFEN("not a fen")
}
