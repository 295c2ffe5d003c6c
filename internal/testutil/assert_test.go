package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// These tests verify the assertion helpers work correctly.
// Since we can't mock *testing.T, we test success cases directly
// and test the formatMessage helper which is internally testable.

func TestAssertEqual_Success(t *testing.T) {
	AssertEqual(t, "hello", "hello")
	AssertEqual(t, 42, 42)
	AssertEqual(t, []int{1, 2, 3}, []int{1, 2, 3})
	AssertEqual(t, chess.W(chess.King), chess.W(chess.King), "piece")
}

func TestAssertNoError_Success(t *testing.T) {
	AssertNoError(t, nil)
	AssertNoError(t, nil, "operation should succeed")
}

func TestAssertErrorIs_Success(t *testing.T) {
	base := errors.New("base")
	AssertErrorIs(t, base, base)
	AssertErrorIs(t, fmt.Errorf("wrapped: %w", base), base, "wrapped %s", "error")
}

func TestAssertTrueFalse_Success(t *testing.T) {
	AssertTrue(t, 1 == 1)
	AssertFalse(t, 1 == 2)
	AssertContains(t, "hello world", "world")
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		args []interface{}
		want string
	}{
		{"no args", nil, ""},
		{"empty args", []interface{}{}, ""},
		{"single string", []interface{}{"hello"}, "hello"},
		{"single int", []interface{}{42}, "42"},
		{"format string", []interface{}{"hello %s", "world"}, "hello world"},
		{"format multiple", []interface{}{"%s %d %s", "test", 42, "end"}, "test 42 end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMessage(tt.args...)
			if got != tt.want {
				t.Errorf("formatMessage(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestMoveStrings_Sorted(t *testing.T) {
	moves := []chess.Move{
		chess.MustParseMove("g1f3"),
		chess.MustParseMove("b1c3"),
		chess.MustParseMove("e7e8q"),
	}
	AssertEqual(t, MoveStrings(moves), []string{"b1c3", "e7e8q", "g1f3"})
	AssertMoveSet(t, moves, "e7e8q", "g1f3", "b1c3")
}

func TestBoardWith(t *testing.T) {
	b := BoardWith(map[string]chess.Piece{
		"e1": chess.W(chess.King),
		"e8": chess.B(chess.King),
	})
	AssertEqual(t, b.Count(), 2)
	AssertEqual(t, b.Get(Sq("e8")), chess.B(chess.King))
}
