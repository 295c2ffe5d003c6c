package testutil

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// Sq parses a square name, panicking on bad input.
func Sq(name string) chess.Position {
	return chess.MustParsePosition(name)
}

// MoveStrings returns the long algebraic text of moves, sorted, so move sets
// can be compared independently of generation order.
func MoveStrings(moves []chess.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

// AssertMoveSet fails if moves and want ("e2e4", "e7e8q", ...) differ as sets.
func AssertMoveSet(t *testing.T, moves []chess.Move, want ...string) {
	t.Helper()
	wantSorted := append([]string{}, want...)
	sort.Strings(wantSorted)
	if diff := cmp.Diff(wantSorted, MoveStrings(moves)); diff != "" {
		t.Errorf("move set mismatch (-want +got):\n%s", diff)
	}
}

// BoardWith builds a board from square/piece pairs, e.g.
// BoardWith(map[string]chess.Piece{"e1": chess.W(chess.King)}).
func BoardWith(pieces map[string]chess.Piece) *chess.Board {
	b := chess.NewBoard()
	for square, piece := range pieces {
		b.Place(Sq(square), piece)
	}
	return b
}
