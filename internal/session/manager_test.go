package session

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/config"
	chesserrors "github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/store"
	"github.com/lgbarn/chess-engine-go/internal/testutil"
)

func newTestManager(t *testing.T) (*Manager, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewManager(st, log.New(&bytes.Buffer{}, "", 0), config.Verbose), st
}

// seatedGame creates a game with alice as White and bob as Black.
func seatedGame(t *testing.T, m *Manager) string {
	t.Helper()
	ctx := context.Background()
	snap, err := m.Create(ctx, "test")
	testutil.AssertNoError(t, err)
	_, err = m.Join(ctx, snap.ID, "alice", chess.White)
	testutil.AssertNoError(t, err)
	_, err = m.Join(ctx, snap.ID, "bob", chess.Black)
	testutil.AssertNoError(t, err)
	return snap.ID
}

func play(t *testing.T, m *Manager, id string, moves ...string) Update {
	t.Helper()
	var update Update
	players := map[string]string{"white": "alice", "black": "bob"}
	for _, text := range moves {
		snap, err := m.Get(context.Background(), id)
		testutil.AssertNoError(t, err)
		update, err = m.Move(context.Background(), id, players[snap.Turn], chess.MustParseMove(text))
		if err != nil {
			t.Fatalf("Move(%s): %v", text, err)
		}
	}
	return update
}

func TestManager_Create(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	snap, err := m.Create(ctx, "friendly")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, snap.Name, "friendly")
	testutil.AssertEqual(t, snap.Turn, "white")
	testutil.AssertEqual(t, snap.Status, "in progress")
	testutil.AssertEqual(t, len(snap.Pieces), 32)
	testutil.AssertEqual(t, snap.Pieces["e1"], "K")
	testutil.AssertEqual(t, snap.Pieces["d8"], "q")
	testutil.AssertFalse(t, snap.Over)

	rec, err := st.Load(ctx, snap.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, rec.FEN, snap.FEN)
}

func TestManager_UnknownGame(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"} {
		_, err := m.Get(ctx, id)
		testutil.AssertErrorIs(t, err, chesserrors.ErrGameNotFound, id)

		var gameErr *chesserrors.GameError
		testutil.AssertTrue(t, chesserrors.As(err, &gameErr), "want *GameError")
		testutil.AssertEqual(t, gameErr.GameID, id)
	}
	testutil.AssertErrorIs(t, m.Delete(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"), chesserrors.ErrGameNotFound)
}

func TestManager_Join(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	snap, err := m.Create(ctx, "")
	testutil.AssertNoError(t, err)

	update, err := m.Join(ctx, snap.ID, "alice", chess.White)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, update.Snapshot.White, "alice")
	testutil.AssertEqual(t, update.Notifications, []string{"alice joined as white"})

	// Rejoining is a no-op.
	update, err = m.Join(ctx, snap.ID, "alice", chess.White)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(update.Notifications), 0)

	_, err = m.Join(ctx, snap.ID, "carol", chess.White)
	testutil.AssertErrorIs(t, err, chesserrors.ErrSeatTaken)

	update, err = m.JoinAny(ctx, snap.ID, "bob")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, update.Snapshot.Black, "bob")

	_, err = m.JoinAny(ctx, snap.ID, "carol")
	testutil.AssertErrorIs(t, err, chesserrors.ErrSeatTaken)

	update, err = m.JoinAny(ctx, snap.ID, "alice")
	testutil.AssertNoError(t, err, "seated player keeps seat")
	testutil.AssertEqual(t, update.Snapshot.White, "alice")

	_, err = m.Join(ctx, snap.ID, "", chess.White)
	testutil.AssertErrorIs(t, err, chesserrors.ErrNotSeated)
}

func TestManager_MoveRules(t *testing.T) {
	tests := []struct {
		name    string
		player  string
		move    string
		wantErr error
	}{
		{"observer", "carol", "e2e4", chesserrors.ErrNotSeated},
		{"black on white's turn", "bob", "e7e5", chesserrors.ErrWrongTurn},
		{"white moves black piece", "alice", "e7e5", chesserrors.ErrWrongTurn},
		{"empty square", "alice", "e4e5", chesserrors.ErrNoPiece},
		{"illegal", "alice", "e2e5", chesserrors.ErrIllegalMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			id := seatedGame(t, m)
			before, err := m.Get(context.Background(), id)
			testutil.AssertNoError(t, err)

			_, err = m.Move(context.Background(), id, tt.player, chess.MustParseMove(tt.move))
			testutil.AssertErrorIs(t, err, tt.wantErr)

			after, err := m.Get(context.Background(), id)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, after, before, "state must be unchanged")
		})
	}
}

func TestManager_Move(t *testing.T) {
	m, st := newTestManager(t)
	id := seatedGame(t, m)

	update := play(t, m, id, "e2e4")
	testutil.AssertEqual(t, update.Notifications, []string{"alice made move: e2e4"})
	testutil.AssertEqual(t, update.Snapshot.Turn, "black")
	testutil.AssertEqual(t, update.Snapshot.LastMove, "e2e4")
	testutil.AssertEqual(t, update.Snapshot.Pieces["e4"], "P")

	rec, err := st.Load(context.Background(), id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, rec.LastMove, "e2e4")
	testutil.AssertEqual(t, rec.FEN, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1")
}

func TestManager_CheckAndCheckmate(t *testing.T) {
	m, _ := newTestManager(t)
	id := seatedGame(t, m)

	update := play(t, m, id, "e2e4", "f7f6", "d2d4", "g7g5")
	testutil.AssertEqual(t, update.Snapshot.Status, "in progress")

	update = play(t, m, id, "d1h5")
	testutil.AssertEqual(t, update.Notifications, []string{
		"alice made move: d1h5",
		"bob is in checkmate",
	})
	testutil.AssertTrue(t, update.Snapshot.Over)
	testutil.AssertEqual(t, update.Snapshot.Winner, "white")
	testutil.AssertEqual(t, update.Snapshot.Status, "checkmate")

	_, err := m.Move(context.Background(), id, "bob", chess.MustParseMove("e8f7"))
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameOver)
	_, err = m.Resign(context.Background(), id, "bob")
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameOver)
}

func TestManager_CheckNotification(t *testing.T) {
	m, _ := newTestManager(t)
	id := seatedGame(t, m)

	update := play(t, m, id, "e2e4", "f7f5", "d1h5")
	testutil.AssertEqual(t, update.Notifications[1], "bob is in check")
	testutil.AssertEqual(t, update.Snapshot.Status, "check")
	testutil.AssertFalse(t, update.Snapshot.Over)
}

func TestManager_Resign(t *testing.T) {
	m, _ := newTestManager(t)
	id := seatedGame(t, m)
	ctx := context.Background()

	_, err := m.Resign(ctx, id, "carol")
	testutil.AssertErrorIs(t, err, chesserrors.ErrNotSeated)

	// Resigning is allowed out of turn.
	update, err := m.Resign(ctx, id, "bob")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, update.Notifications, []string{"bob resigned. Game is over."})
	testutil.AssertEqual(t, update.Snapshot.Resigned, "black")
	testutil.AssertEqual(t, update.Snapshot.Winner, "white")
	testutil.AssertTrue(t, update.Snapshot.Over)

	_, err = m.Move(ctx, id, "alice", chess.MustParseMove("e2e4"))
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameOver)
	_, err = m.Join(ctx, id, "carol", chess.White)
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameOver)
}

func TestManager_Leave(t *testing.T) {
	m, _ := newTestManager(t)
	id := seatedGame(t, m)
	ctx := context.Background()

	update, err := m.Leave(ctx, id, "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, update.Snapshot.White, "")
	testutil.AssertEqual(t, update.Snapshot.Black, "bob")
	testutil.AssertEqual(t, update.Notifications, []string{"alice left the game"})

	update, err = m.Leave(ctx, id, "carol")
	testutil.AssertNoError(t, err, "observers may leave")
	testutil.AssertEqual(t, update.Snapshot.Black, "bob")

	_, err = m.Join(ctx, id, "carol", chess.White)
	testutil.AssertNoError(t, err, "freed seat can be taken")
}

func TestManager_ValidMoves(t *testing.T) {
	m, _ := newTestManager(t)
	id := seatedGame(t, m)
	ctx := context.Background()

	moves, err := m.ValidMoves(ctx, id, "g1")
	testutil.AssertNoError(t, err)
	testutil.AssertMoveSet(t, moves, "g1f3", "g1h3")

	moves, err = m.ValidMoves(ctx, id, "a1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(moves), 0)

	_, err = m.ValidMoves(ctx, id, "e4")
	testutil.AssertErrorIs(t, err, chesserrors.ErrNoPiece)

	_, err = m.ValidMoves(ctx, id, "z9")
	testutil.AssertErrorIs(t, err, chesserrors.ErrInvalidSquare)
}

func TestManager_LoadsFromStore(t *testing.T) {
	m, st := newTestManager(t)
	id := seatedGame(t, m)
	play(t, m, id, "e2e4", "e7e5")
	_, err := m.Resign(context.Background(), id, "alice")
	testutil.AssertNoError(t, err)
	want, err := m.Get(context.Background(), id)
	testutil.AssertNoError(t, err)

	restarted := NewManager(st, nil, config.Quiet)
	got, err := restarted.Get(context.Background(), id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, want)

	list, err := restarted.List(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(list), 1)
}

func TestManager_DeleteAndClear(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	first := seatedGame(t, m)
	seatedGame(t, m)

	testutil.AssertNoError(t, m.Delete(ctx, first))
	_, err := m.Get(ctx, first)
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameNotFound)

	testutil.AssertNoError(t, m.Clear(ctx))
	list, err := m.List(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(list), 0)
}

// failingStore accepts the first saves, then rejects every write.
type failingStore struct {
	*store.MemoryStore
	allowed int
}

func (f *failingStore) Save(ctx context.Context, rec store.Record) error {
	if f.allowed == 0 {
		return fmt.Errorf("disk full")
	}
	f.allowed--
	return f.MemoryStore.Save(ctx, rec)
}

func TestManager_SaveFailureRollsBack(t *testing.T) {
	st := &failingStore{MemoryStore: store.NewMemoryStore(), allowed: 3}
	var logs bytes.Buffer
	m := NewManager(st, log.New(&logs, "", 0), config.Verbose)
	id := seatedGame(t, m)
	ctx := context.Background()
	before, err := m.Get(ctx, id)
	testutil.AssertNoError(t, err)

	_, err = m.Move(ctx, id, "alice", chess.MustParseMove("e2e4"))
	testutil.AssertContains(t, fmt.Sprint(err), "disk full")
	_, err = m.Resign(ctx, id, "alice")
	testutil.AssertContains(t, fmt.Sprint(err), "disk full")
	_, err = m.Leave(ctx, id, "bob")
	testutil.AssertContains(t, fmt.Sprint(err), "disk full")

	after, err := m.Get(ctx, id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, after, before)
	testutil.AssertTrue(t, strings.Contains(logs.String(), "created"), "create is logged")
}

func TestManager_DeleteWaitsForInFlightWrite(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()
	id := seatedGame(t, m)
	s, err := m.lookup(ctx, id)
	testutil.AssertNoError(t, err)

	// Hold the session as a Move or Join would while it persists.
	s.mu.Lock()
	done := make(chan error, 1)
	go func() { done <- m.Delete(ctx, id) }()

	select {
	case err := <-done:
		t.Fatalf("Delete returned %v while the session was held", err)
	case <-time.After(20 * time.Millisecond):
	}
	testutil.AssertNoError(t, m.persist(ctx, s))
	s.mu.Unlock()

	testutil.AssertNoError(t, <-done)
	_, err = st.Load(ctx, id)
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameNotFound)

	// A writer that looked the session up before Delete cannot bring it back.
	s.mu.Lock()
	err = m.persist(ctx, s)
	s.mu.Unlock()
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameNotFound)
	_, err = st.Load(ctx, id)
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameNotFound)
	_, err = m.Get(ctx, id)
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameNotFound)
}

func TestManager_ClearStopsStaleWriters(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()
	id := seatedGame(t, m)
	s, err := m.lookup(ctx, id)
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, m.Clear(ctx))

	s.mu.Lock()
	s.white = ""
	_, err = m.join(ctx, s, id, "carol", chess.White)
	white := s.white
	s.mu.Unlock()
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameNotFound)
	testutil.AssertEqual(t, white, "", "failed join rolls back the seat")

	records, err := st.List(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(records), 0)
}

// vanishingStore lists one record that Load can no longer find, as when a
// game is deleted between the two calls.
type vanishingStore struct {
	*store.MemoryStore
}

func (v vanishingStore) List(ctx context.Context) ([]store.Record, error) {
	records, err := v.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return append(records, store.Record{ID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"}), nil
}

func TestManager_ListSkipsVanishedGames(t *testing.T) {
	m := NewManager(vanishingStore{store.NewMemoryStore()}, nil, config.Quiet)
	ctx := context.Background()
	id := seatedGame(t, m)

	games, err := m.List(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(games), 1)
	testutil.AssertEqual(t, games[0].ID, id)
}
