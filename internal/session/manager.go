package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/engine"
	"github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/store"
)

// Update is the outcome of a state-changing call: the new snapshot and the
// notifications to broadcast to everyone watching the game.
type Update struct {
	Snapshot      Snapshot
	Notifications []string
}

// Manager owns the live sessions and keeps them in step with the store.
// Manager methods are safe for concurrent use; calls on the same game are
// serialised by that game's Session.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*Session
	store     store.Store
	logger    *log.Logger
	verbosity int
	now       func() time.Time
}

// NewManager creates a Manager backed by st.
func NewManager(st store.Store, logger *log.Logger, verbosity int) *Manager {
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		store:     st,
		logger:    logger,
		verbosity: verbosity,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) logf(level int, format string, args ...interface{}) {
	if m.logger != nil && m.verbosity >= level {
		m.logger.Printf(format, args...)
	}
}

func gameError(err error, id, player string) error {
	return &errors.GameError{Err: err, GameID: id, Player: player}
}

// Create starts a new game in the standard position and persists it.
func (m *Manager) Create(ctx context.Context, name string) (Snapshot, error) {
	s := newSession(uuid.New(), name, m.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.store.Save(ctx, s.record()); err != nil {
		return Snapshot{}, fmt.Errorf("create game: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logf(config.Normal, "game %s created (%q)", s.id, name)
	return s.snapshot(), nil
}

// lookup returns the live session for id, loading it from the store on
// first use.
func (m *Manager) lookup(ctx context.Context, id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gameError(errors.ErrGameNotFound, id, "")
	}

	m.mu.RLock()
	s, ok := m.sessions[uid]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	// Loading under the write lock keeps a concurrent Delete or Clear from
	// racing a stale copy back into the map.
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[uid]; ok {
		return s, nil
	}
	rec, err := m.store.Load(ctx, uid.String())
	if errors.Is(err, errors.ErrGameNotFound) {
		return nil, gameError(errors.ErrGameNotFound, id, "")
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	loaded, err := sessionFromRecord(rec)
	if err != nil {
		return nil, err
	}
	m.sessions[uid] = loaded
	m.logf(config.Verbose, "game %s loaded from store", id)
	return loaded, nil
}

// persist stamps and saves s. Callers hold s.mu.
func (m *Manager) persist(ctx context.Context, s *Session) error {
	if s.deleted {
		return gameError(errors.ErrGameNotFound, s.id.String(), "")
	}
	prev := s.updated
	s.updated = m.now()
	if err := m.store.Save(ctx, s.record()); err != nil {
		s.updated = prev
		return fmt.Errorf("save game %s: %w", s.id, err)
	}
	return nil
}

// Get returns a snapshot of game id.
func (m *Manager) Get(ctx context.Context, id string) (Snapshot, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return Snapshot{}, gameError(errors.ErrGameNotFound, id, "")
	}
	return s.snapshot(), nil
}

// List returns a snapshot of every stored game, most recently updated first.
// Games deleted while the list is built are left out.
func (m *Manager) List(ctx context.Context) ([]Snapshot, error) {
	records, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	out := make([]Snapshot, 0, len(records))
	for _, rec := range records {
		snap, err := m.Get(ctx, rec.ID)
		if errors.Is(err, errors.ErrGameNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Join seats player as colour. Rejoining one's own seat is a no-op.
func (m *Manager) Join(ctx context.Context, id, player string, colour chess.Colour) (Update, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Update{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.join(ctx, s, id, player, colour)
}

// JoinAny seats player at the first free seat, White first. A player who is
// already seated keeps their seat.
func (m *Manager) JoinAny(ctx context.Context, id, player string) (Update, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Update{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seated := s.seatOf(player); seated {
		return Update{Snapshot: s.snapshot()}, nil
	}
	colour := chess.White
	if s.white != "" {
		colour = chess.Black
	}
	return m.join(ctx, s, id, player, colour)
}

// join seats player. Callers hold s.mu.
func (m *Manager) join(ctx context.Context, s *Session, id, player string, colour chess.Colour) (Update, error) {
	if player == "" {
		return Update{}, gameError(errors.ErrNotSeated, id, player)
	}
	if err := s.checkPlayable(); err != nil {
		return Update{}, gameError(err, id, player)
	}
	switch s.seat(colour) {
	case player:
		return Update{Snapshot: s.snapshot()}, nil
	case "":
	default:
		return Update{}, gameError(fmt.Errorf("%s seat: %w", colourName(colour), errors.ErrSeatTaken), id, player)
	}

	s.setSeat(colour, player)
	if err := m.persist(ctx, s); err != nil {
		s.setSeat(colour, "")
		return Update{}, err
	}

	m.logf(config.Normal, "game %s: %s joined as %s", id, player, colourName(colour))
	return Update{
		Snapshot:      s.snapshot(),
		Notifications: []string{fmt.Sprintf("%s joined as %s", player, colourName(colour))},
	}, nil
}

// Leave frees every seat player holds. Observers may leave too; only the
// notification is produced for them.
func (m *Manager) Leave(ctx context.Context, id, player string) (Update, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Update{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prevWhite, prevBlack := s.white, s.black
	if s.white == player {
		s.white = ""
	}
	if s.black == player {
		s.black = ""
	}
	if s.white != prevWhite || s.black != prevBlack {
		if err := m.persist(ctx, s); err != nil {
			s.white, s.black = prevWhite, prevBlack
			return Update{}, err
		}
	}

	m.logf(config.Normal, "game %s: %s left", id, player)
	return Update{
		Snapshot:      s.snapshot(),
		Notifications: []string{player + " left the game"},
	}, nil
}

// ValidMoves returns the legal moves of the piece on square.
func (m *Manager) ValidMoves(ctx context.Context, id, square string) ([]chess.Move, error) {
	pos, err := chess.ParsePosition(square)
	if err != nil {
		return nil, gameError(err, id, "")
	}
	s, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	moves, ok := s.game.ValidMoves(pos)
	if !ok {
		return nil, gameError(fmt.Errorf("%s: %w", square, errors.ErrNoPiece), id, "")
	}
	return moves, nil
}

// Move plays move for player. The game must still be running and player
// must hold the seat of the side to move.
func (m *Manager) Move(ctx context.Context, id, player string, move chess.Move) (Update, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Update{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPlayable(); err != nil {
		return Update{}, gameError(err, id, player)
	}
	turn := s.game.TeamTurn()
	if seatColour, seated := s.seatOf(player); !seated {
		return Update{}, gameError(errors.ErrNotSeated, id, player)
	} else if seatColour != turn {
		return Update{}, gameError(errors.ErrWrongTurn, id, player)
	}

	prevBoard := s.game.Board()
	prevLast, hadLast := s.game.LastMove()
	if err := s.game.MakeMove(move); err != nil {
		return Update{}, gameError(err, id, player)
	}
	if err := m.persist(ctx, s); err != nil {
		var last *chess.Move
		if hadLast {
			last = &prevLast
		}
		s.game.Restore(prevBoard, turn, last)
		return Update{}, err
	}

	m.logf(config.Verbose, "game %s: %s played %s", id, player, move)
	notes := []string{fmt.Sprintf("%s made move: %s", player, move)}
	if note := statusNotification(s); note != "" {
		notes = append(notes, note)
		m.logf(config.Normal, "game %s: %s", id, note)
	}
	return Update{Snapshot: s.snapshot(), Notifications: notes}, nil
}

// statusNotification describes the side to move after a move, if anything
// noteworthy happened. Callers hold s.mu.
func statusNotification(s *Session) string {
	turn := s.game.TeamTurn()
	switch s.game.Status(turn) {
	case engine.Checkmate:
		return s.displayName(turn) + " is in checkmate"
	case engine.Check:
		return s.displayName(turn) + " is in check"
	case engine.Stalemate:
		return "Game ended in stalemate"
	}
	return ""
}

// Resign ends the game with player's side losing.
func (m *Manager) Resign(ctx context.Context, id, player string) (Update, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Update{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPlayable(); err != nil {
		return Update{}, gameError(err, id, player)
	}
	colour, seated := s.seatOf(player)
	if !seated {
		return Update{}, gameError(errors.ErrNotSeated, id, player)
	}

	s.resigned = colourName(colour)
	if err := m.persist(ctx, s); err != nil {
		s.resigned = ""
		return Update{}, err
	}

	m.logf(config.Normal, "game %s: %s resigned", id, player)
	return Update{
		Snapshot:      s.snapshot(),
		Notifications: []string{player + " resigned. Game is over."},
	}, nil
}

// Delete forgets game id in memory and in the store. A call already
// holding the session finishes first; later writes to it fail with
// ErrGameNotFound.
func (m *Manager) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gameError(errors.ErrGameNotFound, id, "")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, live := m.sessions[uid]
	if live {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	err = m.store.Delete(ctx, uid.String())
	switch {
	case errors.Is(err, errors.ErrGameNotFound) && !live:
		return gameError(errors.ErrGameNotFound, id, "")
	case err != nil && !errors.Is(err, errors.ErrGameNotFound):
		return err
	}
	if live {
		s.deleted = true
		delete(m.sessions, uid)
	}
	m.logf(config.Normal, "game %s deleted", id)
	return nil
}

// Clear removes every game.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear games: %w", err)
	}
	for _, s := range m.sessions {
		s.deleted = true
	}
	m.sessions = make(map[uuid.UUID]*Session)
	m.logf(config.Normal, "all games cleared")
	return nil
}
