// Package session manages live games: seating players, serialising moves on
// each game and persisting the result.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/engine"
	"github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/store"
)

// Snapshot is a read-only view of a game, safe to hand to other goroutines
// and to encode as JSON.
type Snapshot struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	White    string            `json:"white"`
	Black    string            `json:"black"`
	FEN      string            `json:"fen"`
	Pieces   map[string]string `json:"pieces"`
	Turn     string            `json:"turn"`
	LastMove string            `json:"lastMove,omitempty"`
	Status   string            `json:"status"`
	Resigned string            `json:"resigned,omitempty"`
	Over     bool              `json:"over"`
	Winner   string            `json:"winner,omitempty"`
}

// Session wraps one engine.Game with its seats. The mutex makes the session
// the single writer of its game.
type Session struct {
	mu       sync.Mutex
	id       uuid.UUID
	name     string
	game     *engine.Game
	white    string
	black    string
	resigned string
	updated  time.Time
	deleted  bool // removed from the manager; never persisted again
}

func newSession(id uuid.UUID, name string, now time.Time) *Session {
	return &Session{
		id:      id,
		name:    name,
		game:    engine.NewGame(),
		updated: now,
	}
}

// sessionFromRecord rebuilds a session from its persisted form.
func sessionFromRecord(rec store.Record) (*Session, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("record id %q: %w", rec.ID, err)
	}
	board, turn, err := engine.NewBoardFromFEN(rec.FEN)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}

	var last *chess.Move
	if rec.LastMove != "" {
		m, err := chess.ParseMove(rec.LastMove)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		last = &m
	}

	game := engine.NewGame()
	game.Restore(board, turn, last)
	return &Session{
		id:       id,
		name:     rec.Name,
		game:     game,
		white:    rec.White,
		black:    rec.Black,
		resigned: rec.Resigned,
		updated:  rec.UpdatedAt,
	}, nil
}

// record returns the persisted form. Callers hold s.mu.
func (s *Session) record() store.Record {
	rec := store.Record{
		ID:        s.id.String(),
		Name:      s.name,
		White:     s.white,
		Black:     s.black,
		FEN:       s.game.FEN(),
		Resigned:  s.resigned,
		UpdatedAt: s.updated,
	}
	if last, ok := s.game.LastMove(); ok {
		rec.LastMove = last.String()
	}
	return rec
}

// seat returns the player id seated as colour.
func (s *Session) seat(colour chess.Colour) string {
	if colour == chess.White {
		return s.white
	}
	return s.black
}

func (s *Session) setSeat(colour chess.Colour, player string) {
	if colour == chess.White {
		s.white = player
	} else {
		s.black = player
	}
}

// seatOf returns the colour player sits at. A player holding both seats is
// reported at the side to move.
func (s *Session) seatOf(player string) (chess.Colour, bool) {
	turn := s.game.TeamTurn()
	switch player {
	case "":
		return chess.White, false
	case s.seat(turn):
		return turn, true
	case s.seat(turn.Opposite()):
		return turn.Opposite(), true
	}
	return chess.White, false
}

// displayName names the occupant of colour's seat for notifications.
func (s *Session) displayName(colour chess.Colour) string {
	if player := s.seat(colour); player != "" {
		return player
	}
	return colourName(colour)
}

// over reports whether the game has ended, by resignation or on the board.
func (s *Session) over() bool {
	if s.resigned != "" {
		return true
	}
	return s.game.Status(s.game.TeamTurn()).IsTerminal()
}

// checkPlayable returns errors.ErrGameOver once the game has ended.
func (s *Session) checkPlayable() error {
	if s.over() {
		return errors.ErrGameOver
	}
	return nil
}

// snapshot builds a Snapshot. Callers hold s.mu.
func (s *Session) snapshot() Snapshot {
	turn := s.game.TeamTurn()
	status := s.game.Status(turn)

	snap := Snapshot{
		ID:       s.id.String(),
		Name:     s.name,
		White:    s.white,
		Black:    s.black,
		FEN:      s.game.FEN(),
		Pieces:   make(map[string]string),
		Turn:     colourName(turn),
		Status:   status.String(),
		Resigned: s.resigned,
		Over:     s.over(),
	}
	s.game.Board().Each(func(pos chess.Position, piece chess.Piece) {
		if !piece.IsEmpty() {
			snap.Pieces[pos.String()] = string(piece.Letter())
		}
	})
	if last, ok := s.game.LastMove(); ok {
		snap.LastMove = last.String()
	}

	switch {
	case s.resigned != "":
		if loser, ok := chess.ParseColour(s.resigned); ok {
			snap.Winner = colourName(loser.Opposite())
		}
	case status == engine.Checkmate:
		snap.Winner = colourName(turn.Opposite())
	}
	return snap
}

// colourName is the lower-case colour used on the wire and in records.
func colourName(c chess.Colour) string {
	return strings.ToLower(c.String())
}
