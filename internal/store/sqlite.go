package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/lgbarn/chess-engine-go/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	white      TEXT NOT NULL DEFAULT '',
	black      TEXT NOT NULL DEFAULT '',
	fen        TEXT NOT NULL,
	last_move  TEXT NOT NULL DEFAULT '',
	resigned   TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_updated ON games(updated_at);
`

const upsertGame = `
INSERT INTO games (id, name, white, black, fen, last_move, resigned, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	white = excluded.white,
	black = excluded.black,
	fen = excluded.fen,
	last_move = excluded.last_move,
	resigned = excluded.resigned,
	updated_at = excluded.updated_at`

const selectColumns = `SELECT id, name, white, black, fen, last_move, resigned, updated_at FROM games`

// SQLiteStore persists records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dsn and ensures
// the games table exists. ":memory:" gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// SQLite serialises writers anyway, and every ":memory:" connection
	// would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts or updates rec.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, upsertGame,
		rec.ID, rec.Name, rec.White, rec.Black, rec.FEN, rec.LastMove, rec.Resigned,
		rec.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save %s: %w", rec.ID, err)
	}
	return nil
}

// Load returns the record for id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("load %s: %w", id, errors.ErrGameNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load %s: %w", id, err)
	}
	return rec, nil
}

// List returns all records, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY updated_at DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

// Delete removes the record for id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, errors.ErrGameNotFound)
	}
	return nil
}

// Clear removes all records.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM games"); err != nil {
		return fmt.Errorf("clear games: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var updated int64
	err := sc.Scan(&rec.ID, &rec.Name, &rec.White, &rec.Black, &rec.FEN, &rec.LastMove, &rec.Resigned, &updated)
	if err != nil {
		return Record{}, err
	}
	rec.UpdatedAt = time.Unix(0, updated).UTC()
	return rec, nil
}
