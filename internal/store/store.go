// Package store persists game records so sessions survive a server restart.
package store

import (
	"context"
	"time"
)

// Record is the persisted form of one game. The board and side to move
// travel as FEN; the remaining fields are session metadata.
type Record struct {
	ID        string
	Name      string
	White     string // player id seated as White, empty if open
	Black     string // player id seated as Black, empty if open
	FEN       string
	LastMove  string // long algebraic, empty before the first move
	Resigned  string // colour that resigned ("white"/"black"), empty if none
	UpdatedAt time.Time
}

// Store saves and loads game records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save inserts or replaces the record with rec.ID.
	Save(ctx context.Context, rec Record) error
	// Load returns the record for id or errors.ErrGameNotFound.
	Load(ctx context.Context, id string) (Record, error)
	// List returns every record, most recently updated first.
	List(ctx context.Context) ([]Record, error)
	// Delete removes the record for id or returns errors.ErrGameNotFound.
	Delete(ctx context.Context, id string) error
	// Clear removes every record.
	Clear(ctx context.Context) error
	Close() error
}
