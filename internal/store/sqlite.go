package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jask/northstar/internal/database"
)

// Gateway persists the whole snapshot as one durable slot. Load returns nil
// when no snapshot has ever been saved.
type Gateway interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

const defaultSlot = "default"

// SQLiteGateway stores the snapshot JSON in a single sqlite row. There is no
// optimistic-concurrency check: the last writer wins, same as the snapshot
// model this app inherits.
type SQLiteGateway struct {
	DB   *sql.DB
	Slot string
}

// NewSQLiteGateway returns a gateway over the default slot.
func NewSQLiteGateway(db *sql.DB) *SQLiteGateway {
	return &SQLiteGateway{DB: db, Slot: defaultSlot}
}

func (g *SQLiteGateway) slot() string {
	if g.Slot == "" {
		return defaultSlot
	}
	return g.Slot
}

// Load reads and decodes the snapshot, or returns nil if the slot is empty.
func (g *SQLiteGateway) Load(ctx context.Context) (*Snapshot, error) {
	var raw string
	err := g.DB.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE slot = ?", g.slot()).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save encodes and upserts the snapshot wholesale.
func (g *SQLiteGateway) Save(ctx context.Context, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return database.WithTx(g.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (slot, data, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			g.slot(), string(raw), time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	})
}

// Clear removes the slot entirely; the next Load reports absent.
func (g *SQLiteGateway) Clear(ctx context.Context) error {
	_, err := g.DB.ExecContext(ctx, "DELETE FROM snapshots WHERE slot = ?", g.slot())
	if err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
