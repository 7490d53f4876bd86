package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// stateKey identifies the single session row; the table is a one-document
// store, matching the snapshot-per-session layout.
const stateKey = "session"

// PostgresStore persists the session state as a JSONB document.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the schema.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("snapshot: connect: %w", err)
	}
	store := &PostgresStore{pool: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (p *PostgresStore) initSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS session_state (
		id TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("snapshot: init schema: %w", err)
	}
	return nil
}

// Load reads the persisted state. A missing row yields an empty state.
func (p *PostgresStore) Load(ctx context.Context) (State, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx,
		`SELECT payload FROM session_state WHERE id = $1`, stateKey).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("snapshot: load: %w", err)
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	return state, nil
}

// Save upserts the whole state document.
func (p *PostgresStore) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO session_state (id, payload, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (id) DO UPDATE SET payload = $2, updated_at = NOW()`,
		stateKey, payload)
	if err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}
