package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const snapshotDDL = `
    CREATE TABLE IF NOT EXISTS snapshots (
        id  integer PRIMARY KEY,
        doc jsonb NOT NULL
    )`

// The store holds exactly one document; row 1 is the whole state.
const snapshotRowID = 1

// PostgresStore keeps the snapshot document in a single jsonb row. Updates
// run inside a transaction holding a row lock, so concurrent writers are
// serialized by the database rather than by process-local state.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, ensures the snapshots table exists and seeds the
// empty document when the row is absent.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, snapshotDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	seed, _ := json.Marshal(&Snapshot{})
	if _, err := pool.Exec(ctx,
		`INSERT INTO snapshots (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		snapshotRowID, seed,
	); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seed snapshot row: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// View reads the document and runs fn against it.
func (p *PostgresStore) View(ctx context.Context, fn func(*Snapshot) error) error {
	state, err := p.load(ctx, p.pool)
	if err != nil {
		return err
	}
	return fn(state)
}

// Update reads the document under FOR UPDATE, runs fn and writes it back in
// the same transaction.
func (p *PostgresStore) Update(ctx context.Context, fn func(*Snapshot) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot update: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var data []byte
	if err := tx.QueryRow(ctx,
		`SELECT doc FROM snapshots WHERE id=$1 FOR UPDATE`, snapshotRowID,
	).Scan(&data); err != nil {
		return fmt.Errorf("lock snapshot row: %w", err)
	}

	state := &Snapshot{}
	if err := json.Unmarshal(data, state); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := fn(state); err != nil {
		return err
	}

	next, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE snapshots SET doc=$1 WHERE id=$2`, next, snapshotRowID,
	); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return tx.Commit(ctx)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *PostgresStore) load(ctx context.Context, q queryRower) (*Snapshot, error) {
	var data []byte
	if err := q.QueryRow(ctx,
		`SELECT doc FROM snapshots WHERE id=$1`, snapshotRowID,
	).Scan(&data); err != nil {
		return nil, fmt.Errorf("read snapshot row: %w", err)
	}
	state := &Snapshot{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return state, nil
}

// Ping verifies database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases pool resources.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
