package remotestore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// NewPool creates a pgx connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, config)
}

// PgLog implements AppendLog on Postgres.
type PgLog struct {
	pool *pgxpool.Pool
}

func NewPgLog(pool *pgxpool.Pool) *PgLog {
	return &PgLog{pool: pool}
}

// EnsureSchema creates the log table when missing.
func (l *PgLog) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trade_messages (
			id BIGSERIAL PRIMARY KEY,
			message_id UUID NOT NULL,
			chain_id UUID NOT NULL,
			kind TEXT NOT NULL,
			direction TEXT NOT NULL,
			payload JSONB NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS trade_messages_chain_kind_idx
			ON trade_messages (chain_id, kind, direction, id);
	`)
	return err
}

func (l *PgLog) Append(ctx context.Context, rec Record) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO trade_messages (message_id, chain_id, kind, direction, payload, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, rec.MessageID, rec.ChainID, string(rec.Kind), string(rec.Direction), rec.Payload, rec.RecordedAt)
	return err
}

func (l *PgLog) ByChainAndKind(ctx context.Context, chainID uuid.UUID, k message.Kind, dir message.Direction) ([]Record, error) {
	query := `
		SELECT message_id, chain_id, kind, direction, payload, recorded_at
		FROM trade_messages WHERE chain_id=$1 AND kind=$2`
	args := []interface{}{chainID, string(k)}
	if dir != message.AnyDirection {
		query += ` AND direction=$3`
		args = append(args, string(dir))
	}
	query += ` ORDER BY id`

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (l *PgLog) ByKind(ctx context.Context, k message.Kind, dir message.Direction) ([]Record, error) {
	query := `
		SELECT message_id, chain_id, kind, direction, payload, recorded_at
		FROM trade_messages WHERE kind=$1`
	args := []interface{}{string(k)}
	if dir != message.AnyDirection {
		query += ` AND direction=$2`
		args = append(args, string(dir))
	}
	query += ` ORDER BY id`

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (l *PgLog) Chains(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := l.pool.Query(ctx, `SELECT DISTINCT chain_id FROM trade_messages ORDER BY chain_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var recs []Record
	for rows.Next() {
		var rec Record
		var kind, dir string
		if err := rows.Scan(&rec.MessageID, &rec.ChainID, &kind, &dir, &rec.Payload, &rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Kind = message.Kind(kind)
		rec.Direction = message.Direction(dir)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
