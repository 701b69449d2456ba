package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/realtor-intake/internal/db"
	"github.com/sells-group/realtor-intake/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS descriptions_raw (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS property_records (
	id                 TEXT PRIMARY KEY,
	description_raw_id TEXT NOT NULL REFERENCES descriptions_raw(id),
	seller_name        TEXT,
	address            JSONB NOT NULL,
	data               JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_property_records_created_at ON property_records(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_property_records_raw_id ON property_records(description_raw_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRawDescription(ctx context.Context, text string) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO descriptions_raw (id, text, created_at) VALUES ($1, $2, $3)`,
		id, text, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert raw description")
	}
	return id, nil
}

func (s *PostgresStore) GetRawDescription(ctx context.Context, id string) (*model.RawDescription, error) {
	var raw model.RawDescription
	err := s.pool.QueryRow(ctx,
		`SELECT id, text, created_at FROM descriptions_raw WHERE id = $1`, id,
	).Scan(&raw.ID, &raw.Text, &raw.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: raw description %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get raw description %s", id)
	}
	raw.CreatedAt = raw.CreatedAt.UTC()
	return &raw, nil
}

func (s *PostgresStore) SavePropertyRecord(ctx context.Context, rec *model.PropertyRecord) (string, error) {
	stamp(rec, time.Now().UTC())
	id := uuid.New().String()

	data, err := json.Marshal(rec)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal property record")
	}
	addr, err := json.Marshal(rec.Address)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal address")
	}

	err = db.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		var exists int
		err := tx.QueryRow(ctx, `SELECT 1 FROM descriptions_raw WHERE id = $1`, rec.DescriptionRawID).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return eris.Wrapf(ErrNotFound, "postgres: raw description %s", rec.DescriptionRawID)
		}
		if err != nil {
			return eris.Wrap(err, "postgres: check raw description")
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO property_records (id, description_raw_id, seller_name, address, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, rec.DescriptionRawID, rec.SellerName, addr, data, rec.CreatedAt, rec.UpdatedAt,
		)
		return eris.Wrap(err, "postgres: insert property record")
	})
	if err != nil {
		return "", err
	}

	rec.ID = id
	return id, nil
}

func (s *PostgresStore) GetPropertyRecord(ctx context.Context, id string) (*model.PropertyRecord, error) {
	var (
		data             []byte
		created, updated time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT data, created_at, updated_at FROM property_records WHERE id = $1`, id,
	).Scan(&data, &created, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: property record %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get property record %s", id)
	}
	return decodeRecord(id, data, created, updated)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]model.RecentListing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, description_raw_id, seller_name, address, created_at FROM property_records ORDER BY created_at DESC LIMIT $1`,
		recentLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recent")
	}
	defer rows.Close()

	out := []model.RecentListing{}
	for rows.Next() {
		var (
			r    model.RecentListing
			addr []byte
		)
		if err := rows.Scan(&r.ID, &r.DescriptionRawID, &r.SellerName, &addr, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan recent")
		}
		if err := json.Unmarshal(addr, &r.Address); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal address")
		}
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list recent iterate")
}
