package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/realtor-intake/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS descriptions_raw (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS property_records (
	id                 TEXT PRIMARY KEY,
	description_raw_id TEXT NOT NULL REFERENCES descriptions_raw(id),
	seller_name        TEXT,
	address            TEXT NOT NULL,
	data               TEXT NOT NULL,
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_property_records_created_at ON property_records(created_at);
CREATE INDEX IF NOT EXISTS idx_property_records_raw_id ON property_records(description_raw_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRawDescription(ctx context.Context, text string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO descriptions_raw (id, text, created_at) VALUES (?, ?, ?)`,
		id, text, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert raw description")
	}
	return id, nil
}

func (s *SQLiteStore) GetRawDescription(ctx context.Context, id string) (*model.RawDescription, error) {
	var raw model.RawDescription
	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, created_at FROM descriptions_raw WHERE id = ?`, id,
	).Scan(&raw.ID, &raw.Text, &raw.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: raw description %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get raw description %s", id)
	}
	raw.CreatedAt = raw.CreatedAt.UTC()
	return &raw, nil
}

func (s *SQLiteStore) SavePropertyRecord(ctx context.Context, rec *model.PropertyRecord) (string, error) {
	stamp(rec, time.Now().UTC())
	id := uuid.New().String()

	data, err := json.Marshal(rec)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal property record")
	}
	addr, err := json.Marshal(rec.Address)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal address")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM descriptions_raw WHERE id = ?`, rec.DescriptionRawID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", eris.Wrapf(ErrNotFound, "sqlite: raw description %s", rec.DescriptionRawID)
	}
	if err != nil {
		return "", eris.Wrap(err, "sqlite: check raw description")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO property_records (id, description_raw_id, seller_name, address, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.DescriptionRawID, rec.SellerName, string(addr), string(data), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert property record")
	}
	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit property record")
	}

	rec.ID = id
	return id, nil
}

func (s *SQLiteStore) GetPropertyRecord(ctx context.Context, id string) (*model.PropertyRecord, error) {
	var (
		data             string
		created, updated time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, created_at, updated_at FROM property_records WHERE id = ?`, id,
	).Scan(&data, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: property record %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get property record %s", id)
	}
	return decodeRecord(id, []byte(data), created, updated)
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]model.RecentListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description_raw_id, seller_name, address, created_at
		 FROM property_records ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		recentLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recent")
	}
	defer rows.Close()

	out := []model.RecentListing{}
	for rows.Next() {
		var (
			r      model.RecentListing
			seller sql.NullString
			addr   string
		)
		if err := rows.Scan(&r.ID, &r.DescriptionRawID, &seller, &addr, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan recent")
		}
		if seller.Valid {
			r.SellerName = model.Ptr(seller.String)
		}
		if err := json.Unmarshal([]byte(addr), &r.Address); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal address")
		}
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list recent iterate")
}
