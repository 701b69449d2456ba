// Package store persists raw seller descriptions and the structured property
// records reviewed from them.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/realtor-intake/internal/config"
	"github.com/sells-group/realtor-intake/internal/model"
	"github.com/sells-group/realtor-intake/internal/resilience"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = eris.New("store: not found")

// DefaultRecentLimit is used by ListRecent when limit <= 0.
const DefaultRecentLimit = 10

// Store defines the persistence interface for intake documents.
type Store interface {
	// Raw descriptions
	SaveRawDescription(ctx context.Context, text string) (string, error)
	GetRawDescription(ctx context.Context, id string) (*model.RawDescription, error)

	// Property records. SavePropertyRecord stamps created_at (when zero) and
	// updated_at and returns the new id; the raw description must exist.
	SavePropertyRecord(ctx context.Context, rec *model.PropertyRecord) (string, error)
	GetPropertyRecord(ctx context.Context, id string) (*model.PropertyRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.RecentListing, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the configured backend and wraps it with write retries.
// It does not migrate.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "", "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return WithRetry(s, resilience.FromStoreConfig(cfg)), nil
}

// stamp fills the timestamps of rec for insertion.
func stamp(rec *model.PropertyRecord, now time.Time) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Amenities == nil {
		rec.Amenities = []string{}
	}
	if rec.Address.Country == "" {
		rec.Address.Country = model.DefaultCountry
	}
}

func recentLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return limit
}

// decodeRecord rebuilds a record from its stored document and columns.
func decodeRecord(id string, data []byte, created, updated time.Time) (*model.PropertyRecord, error) {
	var rec model.PropertyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal property record")
	}
	rec.ID = id
	rec.CreatedAt = created.UTC()
	rec.UpdatedAt = updated.UTC()
	if rec.Amenities == nil {
		rec.Amenities = []string{}
	}
	return &rec, nil
}
