package store

import (
	"context"

	"github.com/sells-group/realtor-intake/internal/model"
	"github.com/sells-group/realtor-intake/internal/resilience"
)

// retryingStore retries writes that fail transiently. Reads pass through.
type retryingStore struct {
	Store
	cfg resilience.RetryConfig
}

// WithRetry wraps s so SaveRawDescription and SavePropertyRecord are retried
// according to cfg.
func WithRetry(s Store, cfg resilience.RetryConfig) Store {
	return &retryingStore{Store: s, cfg: cfg}
}

func (r *retryingStore) SaveRawDescription(ctx context.Context, text string) (string, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (string, error) {
		return r.Store.SaveRawDescription(ctx, text)
	})
}

func (r *retryingStore) SavePropertyRecord(ctx context.Context, rec *model.PropertyRecord) (string, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (string, error) {
		return r.Store.SavePropertyRecord(ctx, rec)
	})
}
