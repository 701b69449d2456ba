package resilience

import (
	"time"

	"github.com/sells-group/realtor-intake/internal/config"
)

// FromStoreConfig builds the write-retry policy for the store. Unset values
// keep DefaultRetryConfig.
func FromStoreConfig(cfg config.StoreConfig) RetryConfig {
	rc := DefaultRetryConfig()
	if cfg.RetryAttempts > 0 {
		rc.MaxAttempts = cfg.RetryAttempts
	}
	if cfg.RetryBackoffMs > 0 {
		rc.InitialBackoff = time.Duration(cfg.RetryBackoffMs) * time.Millisecond
	}
	rc.OnRetry = RetryLogger("store", cfg.Driver)
	return rc
}
