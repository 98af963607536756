package module

import (
	"time"

	"aardsync/internal/platform/config"
	"aardsync/internal/services/records/service"
)

// FromConfig reads record store tuning with the CORE_RECORDS_ prefix
func FromConfig(cfg config.Conf) service.Config {
	rc := cfg.Prefix("CORE_RECORDS_")
	return service.Config{
		Batch:         rc.MayInt("BATCH", 500),
		CommitRetries: rc.MayInt("COMMIT_RETRIES", 3),
		RetryBase:     rc.MayDuration("RETRY_BASE", 200*time.Millisecond),
		LockTimeout:   rc.MayString("LOCK_TIMEOUT", "5s"),
	}
}
