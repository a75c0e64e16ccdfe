package jobs

import (
	"errors"
	"fmt"
)

// ErrInvalidCacheExpiry marks a cache-expiry configuration that cannot map
// onto a clean cadence. It is fatal at schedule-computation time and is
// never retried.
var ErrInvalidCacheExpiry = errors.New("jobs: invalid cache expiry")

// CacheRefreshSchedule derives the cache-priming cadence from the cache's
// own expiry, configured in minutes. Values under an hour run every that
// many minutes; clean multiples of an hour under a day run hourly-grained;
// clean multiples of a day run daily-grained. Anything else is a
// configuration error.
func CacheRefreshSchedule(minutes int) (string, error) {
	switch {
	case minutes <= 0:
		return "", fmt.Errorf("jobs: cache expiry %d minutes: %w", minutes, ErrInvalidCacheExpiry)
	case minutes < 60:
		return fmt.Sprintf("@every %dm", minutes), nil
	case minutes%60 == 0 && minutes < 1440:
		return fmt.Sprintf("@every %dh", minutes/60), nil
	case minutes%1440 == 0:
		return fmt.Sprintf("@every %dh", minutes/1440*24), nil
	default:
		return "", fmt.Errorf("jobs: cache expiry %d minutes does not align to hours or days: %w", minutes, ErrInvalidCacheExpiry)
	}
}
