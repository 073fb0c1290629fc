package worker

import (
	"context"

	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
)

// Task names
const (
	TaskRateLimitCleanup = "rate-limit-cleanup"
	TaskIdentityProbe    = "identity-probe"
)

// Cleaner is anything holding state that can be pruned periodically
type Cleaner interface {
	Cleanup()
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// CleanupTask prunes idle per-client rate limit buckets
func CleanupTask(c Cleaner) Task {
	return func(ctx context.Context) error {
		c.Cleanup()
		return nil
	}
}

// ProbeTask pings the identity provider so an outage shows up in the logs
// and the identity call metrics before users hit it
func ProbeTask(p Pinger, log *logger.Logger) Task {
	healthy := true
	return func(ctx context.Context) error {
		err := p.Ping(ctx)
		switch {
		case err != nil && healthy:
			healthy = false
			return err
		case err == nil && !healthy:
			healthy = true
			log.Info("Identity provider reachable again")
		}
		return nil
	}
}
