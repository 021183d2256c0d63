package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJob groups pushed CLI runs on the Pushgateway.
const DefaultJob = "usersync"

// PushSync sends the sync controller metrics to the Pushgateway at url,
// replacing the previous push for job.
func PushSync(ctx context.Context, url, job string) error {
	if job == "" {
		job = DefaultJob
	}
	err := push.New(url, job).
		Collector(SyncOperationsTotal).
		Collector(SyncOperationDuration).
		Collector(APIHealthy).
		Collector(CachedUsers).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("metrics: push to %s: %w", url, err)
	}
	return nil
}
