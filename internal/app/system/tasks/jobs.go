// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/timeouts"
)

// OutcomesRefreshJobName names the job built by OutcomesRefreshJob.
const OutcomesRefreshJobName = "outcomes-refresh"

// OutcomesRefreshJob reloads the selected range on an interval so changes
// to stored outcome records reach the dashboard without a page action.
// An interval of zero disables the job.
func OutcomesRefreshJob(interval time.Duration, refresh func(ctx context.Context) error) Job {
	return Job{
		Name:     OutcomesRefreshJobName,
		Interval: interval,
		Timeout:  timeouts.Short(),
		Run:      refresh,
	}
}
