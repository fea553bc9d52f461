package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 5 * time.Minute

// Schedule registers the job on a cron spec evaluated in the job's
// timezone. The caller starts and stops the returned scheduler.
func Schedule(spec string, job *Job) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(job.loc))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := job.Run(ctx, time.Now()); err != nil {
			job.logger.Error("scheduled reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reminder: cron spec %q: %w", spec, err)
	}

	return c, nil
}
