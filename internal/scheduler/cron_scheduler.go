package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/a-mehta/wikiweather/internal/logger"
)

type Task func(ctx context.Context) error

type Scheduler interface {
	Schedule(ctx context.Context, interval time.Duration, task Task) error
	Stop()
}

// CronScheduler drives recurring extraction runs. Each scheduled task
// gets a bounded timeout per invocation.
type CronScheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  logger.Logger
}

func NewCronScheduler(timeout time.Duration, log logger.Logger) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(cron.WithSeconds()),
		timeout: timeout,
		logger:  log.WithField("component", "cron_scheduler"),
	}
}

func (s *CronScheduler) Schedule(ctx context.Context, interval time.Duration, task Task) error {
	cronExpr := intervalToCron(interval)
	s.logger.Debugf("Converted interval %v to cron expression: %s", interval, cronExpr)

	entryID, err := s.cron.AddFunc(cronExpr, s.wrapTask(ctx, task))
	if err != nil {
		return fmt.Errorf("failed to schedule task: %w", err)
	}

	s.logger.Infof("Task scheduled with entry ID %d, interval %v", entryID, interval)

	if len(s.cron.Entries()) == 1 {
		s.cron.Start()
		s.logger.Info("Cron scheduler started")
	}

	return nil
}

func (s *CronScheduler) wrapTask(ctx context.Context, task Task) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}

		startTime := time.Now()
		s.logger.Debug("Starting scheduled task")

		taskCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := task(taskCtx); err != nil {
			s.logger.Errorf("Task failed: %v", err)
			return
		}

		s.logger.Debugf("Task completed in %v", time.Since(startTime))
	}
}

func (s *CronScheduler) Stop() {
	s.logger.Info("Stopping cron scheduler")

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("Cron scheduler stopped")
}

func intervalToCron(interval time.Duration) string {
	if interval <= 0 {
		return "0 0 9 * * *" // daily at 09:00
	}

	seconds := int(interval.Seconds())
	if seconds < 10 {
		seconds = 10
	}
	if seconds < 60 {
		return fmt.Sprintf("*/%d * * * * *", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("0 */%d * * * *", minutes)
	}

	hours := minutes / 60
	if hours > 23 {
		hours = 23
	}
	return fmt.Sprintf("0 0 */%d * * *", hours)
}
