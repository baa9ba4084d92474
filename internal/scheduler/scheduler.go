// Package scheduler runs the periodic housekeeping jobs of the server.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Pruner drops cached entries idle for longer than maxIdle.
type Pruner interface {
	Prune(maxIdle time.Duration) int
	Len() int
}

// StartMemoPruner schedules p.Prune(maxIdle) every interval and starts the
// scheduler. Callers stop it with Shutdown.
func StartMemoPruner(logger *logrus.Logger, p Pruner, every, maxIdle time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if n := p.Prune(maxIdle); n > 0 {
				logger.WithFields(logrus.Fields{"pruned": n, "remaining": p.Len()}).Info("[CRON] seat map memo pruned")
			}
		}),
		gocron.WithName("seatmap-memo-prune"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}

	s.Start()
	logger.WithFields(logrus.Fields{"every": every.String(), "max_idle": maxIdle.String()}).Info("seat map memo pruner started")
	return s, nil
}
