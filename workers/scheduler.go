// workers/scheduler.go
package workers

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Schedule lists the periodic jobs. A nil Backup skips the backup job.
type Schedule struct {
	Health         *HealthMonitor
	HealthInterval time.Duration
	Backup         *RosterBackup
	BackupInterval time.Duration
}

// StartScheduler registers the jobs and starts them. Jobs run with ctx and stop when
// the returned scheduler is shut down.
func StartScheduler(ctx context.Context, sched Schedule, logger *zap.Logger) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	// Every HealthInterval: ping the database
	_, err = s.NewJob(
		gocron.DurationJob(sched.HealthInterval),
		gocron.NewTask(func() {
			sched.Health.Check(ctx)
		}),
		gocron.WithName("health-check"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	if sched.Backup != nil {
		// Every BackupInterval: snapshot the roster to R2
		_, err = s.NewJob(
			gocron.DurationJob(sched.BackupInterval),
			gocron.NewTask(func() {
				if _, err := sched.Backup.Run(ctx); err != nil {
					logger.Error("[Scheduler] roster backup failed", zap.Error(err))
				}
			}),
			gocron.WithName("roster-backup"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	s.Start()
	logger.Info("⏱️ scheduler started",
		zap.Duration("health_interval", sched.HealthInterval),
		zap.Bool("backup", sched.Backup != nil),
	)
	return s, nil
}
