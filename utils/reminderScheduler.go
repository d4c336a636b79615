package utils

import (
	"context"
	"time"

	"careerlink/logs"
	"careerlink/notification"

	"github.com/robfig/cron/v3"
)

// ReminderRetention is how long sent or cancelled reminders are kept.
const ReminderRetention = 30 * 24 * time.Hour

// InitializeReminderScheduler registers the reminder sweep on schedule and a daily purge,
// and starts the scheduler. Callers stop it with Stop on shutdown.
func InitializeReminderScheduler(sweeper *notification.ReminderSweeper, schedule string) (*cron.Cron, error) {
	log := logs.With("reminder-scheduler")
	log.Info("Initializing reminder scheduler...")

	c := cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		if _, err := sweeper.Sweep(ctx); err != nil {
			log.WithError(err).Error("reminder sweep failed")
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@daily", func() {
		n, err := sweeper.Purge(context.Background(), ReminderRetention)
		if err != nil {
			log.WithError(err).Error("reminder purge failed")
			return
		}
		log.WithField("deleted", n).Info("old reminders purged")
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.WithField("schedule", schedule).Info("Reminder scheduler started")
	return c, nil
}
