package scheduler

import (
	"context"
	"os"

	"studymate/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Every day at 8:00 local server time.
const defaultSpec = "0 0 8 * * *"

// StartScheduler wires the daily reminder run onto a cron timer. The
// returned cron is owned by the caller so process shutdown can stop it.
func StartScheduler(reminder *services.ReminderService, log *zap.SugaredLogger) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	spec := os.Getenv("REMINDER_CRON")
	if spec == "" {
		spec = defaultSpec
	}

	_, err := c.AddFunc(spec, func() {
		if err := reminder.Run(context.Background()); err != nil {
			log.Errorf("Reminder job failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Infof("Scheduler started (spec %q)", spec)
	return c, nil
}
