package jobs

import (
	"context"
	"time"

	"intranet/app/events"
	"intranet/core/config"
	"intranet/core/logger"
	"intranet/core/scheduler"
)

// ReminderWindow is how far ahead the reminder job looks for due tasks
const ReminderWindow = 24 * time.Hour

// Reminder emits due-soon reminders for open tasks
type Reminder interface {
	RemindDueSoon(now time.Time, within time.Duration) (int, error)
}

// CalendarSync imports events from the external calendar
type CalendarSync interface {
	Sync(ctx context.Context) (*events.SyncResult, error)
}

// Digest emails unread notification counts
type Digest interface {
	SendDigest(ctx context.Context) (int, error)
}

// Services are the scheduled job targets; nil members are skipped
type Services struct {
	Tasks         Reminder
	Calendar      CalendarSync
	Notifications Digest
}

// SetupScheduler registers all scheduled jobs with the cron scheduler
func SetupScheduler(cfg *config.Config, log logger.Logger, services Services) *scheduler.CronScheduler {
	cronScheduler := scheduler.NewCronScheduler(log)
	if cfg == nil {
		cfg = config.NewConfig()
	}

	var tasks []*scheduler.CronTask

	if services.Tasks != nil {
		tasks = append(tasks, &scheduler.CronTask{
			Name:        "task_due_reminders",
			Description: "Remind assignees of tasks due within 24 hours",
			CronExpr:    cfg.ReminderCron,
			Handler: func(ctx context.Context) error {
				sent, err := services.Tasks.RemindDueSoon(time.Now(), ReminderWindow)
				if sent > 0 {
					log.Info("task reminders sent", logger.Int("count", sent))
				}
				return err
			},
			Enabled: true,
		})
	}

	if services.Calendar != nil {
		tasks = append(tasks, &scheduler.CronTask{
			Name:        "calendar_sync",
			Description: "Import company events from Google Calendar",
			CronExpr:    cfg.CalendarSyncCron,
			Handler: func(ctx context.Context) error {
				_, err := services.Calendar.Sync(ctx)
				return err
			},
			Enabled: cfg.CalendarSyncEnabled(),
			Timeout: 2 * time.Minute,
		})
	}

	if services.Notifications != nil {
		tasks = append(tasks, &scheduler.CronTask{
			Name:        "notification_digest",
			Description: "Email every user a summary of unread notifications",
			CronExpr:    cfg.DigestCron,
			Handler: func(ctx context.Context) error {
				sent, err := services.Notifications.SendDigest(ctx)
				log.Info("notification digest sent", logger.Int("emails", sent))
				return err
			},
			Enabled: true,
		})
	}

	for _, task := range tasks {
		if err := cronScheduler.RegisterTask(task); err != nil {
			log.Error("failed to register job", logger.String("job", task.Name), logger.Err(err))
			continue
		}
		log.Debug("registered job", logger.String("job", task.Name), logger.Bool("enabled", task.Enabled))
	}

	return cronScheduler
}
