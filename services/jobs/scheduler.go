package jobs

import (
	"fmt"
	"log"
	"teises_draugas_go/config"
	"teises_draugas_go/services"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler registers the daily jobs and starts the cron runner. The
// caller stops it on shutdown.
func StartScheduler(database *gorm.DB, cfg *config.Config, notifier *services.NotificationService) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("[CRON] Unknown timezone %q, using UTC: %v", cfg.Timezone, err)
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc(cfg.ReminderCron, func() {
		if _, err := SendDeadlineReminders(database, notifier, time.Now()); err != nil {
			log.Printf("[CRON] Deadline reminders failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule deadline reminders: %w", err)
	}

	if _, err := c.AddFunc("@hourly", func() {
		if err := services.CleanupExpiredSessions(database); err != nil {
			log.Printf("[CRON] Session cleanup failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (reminders: %q, timezone: %s)", cfg.ReminderCron, loc)
	return c, nil
}
