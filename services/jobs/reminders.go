package jobs

import (
	"fmt"
	"log"
	"teises_draugas_go/models"
	"teises_draugas_go/services"
	"time"

	"gorm.io/gorm"
)

// SendDeadlineReminders finds cases still awaiting a response after the
// response deadline and tells their owners once. It returns the number of
// cases reminded.
func SendDeadlineReminders(database *gorm.DB, notifier *services.NotificationService, now time.Time) (int, error) {
	log.Println("[CRON] Starting response deadline reminder job...")

	var cases []models.Case
	err := database.
		Where("status = ?", models.CaseStatusAwaitingResponse).
		Where("response_deadline IS NOT NULL AND response_deadline < ?", now).
		Where("deadline_reminded_at IS NULL").
		Find(&cases).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load overdue cases: %w", err)
	}

	log.Printf("[CRON] Found %d cases past their response deadline", len(cases))

	reminded := 0
	for _, c := range cases {
		claimed := false
		err := database.Transaction(func(tx *gorm.DB) error {
			// claim the case first so a parallel run cannot remind twice
			result := tx.Model(&models.Case{}).
				Where("id = ? AND deadline_reminded_at IS NULL", c.ID).
				Update("deadline_reminded_at", now)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil
			}

			if err := tx.Create(&models.TimelineEvent{
				CaseID:      c.ID,
				EventType:   models.EventDeadlinePassed,
				Title:       "Atsakymo terminas suėjo",
				Description: fmt.Sprintf("Oponentas neatsakė iki %s", services.FormatDateLT(*c.ResponseDeadline)),
				Icon:        "alert-triangle",
				Color:       "red",
				EventDate:   now,
			}).Error; err != nil {
				return err
			}

			claimed = true
			return notifier.Notify(tx, c.UserID, &c.ID, models.NotificationTypeDeadline,
				"Suėjo atsakymo terminas",
				fmt.Sprintf("Oponentas neatsakė į pretenziją byloje \"%s\". Galite kreiptis į teismą.", c.Title))
		})
		if err != nil {
			log.Printf("[CRON] Failed to remind case %s: %v", c.ID, err)
			continue
		}
		if claimed {
			reminded++
		}
	}

	log.Printf("[CRON] Response deadline reminder job completed, %d reminded", reminded)
	return reminded, nil
}
