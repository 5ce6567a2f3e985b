package services

import (
	"fmt"
	"log"
	"teises_draugas_go/config"
	"teises_draugas_go/models"
	"time"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	return &NotificationService{DB: db, Config: cfg}
}

// Notify stores a notification and mails a copy to the user. Email failures
// are logged and never fail the caller.
func (s *NotificationService) Notify(tx *gorm.DB, userID string, caseID *string, notificationType, title, message string) error {
	if tx == nil {
		tx = s.DB
	}

	n := &models.Notification{
		UserID:  userID,
		CaseID:  caseID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if caseID != nil {
		n.LinkURL = fmt.Sprintf("/cases/%s", *caseID)
	}
	if err := tx.Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.Config != nil {
		var user models.User
		if err := tx.Select("id", "name", "email").First(&user, "id = ?", userID).Error; err != nil {
			log.Printf("[EMAIL] Skipping notification email, user %s not found: %v", userID, err)
			return nil
		}
		SendEmailAsync(s.Config, BuildNotificationEmail(s.Config, user.Email, user.Name, n))
	}
	return nil
}

func (s *NotificationService) List(userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := s.DB.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID, userID string) error {
	result := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID string) error {
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now()).Error
}

func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
