package services

import (
	"fmt"
	"teises_draugas_go/models"

	"gorm.io/gorm"
)

// timelineEntry is the visible part of a timeline event.
type timelineEntry struct {
	Type        models.TimelineEventType
	Title       string
	Description string
	Icon        string
	Color       string
	DocumentID  *string
}

func addTimelineEvent(tx *gorm.DB, caseID string, entry timelineEntry) error {
	event := &models.TimelineEvent{
		CaseID:      caseID,
		EventType:   entry.Type,
		Title:       entry.Title,
		Description: entry.Description,
		Icon:        entry.Icon,
		Color:       entry.Color,
		DocumentID:  entry.DocumentID,
	}
	if err := tx.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create timeline event: %w", err)
	}
	return nil
}

// ListTimeline returns the case history, newest first.
func (s *CaseService) ListTimeline(caseID, userID string) ([]models.TimelineEvent, error) {
	if _, err := findOwnedCase(s.DB, caseID, userID); err != nil {
		return nil, err
	}

	var events []models.TimelineEvent
	if err := s.DB.Where("case_id = ?", caseID).Order("event_date DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch case timeline: %w", err)
	}
	return events, nil
}
