package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAppendOnly is returned when an update or delete hits an append-only table.
var ErrAppendOnly = errors.New("record is append-only")

type TimelineEventType string

const (
	EventCaseCreated           TimelineEventType = "CASE_CREATED"
	EventStatusChanged         TimelineEventType = "STATUS_CHANGED"
	EventDocumentUploaded      TimelineEventType = "DOCUMENT_UPLOADED"
	EventAIAnalysisComplete    TimelineEventType = "AI_ANALYSIS_COMPLETE"
	EventDemandLetterCreated   TimelineEventType = "DEMAND_LETTER_CREATED"
	EventDemandLetterSent      TimelineEventType = "DEMAND_LETTER_SENT"
	EventNegotiationUpdate     TimelineEventType = "NEGOTIATION_UPDATE"
	EventCourtFilingPrepared   TimelineEventType = "COURT_FILING_PREPARED"
	EventCourtFilingReady      TimelineEventType = "COURT_FILING_READY"
	EventCourtFilingSubmitted  TimelineEventType = "COURT_FILING_SUBMITTED"
	EventLawyerReviewRequested TimelineEventType = "LAWYER_REVIEW_REQUESTED"
	EventLawyerReviewComplete  TimelineEventType = "LAWYER_REVIEW_COMPLETE"
	EventDeadlinePassed        TimelineEventType = "DEADLINE_PASSED"
)

// TimelineEvent is an entry in a case history. Rows are never changed or removed.
type TimelineEvent struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseID      string            `gorm:"type:uuid;not null;index:idx_timeline_case_date" json:"case_id"`
	EventType   TimelineEventType `gorm:"not null" json:"event_type"`
	Title       string            `gorm:"not null" json:"title"`
	Description string            `gorm:"type:text" json:"description,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Color       string            `json:"color,omitempty"`
	DocumentID  *string           `gorm:"type:uuid" json:"document_id,omitempty"`
	EventDate   time.Time         `gorm:"not null;index:idx_timeline_case_date" json:"event_date"`
}

func (e *TimelineEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.EventDate.IsZero() {
		e.EventDate = time.Now()
	}
	return nil
}

func (e *TimelineEvent) BeforeUpdate(tx *gorm.DB) error {
	return ErrAppendOnly
}

func (e *TimelineEvent) BeforeDelete(tx *gorm.DB) error {
	return ErrAppendOnly
}

func (TimelineEvent) TableName() string {
	return "timeline_events"
}
