package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LetterTone string

const (
	ToneFormal       LetterTone = "formal"
	ToneFirm         LetterTone = "firm"
	ToneFinalWarning LetterTone = "final_warning"
)

func (t LetterTone) Valid() bool {
	switch t {
	case ToneFormal, ToneFirm, ToneFinalWarning:
		return true
	}
	return false
}

type DemandLetterStatus string

const (
	DemandLetterDraft DemandLetterStatus = "DRAFT"
	DemandLetterSent  DemandLetterStatus = "SENT"
)

// DemandLetter is one generated pre-trial demand. Regenerating creates a new
// row; earlier letters are kept as they were.
type DemandLetter struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"-"`

	Content          string             `gorm:"type:text;not null" json:"content"`
	LegalBasis       string             `gorm:"type:text" json:"legal_basis"` // JSON array of article references
	AISummary        string             `gorm:"type:text" json:"ai_summary"`
	AITone           LetterTone         `gorm:"not null" json:"ai_tone"`
	ResponseDeadline time.Time          `gorm:"not null" json:"response_deadline"`
	Status           DemandLetterStatus `gorm:"not null;default:DRAFT" json:"status"`
	SentAt           *time.Time         `json:"sent_at,omitempty"`
	DeliveryRef      string             `json:"delivery_ref,omitempty"`
}

func (d *DemandLetter) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Status == "" {
		d.Status = DemandLetterDraft
	}
	return nil
}

func (DemandLetter) TableName() string {
	return "demand_letters"
}
