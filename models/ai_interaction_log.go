package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InteractionType string

const (
	InteractionCaseAnalysis      InteractionType = "case_analysis"
	InteractionDemandLetter      InteractionType = "demand_letter_generation"
	InteractionNegotiationAdvice InteractionType = "negotiation_advice"
)

type InteractionOutcome string

const (
	OutcomeSuccess       InteractionOutcome = "success"
	OutcomeParseError    InteractionOutcome = "parse_error"
	OutcomeProviderError InteractionOutcome = "provider_error"
)

// AIInteractionLog records one call to the language model, whatever its outcome.
type AIInteractionLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID          string             `gorm:"type:uuid;not null;index" json:"user_id"`
	CaseID          *string            `gorm:"type:uuid;index" json:"case_id,omitempty"`
	InteractionType InteractionType    `gorm:"not null" json:"interaction_type"`
	Prompt          string             `gorm:"type:text;not null" json:"prompt"`
	Response        string             `gorm:"type:text" json:"response"`
	ModelUsed       string             `gorm:"not null" json:"model_used"`
	TokensUsed      int                `json:"tokens_used"`
	Outcome         InteractionOutcome `gorm:"not null;default:success" json:"outcome"`
	ErrorMessage    string             `gorm:"type:text" json:"error_message,omitempty"`
	DisclaimerShown bool               `gorm:"not null;default:true" json:"disclaimer_shown"`
}

func (l *AIInteractionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (l *AIInteractionLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAppendOnly
}

func (l *AIInteractionLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAppendOnly
}

func (AIInteractionLog) TableName() string {
	return "ai_interaction_logs"
}
