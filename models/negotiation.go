package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Negotiation stores an opponent reply together with the advice generated for it.
type Negotiation struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CaseID            string           `gorm:"type:uuid;not null;index" json:"case_id"`
	OpponentResponse  string           `gorm:"type:text;not null" json:"opponent_response"`
	Analysis          string           `gorm:"type:text" json:"analysis"`
	SuggestedResponse string           `gorm:"type:text" json:"suggested_response"`
	RecommendedOffer  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"recommended_offer,omitempty"`
	Strategy          string           `gorm:"type:text" json:"strategy"`
}

func (n *Negotiation) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Negotiation) TableName() string {
	return "negotiations"
}
