package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CommunicationDemandLetter = "DEMAND_LETTER"
	CommunicationResponse     = "RESPONSE"

	DirectionOutgoing = "OUTGOING"
	DirectionIncoming = "INCOMING"

	DeliveryEPristatymas = "E_PRISTATYMAS"

	DeliveryStatusSent = "SENT"
)

// Communication is a message exchanged with the opponent.
type Communication struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CaseID         string     `gorm:"type:uuid;not null;index" json:"case_id"`
	Type           string     `gorm:"not null" json:"type"`
	Direction      string     `gorm:"not null" json:"direction"`
	Subject        string     `json:"subject"`
	Content        string     `gorm:"type:text" json:"content"`
	DeliveryMethod string     `json:"delivery_method,omitempty"`
	DeliveryStatus string     `json:"delivery_status,omitempty"`
	DeliveryRef    string     `json:"delivery_ref,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}

func (c *Communication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Communication) TableName() string {
	return "communications"
}
