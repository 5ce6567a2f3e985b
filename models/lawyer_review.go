package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LawyerReviewFee is the flat price of a review in EUR.
var LawyerReviewFee = decimal.NewFromInt(20)

type ReviewType string

const (
	ReviewDemandLetter        ReviewType = "DEMAND_LETTER"
	ReviewCourtFiling         ReviewType = "COURT_FILING"
	ReviewSettlementAgreement ReviewType = "SETTLEMENT_AGREEMENT"
	ReviewGeneralAdvice       ReviewType = "GENERAL_ADVICE"
)

func (t ReviewType) Valid() bool {
	switch t {
	case ReviewDemandLetter, ReviewCourtFiling, ReviewSettlementAgreement, ReviewGeneralAdvice:
		return true
	}
	return false
}

type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "PENDING"
	ReviewCompleted ReviewStatus = "COMPLETED"
)

// LawyerReview holds a copy of the reviewed text taken at request time, so
// later regenerations of the letter or filing do not change what the lawyer sees.
type LawyerReview struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"requested_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID      string  `gorm:"type:uuid;not null;index" json:"case_id"`
	Case        *Case   `gorm:"foreignKey:CaseID" json:"-"`
	RequestedBy string  `gorm:"type:uuid;not null" json:"requested_by"`
	LawyerID    *string `gorm:"type:uuid;index" json:"lawyer_id,omitempty"`
	Lawyer      *User   `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`

	ReviewType      ReviewType      `gorm:"not null" json:"review_type"`
	DocumentContent string          `gorm:"type:text;not null" json:"document_content"`
	Fee             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"fee"`
	Status          ReviewStatus    `gorm:"not null;default:PENDING;index" json:"status"`

	Approved    *bool      `json:"approved,omitempty"`
	Comments    string     `gorm:"type:text" json:"comments,omitempty"`
	Corrections string     `gorm:"type:text" json:"corrections,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (r *LawyerReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = ReviewPending
	}
	return nil
}

func (LawyerReview) TableName() string {
	return "lawyer_reviews"
}
