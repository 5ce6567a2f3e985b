package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FilingType string

const (
	FilingPaymentOrder FilingType = "PAYMENT_ORDER"
	FilingSmallClaim   FilingType = "SMALL_CLAIM"
	FilingRegularClaim FilingType = "REGULAR_CLAIM"
)

func (t FilingType) Valid() bool {
	switch t {
	case FilingPaymentOrder, FilingSmallClaim, FilingRegularClaim:
		return true
	}
	return false
}

type FilingStatus string

const (
	FilingDraft       FilingStatus = "DRAFT"
	FilingReadyToSign FilingStatus = "READY_TO_SIGN"
	FilingSigned      FilingStatus = "SIGNED"
	FilingSubmitted   FilingStatus = "SUBMITTED"
)

// CanSubmit reports whether a filing in this status may be sent to court.
func (s FilingStatus) CanSubmit() bool {
	return s == FilingReadyToSign || s == FilingSigned
}

type SignatureMethod string

const (
	SignatureSmartID  SignatureMethod = "SMART_ID"
	SignatureMobileID SignatureMethod = "MOBILE_ID"
)

func (m SignatureMethod) Valid() bool {
	return m == SignatureSmartID || m == SignatureMobileID
}

type CourtFiling struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"-"`

	FilingType FilingType      `gorm:"not null" json:"filing_type"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	XMLContent string          `gorm:"type:text" json:"xml_content"`
	CourtCode  string          `gorm:"not null" json:"court_code"`
	CourtName  string          `gorm:"not null" json:"court_name"`
	CourtFee   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"court_fee"`
	Status     FilingStatus    `gorm:"not null;default:DRAFT" json:"status"`

	SignatureMethod *SignatureMethod `json:"signature_method,omitempty"`
	SignedAt        *time.Time       `json:"signed_at,omitempty"`
	SubmittedAt     *time.Time       `json:"submitted_at,omitempty"`
	CourtRef        string           `json:"court_ref,omitempty"`
}

func (f *CourtFiling) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Status == "" {
		f.Status = FilingDraft
	}
	return nil
}

func (CourtFiling) TableName() string {
	return "court_filings"
}
