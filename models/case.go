package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxClaimAmount is the small-claims ceiling in EUR.
var MaxClaimAmount = decimal.NewFromInt(5000)

type CaseStatus string

// Case statuses in pipeline order.
const (
	CaseStatusIntake           CaseStatus = "INTAKE"
	CaseStatusAnalysis         CaseStatus = "ANALYSIS"
	CaseStatusDemandLetter     CaseStatus = "DEMAND_LETTER"
	CaseStatusAwaitingResponse CaseStatus = "AWAITING_RESPONSE"
	CaseStatusNegotiation      CaseStatus = "NEGOTIATION"
	CaseStatusPreparingFiling  CaseStatus = "PREPARING_FILING"
	CaseStatusFiled            CaseStatus = "FILED"
	CaseStatusInCourt          CaseStatus = "IN_COURT"
	CaseStatusResolved         CaseStatus = "RESOLVED"
	CaseStatusClosed           CaseStatus = "CLOSED"
)

var caseStatusOrder = map[CaseStatus]int{
	CaseStatusIntake:           0,
	CaseStatusAnalysis:         1,
	CaseStatusDemandLetter:     2,
	CaseStatusAwaitingResponse: 3,
	CaseStatusNegotiation:      4,
	CaseStatusPreparingFiling:  5,
	CaseStatusFiled:            6,
	CaseStatusInCourt:          7,
	CaseStatusResolved:         8,
	CaseStatusClosed:           9,
}

func (s CaseStatus) Valid() bool {
	_, ok := caseStatusOrder[s]
	return ok
}

// CanTransitionTo reports whether a case may move from s to next.
// Cases only move forward, except that a negotiation may return to
// awaiting a response. Any open case can be closed and a closed case
// stays closed.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s == CaseStatusClosed {
		return false
	}
	if next == CaseStatusClosed {
		return true
	}
	if s == CaseStatusNegotiation && next == CaseStatusAwaitingResponse {
		return true
	}
	return caseStatusOrder[next] > caseStatusOrder[s]
}

// IsDeletable reports whether a case in this status may be removed.
func (s CaseStatus) IsDeletable() bool {
	return s == CaseStatusIntake || s == CaseStatusClosed
}

type CaseStep string

const (
	CaseStepAnalysis     CaseStep = "ANALYSIS"
	CaseStepDemandLetter CaseStep = "DEMAND_LETTER"
	CaseStepResponse     CaseStep = "RESPONSE"
	CaseStepCourtFiling  CaseStep = "COURT_FILING"
	CaseStepResolution   CaseStep = "RESOLUTION"
)

func (s CaseStep) Valid() bool {
	switch s {
	case CaseStepAnalysis, CaseStepDemandLetter, CaseStepResponse, CaseStepCourtFiling, CaseStepResolution:
		return true
	}
	return false
}

type CaseType string

const (
	CaseTypeConsumerDispute   CaseType = "CONSUMER_DISPUTE"
	CaseTypeRentalDeposit     CaseType = "RENTAL_DEPOSIT"
	CaseTypeUnpaidInvoice     CaseType = "UNPAID_INVOICE"
	CaseTypeContractBreach    CaseType = "CONTRACT_BREACH"
	CaseTypePropertyDamage    CaseType = "PROPERTY_DAMAGE"
	CaseTypeServiceComplaint  CaseType = "SERVICE_COMPLAINT"
	CaseTypeEmploymentDispute CaseType = "EMPLOYMENT_DISPUTE"
	CaseTypeOther             CaseType = "OTHER"
)

func (t CaseType) Valid() bool {
	switch t {
	case CaseTypeConsumerDispute, CaseTypeRentalDeposit, CaseTypeUnpaidInvoice, CaseTypeContractBreach,
		CaseTypePropertyDamage, CaseTypeServiceComplaint, CaseTypeEmploymentDispute, CaseTypeOther:
		return true
	}
	return false
}

type CaseCategory string

const (
	CategoryVinted         CaseCategory = "VINTED"
	CategoryAirbnb         CaseCategory = "AIRBNB"
	CategoryFreelance      CaseCategory = "FREELANCE"
	CategoryLandlordTenant CaseCategory = "LANDLORD_TENANT"
	CategoryOnlinePurchase CaseCategory = "ONLINE_PURCHASE"
	CategoryLocalService   CaseCategory = "LOCAL_SERVICE"
	CategoryOther          CaseCategory = "OTHER"
)

func (c CaseCategory) Valid() bool {
	switch c {
	case CategoryVinted, CategoryAirbnb, CategoryFreelance, CategoryLandlordTenant,
		CategoryOnlinePurchase, CategoryLocalService, CategoryOther:
		return true
	}
	return false
}

type OpponentType string

const (
	OpponentIndividual OpponentType = "INDIVIDUAL"
	OpponentCompany    OpponentType = "COMPANY"
	OpponentPlatform   OpponentType = "PLATFORM"
	OpponentGovernment OpponentType = "GOVERNMENT"
)

func (t OpponentType) Valid() bool {
	switch t {
	case OpponentIndividual, OpponentCompany, OpponentPlatform, OpponentGovernment:
		return true
	}
	return false
}

// Case is a single consumer dispute owned by one user.
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"type:uuid;not null;index:idx_case_user_status" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"-"`

	CaseNumber  string          `gorm:"not null;uniqueIndex" json:"case_number"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	CaseType    CaseType        `gorm:"not null" json:"case_type"`
	Category    CaseCategory    `gorm:"not null" json:"category"`
	ClaimAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"claim_amount"`

	OpponentName    string        `json:"opponent_name,omitempty"`
	OpponentEmail   string        `json:"opponent_email,omitempty"`
	OpponentPhone   string        `json:"opponent_phone,omitempty"`
	OpponentAddress string        `json:"opponent_address,omitempty"`
	OpponentType    *OpponentType `json:"opponent_type,omitempty"`
	IncidentDate    *time.Time    `json:"incident_date,omitempty"`

	Status      CaseStatus `gorm:"not null;default:INTAKE;index:idx_case_user_status" json:"status"`
	CurrentStep CaseStep   `gorm:"not null;default:ANALYSIS" json:"current_step"`

	// Latest AI analysis, overwritten on every run
	WinProbability    *float64 `json:"win_probability,omitempty"`
	LegalBasis        string   `gorm:"type:text" json:"legal_basis,omitempty"`     // JSON
	RiskAssessment    string   `gorm:"type:text" json:"risk_assessment,omitempty"` // JSON
	RecommendedAction string   `gorm:"type:text" json:"recommended_action,omitempty"`

	CourtCaseNumber    string     `json:"court_case_number,omitempty"`
	FilingDate         *time.Time `json:"filing_date,omitempty"`
	ResponseDeadline   *time.Time `gorm:"index" json:"response_deadline,omitempty"`
	DeadlineRemindedAt *time.Time `json:"-"`

	Documents      []Document      `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
	Communications []Communication `gorm:"foreignKey:CaseID" json:"communications,omitempty"`
	Timeline       []TimelineEvent `gorm:"foreignKey:CaseID" json:"timeline,omitempty"`
	DemandLetters  []DemandLetter  `gorm:"foreignKey:CaseID" json:"demand_letters,omitempty"`
	CourtFilings   []CourtFiling   `gorm:"foreignKey:CaseID" json:"court_filings,omitempty"`
	Negotiations   []Negotiation   `gorm:"foreignKey:CaseID" json:"negotiations,omitempty"`
	LawyerReviews  []LawyerReview  `gorm:"foreignKey:CaseID" json:"lawyer_reviews,omitempty"`
}

func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CaseStatusIntake
	}
	if c.CurrentStep == "" {
		c.CurrentStep = CaseStepAnalysis
	}
	return nil
}

func (Case) TableName() string {
	return "cases"
}

// AdvanceTo moves the case forward when the move is allowed and reports
// whether the status changed.
func (c *Case) AdvanceTo(next CaseStatus) bool {
	if c.Status == next || !c.Status.CanTransitionTo(next) {
		return false
	}
	c.Status = next
	return true
}
