package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"teises_draugas_go/models"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaseService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewCaseService(db *gorm.DB, notifications *NotificationService) *CaseService {
	return &CaseService{DB: db, Notifications: notifications}
}

// CreateCaseInput is the intake form of a new dispute.
type CreateCaseInput struct {
	Title           string               `json:"title" validate:"required,min=3,max=200"`
	Description     string               `json:"description" validate:"required,min=10,max=10000"`
	CaseType        models.CaseType      `json:"case_type" validate:"required,enum"`
	Category        models.CaseCategory  `json:"category" validate:"required,enum"`
	ClaimAmount     decimal.Decimal      `json:"claim_amount" validate:"claim_amount"`
	OpponentName    string               `json:"opponent_name" validate:"omitempty,max=200"`
	OpponentEmail   string               `json:"opponent_email" validate:"omitempty,email"`
	OpponentPhone   string               `json:"opponent_phone" validate:"omitempty,max=30"`
	OpponentAddress string               `json:"opponent_address" validate:"omitempty,max=300"`
	OpponentType    *models.OpponentType `json:"opponent_type" validate:"omitempty,enum"`
	IncidentDate    string               `json:"incident_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateCaseInput is a partial update. Nil fields are left untouched.
type UpdateCaseInput struct {
	Title           *string              `json:"title" validate:"omitempty,min=3,max=200"`
	Description     *string              `json:"description" validate:"omitempty,min=10,max=10000"`
	OpponentName    *string              `json:"opponent_name" validate:"omitempty,max=200"`
	OpponentEmail   *string              `json:"opponent_email" validate:"omitempty,email"`
	OpponentPhone   *string              `json:"opponent_phone" validate:"omitempty,max=30"`
	OpponentAddress *string              `json:"opponent_address" validate:"omitempty,max=300"`
	OpponentType    *models.OpponentType `json:"opponent_type" validate:"omitempty,enum"`
	Status          *models.CaseStatus   `json:"status" validate:"omitempty,enum"`
	CurrentStep     *models.CaseStep     `json:"current_step" validate:"omitempty,enum"`
}

// CaseFilter narrows a case listing.
type CaseFilter struct {
	Status *models.CaseStatus
	Page   int
	Limit  int
}

// CaseListResult is one page of cases.
type CaseListResult struct {
	Cases []CaseSummary `json:"cases"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
	Pages int           `json:"pages"`
}

// CaseSummary is a listed case with child counts.
type CaseSummary struct {
	models.Case
	DocumentCount      int64 `json:"document_count"`
	CommunicationCount int64 `json:"communication_count"`
}

const caseNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateCaseNumber returns a number like TD-2024-K3F9QZ.
func GenerateCaseNumber(now time.Time) string {
	max := big.NewInt(int64(len(caseNumberAlphabet)))
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			n = big.NewInt(now.UnixNano() % 36)
		}
		suffix[i] = caseNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("TD-%d-%s", now.Year(), suffix)
}

// EnsureUniqueCaseNumber retries GenerateCaseNumber until the number is free.
func EnsureUniqueCaseNumber(db *gorm.DB, now time.Time) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		number := GenerateCaseNumber(now)
		var count int64
		if err := db.Unscoped().Model(&models.Case{}).Where("case_number = ?", number).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check case number: %w", err)
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique case number")
}

// findOwnedCase loads a case only when it belongs to userID. A case owned by
// someone else is reported as not found.
func findOwnedCase(db *gorm.DB, caseID, userID string) (*models.Case, error) {
	var c models.Case
	err := db.Where("id = ? AND user_id = ?", caseID, userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	return &c, nil
}

// saveCase writes the case row without touching loaded children.
func saveCase(tx *gorm.DB, c *models.Case) error {
	if err := tx.Omit(clause.Associations).Save(c).Error; err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	return nil
}

func (s *CaseService) Create(userID string, input CreateCaseInput) (*models.Case, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	var incidentDate *time.Time
	if input.IncidentDate != "" {
		d, err := ParseDate(input.IncidentDate)
		if err != nil {
			return nil, NewValidationError("incident_date", err.Error())
		}
		if d.After(time.Now()) {
			return nil, NewValidationError("incident_date", "cannot be in the future")
		}
		incidentDate = &d
	}

	number, err := EnsureUniqueCaseNumber(s.DB, time.Now())
	if err != nil {
		return nil, err
	}

	c := &models.Case{
		UserID:          userID,
		CaseNumber:      number,
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		CaseType:        input.CaseType,
		Category:        input.Category,
		ClaimAmount:     input.ClaimAmount,
		OpponentName:    input.OpponentName,
		OpponentEmail:   input.OpponentEmail,
		OpponentPhone:   input.OpponentPhone,
		OpponentAddress: input.OpponentAddress,
		OpponentType:    input.OpponentType,
		IncidentDate:    incidentDate,
		Status:          models.CaseStatusIntake,
		CurrentStep:     models.CaseStepAnalysis,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}
		if err := addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventCaseCreated,
			Title:       "Byla sukurta",
			Description: fmt.Sprintf("Byla \"%s\" buvo sukurta", c.Title),
			Icon:        "file-plus",
			Color:       "blue",
		}); err != nil {
			return err
		}
		return s.Notifications.Notify(tx, userID, &c.ID, models.NotificationTypeCaseUpdate,
			"Nauja byla sukurta",
			fmt.Sprintf("Jūsų byla \"%s\" buvo sėkmingai sukurta. Galite įkelti įrodymus ir pradėti analizę.", c.Title))
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CaseService) List(userID string, filter CaseFilter) (*CaseListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	query := s.DB.Model(&models.Case{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, NewValidationError("status", fmt.Sprintf("unknown value %q", string(*filter.Status)))
		}
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}

	var cases []models.Case
	if err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	summaries := make([]CaseSummary, len(cases))
	for i, c := range cases {
		summaries[i] = CaseSummary{Case: c}
		if err := s.DB.Model(&models.Document{}).Where("case_id = ?", c.ID).Count(&summaries[i].DocumentCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count case documents: %w", err)
		}
		if err := s.DB.Model(&models.Communication{}).Where("case_id = ?", c.ID).Count(&summaries[i].CommunicationCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count case communications: %w", err)
		}
	}

	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &CaseListResult{Cases: summaries, Page: filter.Page, Limit: filter.Limit, Total: total, Pages: pages}, nil
}

// Get returns the case with all children, newest first.
func (s *CaseService) Get(caseID, userID string) (*models.Case, error) {
	var c models.Case
	err := s.DB.
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Communications", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("event_date DESC") }).
		Preload("DemandLetters", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("CourtFilings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Negotiations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("LawyerReviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("LawyerReviews.Lawyer").
		Where("id = ? AND user_id = ?", caseID, userID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	return &c, nil
}

// Update applies a partial update. Status changes go through the transition
// rules and are recorded on the timeline.
func (s *CaseService) Update(caseID, userID string, input UpdateCaseInput) (*models.Case, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	c, err := findOwnedCase(s.DB, caseID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		c.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		c.Description = strings.TrimSpace(*input.Description)
	}
	if input.OpponentName != nil {
		c.OpponentName = *input.OpponentName
	}
	if input.OpponentEmail != nil {
		c.OpponentEmail = *input.OpponentEmail
	}
	if input.OpponentPhone != nil {
		c.OpponentPhone = *input.OpponentPhone
	}
	if input.OpponentAddress != nil {
		c.OpponentAddress = *input.OpponentAddress
	}
	if input.OpponentType != nil {
		c.OpponentType = input.OpponentType
	}
	if input.CurrentStep != nil {
		c.CurrentStep = *input.CurrentStep
	}

	previous := c.Status
	if input.Status != nil && *input.Status != c.Status {
		if !c.Status.CanTransitionTo(*input.Status) {
			return nil, newBusinessRuleError("Cannot change case status from %s to %s", c.Status, *input.Status)
		}
		c.Status = *input.Status
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := saveCase(tx, c); err != nil {
			return err
		}
		if c.Status == previous {
			return nil
		}
		return addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventStatusChanged,
			Title:       "Bylos būsena pakeista",
			Description: fmt.Sprintf("%s → %s", previous, c.Status),
			Icon:        "refresh-cw",
			Color:       "gray",
		})
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete soft-deletes a case that has not started or is already closed.
func (s *CaseService) Delete(caseID, userID string) error {
	c, err := findOwnedCase(s.DB, caseID, userID)
	if err != nil {
		return err
	}
	if !c.Status.IsDeletable() {
		return newBusinessRuleError("Cannot delete case in progress. Close the case first.")
	}
	if err := s.DB.Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	return nil
}
