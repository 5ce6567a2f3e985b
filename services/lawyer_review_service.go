package services

import (
	"errors"
	"fmt"
	"strings"
	"teises_draugas_go/models"
	"time"

	"gorm.io/gorm"
)

// RequestReviewInput orders a paid lawyer review. When DocumentContent is
// empty the latest letter or filing of the case is used.
type RequestReviewInput struct {
	ReviewType      models.ReviewType `json:"review_type" validate:"required,enum"`
	DocumentContent string            `json:"document_content" validate:"omitempty,max=50000"`
}

// CompleteReviewInput is the lawyer's verdict.
type CompleteReviewInput struct {
	Approved    *bool  `json:"approved" validate:"required"`
	Comments    string `json:"comments" validate:"omitempty,max=5000"`
	Corrections string `json:"corrections" validate:"omitempty,max=50000"`
}

type LawyerReviewService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Now           func() time.Time
}

func NewLawyerReviewService(db *gorm.DB, notifications *NotificationService) *LawyerReviewService {
	return &LawyerReviewService{DB: db, Notifications: notifications, Now: time.Now}
}

// Request stores a PENDING review holding a copy of the text to review.
func (s *LawyerReviewService) Request(caseID, userID string, input RequestReviewInput) (*models.LawyerReview, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	c, err := findOwnedCase(s.DB, caseID, userID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(input.DocumentContent)
	if content == "" {
		content, err = s.latestContent(c.ID, input.ReviewType)
		if err != nil {
			return nil, err
		}
	}
	if content == "" {
		return nil, NewValidationError("document_content", "No document content to review")
	}

	review := &models.LawyerReview{
		CaseID:          c.ID,
		RequestedBy:     userID,
		ReviewType:      input.ReviewType,
		DocumentContent: content,
		Fee:             models.LawyerReviewFee,
		Status:          models.ReviewPending,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create lawyer review: %w", err)
		}
		if err := addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventLawyerReviewRequested,
			Title:       "Užsakyta advokato peržiūra",
			Description: fmt.Sprintf("Užsakyta %s peržiūra. Kaina: %s EUR", input.ReviewType, models.LawyerReviewFee.String()),
			Icon:        "user-check",
			Color:       "amber",
		}); err != nil {
			return err
		}
		return s.Notifications.Notify(tx, userID, &c.ID, models.NotificationTypeCaseUpdate,
			"Advokato peržiūra užsakyta",
			"Jūsų dokumentas bus peržiūrėtas per 24 valandas.")
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *LawyerReviewService) latestContent(caseID string, reviewType models.ReviewType) (string, error) {
	var content []string
	var err error
	switch reviewType {
	case models.ReviewDemandLetter:
		err = s.DB.Model(&models.DemandLetter{}).Where("case_id = ?", caseID).
			Order("created_at DESC").Limit(1).Pluck("content", &content).Error
	case models.ReviewCourtFiling:
		err = s.DB.Model(&models.CourtFiling{}).Where("case_id = ?", caseID).
			Order("created_at DESC").Limit(1).Pluck("content", &content).Error
	default:
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load document for review: %w", err)
	}
	if len(content) == 0 {
		return "", nil
	}
	return strings.TrimSpace(content[0]), nil
}

// ListForCase returns the reviews of a case, newest first.
func (s *LawyerReviewService) ListForCase(caseID, userID string) ([]models.LawyerReview, error) {
	if _, err := findOwnedCase(s.DB, caseID, userID); err != nil {
		return nil, err
	}
	var reviews []models.LawyerReview
	err := s.DB.Preload("Lawyer").Where("case_id = ?", caseID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lawyer reviews: %w", err)
	}
	return reviews, nil
}

// ListPending is the lawyers' work queue, oldest request first.
func (s *LawyerReviewService) ListPending(reviewer *models.User) ([]models.LawyerReview, error) {
	if reviewer == nil || !reviewer.Role.CanReview() {
		return nil, ErrForbidden
	}
	var reviews []models.LawyerReview
	err := s.DB.Preload("Case").Preload("Lawyer").
		Where("status = ?", models.ReviewPending).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reviews: %w", err)
	}
	return reviews, nil
}

func (s *LawyerReviewService) find(reviewID string) (*models.LawyerReview, error) {
	var review models.LawyerReview
	if err := s.DB.Preload("Case").First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load lawyer review: %w", err)
	}
	if review.Case == nil {
		// case was soft deleted
		return nil, ErrNotFound
	}
	return &review, nil
}

// Claim assigns a pending review to the reviewer.
func (s *LawyerReviewService) Claim(reviewID string, reviewer *models.User) (*models.LawyerReview, error) {
	if reviewer == nil || !reviewer.Role.CanReview() {
		return nil, ErrForbidden
	}
	review, err := s.find(reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status != models.ReviewPending {
		return nil, newBusinessRuleError("Only pending reviews can be claimed")
	}

	result := s.DB.Model(&models.LawyerReview{}).
		Where("id = ? AND status = ?", review.ID, models.ReviewPending).
		Update("lawyer_id", reviewer.ID)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to claim lawyer review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, newBusinessRuleError("Only pending reviews can be claimed")
	}
	review.LawyerID = &reviewer.ID
	review.Lawyer = reviewer
	return review, nil
}

// Complete records the verdict and tells the requester. A review is completed once.
func (s *LawyerReviewService) Complete(reviewID string, reviewer *models.User, input CompleteReviewInput) (*models.LawyerReview, error) {
	if reviewer == nil || !reviewer.Role.CanReview() {
		return nil, ErrForbidden
	}
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	review, err := s.find(reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status == models.ReviewCompleted {
		return nil, newBusinessRuleError("Review has already been completed")
	}

	approved := *input.Approved
	now := s.Now()

	title, icon, color := "Advokatas siūlo pataisymus", "edit", "amber"
	message := "Advokatas pateikė siūlomų pataisymų."
	if approved {
		title, icon, color = "Advokatas patvirtino dokumentą", "check-circle", "green"
		message = "Jūsų dokumentas buvo patvirtintas advokato."
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LawyerReview{}).
			Where("id = ? AND status = ?", review.ID, models.ReviewPending).
			Updates(map[string]interface{}{
				"status":       models.ReviewCompleted,
				"lawyer_id":    reviewer.ID,
				"approved":     approved,
				"comments":     input.Comments,
				"corrections":  input.Corrections,
				"completed_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to complete lawyer review: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return newBusinessRuleError("Review has already been completed")
		}
		if err := addTimelineEvent(tx, review.CaseID, timelineEntry{
			Type:        models.EventLawyerReviewComplete,
			Title:       title,
			Description: orPlaceholder(input.Comments, "Peržiūra baigta"),
			Icon:        icon,
			Color:       color,
		}); err != nil {
			return err
		}
		return s.Notifications.Notify(tx, review.RequestedBy, &review.CaseID, models.NotificationTypeReviewComplete,
			"Advokato peržiūra baigta", message)
	})
	if err != nil {
		return nil, err
	}

	review.Status = models.ReviewCompleted
	review.LawyerID = &reviewer.ID
	review.Lawyer = reviewer
	review.Approved = &approved
	review.Comments = input.Comments
	review.Corrections = input.Corrections
	review.CompletedAt = &now
	return review, nil
}
