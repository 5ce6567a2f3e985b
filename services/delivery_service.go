package services

import (
	"context"
	"fmt"
	"log"
	"teises_draugas_go/models"
	"teises_draugas_go/services/integrations"
	"time"

	"gorm.io/gorm"
)

// DeliveryResult is returned to the client after a send or submit attempt.
type DeliveryResult struct {
	Success     bool   `json:"success"`
	DeliveryRef string `json:"delivery_ref,omitempty"`
	CourtRef    string `json:"court_ref,omitempty"`
	Error       string `json:"error,omitempty"`

	// Rejected is set when the request failed a precondition and no gateway was called.
	Rejected bool `json:"-"`
}

// SubmitFilingInput chooses how the applicant signs the filing.
type SubmitFilingInput struct {
	SignatureMethod models.SignatureMethod `json:"signature_method" validate:"required,enum"`
}

// DeliveryService sends demand letters and court filings through the
// gateways picked when the app is wired.
type DeliveryService struct {
	DB       *gorm.DB
	Letters  integrations.LetterDeliverer
	Filings  integrations.FilingSubmitter
	Notifier *NotificationService
	Now      func() time.Time
}

func NewDeliveryService(db *gorm.DB, letters integrations.LetterDeliverer, filings integrations.FilingSubmitter, notifier *NotificationService) *DeliveryService {
	return &DeliveryService{DB: db, Letters: letters, Filings: filings, Notifier: notifier, Now: time.Now}
}

// SendLetter delivers a letter through E. pristatymas. A gateway failure is
// reported in the result and leaves every record unchanged.
func (s *DeliveryService) SendLetter(ctx context.Context, letterID, userID string) (*DeliveryResult, error) {
	letter, err := findOwnedLetter(s.DB, letterID, userID)
	if err != nil {
		return nil, err
	}
	if letter.Status == models.DemandLetterSent {
		return nil, newBusinessRuleError("Demand letter has already been sent")
	}
	c := letter.Case

	result := s.Letters.DeliverLetter(ctx, integrations.LetterDelivery{
		LetterID:         letter.ID,
		CaseNumber:       c.CaseNumber,
		SenderName:       c.User.Name,
		SenderEmail:      c.User.Email,
		RecipientName:    c.OpponentName,
		RecipientEmail:   c.OpponentEmail,
		RecipientAddress: c.OpponentAddress,
		Subject:          "Pretenzija",
		Content:          letter.Content,
	})
	recordSubmission(s.Letters.Channel(), result.Success)
	if !result.Success {
		log.Printf("[DELIVERY] Letter %s was not delivered: %s", letter.ID, result.Error)
		return &DeliveryResult{Success: false, Error: result.Error}, nil
	}

	now := s.Now()
	deadline := letter.ResponseDeadline
	c.AdvanceTo(models.CaseStatusAwaitingResponse)
	c.CurrentStep = models.CaseStepResponse
	c.ResponseDeadline = &deadline

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(letter).Updates(map[string]interface{}{
			"status":       models.DemandLetterSent,
			"sent_at":      now,
			"delivery_ref": result.Reference,
		}).Error; err != nil {
			return fmt.Errorf("failed to update demand letter: %w", err)
		}
		if err := saveCase(tx, c); err != nil {
			return err
		}
		if err := tx.Create(&models.Communication{
			CaseID:         c.ID,
			Type:           models.CommunicationDemandLetter,
			Direction:      models.DirectionOutgoing,
			Subject:        "Pretenzija",
			Content:        letter.Content,
			DeliveryMethod: models.DeliveryEPristatymas,
			DeliveryStatus: models.DeliveryStatusSent,
			DeliveryRef:    result.Reference,
			SentAt:         &now,
		}).Error; err != nil {
			return fmt.Errorf("failed to create communication: %w", err)
		}
		return addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventDemandLetterSent,
			Title:       "Pretenzija išsiųsta",
			Description: fmt.Sprintf("Pretenzija išsiųsta per E. pristatymą. Ref: %s", result.Reference),
			Icon:        "send",
			Color:       "green",
		})
	})
	if err != nil {
		return nil, err
	}
	return &DeliveryResult{Success: true, DeliveryRef: result.Reference}, nil
}

// SubmitFiling signs and submits a filing to e.teismas. Filings that are not
// ready to sign are refused without calling the gateway.
func (s *DeliveryService) SubmitFiling(ctx context.Context, filingID, userID string, input SubmitFilingInput) (*DeliveryResult, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	filing, err := findOwnedFiling(s.DB, filingID, userID)
	if err != nil {
		return nil, err
	}
	if !filing.Status.CanSubmit() {
		return &DeliveryResult{Success: false, Error: "Filing must be ready to sign", Rejected: true}, nil
	}
	c := filing.Case

	result := s.Filings.SubmitFiling(ctx, integrations.FilingSubmission{
		FilingID:        filing.ID,
		CaseNumber:      c.CaseNumber,
		CourtCode:       filing.CourtCode,
		XMLContent:      filing.XMLContent,
		SignatureMethod: input.SignatureMethod,
	})
	recordSubmission(s.Filings.Channel(), result.Success)
	if !result.Success {
		log.Printf("[DELIVERY] Filing %s was not submitted: %s", filing.ID, result.Error)
		return &DeliveryResult{Success: false, Error: result.Error}, nil
	}

	now := s.Now()
	c.AdvanceTo(models.CaseStatusFiled)
	c.CourtCaseNumber = result.Reference
	c.FilingDate = &now

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(filing).Updates(map[string]interface{}{
			"status":           models.FilingSubmitted,
			"submitted_at":     now,
			"signed_at":        now,
			"court_ref":        result.Reference,
			"signature_method": input.SignatureMethod,
		}).Error; err != nil {
			return fmt.Errorf("failed to update court filing: %w", err)
		}
		if err := saveCase(tx, c); err != nil {
			return err
		}
		if err := addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventCourtFilingSubmitted,
			Title:       "Dokumentai pateikti teismui",
			Description: fmt.Sprintf("Byla pateikta teismui. Bylos numeris: %s", result.Reference),
			Icon:        "check-circle",
			Color:       "green",
		}); err != nil {
			return err
		}
		return s.Notifier.Notify(tx, userID, &c.ID, models.NotificationTypeCaseUpdate,
			"Byla pateikta teismui",
			fmt.Sprintf("Jūsų byla \"%s\" pateikta teismui. Bylos numeris: %s", c.Title, result.Reference))
	})
	if err != nil {
		return nil, err
	}
	return &DeliveryResult{Success: true, CourtRef: result.Reference}, nil
}
